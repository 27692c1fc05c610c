package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ricardo/email-triage/internal/adapters/parser"
	"github.com/ricardo/email-triage/internal/config"
	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/factory"
	"github.com/ricardo/email-triage/internal/logging"
	"go.uber.org/zap"
)

var (
	// External model flags
	provider    = flag.String("provider", "", "External provider (openai, gemini, bedrock); empty for heuristic only")
	maxTokens   = flag.Int("max-tokens", 300, "Maximum tokens for model response")
	temperature = flag.Float64("temperature", 0.1, "Temperature for model generation")
	topP        = flag.Float64("top-p", 0.9, "Top-p for model generation")
	maxBodySize = flag.Int("max-body-size", 4096, "Maximum email body size to send to the model")

	// Bedrock flags
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")
	bedrockModelID = flag.String("bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Gemini flags
	geminiAPIKey    = flag.String("gemini-api-key", "", "API key for Google Gemini")
	geminiModelName = flag.String("gemini-model", "gemini-pro", "Gemini model name")

	// OpenAI flags
	openaiAPIKey    = flag.String("openai-api-key", "", "API key for OpenAI")
	openaiModelName = flag.String("openai-model", "gpt-4", "OpenAI model name")

	// Response flags
	strictLanguage = flag.Bool("strict-language", false, "Fail on languages without a reply template instead of falling back to Portuguese")

	// Input flags
	inputFile  = flag.String("file", "", "Input file (use stdin as raw text if not specified)")
	fileKind   = flag.String("kind", "", "Input kind (text, pdf, eml); inferred from the file extension if empty")
	subject    = flag.String("subject", "", "Subject hint for raw text or PDF input")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	textProcessor := factory.NewTextProcessorFactory(logger).CreateTextProcessor()

	classifierFactory := factory.NewClassifierFactory(cfg, logger, textProcessor)
	external, err := classifierFactory.CreateClassifier()
	if err != nil {
		logger.Fatal("Failed to create external classifier", zap.Error(err))
	}

	service := core.NewTriageService(
		parser.NewNormalizer(logger, textProcessor),
		external,
		nil,
		core.NewComposer(logger, cfg.GetResponse().StrictLanguage),
		core.NewStatsAggregator(),
		logger,
		core.Options{ExternalTimeout: cfg.GetExternal().Timeout},
	)

	input, err := buildInput()
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	outcome, err := service.Process(context.Background(), input)
	if err != nil {
		logger.Fatal("Failed to process email", zap.Error(err))
	}

	printOutcome(outcome)

	if closer, ok := external.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close external classifier", zap.Error(err))
		}
	}
}

// buildInput reads the email from the input file or stdin. Stdin is always
// treated as raw text.
func buildInput() (core.Input, error) {
	if *inputFile == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return core.Input{}, err
		}
		return core.Input{Text: string(data), SubjectHint: *subject}, nil
	}

	data, err := os.ReadFile(*inputFile)
	if err != nil {
		return core.Input{}, err
	}

	kind := *fileKind
	if kind == "" {
		switch strings.ToLower(filepath.Ext(*inputFile)) {
		case ".pdf":
			kind = string(core.FormatPdf)
		case ".eml":
			kind = string(core.FormatEml)
		default:
			kind = string(core.FormatPlainText)
		}
	}

	return core.Input{FileBytes: data, FileKind: kind, SubjectHint: *subject}, nil
}

// printOutcome renders the triage result as indented JSON on stdout.
func printOutcome(outcome *core.ProcessingOutcome) {
	type response struct {
		ID             string `json:"id"`
		Classification struct {
			Label      string  `json:"label"`
			Confidence float64 `json:"confidence"`
			Reasoning  string  `json:"reasoning"`
			ModelUsed  string  `json:"model_used"`
		} `json:"classification"`
		SuggestedResponse struct {
			Subject  string `json:"subject"`
			Body     string `json:"body"`
			Tone     string `json:"tone"`
			Language string `json:"language"`
		} `json:"suggested_response"`
		ProcessingTimeMs int64 `json:"processing_time_ms"`
	}

	var out response
	out.ID = outcome.ID
	out.Classification.Label = string(outcome.Classification.Label)
	out.Classification.Confidence = outcome.Classification.Confidence
	out.Classification.Reasoning = outcome.Classification.Reasoning
	out.Classification.ModelUsed = outcome.Classification.ModelUsed
	out.SuggestedResponse.Subject = outcome.Response.Subject
	out.SuggestedResponse.Body = outcome.Response.Body
	out.SuggestedResponse.Tone = string(outcome.Response.Tone)
	out.SuggestedResponse.Language = outcome.Response.Language
	out.ProcessingTimeMs = outcome.ProcessingTimeMs

	encoded, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode result: %v\n", err)
		return
	}
	fmt.Println(string(encoded))
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	v.Set("external.provider", *provider)

	switch *provider {
	case "bedrock":
		v.Set("bedrock.region", *bedrockRegion)
		v.Set("bedrock.model_id", *bedrockModelID)
		v.Set("bedrock.max_tokens", *maxTokens)
		v.Set("bedrock.temperature", *temperature)
		v.Set("bedrock.top_p", *topP)
		v.Set("bedrock.max_body_size", *maxBodySize)
	case "gemini":
		v.Set("gemini.api_key", *geminiAPIKey)
		v.Set("gemini.model_name", *geminiModelName)
		v.Set("gemini.max_tokens", *maxTokens)
		v.Set("gemini.temperature", *temperature)
		v.Set("gemini.top_p", *topP)
		v.Set("gemini.max_body_size", *maxBodySize)
	case "openai":
		v.Set("openai.api_key", *openaiAPIKey)
		v.Set("openai.model_name", *openaiModelName)
		v.Set("openai.max_tokens", *maxTokens)
		v.Set("openai.temperature", *temperature)
		v.Set("openai.top_p", *topP)
		v.Set("openai.max_body_size", *maxBodySize)
	}

	v.Set("external.timeout", "5s")
	v.Set("response.strict_language", *strictLanguage)

	return config.NewFromViper(v)
}
