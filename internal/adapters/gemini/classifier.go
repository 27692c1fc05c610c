package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client is an implementation of the ExternalClassifier interface using Google Gemini
type Client struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// triageResponse represents the structured response from the LLM
type triageResponse struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// NewClient creates a new Gemini classifier
func NewClient(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `You are an email triage system. Decide whether the following email is PRODUCTIVE (requires a follow-up action or reply) or UNPRODUCTIVE (no action needed).
Respond with a JSON object containing:
- label: "PRODUCTIVE" or "UNPRODUCTIVE"
- confidence: number between 0 and 1 (how confident you are in the decision)
- reasoning: string (brief explanation of the decision)

Email:
Subject: %s
Language: %s
Body:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Close closes the Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Score classifies an email using the Gemini API.
func (c *Client) Score(ctx context.Context, doc *core.EmailDocument, features core.FeatureSet) (*core.ClassificationResult, error) {
	body := c.textProcessor.ProcessText(doc.Text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, doc.Subject, features.Language, body)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	var parsed triageResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		jsonStart := strings.Index(responseText, "{")
		jsonEnd := strings.LastIndex(responseText, "}")
		if jsonStart < 0 || jsonEnd < jsonStart {
			return nil, fmt.Errorf("failed to extract JSON from model response: %w", err)
		}
		if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
		}
	}

	var label core.Label
	switch strings.ToUpper(strings.TrimSpace(parsed.Label)) {
	case string(core.LabelProductive):
		label = core.LabelProductive
	case string(core.LabelUnproductive):
		label = core.LabelUnproductive
	default:
		return nil, fmt.Errorf("model returned unknown label %q", parsed.Label)
	}

	confidence := parsed.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	reasoning := parsed.Reasoning
	if reasoning == "" {
		reasoning = "classified by external model"
	}

	return &core.ClassificationResult{
		Label:      label,
		Confidence: confidence,
		Reasoning:  reasoning,
		ModelUsed:  c.modelName,
	}, nil
}
