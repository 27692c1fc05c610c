package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client is an implementation of the ExternalClassifier interface using OpenAI
type Client struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
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

// NewClient creates a new OpenAI classifier
func NewClient(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		client:        client,
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat:  triagePromptFormat,
	}
}

const triagePromptFormat = `You are an email triage system. Decide whether the following email is PRODUCTIVE (requires a follow-up action or reply) or UNPRODUCTIVE (no action needed).
Respond with a JSON object containing:
- label: "PRODUCTIVE" or "UNPRODUCTIVE"
- confidence: number between 0 and 1 (how confident you are in the decision)
- reasoning: string (brief explanation of the decision)

Email:
Subject: %s
Language: %s
Body:
%s

Respond only with the JSON object and nothing else.`

// Score classifies an email using OpenAI chat completions.
func (c *Client) Score(ctx context.Context, doc *core.EmailDocument, features core.FeatureSet) (*core.ClassificationResult, error) {
	body := c.textProcessor.ProcessText(doc.Text, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, doc.Subject, features.Language, body)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an email triage system. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	return parseTriageResponse(resp.Choices[0].Message.Content, c.modelName)
}

// parseTriageResponse parses the model reply, tolerating JSON embedded in
// surrounding prose.
func parseTriageResponse(responseText, modelUsed string) (*core.ClassificationResult, error) {
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
		ModelUsed:  modelUsed,
	}, nil
}
