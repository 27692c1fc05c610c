package config

import (
	"time"
)

// ExternalConfig represents the configuration for the external classifier
type ExternalConfig struct {
	Provider string
	Timeout  time.Duration
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// ServerConfig represents the configuration for the inbound gateways
type ServerConfig struct {
	HTTPListenAddress   string
	HTTPBodyLimit       int
	SMTPEnabled         bool
	SMTPListenAddress   string
	SMTPMaxMessageBytes int
	SMTPProcessTimeout  time.Duration
}

// ResponseConfig represents the configuration for response composition
type ResponseConfig struct {
	StrictLanguage bool
}

// GetExternal returns the external classifier configuration
func (c *Config) GetExternal() ExternalConfig {
	timeout, err := c.GetDuration("external.timeout")
	if err != nil {
		timeout = 5 * time.Second
	}
	return ExternalConfig{
		Provider: c.GetString("external.provider"),
		Timeout:  timeout,
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
		MaxBodySize: c.GetInt("openai.max_body_size"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
		MaxBodySize: c.GetInt("gemini.max_body_size"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
		MaxBodySize: c.GetInt("bedrock.max_body_size"),
	}
}

// GetServer returns the gateway configuration
func (c *Config) GetServer() ServerConfig {
	processTimeout, err := c.GetDuration("server.smtp_process_timeout")
	if err != nil {
		processTimeout = 30 * time.Second
	}
	return ServerConfig{
		HTTPListenAddress:   c.GetString("server.http_listen_address"),
		HTTPBodyLimit:       c.GetInt("server.http_body_limit"),
		SMTPEnabled:         c.GetBool("server.smtp_enabled"),
		SMTPListenAddress:   c.GetString("server.smtp_listen_address"),
		SMTPMaxMessageBytes: c.GetInt("server.smtp_max_message_bytes"),
		SMTPProcessTimeout:  processTimeout,
	}
}

// GetResponse returns the response composition configuration
func (c *Config) GetResponse() ResponseConfig {
	return ResponseConfig{
		StrictLanguage: c.GetBool("response.strict_language"),
	}
}
