package factory

import (
	"fmt"

	"github.com/ricardo/email-triage/internal/adapters/bedrock"
	"github.com/ricardo/email-triage/internal/adapters/gemini"
	"github.com/ricardo/email-triage/internal/adapters/openai"
	"github.com/ricardo/email-triage/internal/config"
	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/utils"
	"go.uber.org/zap"
)

// ClassifierFactory creates external classifiers
type ClassifierFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewClassifierFactory creates a new classifier factory
func NewClassifierFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ClassifierFactory {
	return &ClassifierFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateClassifier creates an external classifier based on the configured
// provider. An empty provider means the heuristic strategy runs alone, so
// nil is returned without error.
func (f *ClassifierFactory) CreateClassifier() (core.ExternalClassifier, error) {
	externalCfg := f.cfg.GetExternal()

	switch externalCfg.Provider {
	case "", "none":
		f.logger.Info("No external classifier configured, using heuristic only")
		return nil, nil
	case "bedrock":
		factory := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClassifier()
	case "gemini":
		factory := gemini.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClassifier()
	case "openai":
		factory := openai.NewFactory(f.cfg, f.logger, f.textProcessor)
		return factory.CreateClassifier()
	default:
		return nil, fmt.Errorf("unsupported external provider: %s", externalCfg.Provider)
	}
}
