package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/ricardo/email-triage/internal/adapters/parser"
	"github.com/ricardo/email-triage/internal/config"
	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/factory"
	"github.com/ricardo/email-triage/internal/logging"
	"github.com/ricardo/email-triage/internal/ports"
	"github.com/ricardo/email-triage/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewClassifierFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewGatewayFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register normalizer
	if err := container.Provide(func(logger *zap.Logger, tp *utils.TextProcessor) core.Normalizer {
		return parser.NewNormalizer(logger, tp)
	}); err != nil {
		return nil, err
	}

	// Register external classifier (nil when no provider is configured)
	if err := container.Provide(func(f *factory.ClassifierFactory) (core.ExternalClassifier, error) {
		return f.CreateClassifier()
	}); err != nil {
		return nil, err
	}

	// Register result cache. A disabled cache stays nil so no backend is
	// opened for nothing.
	if err := container.Provide(func(f *factory.CacheFactory) (core.ResultCache, error) {
		if !f.IsCacheEnabled() {
			return nil, nil
		}
		return f.CreateResultCache()
	}); err != nil {
		return nil, err
	}

	// Register pipeline options
	if err := container.Provide(func(cfg *config.Config, f *factory.CacheFactory) (core.Options, error) {
		ttl, err := f.GetCacheTTL()
		if err != nil {
			return core.Options{}, err
		}
		return core.Options{
			CacheEnabled:    f.IsCacheEnabled(),
			CacheTTL:        ttl,
			ExternalTimeout: cfg.GetExternal().Timeout,
		}, nil
	}); err != nil {
		return nil, err
	}

	// Register response composer
	if err := container.Provide(func(logger *zap.Logger, cfg *config.Config) *core.Composer {
		return core.NewComposer(logger, cfg.GetResponse().StrictLanguage)
	}); err != nil {
		return nil, err
	}

	// Register statistics aggregator
	if err := container.Provide(core.NewStatsAggregator); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register gateways
	if err := container.Provide(func(f *factory.GatewayFactory, service *core.TriageService) []ports.Gateway {
		return f.CreateGateways(service)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
