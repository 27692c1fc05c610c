package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultExternalTimeout bounds one external-model call.
const DefaultExternalTimeout = 5 * time.Second

// Options configures the triage pipeline.
type Options struct {
	CacheEnabled    bool
	CacheTTL        time.Duration
	ExternalTimeout time.Duration
}

// TriageService is the pipeline orchestrator. It sequences normalization,
// feature extraction, classification and response composition, and records
// statistics exactly once per successful call.
type TriageService struct {
	normalizer      Normalizer
	heuristic       *HeuristicStrategy
	external        ExternalClassifier
	cache           ResultCache
	composer        *Composer
	stats           *StatsAggregator
	logger          *zap.Logger
	cacheEnabled    bool
	cacheTTL        time.Duration
	externalTimeout time.Duration
}

// NewTriageService creates the pipeline. external may be nil, in which case
// the heuristic strategy is the only one in the chain; cache may be nil when
// external-result caching is disabled.
func NewTriageService(
	normalizer Normalizer,
	external ExternalClassifier,
	cache ResultCache,
	composer *Composer,
	stats *StatsAggregator,
	logger *zap.Logger,
	opts Options,
) *TriageService {
	timeout := opts.ExternalTimeout
	if timeout <= 0 {
		timeout = DefaultExternalTimeout
	}
	return &TriageService{
		normalizer:      normalizer,
		heuristic:       NewHeuristicStrategy(),
		external:        external,
		cache:           cache,
		composer:        composer,
		stats:           stats,
		logger:          logger,
		cacheEnabled:    opts.CacheEnabled && cache != nil,
		cacheTTL:        opts.CacheTTL,
		externalTimeout: timeout,
	}
}

// Process runs one input through the whole pipeline. On normalization or
// composition failure the typed error is returned and the statistics are
// left untouched.
func (s *TriageService) Process(ctx context.Context, input Input) (*ProcessingOutcome, error) {
	start := time.Now()

	doc, err := s.normalizer.Normalize(input)
	if err != nil {
		return nil, err
	}

	features := ExtractFeatures(doc)
	result := s.classify(ctx, doc, features)

	response, err := s.composer.Compose(result, features, doc)
	if err != nil {
		return nil, err
	}

	outcome := &ProcessingOutcome{
		ID:               uuid.NewString(),
		Document:         doc,
		Features:         features,
		Classification:   result,
		Response:         response,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		ProcessedAt:      time.Now(),
	}
	s.stats.Record(outcome)

	s.logger.Info("Processed email",
		zap.String("id", outcome.ID),
		zap.String("label", string(result.Label)),
		zap.Float64("confidence", result.Confidence),
		zap.String("model", result.ModelUsed),
		zap.Int64("processing_time_ms", outcome.ProcessingTimeMs))

	return outcome, nil
}

// classify walks the strategy chain: cached external result, then one
// bounded external call, then the heuristic floor. External failures are
// logged and never surfaced.
func (s *TriageService) classify(ctx context.Context, doc *EmailDocument, features FeatureSet) *ClassificationResult {
	if s.external == nil {
		return s.heuristic.Score(doc, features)
	}

	hash := contentHash(doc.Text)
	if s.cacheEnabled {
		if entry, err := s.cache.Get(ctx, hash); err == nil {
			s.logger.Debug("External result cache hit", zap.String("model", entry.ModelUsed))
			return &ClassificationResult{
				Label:      entry.Label,
				Confidence: entry.Confidence,
				Reasoning:  "result from cache",
				ModelUsed:  entry.ModelUsed,
			}
		}
	}

	extCtx, cancel := context.WithTimeout(ctx, s.externalTimeout)
	result, err := s.external.Score(extCtx, doc, features)
	cancel()
	if err != nil || result == nil {
		unavailable := NewExternalModelUnavailable(err)
		s.logger.Warn("External model unavailable, falling back to heuristic",
			zap.Error(unavailable))
		return s.heuristic.Score(doc, features)
	}

	if s.cacheEnabled {
		entry := &CacheEntry{
			ContentHash: hash,
			Label:       result.Label,
			Confidence:  result.Confidence,
			ModelUsed:   result.ModelUsed,
			LastSeen:    time.Now(),
			ExpiresAt:   time.Now().Add(s.cacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update result cache", zap.Error(err))
		}
	}

	return result
}

// Snapshot exposes the current statistics for the stats endpoint.
func (s *TriageService) Snapshot() ProcessingStats {
	return s.stats.Snapshot()
}

func contentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
