package core

import (
	"context"
)

// Normalizer converts raw pipeline input into a canonical EmailDocument.
type Normalizer interface {
	// Normalize parses and whitespace-normalizes one input.
	Normalize(input Input) (*EmailDocument, error)
}

// ExternalClassifier scores a document using an external model service.
// Implementations must honor ctx cancellation; the pipeline bounds every
// call with a timeout and treats any error as a fallback trigger.
type ExternalClassifier interface {
	// Score classifies the document and maps the service reply into a
	// ClassificationResult.
	Score(ctx context.Context, doc *EmailDocument, features FeatureSet) (*ClassificationResult, error)
}

// ResultCache stores external-model results keyed by content hash.
type ResultCache interface {
	// Get retrieves a cached entry for a content hash
	Get(ctx context.Context, contentHash string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, contentHash string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
