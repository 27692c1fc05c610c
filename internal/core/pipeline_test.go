package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type normalizerFunc func(Input) (*EmailDocument, error)

func (f normalizerFunc) Normalize(input Input) (*EmailDocument, error) { return f(input) }

type classifierFunc func(context.Context, *EmailDocument, FeatureSet) (*ClassificationResult, error)

func (f classifierFunc) Score(ctx context.Context, doc *EmailDocument, features FeatureSet) (*ClassificationResult, error) {
	return f(ctx, doc, features)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*CacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (c *fakeCache) Get(ctx context.Context, contentHash string) (*CacheEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[contentHash]
	if !ok {
		return nil, errors.New("cache entry not found")
	}
	return entry, nil
}

func (c *fakeCache) Set(ctx context.Context, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entry.ContentHash] = entry
	c.sets++
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, contentHash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, contentHash)
	return nil
}

func (c *fakeCache) Cleanup(ctx context.Context) error { return nil }

func textNormalizer() Normalizer {
	return normalizerFunc(func(input Input) (*EmailDocument, error) {
		return &EmailDocument{Text: input.Text, SourceFormat: FormatPlainText}, nil
	})
}

func newTestService(external ExternalClassifier, cache ResultCache, opts Options) *TriageService {
	return NewTriageService(
		textNormalizer(),
		external,
		cache,
		NewComposer(zap.NewNop(), false),
		NewStatsAggregator(),
		zap.NewNop(),
		opts,
	)
}

func TestProcessHeuristicOnly(t *testing.T) {
	t.Parallel()

	service := newTestService(nil, nil, Options{})
	outcome, err := service.Process(context.Background(), Input{
		Text: "Não consigo acessar o sistema, aparece erro de login. Podem verificar?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.ID == "" {
		t.Fatal("expected an outcome ID")
	}
	if outcome.Classification.ModelUsed != HeuristicModel {
		t.Fatalf("expected heuristic model, got %q", outcome.Classification.ModelUsed)
	}
	if outcome.Response == nil || outcome.Response.Body == "" {
		t.Fatal("expected a suggested response")
	}

	stats := service.Snapshot()
	if stats.TotalProcessed != 1 {
		t.Fatalf("expected one recorded outcome, got %d", stats.TotalProcessed)
	}
}

func TestProcessNormalizeFailureLeavesStatsUntouched(t *testing.T) {
	t.Parallel()

	service := NewTriageService(
		normalizerFunc(func(input Input) (*EmailDocument, error) {
			return nil, NewUnsupportedFormat(input.FileKind)
		}),
		nil,
		nil,
		NewComposer(zap.NewNop(), false),
		NewStatsAggregator(),
		zap.NewNop(),
		Options{},
	)

	_, err := service.Process(context.Background(), Input{FileBytes: []byte{1}, FileKind: "docx"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsKind(err, KindUnsupportedFormat) {
		t.Fatalf("expected unsupported_format, got %v", err)
	}
	if stats := service.Snapshot(); stats.TotalProcessed != 0 {
		t.Fatalf("stats recorded for failed input: %+v", stats)
	}
}

func TestProcessExternalResultWinsAndIsCached(t *testing.T) {
	t.Parallel()

	external := classifierFunc(func(ctx context.Context, doc *EmailDocument, features FeatureSet) (*ClassificationResult, error) {
		return &ClassificationResult{
			Label:      LabelProductive,
			Confidence: 0.93,
			Reasoning:  "model decision",
			ModelUsed:  "gpt-4",
		}, nil
	})
	cache := newFakeCache()
	service := newTestService(external, cache, Options{CacheEnabled: true, CacheTTL: time.Hour})

	outcome, err := service.Process(context.Background(), Input{Text: "Preciso de ajuda com o sistema."})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if outcome.Classification.ModelUsed != "gpt-4" {
		t.Fatalf("expected external model result, got %q", outcome.Classification.ModelUsed)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
}

func TestProcessCacheHitSkipsExternalCall(t *testing.T) {
	t.Parallel()

	calls := 0
	external := classifierFunc(func(ctx context.Context, doc *EmailDocument, features FeatureSet) (*ClassificationResult, error) {
		calls++
		return &ClassificationResult{Label: LabelProductive, Confidence: 0.9, ModelUsed: "gpt-4"}, nil
	})
	cache := newFakeCache()
	service := newTestService(external, cache, Options{CacheEnabled: true, CacheTTL: time.Hour})

	input := Input{Text: "Preciso de ajuda com o sistema."}
	if _, err := service.Process(context.Background(), input); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	outcome, err := service.Process(context.Background(), input)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected one external call, got %d", calls)
	}
	if outcome.Classification.Reasoning != "result from cache" {
		t.Fatalf("expected cache reasoning, got %q", outcome.Classification.Reasoning)
	}
	if outcome.Classification.ModelUsed != "gpt-4" {
		t.Fatalf("cached result lost the model name: %q", outcome.Classification.ModelUsed)
	}
}

func TestProcessExternalTimeoutFallsBackToHeuristic(t *testing.T) {
	t.Parallel()

	external := classifierFunc(func(ctx context.Context, doc *EmailDocument, features FeatureSet) (*ClassificationResult, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	service := newTestService(external, nil, Options{ExternalTimeout: 20 * time.Millisecond})

	outcome, err := service.Process(context.Background(), Input{
		Text: "Não consigo acessar o sistema, erro de login no chamado #555123.",
	})
	if err != nil {
		t.Fatalf("timeout must not surface: %v", err)
	}
	if outcome.Classification.ModelUsed != HeuristicModel {
		t.Fatalf("expected heuristic fallback, got %q", outcome.Classification.ModelUsed)
	}
	if stats := service.Snapshot(); stats.TotalProcessed != 1 {
		t.Fatalf("expected exactly one recorded outcome, got %d", stats.TotalProcessed)
	}
}

func TestProcessExternalErrorNeverSurfaces(t *testing.T) {
	t.Parallel()

	external := classifierFunc(func(ctx context.Context, doc *EmailDocument, features FeatureSet) (*ClassificationResult, error) {
		return nil, errors.New("upstream 500")
	})
	service := newTestService(external, nil, Options{})

	outcome, err := service.Process(context.Background(), Input{Text: "Obrigado pela atenção!"})
	if err != nil {
		t.Fatalf("external failure must not surface: %v", err)
	}
	if outcome.Classification.ModelUsed != HeuristicModel {
		t.Fatalf("expected heuristic fallback, got %q", outcome.Classification.ModelUsed)
	}
}

func TestProcessConcurrentCallsKeepStatsConsistent(t *testing.T) {
	t.Parallel()

	service := newTestService(nil, nil, Options{})

	const workers = 8
	const perWorker = 25
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				_, err := service.Process(context.Background(), Input{Text: "Obrigado!"})
				if err != nil {
					t.Errorf("process failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	stats := service.Snapshot()
	if stats.TotalProcessed != workers*perWorker {
		t.Fatalf("expected %d outcomes, got %d", workers*perWorker, stats.TotalProcessed)
	}
	if stats.ProductiveCount+stats.UnproductiveCount != stats.TotalProcessed {
		t.Fatalf("label counts do not sum to total: %+v", stats)
	}
}
