package core

import (
	"math"
	"sync"
	"testing"
	"time"
)

func outcomeWith(label Label, confidence float64, elapsedMs int64) *ProcessingOutcome {
	return &ProcessingOutcome{
		Classification:   &ClassificationResult{Label: label, Confidence: confidence},
		ProcessingTimeMs: elapsedMs,
		ProcessedAt:      time.Now(),
	}
}

func TestStatsRunningMeans(t *testing.T) {
	t.Parallel()

	agg := NewStatsAggregator()
	agg.Record(outcomeWith(LabelProductive, 0.8, 100))
	agg.Record(outcomeWith(LabelUnproductive, 0.6, 200))
	agg.Record(outcomeWith(LabelProductive, 1.0, 300))

	stats := agg.Snapshot()
	if stats.TotalProcessed != 3 {
		t.Fatalf("expected 3 processed, got %d", stats.TotalProcessed)
	}
	if stats.ProductiveCount != 2 || stats.UnproductiveCount != 1 {
		t.Fatalf("unexpected label counts: %d / %d", stats.ProductiveCount, stats.UnproductiveCount)
	}
	if math.Abs(stats.AverageConfidence-0.8) > 1e-9 {
		t.Fatalf("expected average confidence 0.8, got %v", stats.AverageConfidence)
	}
	if math.Abs(stats.AverageProcessingTimeMs-200) > 1e-9 {
		t.Fatalf("expected average time 200ms, got %v", stats.AverageProcessingTimeMs)
	}
	if stats.LastProcessedAt.IsZero() {
		t.Fatal("expected last processed timestamp to be set")
	}
}

func TestStatsEmptySnapshot(t *testing.T) {
	t.Parallel()

	stats := NewStatsAggregator().Snapshot()
	if stats.TotalProcessed != 0 || stats.AverageConfidence != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
	if !stats.LastProcessedAt.IsZero() {
		t.Fatalf("expected zero timestamp, got %v", stats.LastProcessedAt)
	}
}

func TestStatsConcurrentRecords(t *testing.T) {
	t.Parallel()

	agg := NewStatsAggregator()
	const workers = 16
	const perWorker = 200

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				label := LabelProductive
				if (i+j)%2 == 0 {
					label = LabelUnproductive
				}
				agg.Record(outcomeWith(label, 0.5, 10))
			}
		}(i)
	}
	wg.Wait()

	stats := agg.Snapshot()
	if stats.TotalProcessed != workers*perWorker {
		t.Fatalf("lost records: got %d, want %d", stats.TotalProcessed, workers*perWorker)
	}
	if stats.ProductiveCount+stats.UnproductiveCount != stats.TotalProcessed {
		t.Fatalf("label counts %d+%d do not sum to total %d",
			stats.ProductiveCount, stats.UnproductiveCount, stats.TotalProcessed)
	}
	if math.Abs(stats.AverageConfidence-0.5) > 1e-9 {
		t.Fatalf("expected average confidence 0.5, got %v", stats.AverageConfidence)
	}
}
