package core

import (
	"sync"
)

// StatsAggregator maintains the process-wide running statistics. It is the
// only shared mutable state in the pipeline; one mutex guards the whole
// increment-counts-then-update-means sequence so it is observed as a unit.
type StatsAggregator struct {
	mu    sync.Mutex
	stats ProcessingStats
}

// NewStatsAggregator creates an empty aggregator.
func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{}
}

// Record folds one successful outcome into the running totals as a single
// atomic update. Running means use the incremental formula so no history is
// stored.
func (a *StatsAggregator) Record(outcome *ProcessingOutcome) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.TotalProcessed++
	if outcome.Classification.Label == LabelProductive {
		a.stats.ProductiveCount++
	} else {
		a.stats.UnproductiveCount++
	}

	n := float64(a.stats.TotalProcessed)
	a.stats.AverageConfidence += (outcome.Classification.Confidence - a.stats.AverageConfidence) / n
	a.stats.AverageProcessingTimeMs += (float64(outcome.ProcessingTimeMs) - a.stats.AverageProcessingTimeMs) / n
	a.stats.LastProcessedAt = outcome.ProcessedAt
}

// Snapshot returns a consistent point-in-time copy of the statistics.
func (a *StatsAggregator) Snapshot() ProcessingStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
