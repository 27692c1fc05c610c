package core

import (
	"time"
)

// Label is the triage decision for a processed email.
type Label string

const (
	// LabelProductive marks an email that requires a follow-up action.
	LabelProductive Label = "PRODUCTIVE"
	// LabelUnproductive marks an email that requires no action.
	LabelUnproductive Label = "UNPRODUCTIVE"
)

// SupportedLabels returns every label the engine can produce.
func SupportedLabels() []string {
	return []string{string(LabelProductive), string(LabelUnproductive)}
}

// SourceFormat identifies the original representation of an ingested email.
type SourceFormat string

const (
	FormatPlainText SourceFormat = "text"
	FormatPdf       SourceFormat = "pdf"
	FormatEml       SourceFormat = "eml"
)

// Tone is the register of a suggested reply. It is fixed by the label:
// PRODUCTIVE replies are professional, UNPRODUCTIVE replies are friendly.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneFriendly     Tone = "friendly"
)

// Input is the single entry shape accepted by the pipeline. Either Text or
// FileBytes+FileKind must be set.
type Input struct {
	Text        string
	FileBytes   []byte
	FileKind    string
	SubjectHint string
}

// EmailDocument is the canonical normalized form of an ingested email.
// It is immutable once constructed by the normalizer.
type EmailDocument struct {
	Text           string
	Subject        string
	Sender         string
	SourceFormat   SourceFormat
	HasAttachments bool
	RawByteLength  int
}

// FeatureSet holds the lightweight lexical features derived from a document.
// It lives only for the duration of one pipeline call.
type FeatureSet struct {
	WordCount     int
	Language      string
	Signals       []string
	TicketRefs    []string
	QuestionCount int
	HasEmoji      bool
}

// HasSignal reports whether the named lexical category was matched.
func (f FeatureSet) HasSignal(name string) bool {
	for _, s := range f.Signals {
		if s == name {
			return true
		}
	}
	return false
}

// ClassificationResult is the outcome of one scoring strategy.
type ClassificationResult struct {
	Label      Label
	Confidence float64
	Reasoning  string
	ModelUsed  string
}

// SuggestedResponse is the reply proposed for a classified email.
type SuggestedResponse struct {
	Subject  string
	Body     string
	Tone     Tone
	Language string
}

// ProcessingOutcome bundles everything produced by one Process call.
type ProcessingOutcome struct {
	ID               string
	Document         *EmailDocument
	Features         FeatureSet
	Classification   *ClassificationResult
	Response         *SuggestedResponse
	ProcessingTimeMs int64
	ProcessedAt      time.Time
}

// ProcessingStats are the process-wide running statistics. LastProcessedAt
// stays at the zero value until the first record.
type ProcessingStats struct {
	TotalProcessed          int64
	ProductiveCount         int64
	UnproductiveCount       int64
	AverageConfidence       float64
	AverageProcessingTimeMs float64
	LastProcessedAt         time.Time
}

// CacheEntry stores a previously computed external-model result keyed by the
// hash of the normalized document text.
type CacheEntry struct {
	ContentHash string
	Label       Label
	Confidence  float64
	ModelUsed   string
	LastSeen    time.Time
	ExpiresAt   time.Time
}
