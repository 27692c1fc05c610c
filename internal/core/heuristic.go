package core

import (
	"fmt"
	"strings"

	"github.com/ricardo/email-triage/internal/lexicon"
)

// HeuristicModel identifies the rule-based strategy in results.
const HeuristicModel = "heuristic"

// NoSignalConfidence is the fixed confidence reported when no rule matches
// at all, including the empty-body case.
const NoSignalConfidence = 0.5

// Weighted contribution of each lexical category to one of the two scores.
var categoryWeights = map[string]struct {
	label  Label
	weight float64
}{
	lexicon.Request:     {LabelProductive, 0.6},
	lexicon.ErrorReport: {LabelProductive, 0.8},
	lexicon.Question:    {LabelProductive, 0.7},
	lexicon.Gratitude:   {LabelUnproductive, 0.9},
	lexicon.Greeting:    {LabelUnproductive, 0.8},
	lexicon.Promotion:   {LabelUnproductive, 0.7},
}

// Structural bonuses beyond keyword categories.
const (
	ticketBonus      = 0.3
	questionBonus    = 0.2
	shortLengthBonus = 0.2
	emojiBonus       = 0.2
	shortWordLimit   = 20
)

// HeuristicStrategy is the always-available floor of the strategy chain.
// It never fails and needs no external service.
type HeuristicStrategy struct{}

// NewHeuristicStrategy creates the rule-based scoring strategy.
func NewHeuristicStrategy() *HeuristicStrategy {
	return &HeuristicStrategy{}
}

// Score assigns productive and unproductive scores from the matched lexical
// categories plus structural bonuses, and derives label and confidence from
// the margin between the two. Ties resolve to UNPRODUCTIVE: a message with
// no actionable signal needs no response by default.
func (s *HeuristicStrategy) Score(doc *EmailDocument, features FeatureSet) *ClassificationResult {
	var productive, unproductive float64
	var productiveSignals, unproductiveSignals []string

	for _, signal := range features.Signals {
		w, ok := categoryWeights[signal]
		if !ok {
			continue
		}
		if w.label == LabelProductive {
			productive += w.weight
			productiveSignals = append(productiveSignals, signal)
		} else {
			unproductive += w.weight
			unproductiveSignals = append(unproductiveSignals, signal)
		}
	}

	if len(features.TicketRefs) > 0 {
		productive += ticketBonus
		productiveSignals = append(productiveSignals, "ticket-reference")
	}
	if features.QuestionCount > 0 {
		productive += questionBonus
		productiveSignals = append(productiveSignals, "question-mark")
	}
	if features.WordCount > 0 && features.WordCount < shortWordLimit {
		unproductive += shortLengthBonus
		unproductiveSignals = append(unproductiveSignals, "short-message")
	}
	if features.HasEmoji {
		unproductive += emojiBonus
		unproductiveSignals = append(unproductiveSignals, "emoji")
	}

	total := productive + unproductive
	if total == 0 {
		return &ClassificationResult{
			Label:      LabelUnproductive,
			Confidence: NoSignalConfidence,
			Reasoning:  "no classification signal found",
			ModelUsed:  HeuristicModel,
		}
	}

	if productive > unproductive {
		return &ClassificationResult{
			Label:      LabelProductive,
			Confidence: productive / total,
			Reasoning:  fmt.Sprintf("detected explicit request/error language (%s)", strings.Join(productiveSignals, ", ")),
			ModelUsed:  HeuristicModel,
		}
	}

	return &ClassificationResult{
		Label:      LabelUnproductive,
		Confidence: unproductive / total,
		Reasoning:  fmt.Sprintf("no actionable signal dominates (%s)", strings.Join(unproductiveSignals, ", ")),
		ModelUsed:  HeuristicModel,
	}
}
