package core

import (
	"strings"

	"github.com/ricardo/email-triage/internal/lexicon"
)

// DefaultLanguage is assumed whenever the detection signal is weak.
const DefaultLanguage = "pt"

// Stopword sets for the lightweight language heuristic. This is deliberately
// not a full language-ID model; the detector only separates the two languages
// the templates ship in and defaults to Portuguese otherwise.
var (
	portugueseStopwords = map[string]struct{}{
		"de": {}, "que": {}, "para": {}, "com": {}, "não": {}, "uma": {},
		"um": {}, "mais": {}, "por": {}, "muito": {}, "pela": {}, "pelo": {},
		"são": {}, "vocês": {}, "fazer": {}, "olá": {}, "obrigado": {},
	}
	englishStopwords = map[string]struct{}{
		"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
		"have": {}, "from": {}, "you": {}, "are": {}, "your": {}, "please": {},
	}
)

// ExtractFeatures derives the lexical features of a normalized document.
// It is a pure function with no failure modes: empty input degrades to
// wordCount 0, language "pt" and no signals.
func ExtractFeatures(doc *EmailDocument) FeatureSet {
	combined := strings.TrimSpace(doc.Subject + "\n" + doc.Text)
	if combined == "" {
		return FeatureSet{Language: DefaultLanguage}
	}

	return FeatureSet{
		WordCount:     len(strings.Fields(doc.Text)),
		Language:      detectLanguage(combined),
		Signals:       lexicon.Match(combined),
		TicketRefs:    lexicon.Tickets(combined),
		QuestionCount: strings.Count(combined, "?"),
		HasEmoji:      containsEmoji(combined),
	}
}

func detectLanguage(text string) string {
	var pt, en int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:()[]{}\"'")
		if _, ok := portugueseStopwords[word]; ok {
			pt++
		}
		if _, ok := englishStopwords[word]; ok {
			en++
		}
	}
	if en > pt {
		return "en"
	}
	return DefaultLanguage
}

// containsEmoji covers the common emoji blocks plus the dingbat/symbol
// ranges typically pasted into emails.
func containsEmoji(text string) bool {
	for _, r := range text {
		if (r >= 0x1F300 && r <= 0x1FAFF) || (r >= 0x2600 && r <= 0x27BF) {
			return true
		}
	}
	return false
}
