package core

import (
	"math"
	"strings"
	"testing"
)

func scoreText(t *testing.T, subject, text string) *ClassificationResult {
	t.Helper()
	doc := &EmailDocument{Subject: subject, Text: text}
	return NewHeuristicStrategy().Score(doc, ExtractFeatures(doc))
}

func TestHeuristicNoSignalIsUnproductiveAtHalf(t *testing.T) {
	t.Parallel()

	result := scoreText(t, "", "")

	if result.Label != LabelUnproductive {
		t.Fatalf("expected UNPRODUCTIVE, got %s", result.Label)
	}
	if result.Confidence != NoSignalConfidence {
		t.Fatalf("expected confidence exactly %v, got %v", NoSignalConfidence, result.Confidence)
	}
	if result.ModelUsed != HeuristicModel {
		t.Fatalf("expected model %q, got %q", HeuristicModel, result.ModelUsed)
	}
}

func TestHeuristicSupportRequestIsProductive(t *testing.T) {
	t.Parallel()

	result := scoreText(t, "",
		"Olá, bom dia. Não consigo acessar o sistema desde ontem, aparece erro de login. "+
			"Meu chamado é o #12345. Podem me ajudar?")

	if result.Label != LabelProductive {
		t.Fatalf("expected PRODUCTIVE, got %s (%s)", result.Label, result.Reasoning)
	}
	if result.Confidence <= 0.5 || result.Confidence > 1 {
		t.Fatalf("expected confidence in (0.5, 1], got %v", result.Confidence)
	}
	if !strings.Contains(result.Reasoning, "ticket-reference") {
		t.Fatalf("expected ticket-reference in reasoning, got %q", result.Reasoning)
	}
}

func TestHeuristicGratitudeIsUnproductive(t *testing.T) {
	t.Parallel()

	result := scoreText(t, "", "Muito obrigado pela ajuda, vocês são ótimos! \U0001F389")

	if result.Label != LabelUnproductive {
		t.Fatalf("expected UNPRODUCTIVE, got %s (%s)", result.Label, result.Reasoning)
	}
	if result.Confidence <= 0.5 {
		t.Fatalf("expected confidence above 0.5, got %v", result.Confidence)
	}
}

func TestHeuristicConfidenceIsDominantShare(t *testing.T) {
	t.Parallel()

	// Gratitude (0.9) against a short-message bonus free text long enough to
	// avoid the bonus, so confidence must be exactly 0.9 / 0.9 = 1.
	text := "Agradeço imensamente todo o empenho de cada pessoa envolvida nesse " +
		"atendimento maravilhoso prestado durante essas últimas semanas difíceis " +
		"aqui na empresa onde trabalho atualmente com toda a equipe"
	result := scoreText(t, "", text)

	if result.Label != LabelUnproductive {
		t.Fatalf("expected UNPRODUCTIVE, got %s (%s)", result.Label, result.Reasoning)
	}
	if math.Abs(result.Confidence-1.0) > 1e-9 {
		t.Fatalf("expected confidence 1.0, got %v", result.Confidence)
	}
}

func TestHeuristicTieResolvesToUnproductive(t *testing.T) {
	t.Parallel()

	doc := &EmailDocument{Text: "anything"}
	features := FeatureSet{
		WordCount: 100,
		Language:  "pt",
		// question (0.7 productive) against promotion (0.7 unproductive)
		Signals: []string{"question", "promotion"},
	}
	result := NewHeuristicStrategy().Score(doc, features)

	if result.Label != LabelUnproductive {
		t.Fatalf("expected tie to resolve to UNPRODUCTIVE, got %s", result.Label)
	}
	if math.Abs(result.Confidence-0.5) > 1e-9 {
		t.Fatalf("expected confidence 0.5 on tie, got %v", result.Confidence)
	}
}

func TestHeuristicShortMessageBonus(t *testing.T) {
	t.Parallel()

	long := FeatureSet{WordCount: 50, Language: "pt", Signals: []string{"gratitude"}}
	short := FeatureSet{WordCount: 3, Language: "pt", Signals: []string{"gratitude"}}
	doc := &EmailDocument{Text: "obrigado"}

	strategy := NewHeuristicStrategy()
	longResult := strategy.Score(doc, long)
	shortResult := strategy.Score(doc, short)

	if longResult.Label != LabelUnproductive || shortResult.Label != LabelUnproductive {
		t.Fatal("expected UNPRODUCTIVE for both")
	}
	// Short text adds unproductive weight but both scores stay all-unproductive,
	// so confidence is 1 either way.
	if shortResult.Confidence < longResult.Confidence {
		t.Fatalf("short-message bonus lowered confidence: %v < %v",
			shortResult.Confidence, longResult.Confidence)
	}
}
