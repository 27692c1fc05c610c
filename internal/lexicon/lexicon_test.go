package lexicon

import (
	"reflect"
	"testing"
)

func TestMatchReportsEachCategoryOnce(t *testing.T) {
	t.Parallel()

	text := "Erro no sistema, erro de novo. Não consigo acessar e preciso de ajuda."
	matched := Match(text)

	count := 0
	for _, name := range matched {
		if name == ErrorReport {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected error-report to be reported once, got %d in %v", count, matched)
	}
}

func TestMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	matched := Match("OBRIGADO pela atenção")
	found := false
	for _, name := range matched {
		if name == Gratitude {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected gratitude match, got %v", matched)
	}
}

func TestMatchNoSignal(t *testing.T) {
	t.Parallel()

	if matched := Match("xyzzy plugh"); len(matched) != 0 {
		t.Fatalf("expected no matches, got %v", matched)
	}
}

func TestTickets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"single reference", "meu chamado é o #12345", []string{"#12345"}},
		{"multiple references", "ver #123 e #45678", []string{"#123", "#45678"}},
		{"too short", "item #12 da lista", nil},
		{"no reference", "sem chamado nenhum", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tickets(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Tickets(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
