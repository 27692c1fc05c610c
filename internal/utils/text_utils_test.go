package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"go.uber.org/zap"
)

func TestNormalizeWhitespace(t *testing.T) {
	t.Parallel()

	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf and tabs", "linha\tum\r\nlinha  dois", "linha um\nlinha dois"},
		{"blank line runs", "um\n\n\n\ndois", "um\n\ndois"},
		{"leading and trailing", "\n\n  texto  \n\n", "texto"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tp.NormalizeWhitespace(tt.in); got != tt.want {
				t.Fatalf("NormalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTruncateTextKeepsValidUTF8(t *testing.T) {
	t.Parallel()

	tp := NewTextProcessor(zap.NewNop())

	// Cut point lands inside the two-byte encoding of "ã".
	text := "nã" + strings.Repeat("o", 10)
	truncated := tp.TruncateText(text, 2)

	if !utf8.ValidString(truncated) {
		t.Fatalf("truncated text is not valid UTF-8: %q", truncated)
	}
}

func TestTruncateTextNoLimit(t *testing.T) {
	t.Parallel()

	tp := NewTextProcessor(zap.NewNop())
	if got := tp.TruncateText("abc", 0); got != "abc" {
		t.Fatalf("expected pass-through, got %q", got)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	t.Parallel()

	tp := NewTextProcessor(zap.NewNop())

	invalid := "ok\xff\xfeok"
	sanitized := tp.SanitizeUTF8(invalid)

	if !utf8.ValidString(sanitized) {
		t.Fatalf("sanitized text is not valid UTF-8: %q", sanitized)
	}
	if !strings.Contains(sanitized, "okok") && sanitized != "okok" {
		t.Fatalf("unexpected sanitized result %q", sanitized)
	}
}
