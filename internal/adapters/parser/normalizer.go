// Package parser implements the document normalizer: it turns raw text, PDF
// bytes or .eml bytes into a canonical core.EmailDocument.
package parser

import (
	"regexp"
	"strings"

	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/utils"
	"go.uber.org/zap"
)

// Normalizer converts raw pipeline input into a canonical EmailDocument.
type Normalizer struct {
	logger *zap.Logger
	text   *utils.TextProcessor
}

// NewNormalizer creates a multi-format normalizer.
func NewNormalizer(logger *zap.Logger, text *utils.TextProcessor) *Normalizer {
	return &Normalizer{
		logger: logger,
		text:   text,
	}
}

// Inline header lines recognized in plain-text intake, in Portuguese and
// English.
var (
	subjectHeaderPattern = regexp.MustCompile(`(?i)^(?:assunto|subject):\s*(.+)$`)
	fromHeaderPattern    = regexp.MustCompile(`(?i)^(?:de|from):\s*(.+)$`)
	toHeaderPattern      = regexp.MustCompile(`(?i)^(?:para|to):\s*(.+)$`)
)

// Normalize dispatches on the declared file kind. A missing kind with no
// file bytes is treated as raw text intake.
func (n *Normalizer) Normalize(input core.Input) (*core.EmailDocument, error) {
	if len(input.FileBytes) == 0 && input.FileKind == "" {
		return n.normalizeText(input.Text, input.SubjectHint), nil
	}

	switch core.SourceFormat(strings.ToLower(input.FileKind)) {
	case core.FormatPlainText:
		return n.normalizeText(string(input.FileBytes), input.SubjectHint), nil
	case core.FormatPdf:
		return n.normalizePdf(input.FileBytes, input.SubjectHint)
	case core.FormatEml:
		return n.normalizeEml(input.FileBytes, input.SubjectHint)
	default:
		return nil, core.NewUnsupportedFormat(input.FileKind)
	}
}

// normalizeText handles raw text intake. Inline "Assunto:"/"De:"/"Para:"
// header lines are used for metadata and stripped from the body.
func (n *Normalizer) normalizeText(raw, subjectHint string) *core.EmailDocument {
	subject := subjectHint
	sender := ""
	var bodyLines []string

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if m := subjectHeaderPattern.FindStringSubmatch(trimmed); m != nil {
			if subject == "" {
				subject = strings.TrimSpace(m[1])
			}
			continue
		}
		if m := fromHeaderPattern.FindStringSubmatch(trimmed); m != nil {
			if sender == "" {
				sender = strings.TrimSpace(m[1])
			}
			continue
		}
		if toHeaderPattern.MatchString(trimmed) {
			continue
		}
		bodyLines = append(bodyLines, line)
	}

	return &core.EmailDocument{
		Text:          n.canonicalize(strings.Join(bodyLines, "\n")),
		Subject:       subject,
		Sender:        sender,
		SourceFormat:  core.FormatPlainText,
		RawByteLength: len(raw),
	}
}

func (n *Normalizer) canonicalize(text string) string {
	return n.text.NormalizeWhitespace(n.text.SanitizeUTF8(text))
}
