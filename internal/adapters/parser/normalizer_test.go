package parser

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/ricardo/email-triage/internal/core"
	"github.com/ricardo/email-triage/internal/utils"
)

func newTestNormalizer() *Normalizer {
	logger := zap.NewNop()
	return NewNormalizer(logger, utils.NewTextProcessor(logger))
}

func TestNormalizeRawText(t *testing.T) {
	t.Parallel()

	doc, err := newTestNormalizer().Normalize(core.Input{
		Text: "Olá,\r\n\r\n\r\nNão consigo   acessar o sistema.\r\n",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SourceFormat != core.FormatPlainText {
		t.Fatalf("expected text format, got %s", doc.SourceFormat)
	}
	if doc.Text != "Olá,\n\nNão consigo acessar o sistema." {
		t.Fatalf("whitespace not normalized: %q", doc.Text)
	}
}

func TestNormalizeTextWithInlineHeaders(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"Assunto: Problema de acesso",
		"De: maria@example.com",
		"Para: suporte@example.com",
		"",
		"Não consigo acessar o sistema.",
	}, "\n")

	doc, err := newTestNormalizer().Normalize(core.Input{Text: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Subject != "Problema de acesso" {
		t.Fatalf("expected subject from inline header, got %q", doc.Subject)
	}
	if doc.Sender != "maria@example.com" {
		t.Fatalf("expected sender from inline header, got %q", doc.Sender)
	}
	if strings.Contains(doc.Text, "Assunto:") || strings.Contains(doc.Text, "Para:") {
		t.Fatalf("header lines leaked into body: %q", doc.Text)
	}
}

func TestNormalizeSubjectHintWinsOverInlineHeader(t *testing.T) {
	t.Parallel()

	doc, err := newTestNormalizer().Normalize(core.Input{
		Text:        "Assunto: do corpo\n\ncorpo",
		SubjectHint: "do formulário",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Subject != "do formulário" {
		t.Fatalf("expected explicit hint to win, got %q", doc.Subject)
	}
}

func TestNormalizeUnsupportedKind(t *testing.T) {
	t.Parallel()

	_, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte("PK\x03\x04"),
		FileKind:  "docx",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !core.IsKind(err, core.KindUnsupportedFormat) {
		t.Fatalf("expected unsupported_format, got %v", err)
	}
}

func TestNormalizePdfGarbageIsDecodeError(t *testing.T) {
	t.Parallel()

	_, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte("this is not a pdf"),
		FileKind:  "pdf",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !core.IsKind(err, core.KindDecode) {
		t.Fatalf("expected decode_error, got %v", err)
	}
}

func TestNormalizeEmlPlainText(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"From: Maria <maria@example.com>",
		"To: suporte@example.com",
		"Subject: Problema de acesso",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Não consigo acessar o sistema.",
		"",
	}, "\r\n")

	doc, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte(raw),
		FileKind:  "eml",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.SourceFormat != core.FormatEml {
		t.Fatalf("expected eml format, got %s", doc.SourceFormat)
	}
	if doc.Subject != "Problema de acesso" {
		t.Fatalf("unexpected subject %q", doc.Subject)
	}
	if doc.Sender != "Maria <maria@example.com>" {
		t.Fatalf("unexpected sender %q", doc.Sender)
	}
	if doc.Text != "Não consigo acessar o sistema." {
		t.Fatalf("unexpected body %q", doc.Text)
	}
}

func TestNormalizeEmlQuotedPrintable(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"From: maria@example.com",
		"Subject: =?utf-8?Q?Problema_de_miss=C3=A3o?=",
		"Content-Type: text/plain; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		"N=C3=A3o consigo acessar.",
		"",
	}, "\r\n")

	doc, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte(raw),
		FileKind:  "eml",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Subject != "Problema de missão" {
		t.Fatalf("encoded subject not decoded: %q", doc.Subject)
	}
	if doc.Text != "Não consigo acessar." {
		t.Fatalf("quoted-printable body not decoded: %q", doc.Text)
	}
}

func TestNormalizeEmlMultipartPrefersPlainAndFlagsAttachments(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"From: maria@example.com",
		"Subject: Relatório",
		`Content-Type: multipart/mixed; boundary="XYZ"`,
		"",
		"--XYZ",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"Segue o relatório em anexo.",
		"--XYZ",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<p>Segue o relatório em anexo.</p>",
		"--XYZ",
		"Content-Type: application/pdf",
		`Content-Disposition: attachment; filename="relatorio.pdf"`,
		"",
		"%PDF-fake",
		"--XYZ--",
		"",
	}, "\r\n")

	doc, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte(raw),
		FileKind:  "eml",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text != "Segue o relatório em anexo." {
		t.Fatalf("expected the plain part only, got %q", doc.Text)
	}
	if !doc.HasAttachments {
		t.Fatal("expected attachment flag")
	}
}

func TestNormalizeEmlHTMLOnlyIsStripped(t *testing.T) {
	t.Parallel()

	raw := strings.Join([]string{
		"From: maria@example.com",
		"Subject: Aviso",
		"Content-Type: text/html; charset=utf-8",
		"",
		"<html><body><p>Sistema fora do ar.</p></body></html>",
		"",
	}, "\r\n")

	doc, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte(raw),
		FileKind:  "eml",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.Text, "<") {
		t.Fatalf("markup leaked into body: %q", doc.Text)
	}
	if !strings.Contains(doc.Text, "Sistema fora do ar.") {
		t.Fatalf("html text lost: %q", doc.Text)
	}
}

func TestNormalizeEmlGarbageIsDecodeError(t *testing.T) {
	t.Parallel()

	_, err := newTestNormalizer().Normalize(core.Input{
		FileBytes: []byte("no header separator at all"),
		FileKind:  "eml",
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !core.IsKind(err, core.KindDecode) {
		t.Fatalf("expected decode_error, got %v", err)
	}
}
