package parser

import (
	"bytes"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/ricardo/email-triage/internal/core"
)

// normalizePdf extracts text page by page, joining pages with newlines.
// An empty extraction result (e.g. a scanned image PDF) is not an error;
// it yields an empty but valid document.
func (n *Normalizer) normalizePdf(raw []byte, subjectHint string) (*core.EmailDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, core.NewDecodeError(core.FormatPdf, err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// A single undecodable page does not invalidate the document.
			n.logger.Debug("Skipping PDF page without extractable text",
				zap.Int("page", i), zap.Error(err))
			continue
		}
		pages = append(pages, content)
	}

	return &core.EmailDocument{
		Text:          n.canonicalize(strings.Join(pages, "\n")),
		Subject:       subjectHint,
		SourceFormat:  core.FormatPdf,
		RawByteLength: len(raw),
	}, nil
}
