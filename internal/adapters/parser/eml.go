package parser

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"strings"

	"github.com/jaytaylor/html2text"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/ricardo/email-triage/internal/core"
)

const maxMimeDepth = 8

// bodyParts accumulates the best-effort body candidates of a MIME message.
type bodyParts struct {
	plain       strings.Builder
	html        strings.Builder
	attachments bool
}

// normalizeEml parses an RFC 5322 message, preferring text/plain parts over
// text/html. When only HTML is present the markup is stripped.
func (n *Normalizer) normalizeEml(raw []byte, subjectHint string) (*core.EmailDocument, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, core.NewDecodeError(core.FormatEml, err)
	}

	subject := subjectHint
	if subject == "" {
		subject = decodeHeader(msg.Header.Get("Subject"))
	}
	sender := decodeHeader(msg.Header.Get("From"))

	var parts bodyParts
	err = collectParts(
		msg.Header.Get("Content-Type"),
		msg.Header.Get("Content-Transfer-Encoding"),
		msg.Body,
		&parts,
		0,
	)
	if err != nil {
		return nil, core.NewDecodeError(core.FormatEml, err)
	}

	body := parts.plain.String()
	if strings.TrimSpace(body) == "" && parts.html.Len() > 0 {
		converted, err := html2text.FromString(parts.html.String(), html2text.Options{TextOnly: true})
		if err == nil {
			body = converted
		}
	}

	return &core.EmailDocument{
		Text:           n.canonicalize(body),
		Subject:        subject,
		Sender:         sender,
		SourceFormat:   core.FormatEml,
		HasAttachments: parts.attachments,
		RawByteLength:  len(raw),
	}, nil
}

// collectParts walks a MIME tree collecting text/plain and text/html bodies
// and noting attachment parts.
func collectParts(contentType, cte string, body io.Reader, parts *bodyParts, depth int) error {
	if depth > maxMimeDepth {
		return nil
	}
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable Content-Type: treat the body as plain text.
		mediaType = "text/plain"
		params = nil
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary, ok := params["boundary"]
		if !ok {
			return fmt.Errorf("multipart message without boundary")
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			if isAttachment(part) {
				parts.attachments = true
				continue
			}
			err = collectParts(
				part.Header.Get("Content-Type"),
				part.Header.Get("Content-Transfer-Encoding"),
				part,
				parts,
				depth+1,
			)
			if err != nil {
				return err
			}
		}
		return nil
	}

	data, err := io.ReadAll(decodeTransfer(body, cte))
	if err != nil {
		return err
	}
	text := decodeCharset(data, params["charset"])

	switch {
	case strings.HasPrefix(mediaType, "text/plain"):
		parts.plain.WriteString(text)
		parts.plain.WriteString("\n")
	case strings.HasPrefix(mediaType, "text/html"):
		parts.html.WriteString(text)
		parts.html.WriteString("\n")
	default:
		parts.attachments = true
	}
	return nil
}

func isAttachment(part *multipart.Part) bool {
	disposition, _, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err == nil && disposition == "attachment" {
		return true
	}
	return part.FileName() != ""
}

func decodeTransfer(r io.Reader, cte string) io.Reader {
	switch strings.ToLower(strings.TrimSpace(cte)) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, r)
	case "quoted-printable":
		return quotedprintable.NewReader(r)
	default:
		return r
	}
}

func decodeCharset(data []byte, charset string) string {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "us-ascii" {
		return string(data)
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(data)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// decodeHeader decodes RFC 2047 encoded words, including non-UTF-8 charsets.
func decodeHeader(value string) string {
	dec := &mime.WordDecoder{
		CharsetReader: func(charset string, input io.Reader) (io.Reader, error) {
			enc, err := htmlindex.Get(charset)
			if err != nil {
				return nil, err
			}
			return transform.NewReader(input, enc.NewDecoder()), nil
		},
	}
	decoded, err := dec.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}
