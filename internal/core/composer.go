package core

import (
	"strings"

	"go.uber.org/zap"
)

const subjectExcerptLimit = 60

type templateKey struct {
	label    Label
	language string
}

// responseTemplate is one row of the (label, language) template table.
// TicketBody is the variant used when a ticket reference was detected and
// may contain the {ticket} placeholder.
type responseTemplate struct {
	label      Label
	language   string
	tone       Tone
	body       string
	ticketBody string
}

// The template table is data-driven so adding a language is additive.
// Tone follows the label: professional for PRODUCTIVE, friendly otherwise.
var responseTemplates = []responseTemplate{
	{
		label:    LabelProductive,
		language: "pt",
		tone:     ToneProfessional,
		body: "Olá! Recebemos a sua solicitação e ela já está em análise pela nossa equipe. " +
			"Retornaremos em breve com uma solução. Se tiver mais detalhes, é só responder a este email.",
		ticketBody: "Olá! Recebemos a sua solicitação referente ao chamado {ticket} e ela já está em análise pela nossa equipe. " +
			"Retornaremos em breve com uma solução. Se tiver mais detalhes, é só responder a este email.",
	},
	{
		label:    LabelUnproductive,
		language: "pt",
		tone:     ToneFriendly,
		body: "Obrigado pela mensagem! Ficamos muito felizes com o seu contato. " +
			"Se precisar de algo mais, estamos à disposição.",
		ticketBody: "Obrigado pela mensagem sobre o chamado {ticket}! " +
			"Se precisar de algo mais, estamos à disposição.",
	},
	{
		label:    LabelProductive,
		language: "en",
		tone:     ToneProfessional,
		body: "Hello! We have received your request and our team is already looking into it. " +
			"We will get back to you shortly. Feel free to reply with any additional details.",
		ticketBody: "Hello! We have received your request regarding ticket {ticket} and our team is already looking into it. " +
			"We will get back to you shortly. Feel free to reply with any additional details.",
	},
	{
		label:    LabelUnproductive,
		language: "en",
		tone:     ToneFriendly,
		body: "Thank you for your message! We are glad to hear from you. " +
			"If you need anything else, we are here to help.",
		ticketBody: "Thank you for your message about ticket {ticket}! " +
			"If you need anything else, we are here to help.",
	},
}

// Composer selects and fills reply templates based on classification label,
// detected language and ticket references.
type Composer struct {
	logger          *zap.Logger
	strictLanguage  bool
	defaultLanguage string
	index           map[templateKey]responseTemplate
}

// NewComposer creates a response composer. With strictLanguage set, a
// language without templates is surfaced as UnsupportedLanguage instead of
// silently degrading to the default language.
func NewComposer(logger *zap.Logger, strictLanguage bool) *Composer {
	index := make(map[templateKey]responseTemplate, len(responseTemplates))
	for _, tmpl := range responseTemplates {
		index[templateKey{tmpl.label, tmpl.language}] = tmpl
	}
	return &Composer{
		logger:          logger,
		strictLanguage:  strictLanguage,
		defaultLanguage: DefaultLanguage,
		index:           index,
	}
}

// Compose builds the suggested reply for a classified document.
func (c *Composer) Compose(result *ClassificationResult, features FeatureSet, doc *EmailDocument) (*SuggestedResponse, error) {
	language := features.Language
	tmpl, ok := c.index[templateKey{result.Label, language}]
	if !ok {
		if c.strictLanguage {
			return nil, NewUnsupportedLanguage(language)
		}
		c.logger.Debug("No response template for language, degrading to default",
			zap.String("language", language),
			zap.String("default", c.defaultLanguage))
		language = c.defaultLanguage
		tmpl = c.index[templateKey{result.Label, language}]
	}

	ticket := ""
	if len(features.TicketRefs) > 0 {
		ticket = features.TicketRefs[0]
	}

	body := tmpl.body
	if ticket != "" {
		body = strings.ReplaceAll(tmpl.ticketBody, "{ticket}", ticket)
	}

	return &SuggestedResponse{
		Subject:  c.subject(result.Label, doc, ticket),
		Body:     body,
		Tone:     tmpl.tone,
		Language: language,
	}, nil
}

// subject applies the reply-subject policy: PRODUCTIVE replies quote the
// original subject (or a body excerpt), UNPRODUCTIVE replies have no subject
// unless a ticket reference must stay traceable.
func (c *Composer) subject(label Label, doc *EmailDocument, ticket string) string {
	if label != LabelProductive {
		if ticket != "" {
			return "Re: " + ticket
		}
		return ""
	}

	base := doc.Subject
	if base == "" {
		base = excerpt(doc.Text, subjectExcerptLimit)
	}
	subject := strings.TrimSpace("Re: " + base)
	if ticket != "" && !strings.Contains(subject, ticket) {
		// Keep the ticket reference visible in the thread subject.
		subject += " [" + ticket + "]"
	}
	return subject
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		runes = runes[:limit]
	}
	return strings.TrimSpace(string(runes))
}
