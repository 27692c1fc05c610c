// Package lexicon holds the curated keyword categories that drive heuristic
// classification. Lists mix Portuguese and English because the service is
// primarily aimed at Brazilian support inboxes that receive both.
package lexicon

import (
	"regexp"
	"strings"
)

// Category names reported by Match.
const (
	Request     = "request"
	ErrorReport = "error-report"
	Question    = "question"
	Gratitude   = "gratitude"
	Greeting    = "closing-pleasantry"
	Promotion   = "promotion"
)

type category struct {
	name     string
	keywords []string
}

var categories = []category{
	{Request, []string{
		"solicito", "preciso", "gostaria", "peço", "por favor", "quero",
		"favor ", "retorno", "request", "please", "need", "could you",
	}},
	{ErrorReport, []string{
		"erro", "problema", "bug", "falha", "não funciona", "não consigo",
		"suporte", "ajuda", "urgente", "crítico", "login", "senha", "acesso",
		"sistema", "ticket", "chamado", "error", "issue", "broken", "crash",
	}},
	{Question, []string{
		"dúvida", "pergunta", "como fazer", "quando", "quanto", "prazo",
		"status", "andamento", "informação", "question", "how do i", "deadline",
	}},
	{Gratitude, []string{
		"obrigado", "obrigada", "agradeço", "valeu", "muito obrigado",
		"parabéns", "thanks", "thank you", "appreciated",
	}},
	{Greeting, []string{
		"bom dia", "boa tarde", "boa noite", "olá", "tudo bem", "como vai",
		"feliz natal", "feliz aniversário", "abraços", "atenciosamente",
		"happy holidays", "merry christmas", "best regards",
	}},
	{Promotion, []string{
		"promoção", "oferta", "desconto", "cupom", "newsletter",
		"inscreva-se", "clique aqui", "unsubscribe", "special offer",
	}},
}

// TicketPattern matches ticket references such as "#12345".
var TicketPattern = regexp.MustCompile(`#\d{3,}`)

// Match returns the names of every category with at least one keyword present
// in text. Matching is case-insensitive substring membership; each category
// is reported at most once.
func Match(text string) []string {
	lowered := strings.ToLower(text)
	var matched []string
	for _, cat := range categories {
		for _, kw := range cat.keywords {
			if strings.Contains(lowered, kw) {
				matched = append(matched, cat.name)
				break
			}
		}
	}
	return matched
}

// Tickets returns every ticket reference found in text, in order of
// appearance.
func Tickets(text string) []string {
	return TicketPattern.FindAllString(text, -1)
}
