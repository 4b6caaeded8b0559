package knowledge

import (
	"fmt"
	"strings"
)

// Fixed replies for queries the catalog cannot answer. These are part of the
// tool contract: the dialogue runtime speaks them verbatim.
const (
	FallbackAnswer   = "Sorry, I could not find any information about that. Would you like me to connect you with our sales team?"
	NoProductsAnswer = "Sorry, the product list is not available right now."
)

// differentiatorPhrases trigger the differentiator summary. Matching is
// plain substring, same as everything else in this engine.
var differentiatorPhrases = []string{"why choose", "differentiator", "why triotech"}

// Engine answers free-text queries from a static catalog using deliberately
// simple substring heuristics. There is no stemming, ranking, or fuzzy
// matching: first match in catalog order wins, and a query is lower-cased
// exactly once. Keep it that way — the dialogue prompts are tuned against
// this exact behavior.
type Engine struct {
	catalog Catalog
}

// NewEngine creates an Engine over a loaded catalog.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// Query returns the best catalog answer for the query text, in priority
// order: product name match, FAQ keyword match, differentiator intent,
// product listing, fixed fallback. Never fails; an empty query falls through
// to the fallback.
func (e *Engine) Query(query string) string {
	q := strings.ToLower(query)

	// Product lookup: product name as a substring of the query.
	for _, p := range e.catalog.Products {
		if p.Name != "" && strings.Contains(q, strings.ToLower(p.Name)) {
			return fmt.Sprintf("%s: %s (Target: %s)", p.Name, p.Desc, p.Target)
		}
	}

	// FAQ lookup: any significant word (>3 chars) of a question occurring in
	// the query.
	for _, faq := range e.catalog.FAQs {
		for _, w := range strings.Fields(strings.ToLower(faq.Question)) {
			if len(w) > 3 && strings.Contains(q, w) {
				return fmt.Sprintf("Q: %s → A: %s", faq.Question, faq.Answer)
			}
		}
	}

	for _, phrase := range differentiatorPhrases {
		if strings.Contains(q, phrase) {
			return "Key Differentiators: " + strings.Join(e.catalog.Differentiators, ", ")
		}
	}

	if strings.Contains(q, "list") && strings.Contains(q, "product") {
		if len(e.catalog.Products) == 0 {
			return NoProductsAnswer
		}
		names := make([]string, len(e.catalog.Products))
		for i, p := range e.catalog.Products {
			names[i] = p.Name
		}
		return "Products: " + strings.Join(names, ", ")
	}

	return FallbackAnswer
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}
