package knowledge

// Catalog is the static knowledge base the assistant can recite: products,
// FAQs, and company differentiators. Loaded once at startup, read-only after.
type Catalog struct {
	Products        []Product `json:"products"`
	FAQs            []FAQ     `json:"faqs"`
	Differentiators []string  `json:"differentiators"`
}

// Product describes one product in the catalog.
type Product struct {
	Name   string `json:"name"`
	Desc   string `json:"desc"`
	Target string `json:"target"`
}

// FAQ is a question/answer pair.
type FAQ struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}
