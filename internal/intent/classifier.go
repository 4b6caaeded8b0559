// Package intent classifies a single user utterance into one of four
// sales-relevance buckets using fixed keyword patterns. It is deliberately a
// pure substring matcher: the dialogue policy owns all actual understanding,
// this layer only flags what to do next.
package intent

import "strings"

// Verdict is the classification outcome for one utterance.
type Verdict string

const (
	LeadOpportunity  Verdict = "LEAD_OPPORTUNITY"
	InterestDetected Verdict = "INTEREST_DETECTED"
	CompanyMentioned Verdict = "COMPANY_MENTIONED"
	NoLeadIntent     Verdict = "NO_LEAD_INTENT"
)

// Result pairs a verdict with guidance for the calling dialogue policy.
type Result struct {
	Verdict  Verdict
	Guidance string
}

// String renders the result the way the dialogue runtime consumes it.
func (r Result) String() string {
	return string(r.Verdict) + ": " + r.Guidance
}

// Self-introduction markers.
var introPatterns = []string{
	"i am", "my name is", "this is", "i'm",
	"from", "company", "business", "organization",
}

// Business-interest markers.
var interestPatterns = []string{
	"demo", "price", "cost", "quote", "proposal",
	"solution", "service", "product", "help", "need",
}

// Company-name markers.
var companyIndicators = []string{
	"ltd", "limited", "corp", "corporation", "inc", "company",
	"pvt", "private", "llc", "solutions", "systems", "tech",
}

var guidance = map[Verdict]string{
	LeadOpportunity:  "User is introducing themselves from a company. Ask about their requirements and collect contact details.",
	InterestDetected: "User shows business interest. Ask qualifying questions and collect lead information.",
	CompanyMentioned: "User mentioned a company. Explore their needs and collect contact details.",
	NoLeadIntent:     "Continue normal conversation.",
}

// Classify runs the fixed decision table over one utterance. First matching
// rule wins: intro plus (company or interest) is a lead opportunity, interest
// alone is interest, company alone is a company mention, anything else is no
// lead intent. Matching is case-insensitive substring.
func Classify(message string) Result {
	m := strings.ToLower(message)

	hasIntro := containsAny(m, introPatterns)
	hasInterest := containsAny(m, interestPatterns)
	hasCompany := containsAny(m, companyIndicators)

	var v Verdict
	switch {
	case hasIntro && (hasCompany || hasInterest):
		v = LeadOpportunity
	case hasInterest:
		v = InterestDetected
	case hasCompany:
		v = CompanyMentioned
	default:
		v = NoLeadIntent
	}
	return Result{Verdict: v, Guidance: guidance[v]}
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
