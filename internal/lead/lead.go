// Package lead holds the qualified-lead record, its validation rules, and the
// append-only file store that persists one JSON file per lead.
package lead

import "strings"

// DefaultSource labels leads captured by this assistant.
const DefaultSource = "Friday AI Assistant"

// StatusNew is the status every freshly captured lead gets. This layer never
// mutates it afterwards; downstream CRM tooling owns the lifecycle.
const StatusNew = "new"

// Lead is a prospective customer's contact and interest record, as persisted.
// Required fields are Name, Email, Company, and Interest; the rest default to
// empty strings.
type Lead struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Interest  string `json:"interest"`
	Phone     string `json:"phone"`
	JobTitle  string `json:"job_title"`
	Budget    string `json:"budget"`
	Timeline  string `json:"timeline"`
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Status    string `json:"status"`
}

// Normalize trims all user-supplied fields and lower-cases the email.
func (l *Lead) Normalize() {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Company = strings.TrimSpace(l.Company)
	l.Interest = strings.TrimSpace(l.Interest)
	l.Phone = strings.TrimSpace(l.Phone)
	l.JobTitle = strings.TrimSpace(l.JobTitle)
	l.Budget = strings.TrimSpace(l.Budget)
	l.Timeline = strings.TrimSpace(l.Timeline)
}
