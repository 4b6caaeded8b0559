// Package assistant is the tool surface handed to the dialogue runtime.
// Every operation returns plain text ready to be spoken or sent to the user;
// failures are converted to user-facing sentences here and never propagate.
package assistant

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/triotech/friday/internal/conversation"
	"github.com/triotech/friday/internal/intent"
	"github.com/triotech/friday/internal/knowledge"
	"github.com/triotech/friday/internal/lead"
)

// User-facing rejection and apology messages for lead capture.
const (
	MsgMissingFields = "Please provide all the required details: your name, email, company, and what you are interested in."
	MsgInvalidEmail  = "Please provide a valid email address."
	MsgSaveFailed    = "Sorry, something went wrong while saving your details. Please try again."
)

// LeadParams are the dialogue-extracted slots for a new lead.
type LeadParams struct {
	Name     string
	Email    string
	Company  string
	Interest string
	Phone    string
	JobTitle string
	Budget   string
	Timeline string
}

// Toolset bundles the decision layer behind the four tools the dialogue
// runtime calls, plus the per-turn logging hooks.
type Toolset struct {
	Engine *knowledge.Engine
	Leads  *lead.Store
	Log    *conversation.Log
}

// QueryKnowledge answers a free-text product/FAQ question from the catalog.
func (t *Toolset) QueryKnowledge(query string) string {
	return t.Engine.Query(query)
}

// ClassifyIntent reports whether an utterance signals a sales opportunity,
// with guidance for the dialogue policy.
func (t *Toolset) ClassifyIntent(message string) string {
	return intent.Classify(message).String()
}

// CreateLead validates the extracted slots and persists a qualified lead.
// The returned string is always user-facing: a confirmation on success, a
// polite request to resupply data on validation failure, an apology when
// persistence fails.
func (t *Toolset) CreateLead(p LeadParams) string {
	l := lead.Lead{
		Name:     p.Name,
		Email:    p.Email,
		Company:  p.Company,
		Interest: p.Interest,
		Phone:    p.Phone,
		JobTitle: p.JobTitle,
		Budget:   p.Budget,
		Timeline: p.Timeline,
	}
	l.Normalize()

	if !lead.Valid(l) {
		return MsgMissingFields
	}
	if !lead.ValidEmail(l.Email) {
		return MsgInvalidEmail
	}

	if _, err := t.Leads.Save(l); err != nil {
		slog.Error("could not save lead", "company", l.Company, "error", err)
		return MsgSaveFailed
	}

	return fmt.Sprintf("Thank you %s! Your details have been saved. Our sales team will reach out to %s about %s shortly.",
		l.Name, l.Company, l.Interest)
}

// RecordUser logs a user turn. Channel defaults to text.
func (t *Toolset) RecordUser(content, channel string) {
	t.record(conversation.RoleUser, content, channel)
}

// RecordAgent logs an agent turn. Channel defaults to text.
func (t *Toolset) RecordAgent(content, channel string) {
	t.record(conversation.RoleAgent, content, channel)
}

// record appends one turn to the session log. Logging must never break the
// conversation, so failures only reach the operator log.
func (t *Toolset) record(role, content, channel string) {
	if t.Log == nil {
		return
	}
	if strings.TrimSpace(channel) == "" {
		channel = conversation.ChannelText
	}
	e := conversation.Entry{Role: role, Content: content, Channel: channel}
	if err := t.Log.Append(e); err != nil {
		slog.Error("could not record conversation turn", "role", role, "error", err)
	}
}
