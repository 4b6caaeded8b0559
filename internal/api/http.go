// Package api exposes the decision layer to the dialogue runtime over two
// transports: a local HTTP API and an MCP tool server. Both route everything
// through the assistant toolset so failures stay user-facing text.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/triotech/friday/internal/assistant"
	"github.com/triotech/friday/internal/conversation"
	"github.com/triotech/friday/internal/intent"
)

const maxBodySize = 1 << 20 // 1MB

// AppDeps holds dependencies for the HTTP handler.
type AppDeps struct {
	Tools *assistant.Toolset
	Token string // optional; empty disables bearer auth
}

// NewAppHandler builds the management/tool router.
func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))
		r.Post("/query", handleQuery(deps))
		r.Post("/classify", handleClassify(deps))
		r.Post("/leads", handleCreateLead(deps))
		r.Post("/turns", handleRecordTurn(deps))
		r.Get("/conversation", handleGetConversation(deps))
	})

	return r
}

type queryRequest struct {
	Query string `json:"query"`
}

func handleQuery(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if !decodeBody(w, r, &req) {
			return
		}

		deps.Tools.RecordUser(req.Query, conversation.ChannelText)
		answer := deps.Tools.QueryKnowledge(req.Query)
		deps.Tools.RecordAgent(answer, conversation.ChannelText)

		writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
	}
}

type classifyRequest struct {
	Message string `json:"message"`
}

func handleClassify(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if !decodeBody(w, r, &req) {
			return
		}

		deps.Tools.RecordUser(req.Message, conversation.ChannelText)
		res := intent.Classify(req.Message)
		deps.Tools.RecordAgent(res.String(), conversation.ChannelText)

		writeJSON(w, http.StatusOK, map[string]string{
			"verdict":  string(res.Verdict),
			"guidance": res.Guidance,
		})
	}
}

type leadRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company"`
	Interest string `json:"interest"`
	Phone    string `json:"phone"`
	JobTitle string `json:"job_title"`
	Budget   string `json:"budget"`
	Timeline string `json:"timeline"`
}

func handleCreateLead(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req leadRequest
		if !decodeBody(w, r, &req) {
			return
		}

		deps.Tools.RecordUser(fmt.Sprintf("Submitted lead details: name=%s, email=%s, company=%s, interest=%s",
			req.Name, req.Email, req.Company, req.Interest), conversation.ChannelText)
		msg := deps.Tools.CreateLead(assistant.LeadParams{
			Name:     req.Name,
			Email:    req.Email,
			Company:  req.Company,
			Interest: req.Interest,
			Phone:    req.Phone,
			JobTitle: req.JobTitle,
			Budget:   req.Budget,
			Timeline: req.Timeline,
		})
		deps.Tools.RecordAgent(msg, conversation.ChannelText)

		writeJSON(w, http.StatusOK, map[string]string{"message": msg})
	}
}

type turnRequest struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Channel string `json:"channel"`
}

// handleRecordTurn is the explicit logging hook for the external dialogue
// runtime: it posts each spoken turn here so the session log stays complete
// even for exchanges that never touch a tool.
func handleRecordTurn(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req turnRequest
		if !decodeBody(w, r, &req) {
			return
		}

		switch req.Role {
		case conversation.RoleUser:
			deps.Tools.RecordUser(req.Content, req.Channel)
		case conversation.RoleAgent:
			deps.Tools.RecordAgent(req.Content, req.Channel)
		default:
			httpError(w, http.StatusBadRequest, "invalid_request_error", "role must be %q or %q", conversation.RoleUser, conversation.RoleAgent)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
	}
}

func handleGetConversation(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := deps.Tools.Log
		path, err := log.Path()
		if err != nil {
			httpError(w, http.StatusServiceUnavailable, "api_error", "no active session log")
			return
		}
		entries, err := log.Entries()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "reading session log: %v", err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"path":         path,
			"conversation": entries,
		})
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
