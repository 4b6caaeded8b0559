package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/triotech/friday/internal/assistant"
	"github.com/triotech/friday/internal/conversation"
	"github.com/triotech/friday/internal/knowledge"
	"github.com/triotech/friday/internal/lead"
)

func newTestHandler(t *testing.T, token string) (http.Handler, *assistant.Toolset) {
	t.Helper()

	catalog := knowledge.Catalog{
		Products: []knowledge.Product{{Name: "Convoze", Desc: "AI voice bot", Target: "Enterprises"}},
	}
	log, err := conversation.Open(filepath.Join(t.TempDir(), "conversations"))
	if err != nil {
		t.Fatal(err)
	}
	tools := &assistant.Toolset{
		Engine: knowledge.NewEngine(catalog),
		Leads:  lead.NewStore(filepath.Join(t.TempDir(), "leads"), ""),
		Log:    log,
	}
	return NewAppHandler(AppDeps{Tools: tools, Token: token}), tools
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, "")

	w := doJSON(t, h, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestQueryEndpoint(t *testing.T) {
	h, tools := newTestHandler(t, "")

	w := doJSON(t, h, "POST", "/query", map[string]string{"query": "what is Convoze?"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp["answer"], "AI voice bot") {
		t.Errorf("answer = %q, want product description", resp["answer"])
	}

	entries, err := tools.Log.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("got %d logged turns, want 2 (user + agent)", len(entries))
	}
}

func TestClassifyEndpoint(t *testing.T) {
	h, tools := newTestHandler(t, "")

	w := doJSON(t, h, "POST", "/classify", map[string]string{"message": "I need a demo"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["verdict"] != "INTEREST_DETECTED" {
		t.Errorf("verdict = %q, want INTEREST_DETECTED", resp["verdict"])
	}
	if resp["guidance"] == "" {
		t.Error("guidance is empty")
	}

	// Classify is a conversational exchange like any other: both sides of
	// it land in the session log.
	entries, err := tools.Log.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d logged turns, want 2 (user + agent)", len(entries))
	}
	if entries[0].Role != conversation.RoleUser || entries[0].Content != "I need a demo" {
		t.Errorf("first turn = %+v, want the classified message as user turn", entries[0])
	}
	if entries[1].Role != conversation.RoleAgent || !strings.HasPrefix(entries[1].Content, "INTEREST_DETECTED:") {
		t.Errorf("second turn = %+v, want the verdict as agent turn", entries[1])
	}
}

func TestLeadsEndpoint(t *testing.T) {
	h, tools := newTestHandler(t, "")

	w := doJSON(t, h, "POST", "/leads", map[string]string{
		"name": "A", "email": "a@b.com", "company": "X", "interest": "Y",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp["message"], "Thank you A!") {
		t.Errorf("message = %q, want confirmation", resp["message"])
	}

	entries, err := tools.Log.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d logged turns, want 2 (user + agent)", len(entries))
	}
	if entries[0].Role != conversation.RoleUser || !strings.Contains(entries[0].Content, "company=X") {
		t.Errorf("first turn = %+v, want the submitted details as user turn", entries[0])
	}
	if entries[1].Role != conversation.RoleAgent || !strings.Contains(entries[1].Content, "Thank you A!") {
		t.Errorf("second turn = %+v, want the confirmation as agent turn", entries[1])
	}
}

func TestLeadsEndpointRejectionIsStillOK(t *testing.T) {
	// Validation failures are part of the conversation, not HTTP errors.
	h, _ := newTestHandler(t, "")

	w := doJSON(t, h, "POST", "/leads", map[string]string{
		"name": "", "email": "a@b.com", "company": "X", "interest": "Y",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["message"] != assistant.MsgMissingFields {
		t.Errorf("message = %q, want %q", resp["message"], assistant.MsgMissingFields)
	}
}

func TestTurnsEndpoint(t *testing.T) {
	h, tools := newTestHandler(t, "")

	w := doJSON(t, h, "POST", "/turns", map[string]string{
		"role": "user", "content": "hello", "channel": "voice",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	entries, err := tools.Log.Entries()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Channel != conversation.ChannelVoice {
		t.Errorf("entries = %+v, want one voice turn", entries)
	}
}

func TestTurnsEndpointBadRole(t *testing.T) {
	h, _ := newTestHandler(t, "")

	w := doJSON(t, h, "POST", "/turns", map[string]string{"role": "narrator", "content": "hi"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestConversationEndpoint(t *testing.T) {
	h, tools := newTestHandler(t, "")
	tools.RecordUser("first", "")
	tools.RecordAgent("second", "")

	w := doJSON(t, h, "GET", "/conversation", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Path         string               `json:"path"`
		Conversation []conversation.Entry `json:"conversation"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Path == "" {
		t.Error("path is empty")
	}
	if len(resp.Conversation) != 2 || resp.Conversation[0].Content != "first" {
		t.Errorf("conversation = %+v, want both turns in order", resp.Conversation)
	}
}

func TestBearerAuth(t *testing.T) {
	h, _ := newTestHandler(t, "secret-token")

	// No token on a guarded route.
	w := doJSON(t, h, "POST", "/classify", map[string]string{"message": "hi"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status without token = %d, want 401", w.Code)
	}

	// Health stays open.
	w = doJSON(t, h, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}

	// Correct token passes.
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(map[string]string{"message": "hi"})
	req := httptest.NewRequest("POST", "/classify", &buf)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status with token = %d, want 200", rec.Code)
	}
}

func TestBadBody(t *testing.T) {
	h, _ := newTestHandler(t, "")

	req := httptest.NewRequest("POST", "/query", strings.NewReader("{not json"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}
