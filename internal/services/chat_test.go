package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gojek/heimdall/v7/hystrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"charmtap/internal/models"
)

func newTestChat(url string, command string) *ServiceChat {
	return &ServiceChat{
		completionURL: url,
		httpClient: hystrix.NewClient(
			hystrix.WithHTTPTimeout(2*time.Second),
			hystrix.WithCommandName(command),
		),
	}
}

func TestHistoryLinesOldestFirst(t *testing.T) {
	assert.Empty(t, historyLines(nil))

	// datastore order: newest first
	history := []models.ChatMessage{
		{Role: models.ChatRoleCharacter, Text: "hi there"},
		{Role: models.ChatRoleUser, Text: "hello"},
	}

	assert.Equal(t, []string{"user: hello", "character: hi there"}, historyLines(history))
}

func TestCompleteReplyExcludesCurrentMessage(t *testing.T) {
	var got completionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(completionResponse{Reply: "of course!"})
	}))
	defer server.Close()

	service := newTestChat(server.URL, "chat-completion-history")
	character := &models.Character{Slug: "luna", Persona: "playful", FallbackReply: "brb"}
	history := []models.ChatMessage{
		{Role: models.ChatRoleCharacter, Text: "hi there"},
		{Role: models.ChatRoleUser, Text: "hello"},
	}

	reply := service.completeReply(character, history, "send a beach pic?")

	assert.Equal(t, "of course!", reply)
	assert.Equal(t, "playful", got.Persona)
	assert.Equal(t, "send a beach pic?", got.Message)
	// the message being answered rides in Message only, never in History
	assert.Equal(t, []string{"user: hello", "character: hi there"}, got.History)
}

func TestCompleteReplyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	service := newTestChat(server.URL, "chat-completion-fallback")
	character := &models.Character{Slug: "luna", FallbackReply: "brb"}

	assert.Equal(t, "brb", service.completeReply(character, nil, "hello"))

	// no backend configured at all
	service = newTestChat("", "chat-completion-unset")
	assert.Equal(t, "brb", service.completeReply(character, nil, "hello"))
}
