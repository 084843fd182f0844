package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/study-dashboard/internal/model"
)

func userMsg(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.ChatRoleUser, Content: content, Type: model.ChatMessageText}
}

func TestConversationContextTrimKeepsFirst(t *testing.T) {
	var history []model.ChatMessage
	for i := 0; i < 25; i++ {
		history = append(history, userMsg(fmt.Sprintf("m%d", i)))
	}
	conv := NewConversationContext(history)

	msgs := conv.Messages()
	require.Len(t, msgs, maxHistory)
	assert.Equal(t, "m0", msgs[0].Content)
	assert.Equal(t, "m6", msgs[1].Content)
	last, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, "m24", last.Content)
}

func TestLocalReply(t *testing.T) {
	notes := []model.Note{
		{ID: "n1", Title: "Graph theory"},
		{ID: "n2", Title: "Dynamic programming"},
	}
	ctx := context.Background()

	tests := []struct {
		name     string
		question string
		wantType model.ChatMessageType
		check    func(t *testing.T, m model.ChatMessage)
	}{
		{
			name:     "mentions a note title",
			question: "Can you open Graph Theory?",
			wantType: model.ChatMessageNote,
			check: func(t *testing.T, m model.ChatMessage) {
				require.NotNil(t, m.Metadata)
				assert.Equal(t, "n1", m.Metadata.NoteID)
			},
		},
		{
			name:     "asks about notes",
			question: "what notes do I have",
			wantType: model.ChatMessageNoteList,
			check: func(t *testing.T, m model.ChatMessage) {
				require.NotNil(t, m.Metadata)
				assert.Equal(t, []string{"n1", "n2"}, m.Metadata.NoteIDs)
			},
		},
		{
			name:     "plain question",
			question: "How should I study?",
			wantType: model.ChatMessageText,
			check: func(t *testing.T, m model.ChatMessage) {
				assert.Contains(t, m.Content, "How should I study?")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := Local{}.Reply(ctx, NewConversationContext([]model.ChatMessage{userMsg(tt.question)}), notes)
			require.NoError(t, err)
			assert.Equal(t, model.ChatRoleAssistant, reply.Role)
			assert.Equal(t, tt.wantType, reply.Type)
			tt.check(t, reply)
		})
	}
}

func TestLocalSummarize(t *testing.T) {
	note := model.Note{ID: "n1", Content: "BFS visits nodes level by level.  DFS goes deep first! " + strings.Repeat("x", 400)}
	summary, err := Local{}.Summarize(context.Background(), note)
	require.NoError(t, err)
	assert.Equal(t, "BFS visits nodes level by level. DFS goes deep first!", summary)

	_, err = Local{}.Summarize(context.Background(), model.Note{ID: "empty"})
	assert.Error(t, err)
}

func TestClaudeSummarize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		var req apiRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, defaultModel, req.Model)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":" Short summary. "}]}`))
	}))
	defer srv.Close()

	c := NewClaude("test-key", "", 0)
	c.endpoint = srv.URL
	summary, err := c.Summarize(context.Background(), model.Note{Title: "T", Content: "Long text"})
	require.NoError(t, err)
	assert.Equal(t, "Short summary.", summary)
}

func TestClaudeAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	c := NewClaude("k", "", 0)
	c.endpoint = srv.URL
	_, err := c.Reply(context.Background(), NewConversationContext([]model.ChatMessage{userMsg("hi")}), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slow down")
}

func TestBuildAPIMessagesMergesRoles(t *testing.T) {
	msgs := buildAPIMessages([]model.ChatMessage{
		userMsg("a"), userMsg("b"),
		{Role: model.ChatRoleAssistant, Content: "c"},
	})
	require.Len(t, msgs, 2)
	assert.Len(t, msgs[0].Content, 2)
	assert.Equal(t, "assistant", msgs[1].Role)
}
