// Package ai produces assistant replies and note summaries for the
// reference backend.
package ai

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/nhle/study-dashboard/internal/model"
)

// Responder answers chat messages and summarizes notes.
type Responder interface {
	// Reply answers the last message of conv. notes are the user's notes,
	// which a reply may reference.
	Reply(ctx context.Context, conv *ConversationContext, notes []model.Note) (model.ChatMessage, error)
	Summarize(ctx context.Context, note model.Note) (string, error)
}

// New returns a Claude responder when an API key is configured and a
// Local one otherwise.
func New(cfg model.AIConfig) Responder {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return Local{}
	}
	return NewClaude(cfg.APIKey, cfg.Model, cfg.MaxTokens)
}

const summaryLimit = 280

// Local is a deterministic Responder that needs no network access.
type Local struct{}

// Reply lists the notes when asked about notes, points at a single note
// whose title is mentioned, and otherwise acknowledges the question.
func (Local) Reply(ctx context.Context, conv *ConversationContext, notes []model.Note) (model.ChatMessage, error) {
	last, ok := conv.Last()
	if !ok {
		return model.ChatMessage{}, fmt.Errorf("empty conversation")
	}
	question := strings.ToLower(last.Content)

	for _, n := range notes {
		if n.Title != "" && strings.Contains(question, strings.ToLower(n.Title)) {
			return model.ChatMessage{
				Role:     model.ChatRoleAssistant,
				Type:     model.ChatMessageNote,
				Content:  fmt.Sprintf("Here is your note %q.", n.Title),
				Metadata: &model.ChatMessageMetadata{NoteID: n.ID, NoteTitle: n.Title},
			}, nil
		}
	}

	if strings.Contains(question, "note") {
		if len(notes) == 0 {
			return assistantText("You have no notes yet."), nil
		}
		ids := make([]string, 0, len(notes))
		for _, n := range notes {
			ids = append(ids, n.ID)
		}
		return model.ChatMessage{
			Role:     model.ChatRoleAssistant,
			Type:     model.ChatMessageNoteList,
			Content:  fmt.Sprintf("You have %d notes.", len(notes)),
			Metadata: &model.ChatMessageMetadata{NoteIDs: ids},
		}, nil
	}

	return assistantText(fmt.Sprintf("You asked: %q. Break it into small tasks and review them daily.",
		truncate(strings.TrimSpace(last.Content), 120))), nil
}

// Summarize keeps the leading sentences of the note up to a fixed length.
func (Local) Summarize(ctx context.Context, note model.Note) (string, error) {
	text := strings.Join(strings.Fields(note.Content), " ")
	if text == "" {
		text = strings.TrimSpace(note.Title)
	}
	if text == "" {
		return "", fmt.Errorf("note %s has no content to summarize", note.ID)
	}

	var summary strings.Builder
	for _, sentence := range splitSentences(text) {
		if summary.Len() > 0 && summary.Len()+1+len(sentence) > summaryLimit {
			break
		}
		if summary.Len() > 0 {
			summary.WriteByte(' ')
		}
		summary.WriteString(sentence)
	}
	return truncate(summary.String(), summaryLimit), nil
}

func assistantText(content string) model.ChatMessage {
	return model.ChatMessage{Role: model.ChatRoleAssistant, Type: model.ChatMessageText, Content: content}
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-1]) + "…"
}
