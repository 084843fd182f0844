package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/study-dashboard/internal/model"
)

const (
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultMaxTokens = 1024
	apiURL           = "https://api.anthropic.com/v1/messages"
	apiVersion       = "2023-06-01"
)

// Claude is a Responder backed by the Anthropic Messages API.
type Claude struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewClaude creates a Claude responder.
func NewClaude(apiKey, modelName string, maxTokens int) *Claude {
	if modelName == "" {
		modelName = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Claude{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		endpoint:  apiURL,
		client:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Reply sends the conversation to the model and returns its text answer.
func (c *Claude) Reply(ctx context.Context, conv *ConversationContext, notes []model.Note) (model.ChatMessage, error) {
	resp, err := c.callAPI(ctx, buildSystemPrompt(notes), buildAPIMessages(conv.Messages()))
	if err != nil {
		return model.ChatMessage{}, err
	}
	return assistantText(resp.text()), nil
}

// Summarize asks the model for a short summary of the note.
func (c *Claude) Summarize(ctx context.Context, note model.Note) (string, error) {
	prompt := fmt.Sprintf("Summarize this study note in at most three sentences.\n\nTitle: %s\n\n%s",
		note.Title, note.Content)
	resp, err := c.callAPI(ctx, "You write concise summaries of study notes.", []apiMessage{
		{Role: string(model.ChatRoleUser), Content: []apiContentBlock{{Type: "text", Text: prompt}}},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.text()), nil
}

// callAPI makes a single request to the Messages API.
func (c *Claude) callAPI(ctx context.Context, system string, messages []apiMessage) (*apiResponse, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

// buildSystemPrompt describes the assistant's job and lists the user's
// notes so answers can refer to them.
func buildSystemPrompt(notes []model.Note) string {
	var sb strings.Builder

	sb.WriteString("You are a study assistant inside a learning dashboard. ")
	sb.WriteString("Help the user plan objectives, break them into tasks, ")
	sb.WriteString("and review their notes.\n\n")

	if len(notes) == 0 {
		sb.WriteString("The user has no notes yet.\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("The user has %d notes:\n", len(notes)))
		for _, n := range notes {
			sb.WriteString(fmt.Sprintf("- %s", n.Title))
			if n.HasAISummary {
				sb.WriteString(": " + n.AISummary)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("You cannot change the user's data. Keep responses concise.")
	return sb.String()
}

// buildAPIMessages converts chat history into the API message format.
// Consecutive messages from the same role are merged because the API
// requires alternating roles.
func buildAPIMessages(history []model.ChatMessage) []apiMessage {
	var messages []apiMessage
	for _, msg := range history {
		block := apiContentBlock{Type: "text", Text: msg.Content}
		if n := len(messages); n > 0 && messages[n-1].Role == string(msg.Role) {
			messages[n-1].Content = append(messages[n-1].Content, block)
			continue
		}
		messages = append(messages, apiMessage{
			Role:    string(msg.Role),
			Content: []apiContentBlock{block},
		})
	}
	return messages
}

// --- Claude API types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

// text joins the response's text blocks.
func (r *apiResponse) text() string {
	var parts []string
	for _, block := range r.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "")
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
