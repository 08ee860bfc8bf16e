package gemini

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Fixed preamble seeded into every chat. No prior conversation turns are
// threaded through; each completion call is stateless.
const (
	preambleUser  = "Você é um assistente de comunidade. Mantenha as respostas concisas e amigáveis."
	preambleModel = "Entendi! Estou aqui para ajudar a comunidade de forma amigável e objetiva."
)

// Client wraps the generative language service used to produce AI replies in
// community chats.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a completion client. apiKey should be loaded from the
// environment, never hardcoded.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		log.Println("Warning: Gemini API key is empty.")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Complete sends one user message seeded with the fixed preamble pair and
// returns the single completion text.
func (c *Client) Complete(ctx context.Context, message string) (string, error) {
	model := c.client.GenerativeModel(c.model)

	chat := model.StartChat()
	chat.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(preambleUser)}},
		{Role: "model", Parts: []genai.Part{genai.Text(preambleModel)}},
	}

	resp, err := chat.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("completion response contained no text")
	}
	return text, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}
