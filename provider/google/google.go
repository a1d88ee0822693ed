// Package google wraps the Google GenAI SDK as an ai.Client.
package google

import (
	"context"

	"google.golang.org/genai"

	ai "github.com/spetersoncode/webagent"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Client wraps the Google GenAI SDK to implement ai.Client.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Google GenAI client with the given API key. An empty key
// falls back to the GEMINI_API_KEY environment variable.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// Generate sends the conversation and returns the model's text response.
func (c *Client) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	contents, config := convertMessages(messages)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", wrapError(err)
	}

	content := ""
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			content += part.Text
		}
	}
	return content, nil
}

// convertMessages maps the conversation to GenAI contents. System messages
// become the system instruction; assistant messages use the "model" role.
func convertMessages(messages []ai.Message) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{}
	var contents []*genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case ai.RoleSystem:
			config.SystemInstruction = &genai.Content{
				Parts: []*genai.Part{{Text: msg.Text}},
			}
		case ai.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: msg.Text}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: msg.Text}},
			})
		}
	}
	return contents, config
}
