// Package mock provides a scripted LLM client for offline runs and tests.
// Responses are returned in order; once the script is exhausted the client
// answers with the termination marker so the control loop winds down instead
// of spinning.
package mock

import (
	"context"
	"sync"

	ai "github.com/spetersoncode/webagent"
	"github.com/spetersoncode/webagent/protocol"
)

// Client replays a fixed list of responses. It implements ai.Client.
type Client struct {
	mu        sync.Mutex
	responses []string
	next      int
	requests  [][]ai.Message
}

// New creates a mock client with the given scripted responses.
func New(responses ...string) *Client {
	return &Client{responses: responses}
}

// Generate returns the next scripted response, or the termination marker
// when the script is exhausted.
func (c *Client) Generate(ctx context.Context, messages []ai.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := make([]ai.Message, len(messages))
	copy(snapshot, messages)
	c.requests = append(c.requests, snapshot)

	if c.next >= len(c.responses) {
		return protocol.TerminateMark, nil
	}
	resp := c.responses[c.next]
	c.next++
	return resp, nil
}

// Requests returns the message lists received so far, in call order.
func (c *Client) Requests() [][]ai.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([][]ai.Message, len(c.requests))
	copy(out, c.requests)
	return out
}

// Calls returns how many times Generate has been invoked.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.requests)
}
