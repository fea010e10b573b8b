package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/coai/internal/coaching"
	"github.com/alexanderramin/coai/internal/domain"
)

// ErrUnauthorized indicates the server rejected the request for lack of
// a valid credential. The chat view disables itself when it sees this.
var ErrUnauthorized = errors.New("not signed in")

// clientTimeout bounds one chat round trip end to end, covering the
// server's own retry budget with room to spare.
const clientTimeout = 90 * time.Second

// ChatBackend is the transport the chat view talks through.
type ChatBackend interface {
	Start(ctx context.Context, key domain.SessionKey, lang domain.Language) (*coaching.Reply, error)
	Message(ctx context.Context, key domain.SessionKey, lang domain.Language, history []domain.Message) (*coaching.Reply, error)
}

// apiClient is the HTTP ChatBackend for a running coai server.
type apiClient struct {
	base  string
	token string
	http  *http.Client
}

// NewAPIClient creates a ChatBackend for the server at base, e.g.
// "http://localhost:8080". token may be empty.
func NewAPIClient(base, token string) ChatBackend {
	return &apiClient{
		base:  strings.TrimRight(base, "/"),
		token: token,
		http:  &http.Client{Timeout: clientTimeout},
	}
}

type wireRequest struct {
	TopicID   string           `json:"topicId"`
	SessionID string           `json:"sessionId"`
	Action    string           `json:"action"`
	Message   string           `json:"message,omitempty"`
	Messages  []domain.Message `json:"messages,omitempty"`
	Language  string           `json:"language,omitempty"`
}

type wireResponse struct {
	Message  string `json:"message"`
	Fallback bool   `json:"fallback"`
	Error    string `json:"error"`
}

func (c *apiClient) Start(ctx context.Context, key domain.SessionKey, lang domain.Language) (*coaching.Reply, error) {
	return c.post(ctx, wireRequest{
		TopicID:   key.TopicID,
		SessionID: key.SessionID,
		Action:    "start",
		Language:  string(lang),
	})
}

func (c *apiClient) Message(ctx context.Context, key domain.SessionKey, lang domain.Language, history []domain.Message) (*coaching.Reply, error) {
	var last string
	if len(history) > 0 {
		last = history[len(history)-1].Content
	}
	return c.post(ctx, wireRequest{
		TopicID:   key.TopicID,
		SessionID: key.SessionID,
		Action:    "message",
		Message:   last,
		Messages:  history,
		Language:  string(lang),
	})
}

func (c *apiClient) post(ctx context.Context, body wireRequest) (*coaching.Reply, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling server: %w", err)
	}
	defer resp.Body.Close()

	var out wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, out.Error)
	}

	return &coaching.Reply{Message: out.Message, Fallback: out.Fallback}, nil
}
