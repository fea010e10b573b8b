// Package llm wraps the hosted completion provider behind a small
// client with a classified, bounded retry policy.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/coai/internal/domain"
)

// CompletionRequest holds the parameters for one completion call.
// Messages are sent system prompt first, then prior turns, then the new
// user turn when present.
type CompletionRequest struct {
	SystemPrompt string
	History      []domain.Message
	UserTurn     string // empty means no new turn (session start)
}

// CompletionResponse holds the result of a successful completion call.
type CompletionResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// Client provides access to the completion provider.
type Client interface {
	// Complete sends the message list and returns the generated text.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// openaiClient implements Client against an OpenAI-compatible
// chat-completions API.
type openaiClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
	sleep    func(time.Duration)
}

// NewOpenAIClient creates a Client for the configured provider endpoint.
func NewOpenAIClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &openaiClient{
		cfg:      cfg,
		http:     &http.Client{},
		observer: observer,
		sleep:    time.Sleep,
	}
}

// chatRequest is the JSON body sent to POST /chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the JSON body returned by POST /chat/completions.
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *openaiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	start := time.Now()

	body := chatRequest{
		Model:       c.cfg.Model,
		Messages:    buildMessages(req),
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Stream:      false,
	}

	// Explicit bounded loop rather than retry-via-recursion, so the
	// attempt bound is independent of call-stack depth.
	attempts := 1 + c.cfg.MaxRetries
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			c.sleep(c.cfg.RetryBaseDelay * time.Duration(attempt))
		}

		resp, err := c.doRequest(ctx, body)
		if err == nil {
			resp.LatencyMs = time.Since(start).Milliseconds()
			c.observer.OnCallComplete(CallEvent{
				Model:     c.cfg.Model,
				Attempts:  attempt + 1,
				LatencyMs: resp.LatencyMs,
				Success:   true,
			})
			return resp, nil
		}
		lastErr = err

		class := Classify(err)
		c.observer.OnAttemptFailure(AttemptFailure{
			Model:      c.cfg.Model,
			Attempt:    attempt,
			ErrorClass: class,
			Err:        err,
		})

		if ctx.Err() != nil || !class.Retryable() {
			break
		}
	}

	class := Classify(lastErr)
	c.observer.OnCallComplete(CallEvent{
		Model:      c.cfg.Model,
		Attempts:   attempts,
		LatencyMs:  time.Since(start).Milliseconds(),
		Success:    false,
		ErrorClass: class,
	})

	if class.Retryable() {
		return nil, fmt.Errorf("%w: %v", ErrRetryExhausted, lastErr)
	}
	return nil, lastErr
}

func (c *openaiClient) doRequest(ctx context.Context, body chatRequest) (*CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimRight(c.cfg.Endpoint, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &statusError{code: httpResp.StatusCode, body: strings.TrimSpace(string(respBody))}
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, ErrEmptyCompletion
	}

	return &CompletionResponse{
		Text:  resp.Choices[0].Message.Content,
		Model: resp.Model,
	}, nil
}

func buildMessages(req CompletionRequest) []chatMessage {
	msgs := make([]chatMessage, 0, len(req.History)+2)
	msgs = append(msgs, chatMessage{Role: "system", Content: req.SystemPrompt})
	for _, m := range req.History {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	if req.UserTurn != "" {
		msgs = append(msgs, chatMessage{Role: "user", Content: req.UserTurn})
	}
	return msgs
}
