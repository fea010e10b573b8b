// Package coaching orchestrates one chat turn: prompt assembly, the
// completion call, and deterministic offline fallback.
package coaching

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/coai/internal/domain"
	"github.com/alexanderramin/coai/internal/llm"
	"github.com/alexanderramin/coai/internal/prompt"
)

// startGreeting opens every session on behalf of the user so the first
// visible message is always the assistant's.
const startGreeting = "Hello, I'm ready to start this session."

// Reply is the result of one chat turn. Fallback marks text that was
// generated locally because the provider yielded nothing.
type Reply struct {
	Message  string
	Fallback bool
}

// Service drives the chat endpoint. A nil client means no provider
// credential was configured: every reply is generated offline without
// attempting a network call.
type Service struct {
	composer *prompt.Composer
	client   llm.Client
	logger   *slog.Logger
}

// NewService creates a coaching Service. client may be nil.
func NewService(composer *prompt.Composer, client llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{composer: composer, client: client, logger: logger}
}

// Start opens a session and returns the assistant's opening message.
// Returns prompt.ErrNotFound when the session prompt resource does not
// exist; that is the only error this service surfaces.
func (s *Service) Start(ctx context.Context, key domain.SessionKey, lang domain.Language) (*Reply, error) {
	systemPrompt, sessionPrompt, err := s.composer.Compose(key, lang)
	if err != nil {
		return nil, err
	}

	text := s.complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserTurn:     startGreeting,
	})
	if text == "" {
		return &Reply{Message: Fallback(sessionPrompt, lang, ModeStart), Fallback: true}, nil
	}
	return &Reply{Message: text}, nil
}

// Message continues a session. history is the full conversation
// including the newest user turn, in chronological order.
func (s *Service) Message(ctx context.Context, key domain.SessionKey, lang domain.Language, history []domain.Message) (*Reply, error) {
	systemPrompt, sessionPrompt, err := s.composer.Compose(key, lang)
	if err != nil {
		return nil, err
	}

	text := s.complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		History:      history,
	})
	if text == "" {
		return &Reply{Message: Fallback(sessionPrompt, lang, ModeFollowUp), Fallback: true}, nil
	}
	return &Reply{Message: text}, nil
}

// complete runs the gateway call and absorbs every failure into an
// empty result. Provider errors never propagate past this point; the
// caller turns "" into fallback text.
func (s *Service) complete(ctx context.Context, req llm.CompletionRequest) string {
	if s.client == nil {
		return ""
	}
	resp, err := s.client.Complete(ctx, req)
	if err != nil {
		s.logger.Info("completion unavailable, using offline fallback", "error_class", string(llm.Classify(err)))
		return ""
	}
	return resp.Text
}
