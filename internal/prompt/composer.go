package prompt

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/coai/internal/domain"
)

// Composer builds the per-request system prompt from the style template,
// the resolved session prompt, and a language directive. The result is
// recomputed on every request and never cached, so template edits take
// effect immediately.
type Composer struct {
	store *Store
}

// NewComposer creates a Composer over the given store.
func NewComposer(store *Store) *Composer {
	return &Composer{store: store}
}

// Compose returns the system prompt for the session, plus the raw
// session prompt text (the fallback generator extracts guidance from it).
// Returns ErrNotFound when the session prompt resource is missing.
func (c *Composer) Compose(key domain.SessionKey, lang domain.Language) (systemPrompt, sessionPrompt string, err error) {
	sessionPrompt, err = c.store.Session(key)
	if err != nil {
		return "", "", err
	}
	style := c.store.Style()

	directive := fmt.Sprintf("Write in %s unless the user asks differently.", lang.PromptLabel())
	systemPrompt = strings.TrimSpace(style) + "\n\n" + strings.TrimSpace(sessionPrompt) + "\n\n" + directive
	return systemPrompt, sessionPrompt, nil
}
