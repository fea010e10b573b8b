// Package prompt resolves and assembles the system prompts that drive a
// coaching session.
package prompt

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/alexanderramin/coai/internal/domain"
)

// ErrNotFound indicates the session prompt resource does not exist.
// An unknown (topic, session) pair is a client or routing bug, so this
// is a terminal error for the request rather than a fallback trigger.
var ErrNotFound = errors.New("session prompt not found")

const (
	genericPromptPath = "general-coaching.txt"
	stylePromptPath   = "style/coaching.txt"
)

//go:embed prompts
var embeddedPrompts embed.FS

// Store reads prompt text resources from a file tree. Session prompts
// are keyed by (topic, session); the generic topic resolves to a single
// shared resource. One style text is shared across all sessions.
type Store struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewStore creates a Store over an arbitrary file tree.
func NewStore(fsys fs.FS, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{fsys: fsys, logger: logger}
}

// NewDirStore creates a Store over an on-disk prompts directory.
func NewDirStore(dir string, logger *slog.Logger) *Store {
	return NewStore(os.DirFS(dir), logger)
}

// Default returns a Store backed by the embedded prompt resources.
func Default(logger *slog.Logger) *Store {
	sub, err := fs.Sub(embeddedPrompts, "prompts")
	if err != nil {
		// The embed directive guarantees the subtree exists.
		panic(err)
	}
	return NewStore(sub, logger)
}

// Session returns the prompt text for the given session key.
func (s *Store) Session(key domain.SessionKey) (string, error) {
	p := genericPromptPath
	if !key.IsGeneric() {
		p = path.Join(key.TopicID, key.SessionID+".txt")
	}
	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return string(data), nil
}

// Style returns the shared style-of-coaching text. An unreadable style
// resource is non-fatal: the composer proceeds with an empty style
// section and the failure is only logged.
func (s *Store) Style() string {
	data, err := fs.ReadFile(s.fsys, stylePromptPath)
	if err != nil {
		s.logger.Warn("style prompt unreadable, composing without it", "error", err)
		return ""
	}
	return string(data)
}
