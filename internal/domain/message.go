package domain

import "fmt"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is a known conversation role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is a single conversation turn. The chat controller owns an
// ordered, chronological list of these for the lifetime of one session;
// they are never persisted server-side.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ValidateHistory checks that every turn in a prior-history list carries
// a known role. Malformed history is a client bug and rejected up front.
func ValidateHistory(msgs []Message) error {
	for i, m := range msgs {
		if !m.Role.Valid() {
			return fmt.Errorf("message %d: unknown role %q", i, m.Role)
		}
	}
	return nil
}
