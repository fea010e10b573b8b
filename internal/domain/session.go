package domain

import "fmt"

// GenericTopicID is the reserved topic identifier for the topic-less
// generic coaching session. It resolves to a single shared prompt
// resource instead of a per-topic one.
const GenericTopicID = "generic-coaching"

// SessionKey identifies one coaching session. SessionID is meaningful
// only relative to TopicID.
type SessionKey struct {
	TopicID   string
	SessionID string
}

// Validate checks that the key can resolve to a prompt resource.
// The generic topic needs no session id; every other topic does.
func (k SessionKey) Validate() error {
	if k.TopicID == "" {
		return fmt.Errorf("topic id is required")
	}
	if k.TopicID != GenericTopicID && k.SessionID == "" {
		return fmt.Errorf("session id is required for topic %q", k.TopicID)
	}
	return nil
}

// IsGeneric reports whether the key refers to the shared generic session.
func (k SessionKey) IsGeneric() bool {
	return k.TopicID == GenericTopicID
}

func (k SessionKey) String() string {
	if k.IsGeneric() {
		return k.TopicID
	}
	return k.TopicID + "/" + k.SessionID
}
