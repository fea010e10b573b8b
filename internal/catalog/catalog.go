// Package catalog holds the topic and session catalog shown by the
// front-end, with per-language titles.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/coai/internal/domain"
)

// ErrUnknownTopic indicates a topic id not present in the catalog.
var ErrUnknownTopic = errors.New("unknown topic")

//go:embed catalog.json
var embeddedCatalog []byte

// Session is one coaching session within a topic.
type Session struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// topicTranslation carries the localized strings for one topic.
type topicTranslation struct {
	Title      string            `json:"title"`
	Intro      string            `json:"intro"`
	Objectives []string          `json:"objectives"`
	Sessions   map[string]string `json:"sessions"`
}

// Topic is one coaching topic with its ordered sessions.
type Topic struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Intro      string    `json:"intro"`
	Objectives []string  `json:"objectives"`
	Sessions   []Session `json:"sessions"`

	Translations map[string]topicTranslation `json:"translations,omitempty"`
}

type catalogFile struct {
	Topics []Topic `json:"topics"`
}

// Catalog provides localized lookup over the topic list.
type Catalog struct {
	topics []Topic
	byID   map[string]int
}

// Load parses and validates a catalog document.
func Load(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if err := validate(file.Topics); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	byID := make(map[string]int, len(file.Topics))
	for i, topic := range file.Topics {
		byID[topic.ID] = i
	}
	return &Catalog{topics: file.Topics, byID: byID}, nil
}

// Default returns the embedded product catalog.
func Default() (*Catalog, error) {
	return Load(embeddedCatalog)
}

func validate(topics []Topic) error {
	seenTopics := map[string]bool{}
	for _, topic := range topics {
		if topic.ID == "" {
			return fmt.Errorf("topic with empty id")
		}
		if topic.ID == domain.GenericTopicID {
			return fmt.Errorf("topic id %q is reserved", topic.ID)
		}
		if seenTopics[topic.ID] {
			return fmt.Errorf("duplicate topic id %q", topic.ID)
		}
		seenTopics[topic.ID] = true

		if topic.Title == "" {
			return fmt.Errorf("topic %q: empty title", topic.ID)
		}
		if len(topic.Sessions) == 0 {
			return fmt.Errorf("topic %q: no sessions", topic.ID)
		}
		seenSessions := map[string]bool{}
		for _, session := range topic.Sessions {
			if session.ID == "" || session.Title == "" {
				return fmt.Errorf("topic %q: session with empty id or title", topic.ID)
			}
			if seenSessions[session.ID] {
				return fmt.Errorf("topic %q: duplicate session id %q", topic.ID, session.ID)
			}
			seenSessions[session.ID] = true
		}
	}
	return nil
}

// Topics returns all topics localized for the given language.
func (c *Catalog) Topics(lang domain.Language) []Topic {
	out := make([]Topic, len(c.topics))
	for i, topic := range c.topics {
		out[i] = localize(topic, lang)
	}
	return out
}

// Topic returns one localized topic.
func (c *Catalog) Topic(id string, lang domain.Language) (Topic, error) {
	i, ok := c.byID[id]
	if !ok {
		return Topic{}, fmt.Errorf("%w: %s", ErrUnknownTopic, id)
	}
	return localize(c.topics[i], lang), nil
}

// SessionTitle returns the localized display title for a session key,
// or empty strings when the key is not in the catalog (the generic
// session, for instance, has no catalog entry).
func (c *Catalog) SessionTitle(key domain.SessionKey, lang domain.Language) (sessionTitle, topicTitle string) {
	i, ok := c.byID[key.TopicID]
	if !ok {
		return "", ""
	}
	topic := localize(c.topics[i], lang)
	for _, session := range topic.Sessions {
		if session.ID == key.SessionID {
			return session.Title, topic.Title
		}
	}
	return "", ""
}

// localize applies a topic's translation table for lang, falling back
// to the English base strings field by field.
func localize(topic Topic, lang domain.Language) Topic {
	tr, ok := topic.Translations[string(lang)]
	if !ok {
		topic.Translations = nil
		return topic
	}

	if tr.Title != "" {
		topic.Title = tr.Title
	}
	if tr.Intro != "" {
		topic.Intro = tr.Intro
	}
	if len(tr.Objectives) > 0 {
		topic.Objectives = tr.Objectives
	}
	sessions := make([]Session, len(topic.Sessions))
	for i, session := range topic.Sessions {
		if title, ok := tr.Sessions[session.ID]; ok && title != "" {
			session.Title = title
		}
		sessions[i] = session
	}
	topic.Sessions = sessions
	topic.Translations = nil
	return topic
}
