package prompt

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coai/internal/domain"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"general-coaching.txt":        {Data: []byte("generic prompt")},
		"leadership/ideal-leader.txt": {Data: []byte("leadership prompt")},
		"style/coaching.txt":          {Data: []byte("style text")},
	}
}

func TestStore_SessionByKey(t *testing.T) {
	s := NewStore(testFS(), nil)

	text, err := s.Session(domain.SessionKey{TopicID: "leadership", SessionID: "ideal-leader"})
	require.NoError(t, err)
	assert.Equal(t, "leadership prompt", text)
}

func TestStore_GenericSentinel(t *testing.T) {
	s := NewStore(testFS(), nil)

	// The generic topic ignores the session id entirely.
	text, err := s.Session(domain.SessionKey{TopicID: domain.GenericTopicID, SessionID: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "generic prompt", text)
}

func TestStore_SessionNotFound(t *testing.T) {
	s := NewStore(testFS(), nil)

	_, err := s.Session(domain.SessionKey{TopicID: "leadership", SessionID: "missing"})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = s.Session(domain.SessionKey{TopicID: "missing-topic", SessionID: "x"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_MissingStyleIsEmpty(t *testing.T) {
	fsys := fstest.MapFS{
		"general-coaching.txt": {Data: []byte("generic prompt")},
	}
	s := NewStore(fsys, nil)

	assert.Equal(t, "", s.Style())
}

func TestDefault_EmbeddedPromptsResolve(t *testing.T) {
	s := Default(nil)

	text, err := s.Session(domain.SessionKey{TopicID: domain.GenericTopicID})
	require.NoError(t, err)
	assert.NotEmpty(t, text)

	text, err = s.Session(domain.SessionKey{TopicID: "feedback", SessionID: "learn-sbi-model"})
	require.NoError(t, err)
	assert.Contains(t, text, "SBI")

	assert.NotEmpty(t, s.Style())
}
