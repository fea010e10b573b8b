package prompt

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coai/internal/domain"
)

func TestCompose_Layout(t *testing.T) {
	fsys := fstest.MapFS{
		"general-coaching.txt": {Data: []byte("\nsession body\n\n")},
		"style/coaching.txt":   {Data: []byte("style body\n")},
	}
	c := NewComposer(NewStore(fsys, nil))

	system, session, err := c.Compose(domain.SessionKey{TopicID: domain.GenericTopicID}, domain.LangEnglish)

	require.NoError(t, err)
	assert.Equal(t, "style body\n\nsession body\n\nWrite in English unless the user asks differently.", system)
	assert.Equal(t, "\nsession body\n\n", session, "raw session text kept for guidance extraction")
}

func TestCompose_LanguageLabels(t *testing.T) {
	fsys := fstest.MapFS{"general-coaching.txt": {Data: []byte("body")}}
	c := NewComposer(NewStore(fsys, nil))

	key := domain.SessionKey{TopicID: domain.GenericTopicID}

	system, _, err := c.Compose(key, domain.LangChinese)
	require.NoError(t, err)
	assert.Contains(t, system, "Write in Chinese unless the user asks differently.")

	// Unrecognized codes were already normalized to English at the
	// boundary; the composer only ever sees supported languages.
	system, _, err = c.Compose(key, domain.ParseLanguage("ko"))
	require.NoError(t, err)
	assert.Contains(t, system, "Write in English unless the user asks differently.")
}

func TestCompose_MissingStyleNonFatal(t *testing.T) {
	fsys := fstest.MapFS{"general-coaching.txt": {Data: []byte("body")}}
	c := NewComposer(NewStore(fsys, nil))

	system, _, err := c.Compose(domain.SessionKey{TopicID: domain.GenericTopicID}, domain.LangEnglish)

	require.NoError(t, err)
	assert.Equal(t, "\n\nbody\n\nWrite in English unless the user asks differently.", system)
}

func TestCompose_NotFoundPropagates(t *testing.T) {
	c := NewComposer(NewStore(fstest.MapFS{}, nil))

	_, _, err := c.Compose(domain.SessionKey{TopicID: "t", SessionID: "s"}, domain.LangEnglish)
	require.ErrorIs(t, err, ErrNotFound)
}
