package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/coai/internal/coaching"
	"github.com/alexanderramin/coai/internal/domain"
	"github.com/alexanderramin/coai/internal/progress"
)

// stubBackend returns canned replies and records what it was asked.
type stubBackend struct {
	startReply *coaching.Reply
	startErr   error
	reply      *coaching.Reply
	replyErr   error

	startCalls   int
	messageCalls int
	lastLang     domain.Language
	lastHistory  []domain.Message
}

func (b *stubBackend) Start(_ context.Context, _ domain.SessionKey, lang domain.Language) (*coaching.Reply, error) {
	b.startCalls++
	b.lastLang = lang
	return b.startReply, b.startErr
}

func (b *stubBackend) Message(_ context.Context, _ domain.SessionKey, lang domain.Language, history []domain.Message) (*coaching.Reply, error) {
	b.messageCalls++
	b.lastLang = lang
	b.lastHistory = append([]domain.Message(nil), history...)
	return b.reply, b.replyErr
}

// stubStore records progress calls.
type stubStore struct {
	started   int
	completed int
}

func (s *stubStore) MarkStarted(context.Context, domain.SessionKey, *domain.SessionMeta) error {
	s.started++
	return nil
}

func (s *stubStore) MarkCompleted(context.Context, domain.SessionKey) error {
	s.completed++
	return nil
}

func (s *stubStore) Get(context.Context, domain.SessionKey) (domain.SessionProgress, error) {
	return domain.SessionProgress{}, nil
}

func (s *stubStore) Recent(context.Context) ([]domain.RecentSession, error) {
	return nil, nil
}

func testKey() domain.SessionKey {
	return domain.SessionKey{TopicID: "leadership", SessionID: "reflect-ideal-leader"}
}

// messagesFrom executes a command tree one level deep and collects the
// resulting messages.
func messagesFrom(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, c())
			}
		}
		return out
	}
	return []tea.Msg{msg}
}

func findStarted(t *testing.T, msgs []tea.Msg) startedMsg {
	t.Helper()
	for _, m := range msgs {
		if sm, ok := m.(startedMsg); ok {
			return sm
		}
	}
	t.Fatal("no startedMsg produced")
	return startedMsg{}
}

func findReply(t *testing.T, msgs []tea.Msg) replyMsg {
	t.Helper()
	for _, m := range msgs {
		if rm, ok := m.(replyMsg); ok {
			return rm
		}
	}
	t.Fatal("no replyMsg produced")
	return replyMsg{}
}

// startedView runs the start flow to a ready view.
func startedView(t *testing.T, backend *stubBackend, store *stubStore) chatView {
	t.Helper()
	v := newChatView(backend, storeOrNil(store), testKey(), nil, domain.LangEnglish, true)
	msgs := messagesFrom(v.Init())
	m, _ := v.Update(findStarted(t, msgs))
	return m.(chatView)
}

func storeOrNil(s *stubStore) progress.Store {
	if s == nil {
		return nil
	}
	return s
}

func TestChatView_StartPopulatesHistory(t *testing.T) {
	backend := &stubBackend{startReply: &coaching.Reply{Message: "Welcome to the session."}}
	store := &stubStore{}

	v := startedView(t, backend, store)

	assert.Equal(t, stateReady, v.state)
	require.Len(t, v.history, 1)
	assert.Equal(t, domain.RoleAssistant, v.history[0].Role)
	assert.Equal(t, "Welcome to the session.", v.history[0].Content)
	assert.Equal(t, 1, backend.startCalls)
	assert.Equal(t, 1, store.started)
	assert.Empty(t, v.notice)
}

func TestChatView_FallbackStartShowsOfflineNotice(t *testing.T) {
	backend := &stubBackend{startReply: &coaching.Reply{Message: "Offline text.", Fallback: true}}

	v := startedView(t, backend, nil)

	assert.Equal(t, stateReady, v.state)
	assert.True(t, v.offline)
	assert.Equal(t, noticesFor(domain.LangEnglish).offline, v.notice)
}

func TestChatView_SendAppendsOptimisticallyAndSendsFullHistory(t *testing.T) {
	backend := &stubBackend{
		startReply: &coaching.Reply{Message: "Welcome."},
		reply:      &coaching.Reply{Message: "Good question."},
	}
	v := startedView(t, backend, nil)

	v.input.SetValue("How do I improve?")
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = m.(chatView)

	// The user turn appears before the request resolves.
	assert.Equal(t, stateLoading, v.state)
	require.Len(t, v.history, 2)
	assert.Equal(t, domain.RoleUser, v.history[1].Role)
	assert.Equal(t, "How do I improve?", v.history[1].Content)

	reply := findReply(t, messagesFrom(cmd))
	require.Len(t, backend.lastHistory, 2)
	assert.Equal(t, domain.RoleAssistant, backend.lastHistory[0].Role)
	assert.Equal(t, "How do I improve?", backend.lastHistory[1].Content)

	m, _ = v.Update(reply)
	v = m.(chatView)
	assert.Equal(t, stateReady, v.state)
	require.Len(t, v.history, 3)
	assert.Equal(t, "Good question.", v.history[2].Content)
}

func TestChatView_SendErrorKeepsUserTurn(t *testing.T) {
	backend := &stubBackend{
		startReply: &coaching.Reply{Message: "Welcome."},
		replyErr:   assert.AnError,
	}
	v := startedView(t, backend, nil)

	v.input.SetValue("hello?")
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = m.(chatView)
	m, _ = v.Update(findReply(t, messagesFrom(cmd)))
	v = m.(chatView)

	assert.Equal(t, stateReady, v.state)
	require.Len(t, v.history, 2)
	assert.Equal(t, domain.RoleUser, v.history[1].Role)
	assert.Equal(t, noticesFor(domain.LangEnglish).sendErr, v.notice)
}

func TestChatView_DisabledSendsNothing(t *testing.T) {
	backend := &stubBackend{}
	v := newChatView(backend, nil, testKey(), nil, domain.LangEnglish, false)

	assert.Equal(t, stateDisabled, v.state)
	for _, msg := range messagesFrom(v.Init()) {
		_, isStart := msg.(startedMsg)
		assert.False(t, isStart)
	}

	v.input.SetValue("hello")
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = m.(chatView)

	assert.Nil(t, cmd)
	assert.Zero(t, backend.startCalls)
	assert.Zero(t, backend.messageCalls)
	assert.Empty(t, v.history)
	assert.Equal(t, noticesFor(domain.LangEnglish).signIn, v.notice)
}

func TestChatView_UnauthorizedStartDisables(t *testing.T) {
	backend := &stubBackend{startErr: ErrUnauthorized}
	v := newChatView(backend, nil, testKey(), nil, domain.LangEnglish, true)

	msgs := messagesFrom(v.Init())
	m, _ := v.Update(findStarted(t, msgs))
	v = m.(chatView)

	assert.Equal(t, stateDisabled, v.state)
	assert.Equal(t, noticesFor(domain.LangEnglish).signIn, v.notice)
}

func TestChatView_LanguageToggleRestartsAndDiscardsHistory(t *testing.T) {
	backend := &stubBackend{startReply: &coaching.Reply{Message: "Welcome."}}
	v := startedView(t, backend, nil)
	require.Len(t, v.history, 1)

	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	v = m.(chatView)

	assert.Equal(t, stateLoading, v.state)
	assert.Empty(t, v.history)
	assert.Equal(t, domain.LangChinese, v.lang)

	findStarted(t, messagesFrom(cmd))
	assert.Equal(t, 2, backend.startCalls)
	assert.Equal(t, domain.LangChinese, backend.lastLang)
}

func TestChatView_CompleteCommandMarksProgress(t *testing.T) {
	backend := &stubBackend{
		startReply: &coaching.Reply{Message: "Welcome."},
		reply:      &coaching.Reply{Message: "Well done.\n{\"command\":\"complete\"}"},
	}
	store := &stubStore{}
	v := startedView(t, backend, store)

	v.input.SetValue("I finished the exercise.")
	m, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v = m.(chatView)
	m, cmd = v.Update(findReply(t, messagesFrom(cmd)))
	v = m.(chatView)

	// The command line is stripped from the visible transcript.
	assert.Equal(t, "Well done.", v.history[len(v.history)-1].Content)

	require.NotNil(t, cmd)
	m, _ = v.Update(cmd())
	v = m.(chatView)
	assert.True(t, v.done)
	assert.Equal(t, 1, store.completed)
}
