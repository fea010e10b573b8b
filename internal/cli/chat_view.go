package cli

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/coai/internal/coaching"
	"github.com/alexanderramin/coai/internal/domain"
	"github.com/alexanderramin/coai/internal/progress"
)

// chatState tracks where the session controller is in its lifecycle.
type chatState int

const (
	stateDisabled chatState = iota // not signed in, input inert
	stateLoading                   // a request is in flight
	stateReady                     // accepting user input
)

var (
	styleCoach  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleUser   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleNotice = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// chatNotices is the localized status copy shown around the transcript.
type chatNotices struct {
	signIn  string
	offline string
	sendErr string
	loading string
}

var chatNoticeTables = map[domain.Language]chatNotices{
	domain.LangEnglish: {
		signIn:  "Sign in to start a coaching session.",
		offline: "Offline mode: replies are generated locally.",
		sendErr: "Connection problem. Your message is kept; press enter to try again.",
		loading: "Thinking",
	},
	domain.LangChinese: {
		signIn:  "请先登录以开始辅导会话。",
		offline: "离线模式:回复由本地生成。",
		sendErr: "连接出现问题。消息已保留,按回车重试。",
		loading: "思考中",
	},
}

func noticesFor(lang domain.Language) chatNotices {
	if n, ok := chatNoticeTables[lang]; ok {
		return n
	}
	return chatNoticeTables[domain.LangEnglish]
}

// startedMsg carries the result of the session start call.
type startedMsg struct {
	reply *coaching.Reply
	err   error
}

// replyMsg carries the result of one follow-up turn.
type replyMsg struct {
	reply *coaching.Reply
	err   error
}

// completedMsg reports the outcome of marking the session completed.
type completedMsg struct{ err error }

// chatView is the bubbletea model for one coaching session. The
// conversation lives only in memory; closing the view discards it.
type chatView struct {
	backend  ChatBackend
	progress progress.Store
	key      domain.SessionKey
	meta     *domain.SessionMeta
	lang     domain.Language

	state   chatState
	input   textinput.Model
	spin    spinner.Model
	history []domain.Message
	notice  string
	offline bool
	done    bool

	width    int
	quitting bool
}

// newChatView creates the session controller. enabled=false puts the
// view straight into the disabled state with no network activity.
func newChatView(backend ChatBackend, store progress.Store, key domain.SessionKey, meta *domain.SessionMeta, lang domain.Language, enabled bool) chatView {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	v := chatView{
		backend:  backend,
		progress: store,
		key:      key,
		meta:     meta,
		lang:     lang,
		input:    ti,
		spin:     sp,
		state:    stateLoading,
	}
	if !enabled {
		v.state = stateDisabled
		v.notice = noticesFor(lang).signIn
	}
	return v
}

func (v chatView) Init() tea.Cmd {
	if v.state == stateDisabled {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, v.spin.Tick, v.startCmd())
}

// startCmd opens the session and records it as started. Progress
// bookkeeping is best effort and never blocks the conversation.
func (v chatView) startCmd() tea.Cmd {
	backend, store := v.backend, v.progress
	key, meta, lang := v.key, v.meta, v.lang
	return func() tea.Msg {
		reply, err := backend.Start(context.Background(), key, lang)
		if err == nil && store != nil {
			_ = store.MarkStarted(context.Background(), key, meta)
		}
		return startedMsg{reply: reply, err: err}
	}
}

func (v chatView) sendCmd(history []domain.Message) tea.Cmd {
	backend := v.backend
	key, lang := v.key, v.lang
	return func() tea.Msg {
		reply, err := backend.Message(context.Background(), key, lang, history)
		return replyMsg{reply: reply, err: err}
	}
}

func (v chatView) completeCmd() tea.Cmd {
	store, key := v.progress, v.key
	return func() tea.Msg {
		if store == nil {
			return completedMsg{}
		}
		return completedMsg{err: store.MarkCompleted(context.Background(), key)}
	}
}

func (v chatView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.input.Width = msg.Width - 3
		return v, nil

	case spinner.TickMsg:
		if v.state != stateLoading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spin, cmd = v.spin.Update(msg)
		return v, cmd

	case startedMsg:
		return v.handleStarted(msg)

	case replyMsg:
		return v.handleReply(msg)

	case completedMsg:
		if msg.err == nil {
			v.done = true
		}
		return v, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			v.quitting = true
			return v, tea.Quit
		case tea.KeyCtrlL:
			return v.switchLanguage()
		case tea.KeyEnter:
			return v.handleEnter()
		}
		if v.state == stateReady {
			var cmd tea.Cmd
			v.input, cmd = v.input.Update(msg)
			return v, cmd
		}
		return v, nil
	}

	return v, nil
}

func (v chatView) handleStarted(msg startedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.err == ErrUnauthorized {
			v.state = stateDisabled
			v.notice = noticesFor(v.lang).signIn
			return v, nil
		}
		v.state = stateReady
		v.notice = noticesFor(v.lang).sendErr
		return v, nil
	}

	text, command := coaching.SplitCommand(msg.reply.Message)
	v.history = []domain.Message{{Role: domain.RoleAssistant, Content: text}}
	v.offline = msg.reply.Fallback
	v.state = stateReady
	v.notice = ""
	if v.offline {
		v.notice = noticesFor(v.lang).offline
	}
	if command != nil && command.Command == coaching.CommandComplete {
		return v, v.completeCmd()
	}
	return v, nil
}

func (v chatView) handleReply(msg replyMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		if msg.err == ErrUnauthorized {
			v.state = stateDisabled
			v.notice = noticesFor(v.lang).signIn
			return v, nil
		}
		// The optimistically appended user turn stays in the history.
		v.state = stateReady
		v.notice = noticesFor(v.lang).sendErr
		return v, nil
	}

	text, command := coaching.SplitCommand(msg.reply.Message)
	v.history = append(v.history, domain.Message{Role: domain.RoleAssistant, Content: text})
	v.state = stateReady
	v.notice = ""
	if msg.reply.Fallback {
		v.notice = noticesFor(v.lang).offline
	}
	if command != nil && command.Command == coaching.CommandComplete {
		return v, v.completeCmd()
	}
	return v, nil
}

func (v chatView) handleEnter() (tea.Model, tea.Cmd) {
	switch v.state {
	case stateDisabled:
		v.notice = noticesFor(v.lang).signIn
		return v, nil
	case stateLoading:
		return v, nil
	}

	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		// A bare enter after a failed send retries the last turn.
		if v.notice == noticesFor(v.lang).sendErr && len(v.history) > 0 &&
			v.history[len(v.history)-1].Role == domain.RoleUser {
			v.state = stateLoading
			return v, tea.Batch(v.spin.Tick, v.sendCmd(v.history))
		}
		return v, nil
	}
	v.input.Reset()

	v.history = append(v.history, domain.Message{Role: domain.RoleUser, Content: text})
	v.state = stateLoading
	v.notice = ""
	return v, tea.Batch(v.spin.Tick, v.sendCmd(v.history))
}

// switchLanguage flips between English and Chinese and restarts the
// session. The in-memory conversation is single-language, so the
// history is discarded.
func (v chatView) switchLanguage() (tea.Model, tea.Cmd) {
	if v.state == stateDisabled {
		return v, nil
	}
	if v.lang == domain.LangChinese {
		v.lang = domain.LangEnglish
	} else {
		v.lang = domain.LangChinese
	}
	v.history = nil
	v.offline = false
	v.done = false
	v.notice = ""
	v.state = stateLoading
	return v, tea.Batch(v.spin.Tick, v.startCmd())
}

func (v chatView) View() string {
	if v.quitting {
		return ""
	}

	var b strings.Builder

	title := v.key.String()
	if v.meta != nil && v.meta.SessionTitle != "" {
		title = v.meta.TopicTitle + " / " + v.meta.SessionTitle
	}
	b.WriteString(styleCoach.Bold(true).Render(title))
	b.WriteString(styleDim.Render("  (" + v.lang.Label() + ")"))
	if v.done {
		b.WriteString(styleDim.Render("  ✓"))
	}
	b.WriteString("\n\n")

	for _, m := range v.history {
		switch m.Role {
		case domain.RoleAssistant:
			b.WriteString(styleCoach.Render("coach") + styleDim.Render(" · ") + m.Content)
		default:
			b.WriteString(styleUser.Render("you") + styleDim.Render(" · ") + m.Content)
		}
		b.WriteString("\n\n")
	}

	if v.notice != "" {
		b.WriteString(styleNotice.Render(v.notice))
		b.WriteString("\n")
	}

	switch v.state {
	case stateLoading:
		b.WriteString(v.spin.View() + styleDim.Render(noticesFor(v.lang).loading))
	case stateReady:
		b.WriteString(styleDim.Render("> "))
		b.WriteString(v.input.View())
	}
	b.WriteString("\n")
	b.WriteString(styleDim.Render("enter send · ctrl+l language · esc quit"))

	return b.String()
}
