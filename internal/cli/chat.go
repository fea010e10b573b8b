package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/coai/internal/domain"
)

func newChatCmd(app *App) *cobra.Command {
	var (
		topicID   string
		sessionID string
		langCode  string
		server    string
		token     string
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a coaching chat in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context(), app, chatOptions{
				TopicID:   topicID,
				SessionID: sessionID,
				LangCode:  langCode,
				Server:    server,
				Token:     token,
			})
		},
	}

	cmd.Flags().StringVar(&topicID, "topic", "", "topic id (interactive picker when omitted)")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id within the topic")
	cmd.Flags().StringVar(&langCode, "lang", "", "coaching language (en or zh)")
	cmd.Flags().StringVar(&server, "server", "", "coai server base URL")
	cmd.Flags().StringVar(&token, "token", "", "bearer token for the chat endpoint")
	return cmd
}

type chatOptions struct {
	TopicID   string
	SessionID string
	LangCode  string
	Server    string
	Token     string
}

func runChat(ctx context.Context, app *App, opts chatOptions) error {
	if app.IsInteractive != nil && !app.IsInteractive() {
		return fmt.Errorf("chat requires an interactive terminal")
	}

	lang := domain.ParseLanguage(opts.LangCode)
	key := domain.SessionKey{TopicID: opts.TopicID, SessionID: opts.SessionID}

	if key.TopicID == "" {
		picked, pickedLang, err := pickSession(ctx, app, opts.LangCode == "")
		if err != nil {
			return err
		}
		key = picked
		if opts.LangCode == "" {
			lang = pickedLang
		}
	}
	if err := key.Validate(); err != nil {
		return err
	}

	var meta *domain.SessionMeta
	if sessionTitle, topicTitle := app.Catalog.SessionTitle(key, lang); sessionTitle != "" {
		meta = &domain.SessionMeta{SessionTitle: sessionTitle, TopicTitle: topicTitle}
	}

	backend := app.NewBackend(opts.Server, opts.Token)
	view := newChatView(backend, app.Progress, key, meta, lang, true)

	_, err := tea.NewProgram(view, tea.WithContext(ctx)).Run()
	return err
}

// sessionKeySep joins topic and session ids inside picker option values.
// NUL cannot appear in catalog ids.
const sessionKeySep = "\x00"

// pickSession shows the interactive topic/session picker, with recent
// sessions first, then the generic session, then the full catalog.
func pickSession(ctx context.Context, app *App, pickLanguage bool) (domain.SessionKey, domain.Language, error) {
	var options []huh.Option[string]

	if app.Progress != nil {
		recent, err := app.Progress.Recent(ctx)
		if err == nil {
			for _, r := range recent {
				label := fmt.Sprintf("Resume: %s / %s", r.TopicTitle, r.SessionTitle)
				options = append(options, huh.NewOption(label, r.TopicID+sessionKeySep+r.SessionID))
			}
		}
	}

	options = append(options, huh.NewOption("Generic coaching", domain.GenericTopicID+sessionKeySep))
	for _, topic := range app.Catalog.Topics(domain.LangEnglish) {
		for _, session := range topic.Sessions {
			label := topic.Title + " / " + session.Title
			options = append(options, huh.NewOption(label, topic.ID+sessionKeySep+session.ID))
		}
	}

	var selected string
	langCode := string(domain.LangEnglish)

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Choose a session").
				Options(options...).
				Value(&selected),
		),
	}
	if pickLanguage {
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Options(
					huh.NewOption("English", string(domain.LangEnglish)),
					huh.NewOption("中文", string(domain.LangChinese)),
				).
				Value(&langCode),
		))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return domain.SessionKey{}, "", err
	}

	topicID, sessionID, _ := strings.Cut(selected, sessionKeySep)
	return domain.SessionKey{TopicID: topicID, SessionID: sessionID}, domain.ParseLanguage(langCode), nil
}
