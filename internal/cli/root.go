// Package cli wires the coai commands: the API server and the terminal
// chat client.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/coai/internal/catalog"
	"github.com/alexanderramin/coai/internal/progress"
)

// App holds the dependencies shared by CLI commands.
type App struct {
	Catalog  *catalog.Catalog
	Progress progress.Store

	// NewBackend builds the chat transport for a server address and
	// optional bearer token. Swappable in tests.
	NewBackend func(server, token string) ChatBackend

	// IsInteractive reports whether stdin is attached to a terminal.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "coai" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "coai",
		Short: "AI coaching sessions: API server and terminal chat client",
	}

	root.AddCommand(
		newServeCmd(),
		newChatCmd(app),
	)

	return root
}
