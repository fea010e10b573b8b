package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/coai/internal/catalog"
	"github.com/alexanderramin/coai/internal/cli"
	"github.com/alexanderramin/coai/internal/db"
	"github.com/alexanderramin/coai/internal/progress"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.coai/coai.db
	dbPath := os.Getenv("COAI_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".coai", "coai.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	app := &cli.App{
		Catalog:  cat,
		Progress: progress.NewSQLiteStore(database),
	}

	app.NewBackend = func(server, token string) cli.ChatBackend {
		if server == "" {
			server = os.Getenv("COAI_SERVER")
		}
		if server == "" {
			server = "http://localhost:8080"
		}
		if token == "" {
			token = os.Getenv("COAI_AUTH_TOKEN")
		}
		return cli.NewAPIClient(server, token)
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
