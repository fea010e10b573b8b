package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/coai/internal/api"
	"github.com/alexanderramin/coai/internal/auth"
	"github.com/alexanderramin/coai/internal/catalog"
	"github.com/alexanderramin/coai/internal/coaching"
	"github.com/alexanderramin/coai/internal/llm"
	"github.com/alexanderramin/coai/internal/prompt"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the coaching API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr(), "listen address")
	return cmd
}

func defaultAddr() string {
	if addr := os.Getenv("COAI_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

func runServe(ctx context.Context, addr string) error {
	// Optional local overrides; absence is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	store := prompt.Default(logger)
	if dir := os.Getenv("COAI_PROMPTS"); dir != "" {
		store = prompt.NewDirStore(dir, logger)
		logger.Info("using prompt directory", "dir", dir)
	}
	composer := prompt.NewComposer(store)

	// Without a credential the service runs in offline mode and every
	// reply comes from the deterministic fallback.
	cfg := llm.LoadConfig(logger)
	var client llm.Client
	if cfg.Configured() {
		client = llm.NewOpenAIClient(cfg, llm.NewSlogObserver(logger))
		logger.Info("completion provider configured", "endpoint", cfg.Endpoint, "model", cfg.Model)
	} else {
		logger.Warn("no provider credential, running in offline mode")
	}

	svc := coaching.NewService(composer, client, logger)

	cat, err := catalog.Default()
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	var authn auth.Provider
	if os.Getenv("COAI_AUTH_TOKENS") != "" {
		authn = auth.NewTokenProviderFromEnv()
		logger.Info("chat endpoint requires authentication")
	}

	router := api.NewRouter(api.NewHandler(svc, cat, logger), authn, logger)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
