package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/llm-tools/vault-llm-sync/internal/anythingllm"
	"github.com/llm-tools/vault-llm-sync/internal/config"
	"github.com/llm-tools/vault-llm-sync/internal/llmsync"
	"github.com/llm-tools/vault-llm-sync/internal/logging"
	"github.com/llm-tools/vault-llm-sync/internal/notify"
	"github.com/llm-tools/vault-llm-sync/internal/state"
	"github.com/llm-tools/vault-llm-sync/internal/vault"
)

var Version = "dev"

func main() {
	// Handle the status subcommand before config loading; it must work
	// without server credentials in the environment.
	if len(os.Args) > 1 && os.Args[1] == "status" {
		if err := runStatus(); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		return
	}

	once := len(os.Args) > 1 && os.Args[1] == "run"

	if err := run(once); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(once bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.NewLogger(cfg.Environment)
	logger.Info("vault-llm-sync starting",
		slog.String("version", Version),
		slog.String("server", cfg.ServerURL),
		slog.String("vault", cfg.VaultDir),
		slog.String("base_folder", cfg.RemoteBaseFolder),
		slog.String("update_handling", string(cfg.UpdateHandling)),
		slog.Bool("once", once),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	v, err := vault.New(cfg.VaultDir)
	if err != nil {
		return fmt.Errorf("opening vault: %w", err)
	}

	store, err := state.Open(cfg.StateDB)
	if err != nil {
		return fmt.Errorf("opening state db: %w", err)
	}
	defer store.Close()

	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Silent {
		notifier = notify.Discard{}
	}

	client := anythingllm.NewClient(cfg.ServerURL, cfg.APIKey, nil)

	engine := llmsync.New(cfg, client, v, store, notifier, logger)

	if err := engine.Verify(ctx); err != nil {
		return fmt.Errorf("verifying server connection: %w", err)
	}

	logger.Info("server connection verified")

	if once {
		report, err := engine.RunPass(ctx)
		if err != nil {
			return fmt.Errorf("sync pass: %w", err)
		}

		fmt.Println(report.Summary())

		return nil
	}

	return engine.Start(ctx)
}

// runStatus prints recent pass history and the cached workspace list
// from the state database. It reads STATE_DB directly so it works
// without the full sync configuration present.
func runStatus() error {
	path := os.Getenv("STATE_DB")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("determining home directory: %w", err)
		}

		path = filepath.Join(home, ".vault-llm-sync", "state.db")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		fmt.Println("no state database; no sync pass has run yet")
		return nil
	}

	store, err := state.Open(path)
	if err != nil {
		return fmt.Errorf("opening state db: %w", err)
	}
	defer store.Close()

	passes, err := store.RecentPasses(10)
	if err != nil {
		return fmt.Errorf("reading pass history: %w", err)
	}

	if len(passes) == 0 {
		fmt.Println("no sync pass has run yet")
		return nil
	}

	fmt.Println("recent sync passes (newest first):")

	for _, p := range passes {
		line := fmt.Sprintf("  %s  %s  created=%d updated=%d removed=%d unchanged=%d failed=%d",
			p.StartedAt.Format("2006-01-02 15:04:05"),
			p.Duration.Round(10*time.Millisecond),
			p.Created, p.Updated, p.Deleted, p.Unchanged, p.Failed,
		)
		if p.Error != "" {
			line += "  error=" + p.Error
		}

		fmt.Println(line)
	}

	if slugs, err := store.Workspaces(); err == nil && len(slugs) > 0 {
		fmt.Printf("workspaces on server: %v\n", slugs)
	}

	return nil
}
