package llmsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/llm-tools/vault-llm-sync/internal/config"
	"github.com/llm-tools/vault-llm-sync/internal/notify"
	"github.com/llm-tools/vault-llm-sync/internal/state"
	"github.com/llm-tools/vault-llm-sync/internal/vault"
)

// ErrPassInFlight is returned by RunPass when another pass is already
// executing. Two passes must never interleave their remote writes, so a
// trigger that arrives mid-pass is dropped rather than queued.
var ErrPassInFlight = errors.New("a sync pass is already running")

// PassStore receives a record for every completed pass. Satisfied by
// *state.Store; nil-able via the interface check in recordPass.
type PassStore interface {
	AppendPass(rec state.PassRecord) error
	SetWorkspaces(slugs []string) error
}

// Engine owns the full sync lifecycle: it builds both inventories,
// reconciles them, and applies the plan through the executor. One Engine
// serves one vault/server pair; the embedding process owns the instance
// and drives it via Start or RunPass.
type Engine struct {
	cfg      *config.Config
	client   RemoteClient
	vault    *vault.Vault
	store    PassStore
	notifier notify.Notifier
	logger   *slog.Logger

	folders    []string
	workspaces []string

	// passMu serializes passes across manual, timer, and watcher
	// triggers.
	passMu sync.Mutex
}

// New creates an engine. store may be nil when pass history is not
// wanted (tests, one-shot runs with --no-state).
func New(cfg *config.Config, client RemoteClient, v *vault.Vault, store PassStore, notifier notify.Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:        cfg,
		client:     client,
		vault:      v,
		store:      store,
		notifier:   notifier,
		logger:     logger,
		folders:    cfg.ParseSyncFolders(),
		workspaces: cfg.ParseWorkspaces(),
	}
}

// Verify checks connectivity and credentials, and warns about configured
// workspaces the server does not know. Called once at startup.
func (e *Engine) Verify(ctx context.Context) error {
	if err := e.client.Verify(ctx); err != nil {
		return err
	}

	available, err := e.client.ListWorkspaces(ctx)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(available))

	slugs := make([]string, 0, len(available))
	for _, w := range available {
		known[w.Slug] = true
		slugs = append(slugs, w.Slug)
	}

	if e.store != nil {
		if err := e.store.SetWorkspaces(slugs); err != nil {
			e.logger.Warn("caching workspace list failed", slog.String("error", err.Error()))
		}
	}

	for _, slug := range e.workspaces {
		if !known[slug] {
			e.logger.Warn("configured workspace does not exist on server", slog.String("workspace", slug))
			e.notifier.Notify(fmt.Sprintf("workspace %q not found on server; embeddings for it will fail", slug))
		}
	}

	return nil
}

// RunPass executes one full sync pass: scan → inventories → reconcile →
// execute → optional purge. Returns ErrPassInFlight when a pass is
// already running. A remote-listing failure aborts before any write; all
// other failures are per-file and leave the pass running.
func (e *Engine) RunPass(ctx context.Context) (*Report, error) {
	if !e.passMu.TryLock() {
		return nil, ErrPassInFlight
	}
	defer e.passMu.Unlock()

	started := time.Now()

	report, err := e.runLocked(ctx)

	e.recordPass(started, report, err)

	return report, err
}

func (e *Engine) runLocked(ctx context.Context) (*Report, error) {
	e.logger.Info("sync pass starting",
		slog.String("base_folder", e.cfg.RemoteBaseFolder),
		slog.Any("folders", e.folders),
	)

	files, err := e.vault.Scan(e.folders, e.logger)
	if err != nil {
		return nil, fmt.Errorf("scanning vault: %w", err)
	}

	local := BuildLocal(files, e.cfg.RemoteBaseFolder)

	remote, err := BuildRemote(ctx, e.client, e.cfg.RemoteBaseFolder)
	if err != nil {
		// Pass-fatal: no writes may happen against an unknown remote
		// state.
		e.notifier.Notify(fmt.Sprintf("sync aborted: %v", err))
		return nil, err
	}

	plan := Reconcile(local, remote)

	e.logger.Info("reconciled inventories",
		slog.Int("local", len(local)),
		slog.Int("remote", len(remote)),
		slog.Int("create", len(plan.Create)),
		slog.Int("update", len(plan.Update)),
		slog.Int("delete", len(plan.Delete)),
	)

	if plan.Empty() && !e.cfg.AutoDeleteArchives {
		return &Report{Unchanged: len(local)}, nil
	}

	executor := NewExecutor(e.client, e.vault, e.notifier, e.logger,
		e.cfg.RemoteBaseFolder, e.workspaces, e.cfg.UpdateHandling, e.cfg.AutoDeleteArchives)

	report, err := executor.Execute(ctx, plan, local, remote)
	if err != nil {
		return report, err
	}

	e.logger.Info("sync pass complete", slog.String("summary", report.Summary()))
	e.notifier.Notify(report.Summary())

	return report, nil
}

// recordPass persists a summary of the pass when a store is configured.
func (e *Engine) recordPass(started time.Time, report *Report, passErr error) {
	if e.store == nil || errors.Is(passErr, ErrPassInFlight) {
		return
	}

	rec := state.PassRecord{
		StartedAt: started,
		Duration:  time.Since(started),
	}

	if report != nil {
		rec.Created = report.Created
		rec.Updated = report.Updated
		rec.Deleted = report.Deleted
		rec.Unchanged = report.Unchanged
		rec.Failed = report.Failed
	}

	if passErr != nil {
		rec.Error = passErr.Error()
	}

	if err := e.store.AppendPass(rec); err != nil {
		e.logger.Warn("recording pass history failed", slog.String("error", err.Error()))
	}
}

// Start runs the engine until ctx is done: an immediate pass, then
// recurring timer passes when AUTO_SYNC is on, plus debounced passes on
// vault changes when WATCH_VAULT is on. Triggers that land while a pass
// is in flight are dropped.
func (e *Engine) Start(ctx context.Context) error {
	trigger := make(chan struct{}, 1)

	g, gctx := errgroup.WithContext(ctx)

	if e.cfg.WatchVault {
		watcher := NewWatcher(e.vault.Dir(), e.logger)
		g.Go(func() error {
			return watcher.Watch(gctx, trigger)
		})
	}

	g.Go(func() error {
		e.runTriggered(gctx, "startup")

		var tick <-chan time.Time

		if e.cfg.AutoSync {
			interval := time.Duration(e.cfg.AutoSyncIntervalMinutes) * time.Minute

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			tick = ticker.C
		}

		for {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case <-tick:
				e.runTriggered(gctx, "timer")
			case <-trigger:
				e.runTriggered(gctx, "vault change")
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}

	return err
}

// runTriggered runs a pass for a background trigger, logging instead of
// propagating failures so the daemon keeps running.
func (e *Engine) runTriggered(ctx context.Context, cause string) {
	if ctx.Err() != nil {
		return
	}

	_, err := e.RunPass(ctx)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}

	if errors.Is(err, ErrPassInFlight) {
		e.logger.Debug("skipping sync trigger, pass already running", slog.String("cause", cause))
		return
	}

	e.logger.Error("sync pass failed",
		slog.String("cause", cause),
		slog.String("error", err.Error()),
	)
}
