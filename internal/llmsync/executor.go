package llmsync

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/llm-tools/vault-llm-sync/internal/anythingllm"
	"github.com/llm-tools/vault-llm-sync/internal/config"
	"github.com/llm-tools/vault-llm-sync/internal/notify"
)

// Disposal folders for superseded and orphaned remote documents. They
// are created on first use and purged when AUTO_DELETE_ARCHIVES is set.
const (
	ArchiveFolder = "archive"
	TrashFolder   = "trash"
)

// RemoteClient is the slice of the AnythingLLM API the executor drives.
// Satisfied by *anythingllm.Client; mocked in tests.
type RemoteClient interface {
	Verify(ctx context.Context) error
	ListWorkspaces(ctx context.Context) ([]anythingllm.Workspace, error)
	CreateFolder(ctx context.Context, name string) error
	ListFolder(ctx context.Context, name string) ([]anythingllm.Document, error)
	UploadDocument(ctx context.Context, folder, fileName string, content []byte) (anythingllm.Document, error)
	MoveFiles(ctx context.Context, moves []anythingllm.Move) error
	RemoveFolder(ctx context.Context, name string) error
	UpdateEmbeddings(ctx context.Context, slug string, adds, deletes []string) error
}

// FileSource supplies local file content for uploads. Satisfied by
// *vault.Vault.
type FileSource interface {
	ReadFile(relPath string) ([]byte, error)
}

// Report summarizes one executed pass.
type Report struct {
	Created   int
	Updated   int
	Deleted   int
	Unchanged int
	Failed    int

	// Failures lists the vault paths (or remote keys for the delete
	// phase) whose workflow was abandoned, with the error.
	Failures []FileFailure
}

// FileFailure is one abandoned per-file workflow.
type FileFailure struct {
	Key string
	Err error
}

// Summary renders the report for notifications and logs.
func (r *Report) Summary() string {
	return fmt.Sprintf("sync: %d created, %d updated, %d removed, %d unchanged, %d failed",
		r.Created, r.Updated, r.Deleted, r.Unchanged, r.Failed)
}

// Executor applies a reconciliation plan to the remote store. Files are
// processed one at a time and each multi-step workflow completes or
// fails as a unit before the next begins; there is no parallel fan-out.
type Executor struct {
	client     RemoteClient
	source     FileSource
	notifier   notify.Notifier
	logger     *slog.Logger
	baseFolder string
	workspaces []string
	handling   config.UpdateHandling
	autoPurge  bool
}

// NewExecutor creates an executor for the given configuration.
func NewExecutor(client RemoteClient, source FileSource, notifier notify.Notifier, logger *slog.Logger,
	baseFolder string, workspaces []string, handling config.UpdateHandling, autoPurge bool,
) *Executor {
	return &Executor{
		client:     client,
		source:     source,
		notifier:   notifier,
		logger:     logger,
		baseFolder: baseFolder,
		workspaces: workspaces,
		handling:   handling,
		autoPurge:  autoPurge,
	}
}

// Execute runs the create, update, and delete phases of a plan, then the
// optional disposal purge. Per-file failures are logged, notified, and
// skipped; only a context cancellation error propagates.
func (e *Executor) Execute(ctx context.Context, plan Plan, local LocalInventory, remote RemoteInventory) (*Report, error) {
	report := &Report{
		Unchanged: len(local) - len(plan.Create) - len(plan.Update),
	}

	// Folders created so far this pass. Namespace bootstrap is
	// idempotent but there is no reason to repeat it per file.
	ensured := make(map[string]bool)

	if len(plan.Create)+len(plan.Update) > 0 {
		if err := e.ensureFolder(ctx, e.baseFolder, ensured); err != nil {
			return report, err
		}
	}

	for _, key := range plan.Create {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := e.createOne(ctx, local[key]); err != nil {
			e.fail(report, local[key].SourcePath, err)
			continue
		}

		report.Created++
	}

	for _, key := range plan.Update {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := e.updateOne(ctx, local[key], remote[key], ensured); err != nil {
			e.fail(report, local[key].SourcePath, err)
			continue
		}

		report.Updated++
	}

	for _, key := range plan.Delete {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		if err := e.deleteOne(ctx, remote[key], ensured); err != nil {
			e.fail(report, key, err)
			continue
		}

		report.Deleted++
	}

	if e.autoPurge {
		e.purgeDisposals(ctx)
	}

	return report, nil
}

// createOne uploads a local file and embeds the stored document into
// every configured workspace.
func (e *Executor) createOne(ctx context.Context, rec LocalRecord) error {
	doc, err := e.upload(ctx, rec)
	if err != nil {
		return err
	}

	e.logger.Info("uploaded document",
		slog.String("path", rec.SourcePath),
		slog.String("document", doc.Name),
	)

	return e.embed(ctx, doc.Name)
}

// updateOne uploads the new version first, then disposes of the old one
// per the configured policy. New-before-old ordering is mandatory: a
// workspace must never be left without any version of the file between
// the two steps.
func (e *Executor) updateOne(ctx context.Context, rec LocalRecord, old RemoteRecord, ensured map[string]bool) error {
	if err := e.createOne(ctx, rec); err != nil {
		return err
	}

	switch e.handling {
	case config.UpdateKeep:
		// Old and new coexist, both remain embedded.
		return nil
	case config.UpdateArchive:
		return e.dispose(ctx, old, ArchiveFolder, ensured)
	case config.UpdateDelete:
		return e.dispose(ctx, old, TrashFolder, ensured)
	default:
		return fmt.Errorf("unknown update handling %q", e.handling)
	}
}

// deleteOne handles a remote document with no local counterpart: un-embed
// everywhere, then move to trash.
func (e *Executor) deleteOne(ctx context.Context, old RemoteRecord, ensured map[string]bool) error {
	e.logger.Info("removing remote document without local counterpart",
		slog.String("document", old.Name),
	)

	return e.dispose(ctx, old, TrashFolder, ensured)
}

// upload reads the local file and stores it under its mangled name.
func (e *Executor) upload(ctx context.Context, rec LocalRecord) (anythingllm.Document, error) {
	content, err := e.source.ReadFile(rec.SourcePath)
	if err != nil {
		return anythingllm.Document{}, fmt.Errorf("reading %s: %w", rec.SourcePath, err)
	}

	doc, err := e.client.UploadDocument(ctx, e.baseFolder, rec.Mangled, content)
	if err != nil {
		return anythingllm.Document{}, err
	}

	return doc, nil
}

// embed attaches a stored document to every configured workspace.
func (e *Executor) embed(ctx context.Context, docName string) error {
	path := e.baseFolder + "/" + docName

	for _, slug := range e.workspaces {
		if err := e.client.UpdateEmbeddings(ctx, slug, []string{path}, nil); err != nil {
			return fmt.Errorf("embedding into workspace %s: %w", slug, err)
		}
	}

	return nil
}

// dispose detaches the old document from every configured workspace and
// moves it into the target disposal folder.
func (e *Executor) dispose(ctx context.Context, old RemoteRecord, folder string, ensured map[string]bool) error {
	if err := e.ensureFolder(ctx, folder, ensured); err != nil {
		return err
	}

	path := e.baseFolder + "/" + old.Name

	for _, slug := range e.workspaces {
		if err := e.client.UpdateEmbeddings(ctx, slug, nil, []string{path}); err != nil {
			return fmt.Errorf("un-embedding from workspace %s: %w", slug, err)
		}
	}

	move := anythingllm.Move{From: path, To: folder + "/" + old.Name}
	if err := e.client.MoveFiles(ctx, []anythingllm.Move{move}); err != nil {
		return fmt.Errorf("moving %s to %s: %w", old.Name, folder, err)
	}

	return nil
}

// ensureFolder creates a remote folder once per pass. The target of a
// move must exist before the move is issued.
func (e *Executor) ensureFolder(ctx context.Context, name string, ensured map[string]bool) error {
	if ensured[name] {
		return nil
	}

	if err := e.client.CreateFolder(ctx, name); err != nil {
		return fmt.Errorf("ensuring folder %s: %w", name, err)
	}

	ensured[name] = true

	return nil
}

// purgeDisposals permanently deletes the archive and trash folders.
// Folders that do not exist count as already purged; other failures are
// logged but never fail the pass.
func (e *Executor) purgeDisposals(ctx context.Context) {
	for _, folder := range []string{ArchiveFolder, TrashFolder} {
		if err := e.client.RemoveFolder(ctx, folder); err != nil {
			e.logger.Warn("purging disposal folder failed",
				slog.String("folder", folder),
				slog.String("error", err.Error()),
			)
		}
	}
}

// fail records a per-file failure and notifies without aborting the pass.
func (e *Executor) fail(report *Report, key string, err error) {
	report.Failed++
	report.Failures = append(report.Failures, FileFailure{Key: key, Err: err})

	e.logger.Warn("sync step failed, continuing with next file",
		slog.String("file", key),
		slog.String("error", err.Error()),
	)
	e.notifier.Notify(fmt.Sprintf("sync failed for %s: %v", key, err))
}
