package llmsync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/llm-tools/vault-llm-sync/internal/anythingllm"
	"github.com/llm-tools/vault-llm-sync/internal/vault"
)

// LocalRecord is one vault file as seen by an inventory scan. Records
// are rebuilt on every pass and never persisted.
type LocalRecord struct {
	// Key is the inventory join key: RemoteKey(base, Mangled).
	Key string

	// SourcePath is the vault-relative path the record was built from.
	SourcePath string

	// Mangled is the flat remote document name for SourcePath.
	Mangled string

	// ModifiedAt is the local file's modification time.
	ModifiedAt time.Time
}

// RemoteRecord is one stored document as reported by the remote folder
// listing. Ephemeral per pass like LocalRecord.
type RemoteRecord struct {
	Key string

	// Name is the server-assigned document file name, used for moves
	// and embedding removal.
	Name string

	// Published is when the server stored this version.
	Published time.Time
}

// LocalInventory and RemoteInventory map join keys to records. The two
// are only ever compared, never merged.
type (
	LocalInventory  map[string]LocalRecord
	RemoteInventory map[string]RemoteRecord
)

// BuildLocal converts a vault scan into a local inventory keyed by
// remote key. When overlapping synced folders yield the same file twice
// the first record wins; a file is counted once no matter how many
// configured folders match it.
func BuildLocal(files []vault.File, baseFolder string) LocalInventory {
	inv := make(LocalInventory, len(files))

	for _, f := range files {
		mangled := Mangle(f.Path)

		key := RemoteKey(baseFolder, mangled)
		if _, dup := inv[key]; dup {
			continue
		}

		inv[key] = LocalRecord{
			Key:        key,
			SourcePath: f.Path,
			Mangled:    mangled,
			ModifiedAt: f.ModTime,
		}
	}

	return inv
}

// FolderLister is the remote-listing dependency of BuildRemote.
type FolderLister interface {
	ListFolder(ctx context.Context, name string) ([]anythingllm.Document, error)
}

// BuildRemote lists the remote base folder into an inventory. A folder
// that does not exist yet is an empty inventory, not an error; any other
// failure aborts the pass before writes begin, because reconciling
// against an untrustworthy remote listing would propagate bad deletes.
func BuildRemote(ctx context.Context, lister FolderLister, baseFolder string) (RemoteInventory, error) {
	docs, err := lister.ListFolder(ctx, baseFolder)
	if err != nil {
		if errors.Is(err, anythingllm.ErrFolderNotFound) {
			return RemoteInventory{}, nil
		}

		return nil, fmt.Errorf("listing remote folder %s: %w", baseFolder, err)
	}

	inv := make(RemoteInventory, len(docs))

	for _, d := range docs {
		title := d.Title
		if title == "" {
			title = titleFromName(d.Name)
		}

		key := RemoteKey(baseFolder, title)

		// Later duplicates (e.g. keep-in-workspace leaves several
		// versions of one file) keep the newest published version so
		// the staleness comparison is against the latest upload.
		if prev, ok := inv[key]; ok && !prev.Published.Before(d.Published) {
			continue
		}

		inv[key] = RemoteRecord{
			Key:       key,
			Name:      d.Name,
			Published: d.Published,
		}
	}

	return inv, nil
}

// titleFromName recovers the upload title from a server document name of
// the form "<title>-<id>.json". Used when a listing omits the title.
func titleFromName(name string) string {
	trimmed := strings.TrimSuffix(name, ".json")

	idx := strings.LastIndex(trimmed, "-")
	if idx <= 0 {
		return trimmed
	}

	return trimmed[:idx]
}
