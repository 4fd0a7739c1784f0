package vault

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File is one eligible vault file found by a scan.
type File struct {
	// Path is the vault-relative, normalized path.
	Path string

	// ModTime is the file's local modification time.
	ModTime time.Time

	Size int64
}

// frontmatterProbeBytes is how much of a note the scanner reads when
// checking for an llm_sync opt-out. Frontmatter sits at the top of the
// file, so a bounded read avoids pulling large notes into memory twice.
const frontmatterProbeBytes = 8 * 1024

// Scan walks the vault and returns every eligible markdown file.
// folders is the ordered synced-folder list: "." matches every file,
// and a folder F matches F itself plus anything under F/. Hidden
// directories (including .obsidian), symlinks, and notes whose
// frontmatter sets llm_sync to false are skipped.
func (v *Vault) Scan(folders []string, logger *slog.Logger) ([]File, error) {
	var files []File

	err := filepath.WalkDir(v.dir, func(absPath string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(v.dir, absPath)
		if err != nil {
			return err
		}

		if relPath == "." {
			return nil
		}

		relPath = NormalizePath(relPath)

		// Skip hidden files/dirs at any level (.obsidian, .git, .trash).
		base := filepath.Base(absPath)
		if strings.HasPrefix(base, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}

		// Skip symlinks to prevent following links outside the vault or
		// to special files that could hang the scan.
		if d.Type()&os.ModeSymlink != 0 {
			logger.Debug("skipping symlink during scan", slog.String("path", relPath))
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !strings.EqualFold(filepath.Ext(base), ".md") {
			return nil
		}

		if !Eligible(relPath, folders) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			logger.Warn("stat failed during scan",
				slog.String("path", relPath),
				slog.String("error", err.Error()),
			)

			return nil
		}

		if skip, err := v.optedOut(relPath); err != nil {
			logger.Warn("frontmatter probe failed during scan",
				slog.String("path", relPath),
				slog.String("error", err.Error()),
			)
		} else if skip {
			logger.Debug("note opted out of sync", slog.String("path", relPath))
			return nil
		}

		files = append(files, File{
			Path:    relPath,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning vault: %w", err)
	}

	return files, nil
}

// Eligible reports whether a vault-relative path falls under one of the
// configured synced folders. "." matches everything; a folder F matches
// the path F and any path prefixed by F/ (so "Projects" does not match
// "ProjectsArchive/x.md").
func Eligible(relPath string, folders []string) bool {
	for _, f := range folders {
		if f == "." {
			return true
		}

		if relPath == f || strings.HasPrefix(relPath, f+"/") {
			return true
		}
	}

	return false
}

// optedOut reads the head of a note and checks its frontmatter for an
// llm_sync opt-out.
func (v *Vault) optedOut(relPath string) (bool, error) {
	abs, err := v.resolve(relPath)
	if err != nil {
		return false, err
	}

	f, err := os.Open(abs) //nolint:gosec // G304: abs validated by resolve
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, frontmatterProbeBytes)

	n, err := f.Read(head)
	if n == 0 && err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	return !syncEnabled(head[:n]), nil
}
