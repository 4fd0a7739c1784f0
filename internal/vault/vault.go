// Package vault provides read-only filesystem access to a local
// Obsidian-style vault directory: confined file reads, stat, and the
// eligibility scan that feeds the sync inventory. The sync engine never
// writes to the vault.
package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Vault provides operations on a local vault directory. All paths
// exchanged with callers are vault-relative, slash-separated, and
// NFC-normalized.
type Vault struct {
	dir string
}

// New creates a Vault rooted at the given directory. The directory must
// exist; the engine never creates or mutates local content.
func New(dir string) (*Vault, error) {
	if dir == "" {
		return nil, fmt.Errorf("vault directory must not be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving vault path: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("accessing vault path: %w", err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("vault path is not a directory: %s", abs)
	}

	return &Vault{dir: abs}, nil
}

// Dir returns the absolute vault root.
func (v *Vault) Dir() string {
	return v.dir
}

// resolve converts a vault-relative path to an absolute path, validating
// that it stays within the vault root.
func (v *Vault) resolve(relPath string) (string, error) {
	relPath = NormalizePath(relPath)
	if relPath == "" || relPath == "." {
		return "", fmt.Errorf("path must name a file inside the vault")
	}

	abs := filepath.Join(v.dir, filepath.FromSlash(relPath))
	if !strings.HasPrefix(abs, v.dir+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes vault root: %s", relPath)
	}

	return abs, nil
}

// ReadFile reads a file by vault-relative path.
func (v *Vault) ReadFile(relPath string) ([]byte, error) {
	abs, err := v.resolve(relPath)
	if err != nil {
		return nil, err
	}

	return os.ReadFile(abs) //nolint:gosec // G304: abs validated by resolve
}

// Stat returns file info for a vault-relative path.
func (v *Vault) Stat(relPath string) (os.FileInfo, error) {
	abs, err := v.resolve(relPath)
	if err != nil {
		return nil, err
	}

	return os.Stat(abs)
}

// NormalizePath canonicalizes a vault path: forward slashes, collapsed
// separators, no leading or trailing slash, odd unicode spaces replaced,
// NFC normal form. macOS reports NFD names; without NFC both sides of
// the sync would compute different join keys for the same file.
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	path = strings.ReplaceAll(path, " ", " ")
	path = strings.ReplaceAll(path, " ", " ")

	var b strings.Builder

	prevSlash := false

	for _, r := range path {
		if r == '/' {
			if prevSlash {
				continue
			}

			prevSlash = true
		} else {
			prevSlash = false
		}

		b.WriteRune(r)
	}

	path = strings.Trim(b.String(), "/")

	return norm.NFC.String(path)
}
