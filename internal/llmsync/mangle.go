// Package llmsync implements the reconciliation and update-propagation
// engine: it compares the local vault against the remote document store
// and drives uploads, embedding changes, and disposal of superseded
// versions.
package llmsync

import (
	"strings"

	"github.com/llm-tools/vault-llm-sync/internal/vault"
)

// pathSentinel replaces hierarchy separators when flattening a vault
// path into a remote document name. ':' cannot appear in a valid vault
// file name, so the sentinel never occurs in input paths and the mapping
// is injective.
const pathSentinel = "::"

// Mangle flattens a vault-relative path into a remote document name.
// The path is normalized first so both sync sides agree on a single
// spelling of the same file.
func Mangle(relPath string) string {
	return strings.ReplaceAll(vault.NormalizePath(relPath), "/", pathSentinel)
}

// Unmangle restores the vault-relative path from a mangled name.
// It is the inverse of Mangle for any valid vault path.
func Unmangle(name string) string {
	return strings.ReplaceAll(name, pathSentinel, "/")
}

// RemoteKey builds the inventory join key for a mangled name under a
// remote base folder. Keys computed from a local scan and from a
// remote-reported document title are equal exactly when they denote the
// same file.
func RemoteKey(baseFolder, mangled string) string {
	return baseFolder + "/" + mangled
}
