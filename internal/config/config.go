package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// UpdateHandling selects what happens to the old remote version of a
// document after a newer local version has been uploaded.
type UpdateHandling string

const (
	// UpdateKeep leaves the old version in place; old and new coexist
	// and both remain embedded in the selected workspaces.
	UpdateKeep UpdateHandling = "keep-in-workspace"

	// UpdateArchive un-embeds the old version and moves it into the
	// archive folder on the server.
	UpdateArchive UpdateHandling = "archive"

	// UpdateDelete un-embeds the old version and moves it into the
	// trash folder on the server.
	UpdateDelete UpdateHandling = "delete"
)

// Config holds all environment-based configuration for vault-llm-sync.
// It is read once at startup and treated as immutable afterwards; the
// engine never sees a live settings object.
type Config struct {
	// AnythingLLM server connection (both required).
	ServerURL string `env:"ANYTHINGLLM_URL"`
	APIKey    string `env:"ANYTHINGLLM_API_KEY"`

	// Local vault root directory to sync from (required).
	VaultDir string `env:"VAULT_DIR"`

	// Remote folder that receives uploaded documents.
	RemoteBaseFolder string `env:"REMOTE_BASE_FOLDER" envDefault:"obsidian-vault"`

	// Comma-separated vault-relative folders to sync. "." means the
	// whole vault.
	SyncFolders string `env:"SYNC_FOLDERS" envDefault:"."`

	// What to do with the superseded remote version after an update.
	UpdateHandling UpdateHandling `env:"UPDATE_HANDLING" envDefault:"archive"`

	// Permanently purge the archive and trash folders at the end of
	// every pass.
	AutoDeleteArchives bool `env:"AUTO_DELETE_ARCHIVES" envDefault:"false"`

	// Comma-separated workspace slugs to embed documents into.
	Workspaces string `env:"WORKSPACES"`

	// Recurring sync trigger.
	AutoSync                bool `env:"AUTO_SYNC" envDefault:"true"`
	AutoSyncIntervalMinutes int  `env:"AUTO_SYNC_INTERVAL_MINUTES" envDefault:"5"`

	// Trigger a pass when vault files change on disk.
	WatchVault bool `env:"WATCH_VAULT" envDefault:"false"`

	// Suppress user-visible notifications.
	Silent bool `env:"SILENT" envDefault:"false"`

	// Environment controls log format.
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	// Path of the bbolt pass-history database. Defaults to
	// ~/.vault-llm-sync/state.db when empty.
	StateDB string `env:"STATE_DB"`
}

// warnInsecureEnvFile checks whether the .env file (if present) has
// overly permissive permissions. On Unix systems, group or world
// readable files risk exposing the API key to other users.
func warnInsecureEnvFile() {
	if runtime.GOOS == "windows" {
		return
	}

	info, err := os.Stat(".env")
	if err != nil {
		return // file does not exist, nothing to check
	}

	mode := info.Mode().Perm()
	if mode&0o077 != 0 {
		log.Printf("WARNING: .env file has insecure permissions %04o; recommended 0600", mode)
	}
}

// Load reads configuration from environment variables.
// It first attempts to load a .env file if present, then parses env vars.
func Load() (*Config, error) {
	_ = godotenv.Load()

	warnInsecureEnvFile()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	// Resolve VaultDir to an absolute path at startup. The scanner
	// relies on prefix comparison to confine reads to the vault root,
	// which only works reliably with absolute paths.
	absDir, err := filepath.Abs(cfg.VaultDir)
	if err != nil {
		return nil, fmt.Errorf("resolving vault dir to absolute path: %w", err)
	}

	cfg.VaultDir = absDir

	if cfg.StateDB == "" {
		path, err := defaultStateDB()
		if err != nil {
			return nil, err
		}

		cfg.StateDB = path
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("ANYTHINGLLM_URL is required")
	}

	if c.APIKey == "" {
		return fmt.Errorf("ANYTHINGLLM_API_KEY is required")
	}

	if c.VaultDir == "" {
		return fmt.Errorf("VAULT_DIR is required")
	}

	if c.RemoteBaseFolder == "" {
		return fmt.Errorf("REMOTE_BASE_FOLDER must not be empty")
	}

	if strings.ContainsAny(c.RemoteBaseFolder, "/\\") {
		return fmt.Errorf("REMOTE_BASE_FOLDER must be a flat folder name, got %q", c.RemoteBaseFolder)
	}

	switch c.UpdateHandling {
	case UpdateKeep, UpdateArchive, UpdateDelete:
	default:
		return fmt.Errorf("UPDATE_HANDLING must be one of keep-in-workspace, archive, delete; got %q", c.UpdateHandling)
	}

	if c.AutoSyncIntervalMinutes <= 0 {
		return fmt.Errorf("AUTO_SYNC_INTERVAL_MINUTES must be positive, got %d", c.AutoSyncIntervalMinutes)
	}

	return nil
}

// ParseSyncFolders parses the SYNC_FOLDERS string into an ordered list of
// vault-relative folders. Entries are cleaned of surrounding whitespace
// and slashes; empty entries are dropped; duplicates keep their first
// position. An empty setting means the whole vault.
func (c *Config) ParseSyncFolders() []string {
	seen := make(map[string]struct{})

	var folders []string

	for _, f := range strings.Split(c.SyncFolders, ",") {
		f = strings.Trim(strings.TrimSpace(f), "/")
		if f == "" {
			continue
		}

		if _, dup := seen[f]; dup {
			continue
		}

		seen[f] = struct{}{}
		folders = append(folders, f)
	}

	if len(folders) == 0 {
		return []string{"."}
	}

	return folders
}

// ParseWorkspaces parses the WORKSPACES string into an ordered list of
// workspace slugs with duplicates removed.
func (c *Config) ParseWorkspaces() []string {
	seen := make(map[string]struct{})

	var slugs []string

	for _, s := range strings.Split(c.Workspaces, ",") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		if _, dup := seen[s]; dup {
			continue
		}

		seen[s] = struct{}{}
		slugs = append(slugs, s)
	}

	return slugs
}

// IsProduction returns true when the environment is set to production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// defaultStateDB returns ~/.vault-llm-sync/state.db.
func defaultStateDB() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}

	return filepath.Join(home, ".vault-llm-sync", "state.db"), nil
}
