// Package state persists pass history and cached server metadata in a
// bbolt database. The sync engine itself is stateless between passes;
// this store only feeds the status subcommand and operator diagnostics.
package state

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const (
	// stateDirPerm is the permission mode for the state directory.
	stateDirPerm = fs.FileMode(0o700)

	// stateFilePerm is the permission mode for the state database file.
	stateFilePerm = fs.FileMode(0o600)

	// stateOpenTimeout is the maximum time to wait for the bolt
	// database lock.
	stateOpenTimeout = 5 * time.Second

	// maxPassHistory bounds the number of retained pass records. Older
	// records are pruned on append.
	maxPassHistory = 200
)

var (
	appBucket     = []byte("app")
	passesBucket  = []byte("passes")
	workspacesKey = []byte("workspaces")
)

// PassRecord summarizes one completed sync pass.
type PassRecord struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Deleted   int           `json:"deleted"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`

	// Error is set when the pass aborted before any writes (remote
	// inventory failure); per-file failures only bump Failed.
	Error string `json:"error,omitempty"`
}

// Store wraps a bbolt database holding pass history.
type Store struct {
	db *bolt.DB
}

// Open opens the state database at the given path, creating it and its
// parent directory if needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), stateDirPerm); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}

	db, err := bolt.Open(path, stateFilePerm, &bolt.Options{Timeout: stateOpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("opening state db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(appBucket); err != nil {
			return err
		}

		_, err := tx.CreateBucketIfNotExists(passesBucket)

		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing state db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// AppendPass records a completed pass and prunes history beyond
// maxPassHistory.
func (s *Store) AppendPass(rec PassRecord) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(passesBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)

		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}

		if err := b.Put(key, data); err != nil {
			return err
		}

		// Prune oldest entries past the retention cap. Sequence numbers
		// are the keys, so everything at or below seq-maxPassHistory is
		// stale.
		if seq <= maxPassHistory {
			return nil
		}

		cutoff := make([]byte, 8)
		binary.BigEndian.PutUint64(cutoff, seq-maxPassHistory)

		var stale [][]byte

		c := b.Cursor()
		for k, _ := c.First(); k != nil && bytes.Compare(k, cutoff) <= 0; k, _ = c.Next() {
			stale = append(stale, append([]byte(nil), k...))
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		return nil
	})
}

// LastPass returns the most recent pass record, or nil when no pass has
// run yet.
func (s *Store) LastPass() (*PassRecord, error) {
	var rec *PassRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		_, v := tx.Bucket(passesBucket).Cursor().Last()
		if v == nil {
			return nil
		}

		rec = &PassRecord{}

		return json.Unmarshal(v, rec)
	})

	return rec, err
}

// RecentPasses returns up to n pass records, newest first.
func (s *Store) RecentPasses(n int) ([]PassRecord, error) {
	var records []PassRecord

	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(passesBucket).Cursor()

		for k, v := c.Last(); k != nil && len(records) < n; k, v = c.Prev() {
			var rec PassRecord
			if err := json.Unmarshal(v, &rec); err != nil {
				return err
			}

			records = append(records, rec)
		}

		return nil
	})

	return records, err
}

// SetWorkspaces caches the server's workspace slugs for offline status
// output.
func (s *Store) SetWorkspaces(slugs []string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		data, err := json.Marshal(slugs)
		if err != nil {
			return err
		}

		return tx.Bucket(appBucket).Put(workspacesKey, data)
	})
}

// Workspaces returns the cached workspace slugs, or nil when none were
// cached yet.
func (s *Store) Workspaces() ([]string, error) {
	var slugs []string

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(appBucket).Get(workspacesKey)
		if v == nil {
			return nil
		}

		return json.Unmarshal(v, &slugs)
	})

	return slugs, err
}
