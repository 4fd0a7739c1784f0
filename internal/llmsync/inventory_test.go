package llmsync

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llm-tools/vault-llm-sync/internal/anythingllm"
	"github.com/llm-tools/vault-llm-sync/internal/vault"
)

func TestBuildLocal(t *testing.T) {
	mod := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)

	files := []vault.File{
		{Path: "Projects/alpha.md", ModTime: mod},
		{Path: "notes.md", ModTime: mod.Add(time.Hour)},
	}

	inv := BuildLocal(files, "obsidian-vault")

	require.Len(t, inv, 2)

	rec := inv["obsidian-vault/Projects::alpha.md"]
	assert.Equal(t, "Projects/alpha.md", rec.SourcePath)
	assert.Equal(t, "Projects::alpha.md", rec.Mangled)
	assert.Equal(t, mod, rec.ModifiedAt)
}

func TestBuildLocal_DuplicatePathsFirstWins(t *testing.T) {
	// Overlapping configured folders can report the same file twice.
	first := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	files := []vault.File{
		{Path: "Projects/alpha.md", ModTime: first},
		{Path: "Projects/alpha.md", ModTime: first.Add(time.Hour)},
	}

	inv := BuildLocal(files, "base")

	require.Len(t, inv, 1)
	assert.Equal(t, first, inv["base/Projects::alpha.md"].ModifiedAt)
}

type fakeLister struct {
	docs []anythingllm.Document
	err  error
}

func (f *fakeLister) ListFolder(_ context.Context, _ string) ([]anythingllm.Document, error) {
	return f.docs, f.err
}

func TestBuildRemote(t *testing.T) {
	pub := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

	lister := &fakeLister{docs: []anythingllm.Document{
		{Name: "Projects::alpha.md-abc123.json", Title: "Projects::alpha.md", Published: pub},
	}}

	inv, err := BuildRemote(context.Background(), lister, "base")
	require.NoError(t, err)
	require.Len(t, inv, 1)

	rec := inv["base/Projects::alpha.md"]
	assert.Equal(t, "Projects::alpha.md-abc123.json", rec.Name)
	assert.Equal(t, pub, rec.Published)
}

func TestBuildRemote_MissingFolderIsEmpty(t *testing.T) {
	lister := &fakeLister{err: fmt.Errorf("folder base: %w", anythingllm.ErrFolderNotFound)}

	inv, err := BuildRemote(context.Background(), lister, "base")
	require.NoError(t, err)
	assert.Empty(t, inv)
	assert.NotNil(t, inv)
}

func TestBuildRemote_ListingFailureAborts(t *testing.T) {
	boom := errors.New("server exploded")
	lister := &fakeLister{err: boom}

	inv, err := BuildRemote(context.Background(), lister, "base")
	assert.Nil(t, inv)
	assert.ErrorIs(t, err, boom)
}

func TestBuildRemote_DuplicateTitlesKeepNewest(t *testing.T) {
	// keep-in-workspace leaves several stored versions with the same
	// title; staleness must compare against the latest upload.
	older := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(2 * time.Hour)

	lister := &fakeLister{docs: []anythingllm.Document{
		{Name: "a.md-old.json", Title: "a.md", Published: older},
		{Name: "a.md-new.json", Title: "a.md", Published: newer},
		{Name: "a.md-mid.json", Title: "a.md", Published: older.Add(time.Hour)},
	}}

	inv, err := BuildRemote(context.Background(), lister, "base")
	require.NoError(t, err)
	require.Len(t, inv, 1)

	rec := inv["base/a.md"]
	assert.Equal(t, "a.md-new.json", rec.Name)
	assert.Equal(t, newer, rec.Published)
}

func TestBuildRemote_TitleFallsBackToName(t *testing.T) {
	pub := time.Now()

	lister := &fakeLister{docs: []anythingllm.Document{
		{Name: "notes.md-8f3a91.json", Published: pub},
	}}

	inv, err := BuildRemote(context.Background(), lister, "base")
	require.NoError(t, err)

	_, ok := inv["base/notes.md"]
	assert.True(t, ok)
}

func TestTitleFromName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "id suffix stripped", in: "notes.md-8f3a91.json", want: "notes.md"},
		{name: "keeps dashes inside title", in: "daily-log.md-8f3a91.json", want: "daily-log.md"},
		{name: "no dash", in: "plain.json", want: "plain"},
		{name: "no json suffix", in: "raw-name", want: "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, titleFromName(tt.in))
		})
	}
}
