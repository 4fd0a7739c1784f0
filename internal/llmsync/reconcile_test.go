package llmsync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func localAt(key string, mod time.Time) LocalRecord {
	return LocalRecord{Key: key, SourcePath: Unmangle(key), Mangled: key, ModifiedAt: mod}
}

func remoteAt(key string, pub time.Time) RemoteRecord {
	return RemoteRecord{Key: key, Name: key + "-abc123.json", Published: pub}
}

func TestReconcile_EmptyInventories(t *testing.T) {
	plan := Reconcile(LocalInventory{}, RemoteInventory{})

	assert.True(t, plan.Empty())
	assert.Zero(t, plan.Total())
}

func TestReconcile_NewLocalFile(t *testing.T) {
	now := time.Now()

	local := LocalInventory{"base/a.md": localAt("base/a.md", now)}

	plan := Reconcile(local, RemoteInventory{})

	assert.Equal(t, []string{"base/a.md"}, plan.Create)
	assert.Empty(t, plan.Update)
	assert.Empty(t, plan.Delete)
}

func TestReconcile_ModifiedLocalFile(t *testing.T) {
	pub := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	local := LocalInventory{"base/a.md": localAt("base/a.md", pub.Add(time.Hour))}
	remote := RemoteInventory{"base/a.md": remoteAt("base/a.md", pub)}

	plan := Reconcile(local, remote)

	assert.Empty(t, plan.Create)
	assert.Equal(t, []string{"base/a.md"}, plan.Update)
	assert.Empty(t, plan.Delete)
}

func TestReconcile_RemoteOrphan(t *testing.T) {
	pub := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	remote := RemoteInventory{"base/gone.md": remoteAt("base/gone.md", pub)}

	plan := Reconcile(LocalInventory{}, remote)

	assert.Empty(t, plan.Create)
	assert.Empty(t, plan.Update)
	assert.Equal(t, []string{"base/gone.md"}, plan.Delete)
}

func TestReconcile_UnchangedFile(t *testing.T) {
	pub := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	local := LocalInventory{"base/a.md": localAt("base/a.md", pub.Add(-time.Hour))}
	remote := RemoteInventory{"base/a.md": remoteAt("base/a.md", pub)}

	assert.True(t, Reconcile(local, remote).Empty())
}

func TestReconcile_EqualTimestampsNoUpdate(t *testing.T) {
	// Strictly-newer comparison: identical times mean unchanged, so a
	// pass immediately after an upload stays write-free.
	at := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	local := LocalInventory{"base/a.md": localAt("base/a.md", at)}
	remote := RemoteInventory{"base/a.md": remoteAt("base/a.md", at)}

	assert.True(t, Reconcile(local, remote).Empty())
}

func TestReconcile_MixedPartition(t *testing.T) {
	pub := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	local := LocalInventory{
		"base/new.md":       localAt("base/new.md", pub),
		"base/stale.md":     localAt("base/stale.md", pub.Add(time.Minute)),
		"base/unchanged.md": localAt("base/unchanged.md", pub.Add(-time.Minute)),
	}
	remote := RemoteInventory{
		"base/stale.md":     remoteAt("base/stale.md", pub),
		"base/unchanged.md": remoteAt("base/unchanged.md", pub),
		"base/orphan.md":    remoteAt("base/orphan.md", pub),
	}

	plan := Reconcile(local, remote)

	assert.Equal(t, []string{"base/new.md"}, plan.Create)
	assert.Equal(t, []string{"base/stale.md"}, plan.Update)
	assert.Equal(t, []string{"base/orphan.md"}, plan.Delete)
	assert.Equal(t, 3, plan.Total())
}

func TestReconcile_SortedDeterministicOutput(t *testing.T) {
	now := time.Now()

	local := LocalInventory{
		"base/c.md": localAt("base/c.md", now),
		"base/a.md": localAt("base/a.md", now),
		"base/b.md": localAt("base/b.md", now),
	}

	for n := 0; n < 5; n++ {
		plan := Reconcile(local, RemoteInventory{})
		assert.Equal(t, []string{"base/a.md", "base/b.md", "base/c.md"}, plan.Create)
	}
}
