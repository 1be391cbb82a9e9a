package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, ws *Workspace) <-chan Change {
	t.Helper()
	changes := make(chan Change, 16)
	w, err := NewWatcher(ws, func(c Change) { changes <- c }, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		assert.ErrorIs(t, <-done, context.Canceled)
		assert.NoError(t, w.Close())
	})
	return changes
}

func nextChange(t *testing.T, changes <-chan Change) Change {
	t.Helper()
	select {
	case c := <-changes:
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
		return Change{}
	}
}

func TestWatcherReportsCreateAndRemove(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	changes := startWatcher(t, ws)

	path := writeFile(t, root, "BillingService.java", billingService)
	c := nextChange(t, changes)
	assert.Equal(t, path, c.Path)
	require.False(t, c.Removed())
	require.NotNil(t, c.File.Extraction.Model)
	assert.Equal(t, "com.acme.billing.BillingService", c.File.Extraction.Model.QualifiedName())

	require.NoError(t, os.Remove(path))
	c = nextChange(t, changes)
	assert.Equal(t, path, c.Path)
	assert.True(t, c.Removed())
	assert.Nil(t, ws.Model(path))
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	changes := startWatcher(t, ws)

	require.NoError(t, os.MkdirAll(filepath.Join(root, "com", "acme"), 0o755))
	path := writeFile(t, root, "com/acme/InvoiceController.java", invoiceController)

	c := nextChange(t, changes)
	assert.Equal(t, path, c.Path)
	require.NotNil(t, ws.Model(path))
}

func TestWatcherIgnoresUnselectedFiles(t *testing.T) {
	root := t.TempDir()
	ws := New(root)
	changes := startWatcher(t, ws)

	writeFile(t, root, "notes.txt", "not java")
	path := writeFile(t, root, "BillingService.java", billingService)

	c := nextChange(t, changes)
	assert.Equal(t, path, c.Path)
	assert.Equal(t, 1, ws.Len())
}
