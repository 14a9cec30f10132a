package label

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/label-service/internal/domain/model"
)

func TestStore_WriteAndResolve(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "labels"))
	require.NoError(t, err)

	name, err := store.Write("abc", func(w io.Writer) error {
		_, err := w.Write([]byte("%PDF-1.3"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, "batch_abc.pdf", name)
	assert.Equal(t, "/api/label/batch_abc.pdf", URL(name))

	tests := []struct {
		name    string
		ref     string
		wantErr bool
	}{
		{name: "url reference", ref: "/api/label/batch_abc.pdf"},
		{name: "bare file name", ref: "batch_abc.pdf"},
		{name: "missing file", ref: "/api/label/batch_zzz.pdf", wantErr: true},
		{name: "parent traversal", ref: "/api/label/../secrets.pdf", wantErr: true},
		{name: "nested path", ref: "sub/batch_abc.pdf", wantErr: true},
		{name: "backslash", ref: `..\batch_abc.pdf`, wantErr: true},
		{name: "empty", ref: "", wantErr: true},
		{name: "dot dot", ref: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := store.Resolve(tt.ref)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrDocumentNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(store.Dir(), "batch_abc.pdf"), path)
		})
	}
}

func TestStore_WriteFailureRemovesFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	boom := errors.New("render failed")
	_, err = store.Write("broken", func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, statErr := os.Stat(filepath.Join(store.Dir(), FileName("broken")))
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_RemoveMissingIsNoop(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, store.Remove("batch_none.pdf"))
}

func TestStore_Prune(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	write := func(name string, age time.Duration) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(path, now.Add(-age), now.Add(-age)))
	}
	write("batch_old.pdf", 48*time.Hour)
	write("batch_new.pdf", time.Hour)
	write("notes.txt", 72*time.Hour)

	removed, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, filepath.Join(dir, "batch_old.pdf"))
	assert.FileExists(t, filepath.Join(dir, "batch_new.pdf"))
	assert.FileExists(t, filepath.Join(dir, "notes.txt"))

	removed, err = store.Prune(0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
