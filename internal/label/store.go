package label

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/label-service/internal/domain/model"
)

// URLPrefix is the path under which rendered documents are served.
const URLPrefix = "/api/label/"

const (
	filePrefix  = "batch_"
	fileSuffix  = ".pdf"
	filePattern = filePrefix + "*" + fileSuffix
)

// Store keeps rendered documents in a single directory.
type Store struct {
	dir string
	now func() time.Time
}

// NewStore creates the output directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create label output dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileName returns the document file name for a batch id.
func FileName(batchID string) string {
	return filePrefix + batchID + fileSuffix
}

// URL returns the document reference for a file name.
func URL(fileName string) string {
	return URLPrefix + fileName
}

// Write creates the document for batchID using write. A partially written
// file is removed on failure.
func (s *Store) Write(batchID string, write func(io.Writer) error) (string, error) {
	name := FileName(batchID)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return name, nil
}

// Resolve maps a document reference (a URL under URLPrefix or a bare file
// name) to a path inside the output directory. References that escape the
// directory or do not exist yield model.ErrDocumentNotFound.
func (s *Store) Resolve(ref string) (string, error) {
	name := strings.TrimPrefix(strings.TrimSpace(ref), URLPrefix)
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%q: %w", ref, model.ErrDocumentNotFound)
	}
	path := filepath.Join(s.dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%q: %w", ref, model.ErrDocumentNotFound)
	}
	return path, nil
}

// Remove deletes a document by file name. Missing files are ignored.
func (s *Store) Remove(fileName string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(fileName)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Prune removes documents last modified before now-retention and returns
// how many were removed. A non-positive retention disables pruning.
func (s *Store) Prune(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read label output dir: %w", err)
	}
	cutoff := s.now().Add(-retention)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(filePattern, entry.Name()); !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to prune label document")
			continue
		}
		removed++
	}
	return removed, nil
}
