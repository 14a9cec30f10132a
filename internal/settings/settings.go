// Package settings persists the label layout as a flat TOML record.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/label-service/internal/domain/model"
)

// DefaultFileName is used when no settings path is configured.
const DefaultFileName = "label_settings.toml"

// Store reads and writes layout settings at a fixed path. Concurrent
// processes are serialised through a sibling lock file; the last write wins.
type Store struct {
	path string
	lock *flock.Flock
}

// NewStore returns a store for path. The file does not need to exist.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path, lock: flock.New(path + ".lock")}
}

// Path returns the settings file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored layout, clamped to its bounds. A missing or
// unparsable file yields the default layout.
func (s *Store) Load() (model.LayoutSettings, error) {
	if err := s.ensureDir(); err != nil {
		return model.DefaultLayoutSettings(), err
	}
	if err := s.lock.RLock(); err != nil {
		return model.DefaultLayoutSettings(), fmt.Errorf("lock settings: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultLayoutSettings(), nil
	}
	if err != nil {
		return model.DefaultLayoutSettings(), fmt.Errorf("read settings: %w", err)
	}

	var layout model.LayoutSettings
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&layout); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Unparsable layout settings, using defaults")
		return model.DefaultLayoutSettings(), nil
	}
	return layout.Clamp(), nil
}

// Save clamps layout and writes it, replacing the previous record.
func (s *Store) Save(layout model.LayoutSettings) (model.LayoutSettings, error) {
	layout = layout.Clamp()

	data, err := toml.Marshal(layout)
	if err != nil {
		return layout, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.ensureDir(); err != nil {
		return layout, err
	}
	if err := s.lock.Lock(); err != nil {
		return layout, fmt.Errorf("lock settings: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return layout, fmt.Errorf("write settings: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return layout, fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return layout, fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return layout, fmt.Errorf("replace settings: %w", err)
	}
	return layout, nil
}

func (s *Store) ensureDir() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	return nil
}
