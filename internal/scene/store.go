package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.uber.org/zap"
)

const ext = ".json"

// Store keeps documents as <Dir>/<name>.json.
type Store struct {
	Dir string
	log *zap.Logger
}

func NewStore(dir string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{Dir: dir, log: log.Named("scene")}
}

func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid scene name %q", name)
	}
	return filepath.Join(s.Dir, strings.TrimSuffix(name, ext)+ext), nil
}

// Save writes d under name. It reports false when the file already held
// the same bytes and was left alone.
func (s *Store) Save(name string, d *Document) (bool, error) {
	path, err := s.path(name)
	if err != nil {
		return false, err
	}
	data, err := Marshal(d)
	if err != nil {
		return false, err
	}
	sum := Digest(data)
	if old, err := os.ReadFile(path); err == nil && Digest(old) == sum {
		s.log.Debug("scene unchanged", zap.String("name", name), zap.Uint64("digest", sum))
		return false, nil
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return false, fmt.Errorf("create scene dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, "."+name+"-*")
	if err != nil {
		return false, fmt.Errorf("write scene: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, fmt.Errorf("write scene: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("write scene: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("write scene: %w", err)
	}
	s.log.Info("scene saved",
		zap.String("name", name),
		zap.Int("entities", len(d.Entities)),
		zap.Uint64("digest", sum))
	return true, nil
}

// Load reads and validates the named document.
func (s *Store) Load(name string) (*Document, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read scene: %w", err)
	}
	d, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	return d, nil
}

// Digest hashes the stored file for name.
func (s *Store) Digest(name string) (uint64, error) {
	path, err := s.path(name)
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	if err != nil {
		return 0, err
	}
	return Digest(data), nil
}

// List returns the stored scene names, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || filepath.Ext(n) != ext {
			continue
		}
		names = append(names, strings.TrimSuffix(n, ext))
	}
	slices.Sort(names)
	return names, nil
}
