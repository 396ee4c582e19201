// Package assets stores uploaded team media (logos, icons) on disk and
// serves them back under a stable URL path.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// URLPrefix is the path assets are served under.
const URLPrefix = "/assets/"

// maxUploadBytes caps a single upload. Team logos are small; anything past
// this is a mistake or abuse.
const maxUploadBytes = 5 << 20

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
	".webp": true,
}

// Store is a disk-backed asset store. Filenames are generated, never taken
// from the client, so uploads cannot collide or escape the directory.
type Store struct {
	dir string
}

// NewStore ensures the storage directory exists.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory, for wiring the file server.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes an upload to disk and returns its serving URL path. The
// original filename contributes only its extension.
func (s *Store) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported file type %q", ext)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create asset file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, maxUploadBytes+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write asset: %w", err)
	}
	if n > maxUploadBytes {
		os.Remove(path)
		return "", fmt.Errorf("upload exceeds %d bytes", maxUploadBytes)
	}

	log.Info().Str("asset", name).Int64("bytes", n).Msg("asset stored")
	return URLPrefix + name, nil
}
