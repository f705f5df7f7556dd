// Package blobstore persists uploaded documents on the local filesystem
// under a configurable root, partitioned by purpose (licenses, bids).
// Stored names embed a millisecond timestamp and a random disambiguator,
// so files are never overwritten.
package blobstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Purposes partition the storage root into separate directories.
const (
	PurposeBids     = "bids"
	PurposeLicenses = "licenses"
)

// Store writes and reads opaque blobs keyed by relative path.
type Store struct {
	root   string
	logger zerolog.Logger
}

// New constructs a local blob store rooted at dir.
func New(dir string, logger zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory must be provided")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	return &Store{
		root:   dir,
		logger: logger.With().Str("component", "blobstore").Logger(),
	}, nil
}

// Save streams the reader to disk and returns the relative path
// (<purpose>/<epoch-ms>-<random><ext>) to persist alongside the record.
func (s *Store) Save(ctx context.Context, purpose, originalName string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, purpose)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", purpose, err)
	}

	name := buildStoredName(originalName)
	relative := filepath.Join(purpose, name)

	file, err := os.OpenFile(filepath.Join(s.root, relative), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create blob file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}

	s.logger.Info().Str("path", relative).Msg("blob stored")

	return relative, nil
}

// Open returns a reader over a previously stored blob. Callers must close it.
// os.ErrNotExist surfaces unchanged so callers can map it to a not-found result.
func (s *Store) Open(ctx context.Context, relative string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Reject traversal outside the storage root.
	clean := filepath.Clean(relative)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, os.ErrNotExist
	}

	return os.Open(filepath.Join(s.root, clean))
}

func buildStoredName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".bin"
	}

	buf := make([]byte, 6)
	_, _ = rand.Read(buf)

	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(buf), ext)
}
