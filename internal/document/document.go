// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document holds uploaded PDF bytes in temporary files for the
// duration of one assessment. A Document is written once, read once by the
// extractor, and removed once.
package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTooLarge is returned when an upload exceeds the store's byte limit.
var ErrTooLarge = errors.New("document exceeds upload limit")

// Store writes uploads into temporary files under Dir.
type Store struct {
	// Dir is the directory for temp files; empty means os.TempDir().
	Dir string

	// MaxBytes rejects uploads larger than this; zero means unlimited.
	MaxBytes int64
}

// NewStore returns a Store rooted at dir with the given upload limit.
func NewStore(dir string, maxBytes int64) *Store {
	return &Store{Dir: dir, MaxBytes: maxBytes}
}

// Document is an uploaded file exposed through a filesystem path.
type Document struct {
	// Path is the temporary file holding the uploaded bytes.
	Path string

	// Name is the original file name supplied by the uploader.
	Name string

	// Size is the number of bytes written.
	Size int64
}

// Save copies r into a new temporary file. On any failure the partial file
// is removed before returning.
func (s *Store) Save(r io.Reader, name string) (*Document, error) {
	if s.Dir != "" {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating upload directory %s: %w", s.Dir, err)
		}
	}

	f, err := os.CreateTemp(s.Dir, "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()

	src := r
	if s.MaxBytes > 0 {
		src = io.LimitReader(r, s.MaxBytes+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()

	switch {
	case copyErr != nil:
		os.Remove(path)
		return nil, fmt.Errorf("writing upload: %w", copyErr)
	case closeErr != nil:
		os.Remove(path)
		return nil, fmt.Errorf("closing upload: %w", closeErr)
	case s.MaxBytes > 0 && n > s.MaxBytes:
		os.Remove(path)
		return nil, fmt.Errorf("%w (%d bytes)", ErrTooLarge, s.MaxBytes)
	}

	return &Document{Path: path, Name: filepath.Base(name), Size: n}, nil
}

// Remove deletes the temporary file. Removing an already removed document
// is not an error.
func (d *Document) Remove() error {
	if d == nil || d.Path == "" {
		return nil
	}
	if err := os.Remove(d.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", d.Path, err)
	}
	return nil
}
