// Package storage keeps uploaded ticket attachments on the local filesystem
// and serves them under a public URL prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var ErrInvalidKey = errors.New("invalid blob key")

const maxFilenameLength = 100

// LocalBlobStore writes blobs below root. Keys are slash separated and may not
// escape root.
type LocalBlobStore struct {
	root       string
	publicPath string
	maxBytes   int64
}

func NewLocalBlobStore(root, publicPath string, maxBytes int64) (*LocalBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalBlobStore{
		root:       root,
		publicPath: "/" + strings.Trim(publicPath, "/"),
		maxBytes:   maxBytes,
	}, nil
}

// Put stores data under key and returns its public URL. The write goes to a
// temp file first so readers never see a partial blob.
func (s *LocalBlobStore) Put(ctx context.Context, key string, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("blob of %d bytes exceeds the %d byte limit", len(data), s.maxBytes)
	}

	clean, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	finalPath := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(finalPath), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close blob: %w", err)
	}
	if err := ctx.Err(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to store blob: %w", err)
	}

	return s.URL(clean), nil
}

// URL returns the public URL of key without checking that it exists.
func (s *LocalBlobStore) URL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return path.Join(s.publicPath, strings.Join(segments, "/"))
}

// Root is the directory served at the public path.
func (s *LocalBlobStore) Root() string {
	return s.root
}

// PublicPath is the URL prefix blobs are served under.
func (s *LocalBlobStore) PublicPath() string {
	return s.publicPath
}

func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return clean, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeFilename reduces an uploaded file name to a safe single path
// segment.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, ".")
	if name == "" {
		return "file"
	}
	if utf8.RuneCountInString(name) > maxFilenameLength {
		ext := path.Ext(name)
		if len(ext) > 10 {
			ext = ""
		}
		name = name[:maxFilenameLength-len(ext)] + ext
	}
	return name
}
