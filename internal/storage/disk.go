package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrTooLarge     = errors.New("file exceeds maximum upload size")
	ErrInvalidName  = errors.New("invalid stored name")
)

// allowedContentTypes is the upload allow-list: documents plus common
// text and image types. Everything else is rejected before any byte is
// written.
var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"text/plain":      {},
	"text/markdown":   {},
	"text/csv":        {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
}

// AllowedContentType reports whether ct (possibly carrying parameters such
// as "; charset=utf-8") is accepted for upload.
func AllowedContentType(ct string) bool {
	base := strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(base, ";"); idx >= 0 {
		base = strings.TrimSpace(base[:idx])
	}
	_, ok := allowedContentTypes[base]
	return ok
}

// DiskStore persists blobs as flat files under a single directory. Stored
// names are generated server-side; client filenames never reach the path.
type DiskStore struct {
	dir      string
	maxBytes int64
}

func NewDiskStore(dir string, maxUploadMB int) (*DiskStore, error) {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir failed: %w", err)
	}
	return &DiskStore{
		dir:      dir,
		maxBytes: int64(maxUploadMB) * 1024 * 1024,
	}, nil
}

// MaxBytes returns the upload size cap in bytes.
func (s *DiskStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save writes data under a generated collision-resistant name preserving
// ext and returns that name. The write goes through a temp file plus
// rename so a cancelled request never leaves a half-written blob behind.
func (s *DiskStore) Save(data []byte, ext string) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	name := buildStoredName(ext)
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp blob failed: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("write blob failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("close blob failed: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		_ = os.Remove(tmpName)
		return "", fmt.Errorf("finalize blob failed: %w", err)
	}
	return name, nil
}

func (s *DiskStore) Read(storedName string) ([]byte, error) {
	path, err := s.resolve(storedName)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("read blob failed: %w", err)
	}
	return data, nil
}

// Delete removes the blob. Deleting an absent blob is not an error.
func (s *DiskStore) Delete(storedName string) error {
	path, err := s.resolve(storedName)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob failed: %w", err)
	}
	return nil
}

// resolve rejects anything that could escape the storage directory.
func (s *DiskStore) resolve(storedName string) (string, error) {
	if storedName == "" ||
		strings.ContainsAny(storedName, `/\`) ||
		strings.Contains(storedName, "..") {
		return "", ErrInvalidName
	}
	return filepath.Join(s.dir, storedName), nil
}

func buildStoredName(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if ext == "" || len(ext) > 10 || strings.ContainsAny(ext[1:], `./\`) {
		ext = ".dat"
	}
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), random, ext)
}
