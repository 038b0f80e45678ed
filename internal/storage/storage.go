// Package storage persists uploaded files and hands back their public path.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

// Storage accepts a blob with its declared MIME type.
type Storage interface {
	Save(ctx context.Context, name, mime string, r io.Reader) (Object, error)
}

// Object describes a stored file.
type Object struct {
	Path string `json:"path"`
	Mime string `json:"mime"`
	Size int64  `json:"size"`
}

// DefaultMaxBytes caps one upload.
const DefaultMaxBytes = 20 << 20

var (
	ErrTooLarge      = errors.New("file exceeds the upload limit")
	ErrTypeForbidden = errors.New("file type is not allowed")
)

// DocumentExtension maps an allowed MIME type of the resource library to
// the extension written to disk.
func DocumentExtension(mime string) (string, bool) {
	switch mime {
	case "application/pdf":
		return ".pdf", true
	case "application/msword":
		return ".doc", true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return ".docx", true
	case "application/vnd.ms-excel":
		return ".xls", true
	case "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return ".xlsx", true
	case "application/zip", "application/x-zip-compressed":
		return ".zip", true
	case "text/csv":
		return ".csv", true
	}
	return "", false
}

// LocalStorage writes into Dir and serves from PublicPrefix.
type LocalStorage struct {
	Dir          string
	PublicPrefix string
	MaxBytes     int64
	Allowed      func(mime string) (ext string, ok bool)
	newID        func() string
}

func NewLocalStorage(dir, publicPrefix string, maxBytes int64) *LocalStorage {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &LocalStorage{
		Dir:          dir,
		PublicPrefix: publicPrefix,
		MaxBytes:     maxBytes,
		Allowed:      DocumentExtension,
		newID:        utilities.NewSnowflakeID,
	}
}

// Save streams r to disk under a generated name. The original name only
// contributes a sanitized stem. Partial files are removed on failure.
func (s *LocalStorage) Save(ctx context.Context, name, mime string, r io.Reader) (Object, error) {
	mime = normalizeMime(mime)
	ext, ok := s.Allowed(mime)
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrTypeForbidden, mime)
	}
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Object{}, fmt.Errorf("create upload dir: %w", err)
	}

	filename := s.newID() + "-" + sanitizeStem(name) + ext
	full := filepath.Join(s.Dir, filename)
	out, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return Object{}, fmt.Errorf("create file: %w", err)
	}
	n, err := io.Copy(out, io.LimitReader(r, s.MaxBytes+1))
	closeErr := out.Close()
	switch {
	case err != nil:
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("write file: %w", err)
	case n > s.MaxBytes:
		_ = os.Remove(full)
		return Object{}, ErrTooLarge
	case closeErr != nil:
		_ = os.Remove(full)
		return Object{}, fmt.Errorf("close file: %w", closeErr)
	}
	return Object{Path: path.Join(s.PublicPrefix, filename), Mime: mime, Size: n}, nil
}

func normalizeMime(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}

func sanitizeStem(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '.':
			b.WriteByte('-')
		}
		if b.Len() >= 48 {
			break
		}
	}
	stem := strings.Trim(b.String(), "-_")
	if stem == "" {
		return "file"
	}
	return stem
}
