package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Upload size and type limits.
const MaxUploadSize = 5 * 1024 * 1024 // 5 MB

var (
	ErrTooLarge        = errors.New("file exceeds 5MB limit")
	ErrUnsupportedType = errors.New("unsupported file type")

	photoExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	logoExts  = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".svg": true}
)

// DiskStore persists uploads under a local directory and serves them back
// via a public base URL.
type DiskStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewDiskStore(dir, baseURL string, log *zap.Logger) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}, nil
}

// Dir returns the directory uploads are written to, for static serving.
func (s *DiskStore) Dir() string { return s.dir }

// SavePhoto stores a product photo. Only JPG and PNG are accepted.
func (s *DiskStore) SavePhoto(filename string, data []byte) (string, error) {
	return s.save(filename, data, photoExts)
}

// SaveLogo stores a business logo. SVG is allowed in addition to JPG/PNG.
func (s *DiskStore) SaveLogo(filename string, data []byte) (string, error) {
	return s.save(filename, data, logoExts)
}

func (s *DiskStore) save(filename string, data []byte, allowed map[string]bool) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return "", ErrUnsupportedType
	}

	name := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", err
	}

	return s.baseURL + "/" + name, nil
}
