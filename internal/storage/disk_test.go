package storage

import (
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	s, err := NewDiskStore(t.TempDir(), "http://localhost/uploads/", zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSavePhotoReturnsPublicURL(t *testing.T) {
	s := newTestStore(t)
	url, err := s.SavePhoto("product.jpg", []byte("data"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "http://localhost/uploads/") || !strings.HasSuffix(url, ".jpg") {
		t.Errorf("url = %q", url)
	}
}

func TestSavePhotoRejectsSVG(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SavePhoto("logo.svg", []byte("<svg/>")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestSaveLogoAcceptsSVG(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveLogo("logo.svg", []byte("<svg/>")); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRejectsOversized(t *testing.T) {
	s := newTestStore(t)
	big := make([]byte, MaxUploadSize+1)
	if _, err := s.SavePhoto("big.png", big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestSaveRejectsUnknownExtension(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SavePhoto("file.exe", []byte("x")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("err = %v, want ErrUnsupportedType", err)
	}
}
