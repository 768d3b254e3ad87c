//go:build !integration && !e2e

package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_WriteRead(t *testing.T) {
	base := t.TempDir()
	s := NewFileStore(base)

	if err := s.Write("out/ext.der", []byte{0x30, 0x00}); err != nil {
		t.Fatalf("Write() unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "out", "ext.der")); err != nil {
		t.Fatalf("file not created under base: %v", err)
	}

	got, err := s.Read("out/ext.der")
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if !bytes.Equal(got, []byte{0x30, 0x00}) {
		t.Errorf("Read() = %x, want 3000", got)
	}

	abs := filepath.Join(base, "out", "ext.der")
	if exists, err := s.Exists(abs); err != nil || !exists {
		t.Errorf("Exists(absolute) = %v, %v, want true", exists, err)
	}
}

func TestFileStore_Missing(t *testing.T) {
	s := NewFileStore(t.TempDir())
	if exists, err := s.Exists("nope.pem"); err != nil || exists {
		t.Errorf("Exists() = %v, %v, want false, nil", exists, err)
	}
	if exists, _ := s.Exists("."); exists {
		t.Error("Exists() should be false for a directory")
	}
	if _, err := s.Read("nope.pem"); err == nil {
		t.Error("Read() expected error for missing file")
	}
}
