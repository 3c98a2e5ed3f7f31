package localfs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Save(context.Background(), "report.xlsx", strings.NewReader("data")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	rc, err := s.Open(context.Background(), "report.xlsx")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "data" {
		t.Fatalf("unexpected content %q", got)
	}
}

func TestOpenMissingIsNotExist(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := s.Open(context.Background(), "missing.csv"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not exist, got %v", err)
	}
}

func TestRejectsEscapingKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, key := range []string{"../x", "/etc/passwd", ""} {
		if _, err := s.Open(context.Background(), key); err == nil || errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("expected invalid key error for %q, got %v", key, err)
		}
	}
}

func TestTemplateSourcePrefersStoredTemplate(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	generated := 0
	src := NewTemplateSource(s, func() ([]byte, error) {
		generated++
		return []byte("generated"), nil
	})

	data, err := src.PrintTemplate(context.Background())
	if err != nil || string(data) != "generated" || generated != 1 {
		t.Fatalf("expected generated fallback, got %q %v", data, err)
	}

	if err := s.Save(context.Background(), PrintTemplateKey, strings.NewReader("stored")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err = src.PrintTemplate(context.Background())
	if err != nil || string(data) != "stored" || generated != 1 {
		t.Fatalf("expected stored template, got %q %v", data, err)
	}
}
