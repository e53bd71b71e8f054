package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDirOpen(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "floor_2.svg"), []byte("<svg/>"), 0644); err != nil {
		t.Fatal(err)
	}

	src, err := NewDir(dir, "")
	if err != nil {
		t.Fatalf("NewDir: %v", err)
	}

	rc, err := src.Open(context.Background(), 2)
	if err != nil {
		t.Fatalf("Open(2): %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "<svg/>" {
		t.Errorf("read %q", data)
	}

	if _, err := src.Open(context.Background(), 3); !errors.Is(err, ErrFloorMissing) {
		t.Errorf("Open(3) = %v, want ErrFloorMissing", err)
	}
}

func TestDirCanceledContext(t *testing.T) {
	src, _ := NewDir(t.TempDir(), "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Open(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Open with canceled ctx = %v", err)
	}
}

func TestNewDirPattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"", false},
		{"level-%d.svg", false},
		{"floor.svg", true},
		{"floor_%d_%d.svg", true},
		{"floor_%s.svg", true},
		{"sub/floor_%d.svg", true},
	}

	for _, tt := range tests {
		_, err := NewDir("x", tt.pattern)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewDir(pattern=%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
		}
	}
}

func TestDirPath(t *testing.T) {
	src, _ := NewDir("/b", "level-%d.svg")
	if got := src.Path(4); got != filepath.Join("/b", "level-4.svg") {
		t.Errorf("Path(4) = %s", got)
	}
}

func TestMemory(t *testing.T) {
	m := Memory{1: []byte("one")}
	rc, err := m.Open(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "one" {
		t.Errorf("read %q", data)
	}
	if _, err := m.Open(context.Background(), 9); !errors.Is(err, ErrFloorMissing) {
		t.Errorf("Open(9) = %v, want ErrFloorMissing", err)
	}
	if m.Name() != "memory" {
		t.Errorf("Name() = %s", m.Name())
	}
}
