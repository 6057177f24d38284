package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAppendAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	lb, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	lb.Info("first %d", 1)
	lb.Warn("second")
	lb.Error("third")

	lines := lb.Tail(2)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "WARN") || !strings.Contains(lines[0], "second") {
		t.Fatalf("unexpected tail line %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR") {
		t.Fatalf("unexpected tail line %q", lines[1])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "first 1") {
		t.Fatalf("log file missing formatted entry:\n%s", data)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var lb *Logbook
	lb.Info("ignored")
	lb.Warn("ignored")
	lb.Error("ignored")
	if lb.Path() != "" {
		t.Fatalf("nil logbook must report an empty path")
	}
	if lines := lb.Tail(5); lines != nil {
		t.Fatalf("nil logbook must have no tail")
	}
}

func TestNewRequiresPath(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatalf("blank path must be rejected")
	}
}

func TestTailOfMissingFile(t *testing.T) {
	lb, err := New(filepath.Join(t.TempDir(), "never-written.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines := lb.Tail(3); lines != nil {
		t.Fatalf("missing file must have no tail, got %v", lines)
	}
}
