package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func tempMedia(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestNewFS_CreatesSubtrees(t *testing.T) {
	dir := t.TempDir()
	if _, err := NewFS(dir); err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	for _, sub := range []string{OriginalsDir, ArchiveDir, ThumbnailsDir} {
		info, err := os.Stat(filepath.Join(dir, sub))
		if err != nil || !info.IsDir() {
			t.Errorf("expected %s/ directory, err = %v", sub, err)
		}
	}
}

func TestWriteAndRead(t *testing.T) {
	s := tempMedia(t)
	content := []byte("%PDF-1.4 fake document")
	if err := s.Write("originals/0000001.pdf", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("originals/0000001.pdf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempMedia(t)
	if err := s.Write("originals/2023/04/bill.pdf", []byte("deep")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("originals/2023/04/bill.pdf")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempMedia(t)
	_ = s.Write("originals/del.pdf", []byte("bye"))
	if err := s.Delete("originals/del.pdf"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("originals/del.pdf"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestMove(t *testing.T) {
	s := tempMedia(t)
	_ = s.Write("originals/old.pdf", []byte("data"))
	if err := s.Move("originals/old.pdf", "originals/2023/new.pdf"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got, err := s.Read("originals/2023/new.pdf")
	if err != nil {
		t.Fatalf("Read after move: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
	if s.Exists("originals/old.pdf") {
		t.Error("old path should not exist")
	}
}

func TestList(t *testing.T) {
	s := tempMedia(t)
	_ = s.Write("originals/a.pdf", []byte("a"))
	_ = s.Write("originals/sub/b.pdf", []byte("b"))
	_ = s.Write("archive/a.pdf", []byte("archived"))

	items, err := s.List(OriginalsDir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
	for _, m := range items {
		if m.Size == 0 {
			t.Errorf("missing size for %s", m.Path)
		}
	}
}

func TestExists(t *testing.T) {
	s := tempMedia(t)
	if s.Exists("originals/none.pdf") {
		t.Error("Exists should be false for missing file")
	}
	_ = s.Write("originals/here.pdf", []byte("x"))
	if !s.Exists("originals/here.pdf") {
		t.Error("Exists should be true after write")
	}
	// Directories are not files.
	if s.Exists(OriginalsDir) {
		t.Error("Exists should be false for a directory")
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempMedia(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.pdf",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	// Overwrites go through a temp file and rename, so a reader never
	// observes a half-written file.
	s := tempMedia(t)
	_ = s.Write("originals/atomic.pdf", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("originals/atomic.pdf", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("originals/atomic.pdf")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, OriginalsDir, ".paperless-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
