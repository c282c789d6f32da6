package consumer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/tomhoover/paperless-ngx/internal/checksum"
	"github.com/tomhoover/paperless-ngx/internal/storage"
)

func hasIssue(issues []Issue, level, substr string) bool {
	for _, is := range issues {
		if is.Level == level && strings.Contains(is.Message, substr) {
			return true
		}
	}
	return false
}

func TestSanity_CleanArchive(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	doc, err := c.Consume(context.Background(), "ok.pdf", []byte("fine"))
	if err != nil {
		t.Fatal(err)
	}
	thumb := fmt.Sprintf("%s/%07d.webp", storage.ThumbnailsDir, doc.ID)
	_ = media.Write(thumb, []byte("thumb"))

	issues, err := CheckSanity(db, media)
	if err != nil {
		t.Fatalf("CheckSanity: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("issues = %+v, want none", issues)
	}
}

func TestSanity_MissingOriginal(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	doc, err := c.Consume(context.Background(), "gone.pdf", []byte("soon gone"))
	if err != nil {
		t.Fatal(err)
	}
	_ = media.Delete(doc.Filename)

	issues, err := CheckSanity(db, media)
	if err != nil {
		t.Fatal(err)
	}
	if !hasIssue(issues, LevelError, "original file missing") {
		t.Errorf("issues = %+v, want missing-original error", issues)
	}
}

func TestSanity_ChecksumMismatch(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	doc, err := c.Consume(context.Background(), "tampered.pdf", []byte("original"))
	if err != nil {
		t.Fatal(err)
	}
	_ = media.Write(doc.Filename, []byte("tampered"))

	issues, err := CheckSanity(db, media)
	if err != nil {
		t.Fatal(err)
	}
	if !hasIssue(issues, LevelError, "checksum mismatch") {
		t.Errorf("issues = %+v, want checksum-mismatch error", issues)
	}
}

func TestSanity_ArchiveChecks(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	doc, err := c.Consume(context.Background(), "arch.pdf", []byte("arch"))
	if err != nil {
		t.Fatal(err)
	}

	archive := []byte("archived pdf/a")
	doc.ArchiveFilename = "archive/arch.pdf"
	doc.ArchiveChecksum = checksum.Sum(archive)
	if err := db.UpdateDocument(doc); err != nil {
		t.Fatal(err)
	}

	// Archive file not written yet: missing.
	issues, err := CheckSanity(db, media)
	if err != nil {
		t.Fatal(err)
	}
	if !hasIssue(issues, LevelError, "archive file missing") {
		t.Errorf("issues = %+v, want archive-missing error", issues)
	}

	// Written with the right content: only the thumbnail warning remains.
	_ = media.Write(doc.ArchiveFilename, archive)
	issues, _ = CheckSanity(db, media)
	if hasIssue(issues, LevelError, "archive") {
		t.Errorf("issues = %+v, want no archive errors", issues)
	}
}

func TestSanity_ThumbnailWarning(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	if _, err := c.Consume(context.Background(), "nothumb.pdf", []byte("n")); err != nil {
		t.Fatal(err)
	}

	issues, err := CheckSanity(db, media)
	if err != nil {
		t.Fatal(err)
	}
	if !hasIssue(issues, LevelWarning, "thumbnail missing") {
		t.Errorf("issues = %+v, want thumbnail warning", issues)
	}
}

func TestSanity_OrphanedFile(t *testing.T) {
	db, media := testEnv(t)

	_ = media.Write("originals/stray.pdf", []byte("stray"))

	issues, err := CheckSanity(db, media)
	if err != nil {
		t.Fatal(err)
	}
	if !hasIssue(issues, LevelWarning, "orphaned file") {
		t.Errorf("issues = %+v, want orphan warning", issues)
	}
}
