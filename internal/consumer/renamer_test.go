package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/tomhoover/paperless-ngx/internal/models"
)

func TestRenamer_FromMetadata(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	doc, err := c.Consume(context.Background(), "20230405Z - Electric bill.pdf", []byte("bill"))
	if err != nil {
		t.Fatal(err)
	}

	r := NewRenamer(db, media, testLogger())
	n, err := r.RenameAll()
	if err != nil {
		t.Fatalf("RenameAll: %v", err)
	}
	if n != 1 {
		t.Errorf("renamed = %d, want 1", n)
	}

	got, err := db.GetDocument(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := "originals/2023-04-05 Electric bill.pdf"
	if got.Filename != want {
		t.Errorf("filename = %q, want %q", got.Filename, want)
	}
	if !media.Exists(want) {
		t.Error("renamed file missing on disk")
	}
	if media.Exists(doc.Filename) {
		t.Error("old file still on disk")
	}
}

func TestRenamer_IncludesCorrespondent(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	corr := models.Correspondent{Name: "Utility Co"}
	if err := db.CreateCorrespondent(&corr); err != nil {
		t.Fatal(err)
	}

	doc, err := c.Consume(context.Background(), "20230102Z - Gas.pdf", []byte("gas"))
	if err != nil {
		t.Fatal(err)
	}
	doc.CorrespondentID = &corr.ID
	if err := db.UpdateDocument(doc); err != nil {
		t.Fatal(err)
	}

	r := NewRenamer(db, media, testLogger())
	if _, err := r.RenameAll(); err != nil {
		t.Fatal(err)
	}

	got, _ := db.GetDocument(doc.ID)
	want := "originals/2023-01-02 Utility Co Gas.pdf"
	if got.Filename != want {
		t.Errorf("filename = %q, want %q", got.Filename, want)
	}
}

func TestRenamer_CollisionCounter(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	if _, err := c.Consume(context.Background(), "20230405Z - Invoice.pdf", []byte("one")); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Consume(context.Background(), "20230405z - Invoice.pdf", []byte("two")); err != nil {
		t.Fatal(err)
	}

	r := NewRenamer(db, media, testLogger())
	if _, err := r.RenameAll(); err != nil {
		t.Fatal(err)
	}

	if !media.Exists("originals/2023-04-05 Invoice.pdf") {
		t.Error("first document missing")
	}
	if !media.Exists("originals/2023-04-05 Invoice_01.pdf") {
		t.Error("colliding document should get _01 suffix")
	}
}

func TestRenamer_StableOnSecondRun(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)
	if _, err := c.Consume(context.Background(), "20230405Z - Stable.pdf", []byte("s")); err != nil {
		t.Fatal(err)
	}

	r := NewRenamer(db, media, testLogger())
	if _, err := r.RenameAll(); err != nil {
		t.Fatal(err)
	}
	n, err := r.RenameAll()
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("second run renamed %d documents, want 0", n)
	}
}

func TestRenamer_SanitizesTitle(t *testing.T) {
	db, media := testEnv(t)
	c := New(db, media, nil, testLogger(), nil)

	doc, err := c.Consume(context.Background(), "weird.pdf", []byte("w"))
	if err != nil {
		t.Fatal(err)
	}
	doc.Title = `tax: 2023/Q1 "final"?`
	doc.Created = time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := db.UpdateDocument(doc); err != nil {
		t.Fatal(err)
	}

	r := NewRenamer(db, media, testLogger())
	if _, err := r.RenameAll(); err != nil {
		t.Fatal(err)
	}

	got, _ := db.GetDocument(doc.ID)
	want := "originals/2023-06-01 tax- 2023-Q1 -final--.pdf"
	if got.Filename != want {
		t.Errorf("filename = %q, want %q", got.Filename, want)
	}
}
