//go:build sqlite_fts5

package store

import (
	"testing"

	"github.com/tomhoover/paperless-ngx/internal/models"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents_fts`).Scan(&count); err != nil {
		t.Fatalf("documents_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	d := models.Document{
		Title:    "Insurance policy",
		Content:  "The archive provides powerful full-text search over scanned paperwork.",
		Checksum: "f1",
	}
	if err := db.CreateDocument(&d); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].ID != d.ID {
		t.Errorf("id = %d, want %d", results[0].ID, d.ID)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	d := models.Document{Title: "gone", Content: "vanishing content", Checksum: "g"}
	if err := db.CreateDocument(&d); err != nil {
		t.Fatal(err)
	}
	if err := db.DeleteDocument(d.ID); err != nil {
		t.Fatal(err)
	}

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.ID == d.ID {
			t.Error("deleted document still in FTS index")
		}
	}
}

func TestFTS5_UpdateReplacesContent(t *testing.T) {
	db := testDB(t)
	d := models.Document{Title: "Old", Content: "original text", Checksum: "1"}
	if err := db.CreateDocument(&d); err != nil {
		t.Fatal(err)
	}
	d.Title = "New"
	d.Content = "replacement text"
	if err := db.UpdateDocument(&d); err != nil {
		t.Fatal(err)
	}

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
