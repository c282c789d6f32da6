package store

import (
	"fmt"
	"time"

	"github.com/tomhoover/paperless-ngx/internal/models"
)

// AddNote attaches a comment to a document. The generated ID is written
// back.
func (db *DB) AddNote(n *models.Note) error {
	if n.Created.IsZero() {
		n.Created = time.Now().UTC()
	}
	res, err := db.conn.Exec(`
		INSERT INTO notes (document_id, content, created) VALUES (?, ?, ?)
	`, n.DocumentID, n.Content, n.Created)
	if err != nil {
		return fmt.Errorf("store: insert note: %w", err)
	}
	n.ID, err = res.LastInsertId()
	return err
}

// NotesForDocument returns a document's notes, oldest first.
func (db *DB) NotesForDocument(docID int64) ([]models.Note, error) {
	rows, err := db.conn.Query(`
		SELECT id, document_id, content, created FROM notes
		WHERE document_id = ? ORDER BY created
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("store: notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.DocumentID, &n.Content, &n.Created); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
