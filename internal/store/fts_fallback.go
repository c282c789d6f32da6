//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; full-text search uses a LIKE fallback on the
	// documents table.
	return nil
}

func ftsUpsert(_ *sql.Tx, _ int64, _, _ string) error {
	// Title and content already live in the documents table; nothing
	// extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ int64) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled
// in).
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT id, title, substr(content, 1, 200)
		FROM documents
		WHERE title LIKE ? OR content LIKE ?
		LIMIT ?
	`, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []SearchResult
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
