package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/models"
)

// CreateTag inserts a tag and writes the generated ID back.
func (db *DB) CreateTag(t *models.Tag) error {
	res, err := db.conn.Exec(`
		INSERT INTO tags (name, color, is_inbox_tag, match, matching_algorithm, is_insensitive)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.Name, defaultColor(t.Color), t.IsInboxTag, t.Match, t.MatchingAlgorithm, t.IsInsensitive)
	if err != nil {
		return fmt.Errorf("store: insert tag: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

// ListTags returns all tags ordered by name.
func (db *DB) ListTags() ([]models.Tag, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, color, is_inbox_tag, match, matching_algorithm, is_insensitive
		FROM tags ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list tags: %w", err)
	}
	defer rows.Close()

	var out []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.IsInboxTag,
			&t.Match, &t.MatchingAlgorithm, &t.IsInsensitive); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// InboxTagIDs returns the IDs of all tags flagged as inbox tags. Newly
// consumed documents are tagged with every inbox tag.
func (db *DB) InboxTagIDs() ([]int64, error) {
	rows, err := db.conn.Query(`SELECT id FROM tags WHERE is_inbox_tag = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: inbox tags: %w", err)
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// CreateCorrespondent inserts a correspondent and writes the ID back.
func (db *DB) CreateCorrespondent(c *models.Correspondent) error {
	res, err := db.conn.Exec(`
		INSERT INTO correspondents (name, match, matching_algorithm, is_insensitive)
		VALUES (?, ?, ?, ?)
	`, c.Name, c.Match, c.MatchingAlgorithm, c.IsInsensitive)
	if err != nil {
		return fmt.Errorf("store: insert correspondent: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

// GetCorrespondent returns one correspondent by ID.
func (db *DB) GetCorrespondent(id int64) (*models.Correspondent, error) {
	var c models.Correspondent
	err := db.conn.QueryRow(`
		SELECT id, name, match, matching_algorithm, is_insensitive
		FROM correspondents WHERE id = ?
	`, id).Scan(&c.ID, &c.Name, &c.Match, &c.MatchingAlgorithm, &c.IsInsensitive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get correspondent: %w", err)
	}
	return &c, nil
}

// ListCorrespondents returns all correspondents ordered by name.
func (db *DB) ListCorrespondents() ([]models.Correspondent, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, match, matching_algorithm, is_insensitive
		FROM correspondents ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list correspondents: %w", err)
	}
	defer rows.Close()

	var out []models.Correspondent
	for rows.Next() {
		var c models.Correspondent
		if err := rows.Scan(&c.ID, &c.Name, &c.Match, &c.MatchingAlgorithm, &c.IsInsensitive); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateDocumentType inserts a document type and writes the ID back.
func (db *DB) CreateDocumentType(dt *models.DocumentType) error {
	res, err := db.conn.Exec(`
		INSERT INTO document_types (name, match, matching_algorithm, is_insensitive)
		VALUES (?, ?, ?, ?)
	`, dt.Name, dt.Match, dt.MatchingAlgorithm, dt.IsInsensitive)
	if err != nil {
		return fmt.Errorf("store: insert document type: %w", err)
	}
	dt.ID, err = res.LastInsertId()
	return err
}

// ListDocumentTypes returns all document types ordered by name.
func (db *DB) ListDocumentTypes() ([]models.DocumentType, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, match, matching_algorithm, is_insensitive
		FROM document_types ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list document types: %w", err)
	}
	defer rows.Close()

	var out []models.DocumentType
	for rows.Next() {
		var dt models.DocumentType
		if err := rows.Scan(&dt.ID, &dt.Name, &dt.Match, &dt.MatchingAlgorithm, &dt.IsInsensitive); err != nil {
			return nil, err
		}
		out = append(out, dt)
	}
	return out, rows.Err()
}

// CreateStoragePath inserts a storage path and writes the ID back.
func (db *DB) CreateStoragePath(sp *models.StoragePath) error {
	res, err := db.conn.Exec(`
		INSERT INTO storage_paths (name, path, match, matching_algorithm, is_insensitive)
		VALUES (?, ?, ?, ?, ?)
	`, sp.Name, sp.Path, sp.Match, sp.MatchingAlgorithm, sp.IsInsensitive)
	if err != nil {
		return fmt.Errorf("store: insert storage path: %w", err)
	}
	sp.ID, err = res.LastInsertId()
	return err
}

// ListStoragePaths returns all storage paths ordered by name.
func (db *DB) ListStoragePaths() ([]models.StoragePath, error) {
	rows, err := db.conn.Query(`
		SELECT id, name, path, match, matching_algorithm, is_insensitive
		FROM storage_paths ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list storage paths: %w", err)
	}
	defer rows.Close()

	var out []models.StoragePath
	for rows.Next() {
		var sp models.StoragePath
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.Path, &sp.Match, &sp.MatchingAlgorithm, &sp.IsInsensitive); err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

func defaultColor(c string) string {
	if c == "" {
		return "#a6cee3"
	}
	return c
}
