package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/models"
)

// SearchResult represents one full-text search hit.
type SearchResult struct {
	ID      int64
	Title   string
	Snippet string
}

const documentColumns = `id, title, content, mime_type, checksum, archive_checksum,
	correspondent_id, document_type_id, storage_path_id,
	filename, archive_filename, original_filename, archive_serial_number,
	storage_type, created, modified, added`

// CreateDocument inserts a document, its tag assignments, and its FTS entry
// within a transaction. The generated ID is written back to d.
func (db *DB) CreateDocument(d *models.Document) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	now := time.Now().UTC()
	if d.Created.IsZero() {
		d.Created = now
	}
	d.Modified = now
	if d.Added.IsZero() {
		d.Added = now
	}
	if d.StorageType == "" {
		d.StorageType = models.StorageTypeUnencrypted
	}

	res, err := tx.Exec(`
		INSERT INTO documents (title, content, mime_type, checksum, archive_checksum,
			correspondent_id, document_type_id, storage_path_id,
			filename, archive_filename, original_filename, archive_serial_number,
			storage_type, created, modified, added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.Title, d.Content, d.MimeType, d.Checksum, d.ArchiveChecksum,
		d.CorrespondentID, d.DocumentTypeID, d.StoragePathID,
		nullStr(d.Filename), nullStr(d.ArchiveFilename), d.OriginalFilename, d.ArchiveSerialNumber,
		d.StorageType, d.Created, d.Modified, d.Added)
	if err != nil {
		return fmt.Errorf("store: insert document: %w", err)
	}
	d.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("store: last insert id: %w", err)
	}

	if err := replaceTags(tx, d.ID, d.Tags); err != nil {
		return err
	}
	if err := ftsUpsert(tx, d.ID, d.Title, d.Content); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateDocument rewrites a document row, its tag assignments, and its FTS
// entry. Modified is bumped to now.
func (db *DB) UpdateDocument(d *models.Document) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	d.Modified = time.Now().UTC()

	res, err := tx.Exec(`
		UPDATE documents SET
			title = ?, content = ?, mime_type = ?, checksum = ?, archive_checksum = ?,
			correspondent_id = ?, document_type_id = ?, storage_path_id = ?,
			filename = ?, archive_filename = ?, original_filename = ?, archive_serial_number = ?,
			storage_type = ?, created = ?, modified = ?
		WHERE id = ?
	`, d.Title, d.Content, d.MimeType, d.Checksum, d.ArchiveChecksum,
		d.CorrespondentID, d.DocumentTypeID, d.StoragePathID,
		nullStr(d.Filename), nullStr(d.ArchiveFilename), d.OriginalFilename, d.ArchiveSerialNumber,
		d.StorageType, d.Created, d.Modified, d.ID)
	if err != nil {
		return fmt.Errorf("store: update document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}

	if err := replaceTags(tx, d.ID, d.Tags); err != nil {
		return err
	}
	if err := ftsUpsert(tx, d.ID, d.Title, d.Content); err != nil {
		return err
	}
	return tx.Commit()
}

// GetDocument returns one document with its tag IDs.
func (db *DB) GetDocument(id int64) (*models.Document, error) {
	row := db.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: get document: %w", err)
	}
	if d.Tags, err = db.tagIDs(id); err != nil {
		return nil, err
	}
	return d, nil
}

// DocumentByChecksum returns the document with the given original checksum,
// or ErrNotFound. Used for duplicate detection during consumption.
func (db *DB) DocumentByChecksum(sum string) (*models.Document, error) {
	row := db.conn.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE checksum = ?`, sum)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: document by checksum: %w", err)
	}
	if d.Tags, err = db.tagIDs(d.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDocument removes a document, its tag assignments, notes, and FTS
// entry.
func (db *DB) DeleteDocument(id int64) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	res, err := tx.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.ErrNotFound
	}
	return tx.Commit()
}

// ListDocuments returns a page of documents, optionally filtered by tag,
// together with the total count for the filter.
func (db *DB) ListDocuments(limit, offset int, tagID int64, sort string) ([]models.Document, int, error) {
	if limit <= 0 {
		limit = 25
	}
	order := orderClause(sort)

	where := ""
	args := []any{}
	if tagID > 0 {
		where = `WHERE id IN (SELECT document_id FROM document_tags WHERE tag_id = ?)`
		args = append(args, tagID)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM documents `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("store: count documents: %w", err)
	}

	args = append(args, limit, offset)
	rows, err := db.conn.Query(`SELECT `+documentColumns+` FROM documents `+where+` `+order+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("store: list documents: %w", err)
	}
	defer rows.Close()

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, 0, err
	}
	for i := range docs {
		if docs[i].Tags, err = db.tagIDs(docs[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return docs, total, nil
}

// AllDocuments returns every document, ordered by ID. Used by the renamer
// and the sanity checker, which walk the whole archive.
func (db *DB) AllDocuments() ([]models.Document, error) {
	rows, err := db.conn.Query(`SELECT ` + documentColumns + ` FROM documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("store: all documents: %w", err)
	}
	defer rows.Close()

	docs, err := collectDocuments(rows)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if docs[i].Tags, err = db.tagIDs(docs[i].ID); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// orderClause maps a sort parameter to a safe ORDER BY clause. Unknown
// values fall back to newest-first, the archive's default ordering.
func orderClause(sort string) string {
	switch sort {
	case "created":
		return "ORDER BY created ASC"
	case "-created", "":
		return "ORDER BY created DESC"
	case "added":
		return "ORDER BY added ASC"
	case "-added":
		return "ORDER BY added DESC"
	case "title":
		return "ORDER BY title COLLATE NOCASE ASC"
	case "-title":
		return "ORDER BY title COLLATE NOCASE DESC"
	case "modified":
		return "ORDER BY modified ASC"
	case "-modified":
		return "ORDER BY modified DESC"
	default:
		return "ORDER BY created DESC"
	}
}

// replaceTags rewrites the document_tags assignments for a document.
func replaceTags(tx *sql.Tx, docID int64, tags []int64) error {
	if _, err := tx.Exec(`DELETE FROM document_tags WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("store: clear tags: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO document_tags (document_id, tag_id) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare tag insert: %w", err)
	}
	defer stmt.Close()
	for _, tagID := range tags {
		if _, err := stmt.Exec(docID, tagID); err != nil {
			return fmt.Errorf("store: assign tag: %w", err)
		}
	}
	return nil
}

func (db *DB) tagIDs(docID int64) ([]int64, error) {
	rows, err := db.conn.Query(`SELECT tag_id FROM document_tags WHERE document_id = ? ORDER BY tag_id`, docID)
	if err != nil {
		return nil, fmt.Errorf("store: tag ids: %w", err)
	}
	defer rows.Close()

	out := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var d models.Document
	var filename, archiveFilename sql.NullString
	var asn sql.NullInt64
	err := row.Scan(&d.ID, &d.Title, &d.Content, &d.MimeType, &d.Checksum, &d.ArchiveChecksum,
		&d.CorrespondentID, &d.DocumentTypeID, &d.StoragePathID,
		&filename, &archiveFilename, &d.OriginalFilename, &asn,
		&d.StorageType, &d.Created, &d.Modified, &d.Added)
	if err != nil {
		return nil, err
	}
	d.Filename = filename.String
	d.ArchiveFilename = archiveFilename.String
	if asn.Valid {
		d.ArchiveSerialNumber = &asn.Int64
	}
	return &d, nil
}

func collectDocuments(rows *sql.Rows) ([]models.Document, error) {
	var out []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan document: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// nullStr maps the empty string to NULL so that UNIQUE columns tolerate
// documents without a value.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
