// Package store provides SQLite-backed persistence for documents, their
// metadata entities, saved views, task records, and configuration
// overrides, with optional FTS5 full-text search over document content.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS correspondents (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL UNIQUE,
	match              TEXT NOT NULL DEFAULT '',
	matching_algorithm INTEGER NOT NULL DEFAULT 1,
	is_insensitive     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS tags (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL UNIQUE,
	color              TEXT NOT NULL DEFAULT '#a6cee3',
	is_inbox_tag       INTEGER NOT NULL DEFAULT 0,
	match              TEXT NOT NULL DEFAULT '',
	matching_algorithm INTEGER NOT NULL DEFAULT 1,
	is_insensitive     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS document_types (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL UNIQUE,
	match              TEXT NOT NULL DEFAULT '',
	matching_algorithm INTEGER NOT NULL DEFAULT 1,
	is_insensitive     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS storage_paths (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL UNIQUE,
	path               TEXT NOT NULL,
	match              TEXT NOT NULL DEFAULT '',
	matching_algorithm INTEGER NOT NULL DEFAULT 1,
	is_insensitive     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS documents (
	id                    INTEGER PRIMARY KEY AUTOINCREMENT,
	title                 TEXT NOT NULL DEFAULT '',
	content               TEXT NOT NULL DEFAULT '',
	mime_type             TEXT NOT NULL DEFAULT '',
	checksum              TEXT NOT NULL UNIQUE,
	archive_checksum      TEXT NOT NULL DEFAULT '',
	correspondent_id      INTEGER REFERENCES correspondents(id) ON DELETE SET NULL,
	document_type_id      INTEGER REFERENCES document_types(id) ON DELETE SET NULL,
	storage_path_id       INTEGER REFERENCES storage_paths(id) ON DELETE SET NULL,
	filename              TEXT UNIQUE,
	archive_filename      TEXT UNIQUE,
	original_filename     TEXT NOT NULL DEFAULT '',
	archive_serial_number INTEGER UNIQUE,
	storage_type          TEXT NOT NULL DEFAULT 'unencrypted',
	created               DATETIME NOT NULL,
	modified              DATETIME NOT NULL,
	added                 DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_created ON documents(created);
CREATE INDEX IF NOT EXISTS idx_documents_title ON documents(title);

CREATE TABLE IF NOT EXISTS document_tags (
	document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	tag_id      INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
	UNIQUE(document_id, tag_id)
);

CREATE INDEX IF NOT EXISTS idx_document_tags_tag ON document_tags(tag_id);

CREATE TABLE IF NOT EXISTS saved_views (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL,
	show_on_dashboard INTEGER NOT NULL DEFAULT 0,
	show_in_sidebar   INTEGER NOT NULL DEFAULT 0,
	sort_field        TEXT NOT NULL DEFAULT '',
	sort_reverse      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS saved_view_filter_rules (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	saved_view_id INTEGER NOT NULL REFERENCES saved_views(id) ON DELETE CASCADE,
	rule_type     INTEGER NOT NULL,
	value         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tasks (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id        TEXT NOT NULL UNIQUE,
	task_name      TEXT NOT NULL DEFAULT '',
	task_file_name TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT 'PENDING',
	date_created   DATETIME NOT NULL,
	date_started   DATETIME,
	date_done      DATETIME,
	result         TEXT NOT NULL DEFAULT '',
	acknowledged   INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS notes (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
	content     TEXT NOT NULL DEFAULT '',
	created     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS configuration_options (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with document-archive operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
