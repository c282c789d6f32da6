// Package models defines the domain types for the document archive.
package models

import "time"

// Storage types for original files.
const (
	StorageTypeUnencrypted = "unencrypted"
	StorageTypeGPG         = "gpg"
)

// Matching algorithms shared by tags, correspondents, document types, and
// storage paths.
const (
	MatchNone = iota
	MatchAny
	MatchAll
	MatchLiteral
	MatchRegex
	MatchFuzzy
	MatchAuto
)

// Archive serial number bounds.
const (
	ASNMin = 0
	ASNMax = 0xFF_FF_FF_FF
)

// Document represents a single archived document and its stored files.
type Document struct {
	ID                  int64     `json:"id"`
	Title               string    `json:"title"`
	Content             string    `json:"content,omitempty"`
	MimeType            string    `json:"mime_type"`
	Checksum            string    `json:"checksum"`
	ArchiveChecksum     string    `json:"archive_checksum,omitempty"`
	CorrespondentID     *int64    `json:"correspondent,omitempty"`
	DocumentTypeID      *int64    `json:"document_type,omitempty"`
	StoragePathID       *int64    `json:"storage_path,omitempty"`
	Tags                []int64   `json:"tags"`
	Filename            string    `json:"filename,omitempty"`
	ArchiveFilename     string    `json:"archive_filename,omitempty"`
	OriginalFilename    string    `json:"original_filename,omitempty"`
	ArchiveSerialNumber *int64    `json:"archive_serial_number,omitempty"`
	StorageType         string    `json:"storage_type"`
	Created             time.Time `json:"created"`
	Modified            time.Time `json:"modified"`
	Added               time.Time `json:"added"`
}

// HasArchiveVersion reports whether an archived (e.g. OCR'd PDF/A) copy of
// the document exists alongside the original.
func (d *Document) HasArchiveVersion() bool {
	return d.ArchiveFilename != ""
}

// Matching holds the auto-assignment fields shared by metadata entities.
type Matching struct {
	Match             string `json:"match"`
	MatchingAlgorithm int    `json:"matching_algorithm"`
	IsInsensitive     bool   `json:"is_insensitive"`
}

// Correspondent is a sender or recipient a document is associated with.
type Correspondent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Matching
}

// Tag labels documents. Inbox tags are attached to every newly consumed
// document.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	IsInboxTag bool   `json:"is_inbox_tag"`
	Matching
}

// DocumentType classifies documents (invoice, receipt, contract, ...).
type DocumentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Matching
}

// StoragePath describes where a document's files are placed inside the
// media directory.
type StoragePath struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
	Matching
}
