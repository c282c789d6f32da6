// Package storage defines the media directory abstraction holding original,
// archived, and thumbnail files.
package storage

import "time"

// Media subtrees under the media root.
const (
	OriginalsDir  = "originals"
	ArchiveDir    = "archive"
	ThumbnailsDir = "thumbnails"
)

// FileMeta is lightweight metadata for a stored media file.
type FileMeta struct {
	Path    string // relative to the media root
	Size    int64
	ModTime time.Time
}

// Provider is the interface for media file operations. All paths are
// relative to the media root.
type Provider interface {
	// List returns metadata for every file under dir.
	List(dir string) ([]FileMeta, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
	// Exists reports whether a file is present at path.
	Exists(path string) bool
}
