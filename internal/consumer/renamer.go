package consumer

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tomhoover/paperless-ngx/internal/models"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// Renamer regenerates document storage filenames from metadata and moves
// the media files to match.
type Renamer struct {
	db     store.DocumentStore
	media  storage.Provider
	logger *slog.Logger
}

// NewRenamer creates a renamer.
func NewRenamer(db store.DocumentStore, media storage.Provider, logger *slog.Logger) *Renamer {
	return &Renamer{db: db, media: media, logger: logger}
}

// RenameAll recomputes every document's filename and moves files whose
// names changed. Returns the number of documents renamed.
func (r *Renamer) RenameAll() (int, error) {
	docs, err := r.db.AllDocuments()
	if err != nil {
		return 0, fmt.Errorf("renamer: list documents: %w", err)
	}

	renamed := 0
	for i := range docs {
		changed, err := r.renameOne(&docs[i])
		if err != nil {
			r.logger.Warn("renamer: skipping document",
				slog.Int64("id", docs[i].ID),
				slog.String("error", err.Error()))
			continue
		}
		if changed {
			renamed++
		}
	}
	return renamed, nil
}

func (r *Renamer) renameOne(doc *models.Document) (bool, error) {
	if doc.Filename == "" {
		return false, nil
	}

	target := r.uniqueName(doc, r.desiredName(doc))
	if target == doc.Filename {
		return false, nil
	}

	if err := r.media.Move(doc.Filename, target); err != nil {
		return false, fmt.Errorf("move original: %w", err)
	}
	old := doc.Filename
	doc.Filename = target

	if doc.ArchiveFilename != "" {
		archiveTarget := storage.ArchiveDir + "/" + strings.TrimPrefix(target, storage.OriginalsDir+"/")
		archiveTarget = replaceExt(archiveTarget, ".pdf")
		if archiveTarget != doc.ArchiveFilename {
			if err := r.media.Move(doc.ArchiveFilename, archiveTarget); err != nil {
				// Put the original back so disk and DB stay consistent.
				_ = r.media.Move(target, old)
				doc.Filename = old
				return false, fmt.Errorf("move archive: %w", err)
			}
			doc.ArchiveFilename = archiveTarget
		}
	}

	if err := r.db.UpdateDocument(doc); err != nil {
		return false, fmt.Errorf("record rename: %w", err)
	}
	r.logger.Info("renamer: renamed",
		slog.Int64("id", doc.ID),
		slog.String("from", old),
		slog.String("to", doc.Filename))
	return true, nil
}

// desiredName builds "originals/YYYY-MM-DD <correspondent> <title><ext>".
// The correspondent part is omitted when the document has none.
func (r *Renamer) desiredName(doc *models.Document) string {
	parts := []string{doc.Created.Format("2006-01-02")}

	if doc.CorrespondentID != nil {
		if c, err := r.db.GetCorrespondent(*doc.CorrespondentID); err == nil {
			parts = append(parts, sanitize(c.Name))
		}
	}

	title := sanitize(doc.Title)
	if title == "" {
		title = fmt.Sprintf("%07d", doc.ID)
	}
	parts = append(parts, title)

	ext := filepath.Ext(doc.Filename)
	return storage.OriginalsDir + "/" + strings.Join(parts, " ") + ext
}

// uniqueName appends a _NN counter when the candidate collides with an
// existing file that is not the document's own.
func (r *Renamer) uniqueName(doc *models.Document, candidate string) string {
	if candidate == doc.Filename || !r.media.Exists(candidate) {
		return candidate
	}
	ext := filepath.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)
	for n := 1; ; n++ {
		next := fmt.Sprintf("%s_%02d%s", stem, n, ext)
		if next == doc.Filename || !r.media.Exists(next) {
			return next
		}
	}
}

// sanitize strips characters that are unsafe in file names and collapses
// whitespace runs.
func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', '\x00':
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
