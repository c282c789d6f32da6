package consumer

import (
	"fmt"

	"github.com/tomhoover/paperless-ngx/internal/checksum"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// Issue levels reported by the sanity checker.
const (
	LevelWarning = "warning"
	LevelError   = "error"
)

// Issue is one finding from a sanity check pass.
type Issue struct {
	Level      string `json:"level"`
	Message    string `json:"message"`
	DocumentID int64  `json:"document_id,omitempty"`
}

// CheckSanity verifies that the database and the media directory agree:
// every document's original is present with a matching checksum, archive
// files exist when an archive checksum is recorded, thumbnails exist, and
// no unreferenced files linger in the media tree.
func CheckSanity(db store.DocumentStore, media storage.Provider) ([]Issue, error) {
	docs, err := db.AllDocuments()
	if err != nil {
		return nil, fmt.Errorf("sanity: list documents: %w", err)
	}

	var issues []Issue
	referenced := make(map[string]struct{}, len(docs)*2)

	for _, doc := range docs {
		if doc.Filename == "" {
			issues = append(issues, Issue{
				Level:      LevelError,
				Message:    "no original file recorded",
				DocumentID: doc.ID,
			})
			continue
		}
		referenced[doc.Filename] = struct{}{}

		data, err := media.Read(doc.Filename)
		if err != nil {
			issues = append(issues, Issue{
				Level:      LevelError,
				Message:    fmt.Sprintf("original file missing: %s", doc.Filename),
				DocumentID: doc.ID,
			})
		} else if sum := checksum.Sum(data); sum != doc.Checksum {
			issues = append(issues, Issue{
				Level:      LevelError,
				Message:    fmt.Sprintf("checksum mismatch for %s", doc.Filename),
				DocumentID: doc.ID,
			})
		}

		if doc.ArchiveChecksum != "" {
			switch {
			case doc.ArchiveFilename == "":
				issues = append(issues, Issue{
					Level:      LevelError,
					Message:    "archive checksum recorded but no archive file",
					DocumentID: doc.ID,
				})
			default:
				referenced[doc.ArchiveFilename] = struct{}{}
				data, err := media.Read(doc.ArchiveFilename)
				if err != nil {
					issues = append(issues, Issue{
						Level:      LevelError,
						Message:    fmt.Sprintf("archive file missing: %s", doc.ArchiveFilename),
						DocumentID: doc.ID,
					})
				} else if sum := checksum.Sum(data); sum != doc.ArchiveChecksum {
					issues = append(issues, Issue{
						Level:      LevelError,
						Message:    fmt.Sprintf("archive checksum mismatch for %s", doc.ArchiveFilename),
						DocumentID: doc.ID,
					})
				}
			}
		} else if doc.ArchiveFilename != "" {
			referenced[doc.ArchiveFilename] = struct{}{}
		}

		thumb := fmt.Sprintf("%s/%07d.webp", storage.ThumbnailsDir, doc.ID)
		referenced[thumb] = struct{}{}
		if !media.Exists(thumb) {
			issues = append(issues, Issue{
				Level:      LevelWarning,
				Message:    fmt.Sprintf("thumbnail missing: %s", thumb),
				DocumentID: doc.ID,
			})
		}
	}

	for _, dir := range []string{storage.OriginalsDir, storage.ArchiveDir} {
		metas, err := media.List(dir)
		if err != nil {
			return nil, fmt.Errorf("sanity: list %s: %w", dir, err)
		}
		for _, m := range metas {
			if _, ok := referenced[m.Path]; !ok {
				issues = append(issues, Issue{
					Level:   LevelWarning,
					Message: fmt.Sprintf("orphaned file: %s", m.Path),
				})
			}
		}
	}

	return issues, nil
}
