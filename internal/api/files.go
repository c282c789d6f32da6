package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/models"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// FileHandler serves document media files (originals, archive versions,
// thumbnails) out of the media directory.
type FileHandler struct {
	db    store.DocumentStore
	media storage.Provider
}

// NewFileHandler creates a handler backed by the given store and media provider.
func NewFileHandler(db store.DocumentStore, media storage.Provider) *FileHandler {
	return &FileHandler{db: db, media: media}
}

func (h *FileHandler) document(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return nil, false
	}
	doc, err := h.db.GetDocument(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("load document failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return nil, false
	}
	return doc, true
}

func (h *FileHandler) serve(w http.ResponseWriter, path, contentType, downloadName string) {
	data, err := h.media.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			writeJSON(w, http.StatusNotFound, errorBody("file not found"))
		} else {
			slog.Error("read media failed", slog.String("path", path), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.Header().Set("Content-Type", contentType)
	if downloadName != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	_, _ = w.Write(data)
}

// Download handles GET /documents/{id}/download (original file).
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	if doc.Filename == "" {
		writeJSON(w, http.StatusNotFound, errorBody("document has no file"))
		return
	}
	name := doc.OriginalFilename
	if name == "" {
		name = filepath.Base(doc.Filename)
	}
	h.serve(w, doc.Filename, doc.MimeType, name)
}

// Archive handles GET /documents/{id}/archive (archived PDF/A version).
func (h *FileHandler) Archive(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	if !doc.HasArchiveVersion() {
		writeJSON(w, http.StatusNotFound, errorBody("document has no archive version"))
		return
	}
	h.serve(w, doc.ArchiveFilename, "application/pdf", filepath.Base(doc.ArchiveFilename))
}

// Thumbnail handles GET /documents/{id}/thumb.
func (h *FileHandler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.document(w, r)
	if !ok {
		return
	}
	thumb := fmt.Sprintf("%s/%07d.webp", storage.ThumbnailsDir, doc.ID)
	h.serve(w, thumb, "image/webp", "")
}
