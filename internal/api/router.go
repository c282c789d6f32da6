package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tomhoover/paperless-ngx/internal/consumer"
	"github.com/tomhoover/paperless-ngx/internal/settings"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// events may be nil.
func NewRouter(db store.DocumentStore, media storage.Provider, res *settings.Resolver, c *consumer.Consumer, events EventPublisher, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(db, res, c, events)
	fh := NewFileHandler(db, media)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Documents.
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.UploadDocument)
	r.Get("/documents/{id}", h.GetDocument)
	r.Put("/documents/{id}", h.UpdateDocument)
	r.Delete("/documents/{id}", h.DeleteDocument)
	r.Get("/documents/{id}/download", fh.Download)
	r.Get("/documents/{id}/archive", fh.Archive)
	r.Get("/documents/{id}/thumb", fh.Thumbnail)
	r.Get("/documents/{id}/notes", h.ListNotes)
	r.Post("/documents/{id}/notes", h.AddNote)

	// Search.
	r.Get("/search", h.Search)

	// Metadata entities.
	r.Get("/tags", h.ListTags)
	r.Post("/tags", h.CreateTag)
	r.Get("/correspondents", h.ListCorrespondents)
	r.Post("/correspondents", h.CreateCorrespondent)
	r.Get("/document_types", h.ListDocumentTypes)
	r.Post("/document_types", h.CreateDocumentType)
	r.Get("/storage_paths", h.ListStoragePaths)
	r.Post("/storage_paths", h.CreateStoragePath)

	// Saved views.
	r.Get("/saved_views", h.ListSavedViews)
	r.Post("/saved_views", h.CreateSavedView)
	r.Delete("/saved_views/{id}", h.DeleteSavedView)

	// Tasks.
	r.Get("/tasks", h.ListTasks)
	r.Post("/tasks/{id}/acknowledge", h.AcknowledgeTask)

	// Configuration.
	r.Get("/config", h.GetConfig)
	r.Put("/config/{key}", h.SetConfig)

	// Statistics.
	r.Get("/statistics", h.Statistics)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
