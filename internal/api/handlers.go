package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/consumer"
	"github.com/tomhoover/paperless-ngx/internal/models"
	"github.com/tomhoover/paperless-ngx/internal/settings"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

const maxUploadBytes = 50 << 20 // 50 MB

// EventPublisher is called after handler-driven document mutations.
// kind is one of "created", "updated", "deleted".
type EventPublisher func(kind string, docID int64)

// Handler holds API route handlers.
type Handler struct {
	db       store.DocumentStore
	settings *settings.Resolver
	consumer *consumer.Consumer
	events   EventPublisher
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(db store.DocumentStore, res *settings.Resolver, c *consumer.Consumer, events EventPublisher) *Handler {
	return &Handler{db: db, settings: res, consumer: c, events: events}
}

func (h *Handler) publish(kind string, docID int64) {
	if h.events != nil {
		h.events(kind, docID)
	}
}

// docID extracts the {id} URL parameter.
func docID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// ListDocuments handles GET /documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	tagID, _ := strconv.ParseInt(q.Get("tag"), 10, 64)
	sort := q.Get("sort")

	docs, total, err := h.db.ListDocuments(limit, offset, tagID, sort)
	if err != nil {
		slog.Error("list documents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, DocumentListResponse{Documents: docs, Total: total})
}

// GetDocument handles GET /documents/{id}.
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	doc, err := h.db.GetDocument(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("get document failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// UploadDocument handles POST /documents (multipart/form-data, field "document").
func (h *Handler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}
	file, header, err := r.FormFile("document")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'document' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read upload"))
		return
	}

	doc, err := h.consumer.Consume(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			writeJSON(w, http.StatusConflict, errorBody("document already exists"))
		} else {
			slog.Error("upload failed", slog.String("name", header.Filename), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	writeJSON(w, http.StatusCreated, doc)
}

// UpdateDocument handles PUT /documents/{id} (metadata only).
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	doc, err := h.db.GetDocument(id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		slog.Error("update document failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.CorrespondentID != nil {
		doc.CorrespondentID = req.CorrespondentID
	}
	if req.DocumentTypeID != nil {
		doc.DocumentTypeID = req.DocumentTypeID
	}
	if req.StoragePathID != nil {
		doc.StoragePathID = req.StoragePathID
	}
	if req.Tags != nil {
		doc.Tags = req.Tags
	}
	if req.ArchiveSerialNumber != nil {
		asn := *req.ArchiveSerialNumber
		if asn < models.ASNMin || asn > models.ASNMax {
			writeJSON(w, http.StatusBadRequest, errorBody("archive serial number out of range"))
			return
		}
		doc.ArchiveSerialNumber = req.ArchiveSerialNumber
	}

	if err := h.db.UpdateDocument(doc); err != nil {
		slog.Error("update document failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	h.publish("updated", id)
	writeJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /documents/{id}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	if err := h.db.DeleteDocument(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete document failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	h.publish("deleted", id)
	w.WriteHeader(http.StatusNoContent)
}

// Search handles GET /search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.db.Search(q, limit)
	if err != nil {
		slog.Error("search failed", slog.String("query", q), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// ListNotes handles GET /documents/{id}/notes.
func (h *Handler) ListNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	notes, err := h.db.NotesForDocument(id)
	if err != nil {
		slog.Error("list notes failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, notes)
}

// AddNote handles POST /documents/{id}/notes.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid document id"))
		return
	}
	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Note == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("note is required"))
		return
	}
	if _, err := h.db.GetDocument(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	n := models.Note{DocumentID: id, Content: req.Note}
	if err := h.db.AddNote(&n); err != nil {
		slog.Error("add note failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// ListTags handles GET /tags.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.db.ListTags()
	if err != nil {
		slog.Error("list tags failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// CreateTag handles POST /tags.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var tag models.Tag
	if err := json.NewDecoder(r.Body).Decode(&tag); err != nil || tag.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.db.CreateTag(&tag); err != nil {
		slog.Error("create tag failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

// ListCorrespondents handles GET /correspondents.
func (h *Handler) ListCorrespondents(w http.ResponseWriter, r *http.Request) {
	cs, err := h.db.ListCorrespondents()
	if err != nil {
		slog.Error("list correspondents failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// CreateCorrespondent handles POST /correspondents.
func (h *Handler) CreateCorrespondent(w http.ResponseWriter, r *http.Request) {
	var c models.Correspondent
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil || c.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.db.CreateCorrespondent(&c); err != nil {
		slog.Error("create correspondent failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListDocumentTypes handles GET /document_types.
func (h *Handler) ListDocumentTypes(w http.ResponseWriter, r *http.Request) {
	dts, err := h.db.ListDocumentTypes()
	if err != nil {
		slog.Error("list document types failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, dts)
}

// CreateDocumentType handles POST /document_types.
func (h *Handler) CreateDocumentType(w http.ResponseWriter, r *http.Request) {
	var dt models.DocumentType
	if err := json.NewDecoder(r.Body).Decode(&dt); err != nil || dt.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.db.CreateDocumentType(&dt); err != nil {
		slog.Error("create document type failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, dt)
}

// ListStoragePaths handles GET /storage_paths.
func (h *Handler) ListStoragePaths(w http.ResponseWriter, r *http.Request) {
	sps, err := h.db.ListStoragePaths()
	if err != nil {
		slog.Error("list storage paths failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, sps)
}

// CreateStoragePath handles POST /storage_paths.
func (h *Handler) CreateStoragePath(w http.ResponseWriter, r *http.Request) {
	var sp models.StoragePath
	if err := json.NewDecoder(r.Body).Decode(&sp); err != nil || sp.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.db.CreateStoragePath(&sp); err != nil {
		slog.Error("create storage path failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, sp)
}

// ListSavedViews handles GET /saved_views.
func (h *Handler) ListSavedViews(w http.ResponseWriter, r *http.Request) {
	views, err := h.db.ListSavedViews()
	if err != nil {
		slog.Error("list saved views failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// CreateSavedView handles POST /saved_views.
func (h *Handler) CreateSavedView(w http.ResponseWriter, r *http.Request) {
	var v models.SavedView
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil || v.Name == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("name is required"))
		return
	}
	if err := h.db.CreateSavedView(&v); err != nil {
		slog.Error("create saved view failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// DeleteSavedView handles DELETE /saved_views/{id}.
func (h *Handler) DeleteSavedView(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.db.DeleteSavedView(id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("not found"))
		} else {
			slog.Error("delete saved view failed", slog.Int64("id", id), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTasks handles GET /tasks. ?unacknowledged=true filters to open tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	unacked := r.URL.Query().Get("unacknowledged") == "true"
	tasks, err := h.db.ListTasks(unacked)
	if err != nil {
		slog.Error("list tasks failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// AcknowledgeTask handles POST /tasks/{id}/acknowledge.
func (h *Handler) AcknowledgeTask(w http.ResponseWriter, r *http.Request) {
	id, ok := docID(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid id"))
		return
	}
	if err := h.db.AcknowledgeTask(id); err != nil {
		slog.Error("acknowledge task failed", slog.Int64("id", id), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfig handles GET /config: the effective value for every known key.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	keys := settings.Keys()
	values := make([]ConfigValue, 0, len(keys))
	for _, key := range keys {
		v, err := h.settings.Get(key)
		if err != nil {
			slog.Error("config resolve failed", slog.String("key", key), slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
			return
		}
		values = append(values, ConfigValue{Key: key, Value: v})
	}
	writeJSON(w, http.StatusOK, values)
}

// SetConfig handles PUT /config/{key}.
func (h *Handler) SetConfig(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req SetConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}

	err := h.settings.Set(key, jsonValue(key, req.Value))
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, apperr.ErrUnknownKey):
		writeJSON(w, http.StatusNotFound, errorBody("unknown configuration key"))
	case errors.Is(err, apperr.ErrTypeMismatch):
		writeJSON(w, http.StatusBadRequest, errorBody("value type does not match declared type"))
	default:
		slog.Error("set config failed", slog.String("key", key), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}

// jsonValue narrows a decoded JSON number to int when the key is declared
// as an integer. JSON has no int/float distinction; the resolver does.
func jsonValue(key string, v any) any {
	f, isNum := v.(float64)
	if !isNum {
		return v
	}
	opt, ok := settings.Lookup(key)
	if ok && opt.Kind == settings.KindInt && f == math.Trunc(f) {
		return int(f)
	}
	return v
}

// Statistics handles GET /statistics.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	docs, err := h.db.AllDocuments()
	if err != nil {
		slog.Error("statistics failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	inboxIDs, err := h.db.InboxTagIDs()
	if err != nil {
		slog.Error("statistics failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	inbox := make(map[int64]struct{}, len(inboxIDs))
	for _, id := range inboxIDs {
		inbox[id] = struct{}{}
	}

	stats := Statistics{DocumentsTotal: len(docs)}
	for _, d := range docs {
		for _, t := range d.Tags {
			if _, ok := inbox[t]; ok {
				stats.DocumentsInbox++
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, stats)
}
