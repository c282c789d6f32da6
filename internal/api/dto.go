package api

import (
	"github.com/tomhoover/paperless-ngx/internal/models"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// UpdateDocumentRequest is the request body for PUT /documents/{id}.
// Pointer fields distinguish "not sent" from "clear this".
type UpdateDocumentRequest struct {
	Title               *string `json:"title,omitempty"`
	CorrespondentID     *int64  `json:"correspondent,omitempty"`
	DocumentTypeID      *int64  `json:"document_type,omitempty"`
	StoragePathID       *int64  `json:"storage_path,omitempty"`
	Tags                []int64 `json:"tags,omitempty"`
	ArchiveSerialNumber *int64  `json:"archive_serial_number,omitempty"`
}

// DocumentListResponse wraps paginated document listings.
type DocumentListResponse struct {
	Documents []models.Document `json:"documents"`
	Total     int               `json:"total"`
}

// SearchResponse wraps full-text search results.
type SearchResponse struct {
	Results []store.SearchResult `json:"results"`
}

// ConfigValue is one effective configuration value in GET /config.
type ConfigValue struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// SetConfigRequest is the request body for PUT /config/{key}.
type SetConfigRequest struct {
	Value any `json:"value"`
}

// Statistics summarizes the archive for dashboards.
type Statistics struct {
	DocumentsTotal int `json:"documents_total"`
	DocumentsInbox int `json:"documents_inbox"`
}
