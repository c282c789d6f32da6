// Package consumer turns incoming files into archived documents: it
// deduplicates by checksum, extracts metadata from the filename, stores the
// original under the media directory, and records the document and its
// consumption task.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tomhoover/paperless-ngx/internal/apperr"
	"github.com/tomhoover/paperless-ngx/internal/checksum"
	"github.com/tomhoover/paperless-ngx/internal/fileinfo"
	"github.com/tomhoover/paperless-ngx/internal/models"
	"github.com/tomhoover/paperless-ngx/internal/storage"
	"github.com/tomhoover/paperless-ngx/internal/store"
)

// EventCallback is called after a consumer-driven document change.
// kind is one of "created", "updated", "deleted".
type EventCallback func(kind string, docID int64)

// Consumer ingests files into the archive.
type Consumer struct {
	db     store.DocumentStore
	media  storage.Provider
	rules  []fileinfo.RewriteRule
	logger *slog.Logger
	cb     EventCallback
}

// New creates a consumer. cb may be nil.
func New(db store.DocumentStore, media storage.Provider, rules []fileinfo.RewriteRule, logger *slog.Logger, cb EventCallback) *Consumer {
	return &Consumer{db: db, media: media, rules: rules, logger: logger, cb: cb}
}

// Consume ingests a single file given its original name and raw content.
// Duplicates (by content checksum) are rejected with apperr.ErrAlreadyExists.
// A task row records the attempt either way.
func (c *Consumer) Consume(ctx context.Context, name string, data []byte) (*models.Document, error) {
	task := models.Task{
		TaskID:       uuid.NewString(),
		TaskName:     "consume_file",
		TaskFileName: name,
	}
	if err := c.db.CreateTask(&task); err != nil {
		return nil, fmt.Errorf("consumer: create task: %w", err)
	}
	_ = c.db.UpdateTaskStatus(task.TaskID, models.TaskStarted, "")

	doc, err := c.consume(ctx, name, data)
	if err != nil {
		_ = c.db.UpdateTaskStatus(task.TaskID, models.TaskFailure, err.Error())
		return nil, err
	}
	_ = c.db.UpdateTaskStatus(task.TaskID, models.TaskSuccess,
		fmt.Sprintf("consumed as document %d", doc.ID))
	return doc, nil
}

func (c *Consumer) consume(ctx context.Context, name string, data []byte) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sum := checksum.Sum(data)
	if existing, err := c.db.DocumentByChecksum(sum); err == nil {
		return nil, fmt.Errorf("consumer: %s duplicates document %d: %w",
			name, existing.ID, apperr.ErrAlreadyExists)
	}

	info := fileinfo.Extract(c.rules, name)

	title := info.Title
	if title == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	created := time.Now().UTC()
	if info.Created != nil {
		created = *info.Created
	}

	inbox, err := c.db.InboxTagIDs()
	if err != nil {
		return nil, fmt.Errorf("consumer: inbox tags: %w", err)
	}

	// Plain-text sources carry their own content; everything else waits
	// for an external OCR pass.
	var content string
	if mimeFor(name) == "text/plain" {
		content = string(data)
	}

	doc := models.Document{
		Title:            title,
		Content:          content,
		MimeType:         mimeFor(name),
		Checksum:         sum,
		OriginalFilename: name,
		StorageType:      models.StorageTypeUnencrypted,
		Tags:             inbox,
		Created:          created,
	}
	if err := c.db.CreateDocument(&doc); err != nil {
		return nil, fmt.Errorf("consumer: create document: %w", err)
	}

	doc.Filename = fmt.Sprintf("%s/%07d%s", storage.OriginalsDir, doc.ID, filepath.Ext(name))
	if err := c.media.Write(doc.Filename, data); err != nil {
		// Roll back the row so a retry can succeed.
		_ = c.db.DeleteDocument(doc.ID)
		return nil, fmt.Errorf("consumer: store original: %w", err)
	}
	if err := c.db.UpdateDocument(&doc); err != nil {
		return nil, fmt.Errorf("consumer: record filename: %w", err)
	}

	c.logger.Info("consumer: document consumed",
		slog.Int64("id", doc.ID),
		slog.String("title", doc.Title),
		slog.String("file", doc.Filename))
	if c.cb != nil {
		c.cb("created", doc.ID)
	}
	return &doc, nil
}

// mimeFor guesses a content type from the file extension.
func mimeFor(name string) string {
	t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if t == "" {
		return "application/octet-stream"
	}
	// Strip charset parameters so stored types stay comparable.
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}
