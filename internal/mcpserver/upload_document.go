package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/tomhoover/paperless-ngx/internal/apperr"
)

const maxUploadSize = 50 << 20 // 50 MB

var (
	allowedExtensions = map[string]bool{
		".pdf": true, ".png": true, ".jpg": true, ".jpeg": true,
		".tiff": true, ".tif": true, ".txt": true,
	}

	extToMime = map[string]string{
		".pdf":  "application/pdf",
		".png":  "image/png",
		".jpg":  "image/jpeg",
		".jpeg": "image/jpeg",
	}

	unsafeFilenameRe = regexp.MustCompile(`[^a-zA-Z0-9 ._-]`)
)

type uploadDocResult struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Filename string `json:"filename"`
}

func (s *Server) uploadDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filename, err := req.RequireString("filename")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	encoded, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid base64 content: %v", err)), nil
		}
	}
	if len(data) == 0 {
		return mcp.NewToolResultError("content is empty"), nil
	}
	if len(data) > maxUploadSize {
		return mcp.NewToolResultError(fmt.Sprintf("file too large: %d bytes (max %d)", len(data), maxUploadSize)), nil
	}

	filename = sanitizeFilename(filename)
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported file extension: %s (allowed: pdf, png, jpg, jpeg, tiff, txt)", ext)), nil
	}
	if err := validateMagicBytes(data, ext); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := s.consumer.Consume(ctx, filename, data)
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError("document already exists (duplicate content)"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("consume failed: %v", err)), nil
	}

	out, _ := json.Marshal(uploadDocResult{
		ID:       doc.ID,
		Title:    doc.Title,
		Filename: doc.Filename,
	})
	return mcp.NewToolResultText(string(out)), nil
}

// sanitizeFilename strips path separators and unsafe characters while
// keeping the stem readable (dates, spaces, dashes survive).
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameRe.ReplaceAllString(name, "_")
	return strings.TrimSpace(name)
}

// validateMagicBytes verifies file content matches the declared extension
// for the formats Go can sniff reliably.
func validateMagicBytes(data []byte, ext string) error {
	want, checked := extToMime[ext]
	if !checked {
		return nil
	}
	detected := strings.Split(http.DetectContentType(data), ";")[0]
	if detected != want {
		return fmt.Errorf("content does not match extension %s (detected: %s)", ext, detected)
	}
	return nil
}
