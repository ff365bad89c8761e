package directory

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oriongle/portal-server/internal/store"
)

// MaxFileBytes caps the decoded size of an uploaded file. The whole payload
// travels through the key-value store as base64 text, so the cap keeps
// single values well under backend limits.
const MaxFileBytes = 2 * 1024 * 1024

// ErrFileTooLarge is returned for uploads whose decoded payload exceeds
// MaxFileBytes.
var ErrFileTooLarge = errors.New("file is too large")

// ErrInvalidContent is returned when the payload is not valid base64 or is
// empty after decoding.
var ErrInvalidContent = errors.New("file content is invalid")

// File is a stored document. OwnerID empty means the file belongs to the
// shared tree; FolderID empty means unfiled. Size always equals the decoded
// payload length.
type File struct {
	ID            string `json:"id"`
	Title         string `json:"title,omitempty"`
	FileName      string `json:"fileName"`
	MimeType      string `json:"mimeType,omitempty"`
	Size          int64  `json:"size"`
	Notes         string `json:"notes,omitempty"`
	FolderID      string `json:"folderId,omitempty"`
	OwnerID       string `json:"userId,omitempty"`
	ContentBase64 string `json:"contentBase64"`
	CreatedAt     string `json:"createdAt,omitempty"`
	UploadedBy    string `json:"uploadedBy,omitempty"`
}

// Content decodes the stored payload.
func (f *File) Content() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(f.ContentBase64)
	if err != nil {
		return nil, ErrInvalidContent
	}
	return data, nil
}

// DecodeContent validates an uploaded base64 payload against the size cap
// and returns the decoded bytes.
func DecodeContent(contentBase64 string) ([]byte, error) {
	if contentBase64 == "" {
		return nil, ErrInvalidContent
	}
	data, err := base64.StdEncoding.DecodeString(contentBase64)
	if err != nil || len(data) == 0 {
		return nil, ErrInvalidContent
	}
	if len(data) > MaxFileBytes {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// LoadFiles fetches and decodes the file collection. Entries missing an id,
// file name or payload are dropped.
func (d *Directory) LoadFiles(ctx context.Context) ([]*File, error) {
	if !d.Enabled() {
		return nil, store.ErrNotConfigured
	}
	raw, err := d.kv.Get(ctx, filesKey)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var parsed []*File
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, nil
	}
	var files []*File
	for _, f := range parsed {
		if f == nil || f.ID == "" || f.FileName == "" || f.ContentBase64 == "" {
			continue
		}
		files = append(files, f)
	}
	return files, nil
}

// SaveFiles overwrites the entire file collection.
func (d *Directory) SaveFiles(ctx context.Context, files []*File) error {
	if !d.Enabled() {
		return store.ErrNotConfigured
	}
	encoded, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode files: %w", err)
	}
	if err := d.kv.Set(ctx, filesKey, string(encoded)); err != nil {
		return fmt.Errorf("save files: %w", err)
	}
	return nil
}

// NewFileID mints an opaque file id.
func NewFileID() string {
	return uuid.NewString()
}
