package component

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"
)

// MediaKind distinguishes staged uploads from persisted files.
type MediaKind string

const (
	MediaFromServer MediaKind = "from-server"
	MediaUpload     MediaKind = "upload"
)

// Media is a file or image field value. An upload is usable immediately
// through Preview; nothing is sent until Commit.
type Media struct {
	Kind MediaKind

	// from-server
	ID       string
	URL      string
	Filename string
	Filesize int64

	// upload
	ContentType string
	Data        []byte
	Preview     string // data URL
	Previous    *Media // persisted value restored by Cancel
}

// Persisted reports whether the value refers to a stored file.
func (m *Media) Persisted() bool { return m != nil && m.Kind == MediaFromServer }

// Extension returns the lowercase extension of the filename, without dot.
func (m *Media) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(m.Filename), "."))
}

// Uploader persists staged media. It is called only from Commit.
type Uploader interface {
	Upload(ctx context.Context, filename, contentType string, data []byte) (*Media, error)
}

// Stage creates an upload value replacing prev. The preview is built locally.
func Stage(prev *Media, filename, contentType string, data []byte) *Media {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	// restaging keeps the original persisted value
	if prev != nil && prev.Kind == MediaUpload {
		prev = prev.Previous
	}
	return &Media{
		Kind:        MediaUpload,
		Filename:    filename,
		Filesize:    int64(len(data)),
		ContentType: contentType,
		Data:        data,
		Preview:     "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data),
		Previous:    prev,
	}
}

// Cancel discards a staged upload and returns the value it replaced, which
// may be nil. Persisted values are returned unchanged.
func (m *Media) Cancel() *Media {
	if m == nil || m.Kind != MediaUpload {
		return m
	}
	return m.Previous
}

// Commit uploads a staged value. Persisted and nil values are returned as is
// without calling u.
func (m *Media) Commit(ctx context.Context, u Uploader) (*Media, error) {
	if m == nil || m.Kind != MediaUpload {
		return m, nil
	}
	if u == nil {
		return nil, fmt.Errorf("commit %s: %w", m.Filename, ErrNotStaged)
	}
	stored, err := u.Upload(ctx, m.Filename, m.ContentType, m.Data)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", m.Filename, err)
	}
	if stored == nil || stored.Kind != MediaFromServer {
		return nil, fmt.Errorf("commit %s: uploader returned %w", m.Filename, ErrNotStaged)
	}
	return stored, nil
}
