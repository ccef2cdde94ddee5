// Package storage uploads member-provided images to an S3-compatible HTTP
// object store and returns their public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/config"
)

// ObjectStore is a thin client for a bucket exposed over plain HTTP PUT
// with bearer-token auth. Objects are keyed by a generated UUID so uploads
// never collide and original filenames never leak into URLs.
type ObjectStore struct {
	cfg    config.StorageConfig
	client *http.Client
}

// NewObjectStore builds a client with a bounded request timeout.
func NewObjectStore(cfg config.StorageConfig) *ObjectStore {
	return &ObjectStore{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Put streams the object to the bucket and returns its public URL. The key
// is <folder>/<uuid><ext>; ext must include the leading dot and both folder
// and ext come from the validated upload, not from raw user input.
func (s *ObjectStore) Put(ctx context.Context, body io.Reader, size int64, contentType, folder, ext string) (string, error) {
	key := path.Join(folder, uuid.NewString()+ext)
	url := fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, body)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("object store returned status %d", resp.StatusCode)
	}

	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return base + "/" + path.Join(s.cfg.Bucket, key), nil
}
