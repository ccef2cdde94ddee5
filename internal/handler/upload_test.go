package handler

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudercomite/ledenportaal/internal/config"
	"github.com/oudercomite/ledenportaal/internal/storage"
)

// fakeBucket records PUT requests the way the object store would receive
// them.
type fakeBucket struct {
	status   int
	requests []*http.Request
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.requests = append(b.requests, r.Clone(r.Context()))
	w.WriteHeader(b.status)
}

func newUploadEnv(t *testing.T, status int) (*UploadHandler, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{status: status}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	store := storage.NewObjectStore(config.StorageConfig{
		Endpoint:      srv.URL,
		Bucket:        "uploads",
		APIKey:        "test-key",
		PublicBaseURL: "https://cdn.example.org",
	})
	return NewUploadHandler(store), bucket
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadAcceptsPNG(t *testing.T) {
	h, bucket := newUploadEnv(t, http.StatusOK)

	body, contentType := multipartBody(t, "file", "avatar.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Upload(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["url"], "https://cdn.example.org/uploads/")
	assert.Contains(t, resp["url"], ".png")

	require.Len(t, bucket.requests, 1)
	put := bucket.requests[0]
	assert.Equal(t, http.MethodPut, put.Method)
	assert.Equal(t, "Bearer test-key", put.Header.Get("Authorization"))
	assert.Equal(t, "image/png", put.Header.Get("Content-Type"))
	assert.Contains(t, put.URL.Path, "/uploads/events/") // default folder
}

func TestUploadRejectsUnknownFolder(t *testing.T) {
	h, bucket := newUploadEnv(t, http.StatusOK)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("folder", "secrets"))
	fw, err := w.CreateFormFile("file", "avatar.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes(t))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, bucket.requests)
}

func TestUploadRejectsNonImage(t *testing.T) {
	h, bucket := newUploadEnv(t, http.StatusOK)

	// Extension lies; the sniffed bytes decide.
	body, contentType := multipartBody(t, "file", "notes.png", []byte("just some text pretending"))
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, bucket.requests)
}

func TestUploadMissingFile(t *testing.T) {
	h, _ := newUploadEnv(t, http.StatusOK)

	body, contentType := multipartBody(t, "attachment", "avatar.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadBucketFailure(t *testing.T) {
	h, _ := newUploadEnv(t, http.StatusForbidden)

	body, contentType := multipartBody(t, "file", "avatar.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/v1/uploads", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, h.Upload(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
