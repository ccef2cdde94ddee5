package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/storage"
)

// maxUploadBytes caps image uploads at 5 MiB.
const maxUploadBytes = 5 << 20

// image types accepted for uploads, keyed by sniffed content type.
var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// uploadFolders are the object-store prefixes an upload may target.
var uploadFolders = map[string]bool{
	"events":   true,
	"news":     true,
	"sponsors": true,
	"avatars":  true,
}

// UploadHandler accepts image uploads and stores them in the object store.
type UploadHandler struct {
	Store *storage.ObjectStore
}

func NewUploadHandler(store *storage.ObjectStore) *UploadHandler {
	if store == nil {
		panic("nil object store passed to NewUploadHandler")
	}
	return &UploadHandler{Store: store}
}

// Upload reads the "file" part of a multipart form, verifies it is a JPEG,
// PNG or WebP under the size cap by sniffing its actual bytes, and returns
// the public URL of the stored object. The optional "folder" form value
// picks the target prefix (events, news, sponsors or avatars). The declared
// filename and content type from the client are ignored.
func (h *UploadHandler) Upload(c echo.Context) error {
	folder := c.FormValue("folder")
	if folder == "" {
		folder = "events"
	}
	if !uploadFolders[folder] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown folder"})
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file field required"})
	}
	if fh.Size > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 5 MiB"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	defer src.Close()

	// Read into memory; the cap keeps this bounded. The extra byte catches
	// clients that lie about Content-Length in the part header.
	buf, err := io.ReadAll(io.LimitReader(src, maxUploadBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unreadable file"})
	}
	if len(buf) > maxUploadBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 5 MiB"})
	}

	contentType := http.DetectContentType(buf)
	ext, ok := imageExt[contentType]
	if !ok {
		return c.JSON(http.StatusUnsupportedMediaType, echo.Map{"error": "only jpeg, png or webp images are accepted"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	url, err := h.Store.Put(ctx, bytes.NewReader(buf), int64(len(buf)), contentType, folder, ext)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "upload failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
