package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talkwave/talkwave-backend/internal/common"
	"github.com/talkwave/talkwave-backend/internal/middleware"
	"github.com/talkwave/talkwave-backend/pkg/storage"
)

// maxUploadSize caps multipart bodies (32 MiB)
const maxUploadSize = 32 << 20

// UploadHandler handles blob uploads for profile pictures and media
// messages. Uploads return the public download URL; the client then
// sends that URL as photo/video message content.
type UploadHandler struct {
	blobs *storage.S3Client
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(blobs *storage.S3Client) *UploadHandler {
	return &UploadHandler{blobs: blobs}
}

// UploadProfilePicture handles POST /api/v1/uploads/profile-picture.
// The object key is derived from the caller's identity, so re-uploading
// replaces the previous picture.
func (h *UploadHandler) UploadProfilePicture(c *gin.Context) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		common.ErrorResponse(c, http.StatusUnauthorized, "Missing identity", nil)
		return
	}

	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.blobs.UploadProfilePicture(c.Request.Context(), id.Safe, file)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}
	common.CreatedResponse(c, gin.H{"url": url})
}

// UploadMessagePhoto handles POST /api/v1/uploads/message-photo
func (h *UploadHandler) UploadMessagePhoto(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.blobs.UploadMessagePhoto(c.Request.Context(), uploadFileName(c), file)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}
	common.CreatedResponse(c, gin.H{"url": url})
}

// UploadMessageVideo handles POST /api/v1/uploads/message-video
func (h *UploadHandler) UploadMessageVideo(c *gin.Context) {
	file, ok := h.openUpload(c)
	if !ok {
		return
	}
	defer file.Close()

	url, err := h.blobs.UploadMessageVideo(c.Request.Context(), uploadFileName(c), file)
	if err != nil {
		common.ErrorResponse(c, http.StatusInternalServerError, "Upload failed", err)
		return
	}
	common.CreatedResponse(c, gin.H{"url": url})
}

// openUpload extracts the "file" part from the multipart form. On
// failure it writes the error response and returns ok=false.
func (h *UploadHandler) openUpload(c *gin.Context) (multipart.File, bool) {
	if h.blobs == nil {
		common.ErrorResponse(c, http.StatusServiceUnavailable, "Blob storage is not configured", nil)
		return nil, false
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	header, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Missing file", err)
		return nil, false
	}

	f, err := header.Open()
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Unreadable file", err)
		return nil, false
	}
	return f, true
}

// uploadFileName picks the message media file name: the client-supplied
// form value when present (clients name media after the message id),
// otherwise a random one.
func uploadFileName(c *gin.Context) string {
	if name := c.PostForm("file_name"); name != "" {
		return name
	}
	return uuid.NewString()
}
