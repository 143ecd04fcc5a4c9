package recordings

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rec4u/backend/internal/auth"
	"github.com/rec4u/backend/pkg/response"
	"github.com/rec4u/backend/pkg/storage"
)

// RenameRequest is the body for PUT /recordings/:id.
type RenameRequest struct {
	Title string `json:"title" binding:"required"`
}

// Handler handles recording HTTP endpoints. All operations are scoped to the
// owner identity taken from the verified token, never from the request.
type Handler struct {
	svc    *Service
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a recordings handler.
func NewHandler(svc *Service, repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, repo: repo, logger: logger}
}

// Upload handles POST /recordings/upload (multipart file + title). Responds
// as soon as the blob and row are durable; metadata arrives later.
func (h *Handler) Upload(c *gin.Context) {
	ownerID := c.MustGet(auth.ContextUserID).(uuid.UUID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file")
		return
	}
	title := c.PostForm("title")
	if title == "" {
		title = "Recording"
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, "unreadable file")
		return
	}
	defer f.Close()

	result, err := h.svc.Upload(c.Request.Context(), ownerID, title,
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidType) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("upload failed", zap.Error(err), zap.String("owner_id", ownerID.String()))
		response.Internal(c, "failed to store recording")
		return
	}

	response.OK(c, result)
}

// List handles GET /recordings. Recently uploaded entries may still show null
// metadata fields.
func (h *Handler) List(c *gin.Context) {
	ownerID := c.MustGet(auth.ContextUserID).(uuid.UUID)

	list, err := h.repo.ListByOwner(c.Request.Context(), ownerID)
	if err != nil {
		h.logger.Error("list recordings failed", zap.Error(err), zap.String("owner_id", ownerID.String()))
		response.Internal(c, "failed to list recordings")
		return
	}
	response.OK(c, list)
}

// Rename handles PUT /recordings/:id. Changes the title only.
func (h *Handler) Rename(c *gin.Context) {
	ownerID := c.MustGet(auth.ContextUserID).(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}
	var req RenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.repo.Rename(c.Request.Context(), id, ownerID, req.Title); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "recording not found")
			return
		}
		h.logger.Error("rename failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to rename recording")
		return
	}
	response.OK(c, gin.H{"message": "recording renamed"})
}

// Delete handles DELETE /recordings/:id. Removes the row and the blob.
func (h *Handler) Delete(c *gin.Context) {
	ownerID := c.MustGet(auth.ContextUserID).(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}

	if err := h.svc.Delete(c.Request.Context(), id, ownerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(c, "recording not found")
			return
		}
		h.logger.Error("delete failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to delete recording")
		return
	}
	response.OK(c, gin.H{"message": "recording deleted"})
}

// Rescan handles POST /recordings/:id/rescan. Re-runs metadata extraction for
// a recording left without metadata by a failed extraction.
func (h *Handler) Rescan(c *gin.Context) {
	ownerID := c.MustGet(auth.ContextUserID).(uuid.UUID)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid recording id")
		return
	}

	err = h.svc.Rescan(c.Request.Context(), id, ownerID)
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(c, "recording not found")
	case errors.Is(err, ErrMetadataPresent):
		response.BadRequest(c, "metadata already extracted")
	case err != nil:
		h.logger.Error("rescan failed", zap.Error(err), zap.String("recording_id", id.String()))
		response.Internal(c, "failed to schedule rescan")
	default:
		response.OK(c, gin.H{"status": "processing"})
	}
}

// ServeFile handles GET /recordings/file/:filename. The lookup is
// owner-scoped, so another user's filename yields 404, indistinguishable from
// a missing file.
func (h *Handler) ServeFile(c *gin.Context) {
	ownerID := c.MustGet(auth.ContextUserID).(uuid.UUID)
	filename := c.Param("filename")

	rec, err := h.repo.GetByFilename(c.Request.Context(), ownerID, filename)
	if err != nil {
		response.NotFound(c, "file not found")
		return
	}

	c.Header("Content-Type", storage.ContentTypeFor(rec.Filename))
	c.File(rec.FilePath)
}
