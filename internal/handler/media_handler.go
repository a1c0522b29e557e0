package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/middleware"
	"github.com/mediblog/mediblog-backend/internal/service"
)

// MediaHandler handles featured-image uploads
type MediaHandler struct {
	service service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// UploadImage godoc
// @Summary      Upload a featured image
// @Description  Stores an image in object storage and returns its public URL
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Image file (jpeg, png, webp or gif, max 10 MiB)"
// @Success      201  {object}  common.APIResponse{data=storage.UploadResult}
// @Failure      400  {object}  common.APIResponse
// @Failure      403  {object}  common.APIResponse
// @Router       /dashboard/media [post]
func (h *MediaHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, 400, "Missing file field", err)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		common.ErrorResponse(c, 400, "Unreadable file", err)
		return
	}
	defer file.Close()

	session := middleware.GetSession(c)
	contentType := fileHeader.Header.Get("Content-Type")

	result, err := h.service.UploadImage(c.Request.Context(), session, fileHeader.Filename, contentType, file, fileHeader.Size)
	switch {
	case errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, 403, "Permission denied", err)
		return
	case errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, 400, "Unsupported file type or size", err)
		return
	case errors.Is(err, common.ErrNotFound):
		common.ErrorResponse(c, 503, "Media storage is not configured", err)
		return
	case err != nil:
		common.ErrorResponse(c, 500, "Upload failed", err)
		return
	}

	common.CreatedResponse(c, result)
}
