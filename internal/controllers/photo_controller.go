package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PhotoService interface {
	Save(ctx context.Context, customerID uint, data []byte) (string, error)
	Path(ctx context.Context, customerID uint) (string, error)
	Remove(ctx context.Context, customerID uint) error
}

type PhotoController struct {
	svc      PhotoService
	maxBytes int64
}

func NewPhotoController(svc PhotoService, maxUploadBytes int64) *PhotoController {
	return &PhotoController{svc: svc, maxBytes: maxUploadBytes}
}

// UploadPhoto handles POST /photos/:clienteId with multipart "foto" or
// JSON {image}.
func (h *PhotoController) UploadPhoto(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	customerID, data, err := readImageUpload(c, "foto", "image")
	if err != nil {
		respondError(c, err)
		return
	}
	ref, err := h.svc.Save(c.Request.Context(), customerID, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"fotoId": ref, "message": "Photo stored"})
}

func (h *PhotoController) GetPhoto(c *gin.Context) {
	customerID, err := paramID(c, "clienteId")
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := h.svc.Path(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}

func (h *PhotoController) DeletePhoto(c *gin.Context) {
	customerID, err := paramID(c, "clienteId")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.svc.Remove(c.Request.Context(), customerID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Photo deleted"})
}
