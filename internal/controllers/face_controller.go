package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/models"
	"entregas_tracker/internal/services"
)

type FaceService interface {
	Register(ctx context.Context, customerID uint, image []byte) (*services.Registration, error)
	Verify(ctx context.Context, in services.VerifyInput) (*models.VerificationAttempt, error)
	History(ctx context.Context, customerID uint, limit int) ([]models.VerificationRecord, error)
	Status(ctx context.Context, customerID uint) (*services.FaceStatus, error)
	FaceImage(ctx context.Context, customerID uint) (string, error)
}

type FaceController struct {
	svc      FaceService
	maxBytes int64
}

func NewFaceController(svc FaceService, maxUploadBytes int64) *FaceController {
	return &FaceController{svc: svc, maxBytes: maxUploadBytes}
}

// RegisterFace handles POST /face/register. The image comes either as the
// multipart file "image" (with form field clienteId) or as JSON
// {clienteId, imagen} with base64 content.
func (h *FaceController) RegisterFace(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)

	customerID, image, err := readImageUpload(c, "image", "imagen")
	if err != nil {
		respondErrorWith(c, err, gin.H{"registered": false})
		return
	}

	reg, err := h.svc.Register(c.Request.Context(), customerID, image)
	if err != nil {
		respondErrorWith(c, err, gin.H{"registered": false})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"registered": true,
		"fotoId":     reg.SampleID,
		"confidence": reg.Confidence,
		"message":    "Face registered",
	})
}

// VerifyFace handles POST /face/verify. The driver is the caller.
func (h *FaceController) VerifyFace(c *gin.Context) {
	var in services.VerifyInput
	if err := bindJSON(c, &in); err != nil {
		respondError(c, err)
		return
	}
	in.DriverID = caller(c).ID

	a, err := h.svc.Verify(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Verification recorded",
		"id":        a.ID,
		"verified":  a.Passed,
		"resultado": a.Outcome(),
	})
}

func (h *FaceController) History(c *gin.Context) {
	customerID, err := paramID(c, "clienteId")
	if err != nil {
		respondError(c, err)
		return
	}
	limit, err := queryLimit(c)
	if err != nil {
		respondError(c, err)
		return
	}
	hist, err := h.svc.History(c.Request.Context(), customerID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, hist)
}

func (h *FaceController) Status(c *gin.Context) {
	customerID, err := paramID(c, "clienteId")
	if err != nil {
		respondError(c, err)
		return
	}
	st, err := h.svc.Status(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *FaceController) Image(c *gin.Context) {
	customerID, err := paramID(c, "clienteId")
	if err != nil {
		respondError(c, err)
		return
	}
	url, err := h.svc.FaceImage(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imagen": url})
}

const multipartMemory = 8 << 20

// readImageUpload extracts (clienteId, image bytes) from a multipart form
// or a JSON body. A customer id already in the path wins over the body.
func readImageUpload(c *gin.Context, fileField, jsonField string) (uint, []byte, error) {
	var customerID uint
	if raw := c.Param("clienteId"); raw != "" {
		id, err := paramID(c, "clienteId")
		if err != nil {
			return 0, nil, err
		}
		customerID = id
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			return 0, nil, bodyError(err, "invalid multipart form")
		}
		if customerID == 0 {
			n, err := strconv.ParseUint(c.PostForm("clienteId"), 10, 32)
			if err != nil {
				return 0, nil, apperr.InvalidInput("clienteId is required")
			}
			customerID = uint(n)
		}
		fh, err := c.FormFile(fileField)
		if err != nil {
			return 0, nil, apperr.InvalidInput(fileField + " file is required")
		}
		f, err := fh.Open()
		if err != nil {
			return 0, nil, apperr.InvalidInput("could not read upload")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return 0, nil, bodyError(err, "could not read upload")
		}
		return customerID, data, nil
	}

	var body map[string]interface{}
	if err := bindJSON(c, &body); err != nil {
		return 0, nil, err
	}
	if customerID == 0 {
		switch v := body["clienteId"].(type) {
		case float64:
			if v > 0 {
				customerID = uint(v)
			}
		case string:
			if n, err := strconv.ParseUint(v, 10, 32); err == nil {
				customerID = uint(n)
			}
		}
	}
	payload, _ := body[jsonField].(string)
	data, err := services.DecodeImagePayload(payload)
	if err != nil {
		return 0, nil, err
	}
	return customerID, data, nil
}
