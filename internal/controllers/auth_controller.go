package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
	"entregas_tracker/internal/services"
)

type Authenticator interface {
	Authenticate(ctx context.Context, in services.Credentials) (*models.Identity, error)
}

type AuthController struct {
	auth Authenticator
}

func NewAuthController(auth Authenticator) *AuthController {
	return &AuthController{auth: auth}
}

func (h *AuthController) LoginUser(c *gin.Context) {
	var body services.Credentials
	if err := bindJSON(c, &body); err != nil {
		respondError(c, err)
		return
	}

	id, err := h.auth.Authenticate(c.Request.Context(), body)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			logrus.WithField("email", body.Email).Warn("Failed login attempt")
		}
		respondError(c, err)
		return
	}

	token, err := middleware.GenerateToken(*id)
	if err != nil {
		respondError(c, apperr.Internal(err, "could not generate token"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  id,
	})
}

// VerifyToken echoes the identity decoded from the bearer token.
func (h *AuthController) VerifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": caller(c)})
}
