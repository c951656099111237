package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"entregas_tracker/internal/apperr"
	"entregas_tracker/internal/middleware"
	"entregas_tracker/internal/models"
)

// respondError writes err as {"error": msg} with the status of its kind.
// Internal errors are logged and replaced by a generic message.
func respondError(c *gin.Context, err error) {
	respondErrorWith(c, err, nil)
}

func respondErrorWith(c *gin.Context, err error, extra gin.H) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	body := gin.H{}
	for k, v := range extra {
		body[k] = v
	}
	if kind == apperr.KindInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		}).Error("Request failed")
		body["error"] = "Internal server error"
		c.AbortWithStatusJSON(status, body)
		return
	}

	e, _ := apperr.As(err)
	body["error"] = e.Msg
	if kind == apperr.KindRejectedImage {
		body["confidence"] = e.Confidence
	}
	c.AbortWithStatusJSON(status, body)
}

// paramID parses a positive numeric path parameter.
func paramID(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || n == 0 {
		return 0, apperr.InvalidInput("invalid " + name)
	}
	return uint(n), nil
}

// queryLimit reads ?limite=; absent means the service default.
func queryLimit(c *gin.Context) (int, error) {
	raw := c.Query("limite")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperr.InvalidInput("limite must be a positive integer")
	}
	return n, nil
}

// bindJSON decodes the body into v.
func bindJSON(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return bodyError(err, "invalid request body")
	}
	return nil
}

// bindStrictJSON is bindJSON that also rejects unknown fields.
func bindStrictJSON(c *gin.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return bodyError(err, "invalid request body: "+err.Error())
	}
	return nil
}

// bodyError reports a body cut off by http.MaxBytesReader as TooLarge and
// anything else as InvalidInput with msg.
func bodyError(err error, msg string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperr.TooLarge(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	}
	return apperr.InvalidInput(msg)
}

func caller(c *gin.Context) models.Identity {
	id, _ := middleware.CurrentIdentity(c)
	return id
}
