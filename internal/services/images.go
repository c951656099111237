package services

import (
	"encoding/base64"
	"net/http"
	"strings"

	"entregas_tracker/internal/apperr"
)

// DecodeImagePayload decodes a base64 image, with or without a
// "data:<mime>;base64," prefix.
func DecodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, apperr.InvalidInput("image is required")
	}
	if strings.HasPrefix(payload, "data:") {
		i := strings.Index(payload, ",")
		if i < 0 {
			return nil, apperr.InvalidInput("malformed data URL")
		}
		payload = payload[i+1:]
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperr.InvalidInput("image is not valid base64")
	}
	if len(data) == 0 {
		return nil, apperr.InvalidInput("image is required")
	}
	return data, nil
}

// dataURL wraps raw image bytes as a data URL with a sniffed content type.
func dataURL(data []byte) string {
	return "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
}
