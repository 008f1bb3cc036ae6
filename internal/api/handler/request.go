package handler

import (
	"encoding/base64"
	"errors"
	"strings"

	"github.com/lumeon/visage/internal/domain"
)

const (
	maxImageSize = 10 * 1024 * 1024 // 10MB
)

// decodeImagePayload decodes a base64 image field from a JSON request body.
// A data URI prefix ("data:image/jpeg;base64,...") is accepted and stripped.
func decodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return nil, domain.ErrValidationFailed.WithError(errors.New("image is required"))
	}

	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx < 0 {
			return nil, domain.ErrInvalidImage.WithError(errors.New("malformed data URI"))
		}
		payload = payload[idx+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageSize {
		return nil, domain.ErrInvalidImage.WithError(errors.New("image exceeds maximum size"))
	}

	imageBytes, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	if len(imageBytes) == 0 {
		return nil, domain.ErrInvalidImage.WithError(errors.New("empty image"))
	}

	return imageBytes, nil
}
