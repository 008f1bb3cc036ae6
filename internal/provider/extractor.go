package provider

import (
	"context"
	"errors"

	"github.com/lumeon/visage/internal/domain"
)

// Extractor is the seam between the core and the external model: it turns a
// validated image into exactly one canonical face encoding.
type Extractor struct {
	provider FaceProvider
}

func NewExtractor(p FaceProvider) *Extractor {
	return &Extractor{provider: p}
}

// ExtractEncoding locates faces, requires exactly one, and encodes it. Zero
// faces is ErrNoFaceDetected, more than one is a MULTIPLE_FACES error with
// the count; any other detection failure is wrapped as a quality error so
// callers see a closed taxonomy instead of backend-specific errors.
func (e *Extractor) ExtractEncoding(ctx context.Context, image []byte) ([]float64, error) {
	boxes, err := e.provider.LocateFaces(ctx, image)
	if err != nil {
		return nil, wrapDetectionError(err)
	}

	if len(boxes) == 0 {
		return nil, domain.ErrNoFaceDetected
	}
	if len(boxes) > 1 {
		return nil, domain.MultipleFacesError(len(boxes))
	}

	vector, err := e.provider.EncodeFace(ctx, image, boxes[0])
	if err != nil {
		return nil, wrapDetectionError(err)
	}

	return domain.ValidateEncoding(vector)
}

// wrapDetectionError passes tagged domain errors through unchanged and folds
// everything else into LOW_QUALITY_IMAGE carrying the original cause.
func wrapDetectionError(err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return domain.ErrLowQualityImage.WithError(err)
}
