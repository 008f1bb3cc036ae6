package provider

import (
	"context"

	"github.com/lumeon/visage/internal/domain"
)

// FaceLocator finds faces in an encoded image. An image with no faces yields
// an empty slice, not an error.
type FaceLocator interface {
	LocateFaces(ctx context.Context, image []byte) ([]domain.BoundingBox, error)
}

// FaceEncoder maps the face inside the given bounding box to a fixed-length
// feature vector.
type FaceEncoder interface {
	EncodeFace(ctx context.Context, image []byte, box domain.BoundingBox) ([]float64, error)
}

// FaceProvider is the full external model surface: detection plus encoding.
type FaceProvider interface {
	FaceLocator
	FaceEncoder
}

// Composite pairs a locator and an encoder from different backends, e.g.
// Rekognition detection with a DeepFace embedding model.
type Composite struct {
	FaceLocator
	FaceEncoder
}
