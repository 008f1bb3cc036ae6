package mock

import (
	"bytes"
	"context"
	"crypto/sha256"
	"image"
	"math"

	_ "image/jpeg"
	_ "image/png"

	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/provider"
)

// Provider implements provider.FaceProvider for tests and development. It is
// deterministic: the same image bytes always produce the same bounding box
// and the same unit-length encoding, so enroll-then-authenticate round trips
// match with distance zero.
type Provider struct {
	boxes []domain.BoundingBox
}

// New creates a mock provider that reports one face inset 25% from the
// decoded image bounds.
func New() *Provider {
	return &Provider{}
}

// NewWithBoxes creates a mock provider that reports a fixed set of faces,
// for exercising multi-face and no-face paths.
func NewWithBoxes(boxes ...domain.BoundingBox) *Provider {
	return &Provider{boxes: boxes}
}

// LocateFaces returns the configured boxes, or a single centered box derived
// from the image dimensions.
func (p *Provider) LocateFaces(ctx context.Context, img []byte) ([]domain.BoundingBox, error) {
	if p.boxes != nil {
		return p.boxes, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	insetX := cfg.Width / 4
	insetY := cfg.Height / 4
	return []domain.BoundingBox{{
		Top:    insetY,
		Right:  cfg.Width - insetX,
		Bottom: cfg.Height - insetY,
		Left:   insetX,
	}}, nil
}

// EncodeFace generates a deterministic unit-length encoding from the image
// hash. The bounding box is ignored: the whole image determines the vector.
func (p *Provider) EncodeFace(ctx context.Context, img []byte, box domain.BoundingBox) ([]float64, error) {
	if len(img) == 0 {
		return nil, domain.ErrInvalidImage
	}
	return generateEncoding(img), nil
}

func generateEncoding(img []byte) []float64 {
	hash := sha256.Sum256(img)
	encoding := make([]float64, domain.EncodingDimensions)
	hashLen := len(hash)

	for i := 0; i < domain.EncodingDimensions; i++ {
		idx := i % hashLen
		encoding[i] = (float64(hash[idx])/255.0)*2 - 1
	}

	norm := 0.0
	for _, v := range encoding {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	for i := range encoding {
		encoding[i] /= norm
	}

	return encoding
}

var _ provider.FaceProvider = (*Provider)(nil)
