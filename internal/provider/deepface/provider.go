package deepface

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/provider"
)

// Provider implements provider.FaceProvider against a self-hosted DeepFace
// API. DeepFace returns detection and embedding in one /represent call, so
// EncodeFace re-runs the call and picks the face matching the requested box.
type Provider struct {
	client *Client
}

// NewProvider creates a new DeepFace provider
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
	}
}

// LocateFaces detects faces in the image and returns their bounding boxes
// in (top, right, bottom, left) pixel coordinates.
func (p *Provider) LocateFaces(ctx context.Context, image []byte) ([]domain.BoundingBox, error) {
	resp, err := p.represent(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("locate faces: %w", err)
	}

	boxes := make([]domain.BoundingBox, 0, len(resp.Results))
	for _, result := range resp.Results {
		boxes = append(boxes, areaToBox(result.FacialArea))
	}
	return boxes, nil
}

// EncodeFace extracts the embedding for the face at the given bounding box.
func (p *Provider) EncodeFace(ctx context.Context, image []byte, box domain.BoundingBox) ([]float64, error) {
	resp, err := p.represent(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("encode face: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, ErrNoFaceInResponse
	}

	// The detector is deterministic for a fixed image, so the requested box
	// normally matches one result exactly; overlap picks the closest when
	// rounding differs.
	best := resp.Results[0]
	bestOverlap := -1
	for _, result := range resp.Results {
		if o := overlap(areaToBox(result.FacialArea), box); o > bestOverlap {
			best = result
			bestOverlap = o
		}
	}

	return best.Embedding, nil
}

func (p *Provider) represent(ctx context.Context, image []byte) (*RepresentResponse, error) {
	imageBase64 := base64.StdEncoding.EncodeToString(image)
	return p.client.Represent(ctx, imageBase64)
}

func areaToBox(a FacialArea) domain.BoundingBox {
	return domain.BoundingBox{
		Top:    a.Y,
		Right:  a.X + a.W,
		Bottom: a.Y + a.H,
		Left:   a.X,
	}
}

// overlap returns the intersection area of two boxes in pixels².
func overlap(a, b domain.BoundingBox) int {
	w := min(a.Right, b.Right) - max(a.Left, b.Left)
	h := min(a.Bottom, b.Bottom) - max(a.Top, b.Top)
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Ensure Provider implements provider.FaceProvider
var _ provider.FaceProvider = (*Provider)(nil)
