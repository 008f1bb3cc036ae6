package domain

// EncodingDimensions is the fixed length of every face encoding, set by the
// external encoder (Facenet-style 128-dim vectors).
const EncodingDimensions = 128

// ValidateEncoding normalizes a boundary-supplied vector into the canonical
// representation: a defensive copy with the validated dimensionality. Both
// enrollment and authentication funnel through this so no other code needs
// to re-check lengths.
func ValidateEncoding(values []float64) ([]float64, error) {
	if len(values) != EncodingDimensions {
		return nil, ErrInvalidEncoding
	}
	out := make([]float64, EncodingDimensions)
	copy(out, values)
	return out, nil
}

// BoundingBox is a detected face location in pixel coordinates, in the
// (top, right, bottom, left) convention of the external locator.
type BoundingBox struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// Width returns the box width in pixels.
func (b BoundingBox) Width() int {
	return b.Right - b.Left
}

// Height returns the box height in pixels.
func (b BoundingBox) Height() int {
	return b.Bottom - b.Top
}
