package quality

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/provider"
)

const (
	minWidth  = 100
	minHeight = 100

	minBrightness = 50.0
	maxBrightness = 200.0

	// minFaceRatio is the minimum fraction of each image dimension the face
	// box must cover.
	minFaceRatio = 0.20

	// minEdgeMargin is the minimum distance in pixels between the face box
	// and every image edge.
	minEdgeMargin = 10

	// brightnessSample caps the long edge of the luma reduction so the mean
	// is cheap on large captures.
	brightnessSample = 256
)

// Rejection reasons, surfaced verbatim to callers.
const (
	ReasonTooSmall     = "too small"
	ReasonTooDark      = "too dark"
	ReasonTooBright    = "too bright"
	ReasonNoFace       = "no face detected"
	ReasonFaceTooSmall = "face too small in the image"
	ReasonFaceTooClose = "face too close to the edge"

	reasonMultiplePrefix = "multiple faces detected: "
)

// Gate runs the pre-flight acceptability checks on a captured image before
// any encoding or matching work. Detection is delegated to the external
// locator; everything else is plain pixel math.
type Gate struct {
	locator provider.FaceLocator
}

func NewGate(locator provider.FaceLocator) *Gate {
	return &Gate{locator: locator}
}

// Validate applies the checks in order, short-circuiting on the first
// failure. The returned reason is empty when the image is valid. An error is
// returned only for undecodable input or a locator failure, never for a
// well-formed image that merely fails a check.
func (g *Gate) Validate(ctx context.Context, raw []byte) (bool, string, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return false, "", domain.ErrInvalidImage.WithError(err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width < minWidth || height < minHeight {
		return false, ReasonTooSmall, nil
	}

	brightness := meanLuma(img)
	if brightness < minBrightness {
		return false, ReasonTooDark, nil
	}
	if brightness > maxBrightness {
		return false, ReasonTooBright, nil
	}

	boxes, err := g.locator.LocateFaces(ctx, raw)
	if err != nil {
		return false, "", err
	}
	if len(boxes) == 0 {
		return false, ReasonNoFace, nil
	}
	if len(boxes) > 1 {
		return false, fmt.Sprintf("%s%d", reasonMultiplePrefix, len(boxes)), nil
	}

	box := boxes[0]
	if float64(box.Width()) < minFaceRatio*float64(width) ||
		float64(box.Height()) < minFaceRatio*float64(height) {
		return false, ReasonFaceTooSmall, nil
	}

	if box.Left < minEdgeMargin || box.Top < minEdgeMargin ||
		box.Right > width-minEdgeMargin || box.Bottom > height-minEdgeMargin {
		return false, ReasonFaceTooClose, nil
	}

	return true, "", nil
}

// ErrorFor maps a rejection reason to its tagged domain error, so enrollment
// and authentication can fail with a pattern-matchable variant while the
// HTTP layer still reports the verbatim reason.
func ErrorFor(reason string) *domain.AppError {
	switch reason {
	case ReasonTooSmall:
		return domain.ErrImageTooSmall
	case ReasonTooDark:
		return domain.ErrImageTooDark
	case ReasonTooBright:
		return domain.ErrImageTooBright
	case ReasonNoFace:
		return domain.ErrNoFaceDetected
	case ReasonFaceTooSmall:
		return domain.ErrFaceTooSmall
	case ReasonFaceTooClose:
		return domain.ErrFaceTooClose
	}
	if strings.HasPrefix(reason, reasonMultiplePrefix) {
		return domain.ErrMultipleFaces.WithMessage(reason)
	}
	return domain.ErrLowQualityImage.WithMessage(reason)
}

// meanLuma computes the mean Rec. 601 luma over a downscaled copy of the
// image.
func meanLuma(img image.Image) float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > brightnessSample || height > brightnessSample {
		scale := float64(brightnessSample) / float64(max(width, height))
		width = max(1, int(float64(width)*scale))
		height = max(1, int(float64(height)*scale))

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
		img = dst
		bounds = dst.Bounds()
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels
			sum += (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 257.0
		}
	}

	return sum / float64(width*height)
}
