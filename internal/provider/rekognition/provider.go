package rekognition

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"

	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/provider"
)

const (
	errCodeAccessDenied     = "AccessDeniedException"
	errCodeInvalidImage     = "InvalidImageFormatException"
	errCodeImageTooLarge    = "ImageTooLargeException"
	errCodeInvalidParameter = "InvalidParameterException"
)

// DetectFacesAPI is the subset of the Rekognition client the locator needs.
type DetectFacesAPI interface {
	DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error)
}

// Locator implements provider.FaceLocator using AWS Rekognition DetectFaces.
// Rekognition exposes no raw embeddings, so the provider factory pairs this
// locator with a separate encoder backend.
type Locator struct {
	api DetectFacesAPI
}

// NewLocator creates a Rekognition-backed locator using the AWS default
// credential chain.
func NewLocator(ctx context.Context, cfg Config) (*Locator, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return &Locator{api: rekognition.NewFromConfig(awsCfg)}, nil
}

// NewLocatorWithAPI creates a locator around an existing client, used by tests.
func NewLocatorWithAPI(api DetectFacesAPI) *Locator {
	return &Locator{api: api}
}

// LocateFaces detects faces and converts Rekognition's ratio-based bounding
// boxes to pixel coordinates against the decoded image dimensions.
func (l *Locator) LocateFaces(ctx context.Context, img []byte) ([]domain.BoundingBox, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(img))
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	input := &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: img,
		},
		Attributes: []types.Attribute{types.AttributeDefault},
	}

	output, err := l.api.DetectFaces(ctx, input)
	if err != nil {
		return nil, mapAPIError(err)
	}

	boxes := make([]domain.BoundingBox, 0, len(output.FaceDetails))
	for _, detail := range output.FaceDetails {
		if detail.BoundingBox == nil {
			continue
		}
		boxes = append(boxes, ratioToPixels(detail.BoundingBox, cfg.Width, cfg.Height))
	}

	return boxes, nil
}

func ratioToPixels(box *types.BoundingBox, width, height int) domain.BoundingBox {
	left := int(aws.ToFloat32(box.Left) * float32(width))
	top := int(aws.ToFloat32(box.Top) * float32(height))
	return domain.BoundingBox{
		Top:    top,
		Right:  left + int(aws.ToFloat32(box.Width)*float32(width)),
		Bottom: top + int(aws.ToFloat32(box.Height)*float32(height)),
		Left:   left,
	}
}

func mapAPIError(err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case errCodeAccessDenied:
			return fmt.Errorf("detect faces: %w", ErrInvalidCredentials)
		case errCodeInvalidImage, errCodeImageTooLarge, errCodeInvalidParameter:
			return fmt.Errorf("detect faces: %w: %v", ErrInvalidImage, err)
		}
	}
	return fmt.Errorf("detect faces: %w", err)
}

var _ provider.FaceLocator = (*Locator)(nil)
