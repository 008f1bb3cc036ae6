package rekognition

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lumeon/visage/internal/domain"
)

type mockDetectFacesAPI struct {
	mock.Mock
}

func (m *mockDetectFacesAPI) DetectFaces(ctx context.Context, params *rekognition.DetectFacesInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectFacesOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rekognition.DetectFacesOutput), args.Error(1)
}

func testPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func TestLocator_LocateFaces_RatioConversion(t *testing.T) {
	img := testPNG(t, 400, 200)

	api := new(mockDetectFacesAPI)
	api.On("DetectFaces", mock.Anything, mock.Anything).Return(&rekognition.DetectFacesOutput{
		FaceDetails: []types.FaceDetail{
			{
				BoundingBox: &types.BoundingBox{
					Left:   aws.Float32(0.25),
					Top:    aws.Float32(0.1),
					Width:  aws.Float32(0.5),
					Height: aws.Float32(0.6),
				},
			},
		},
	}, nil)

	boxes, err := NewLocatorWithAPI(api).LocateFaces(context.Background(), img)
	require.NoError(t, err)
	require.Len(t, boxes, 1)

	assert.Equal(t, domain.BoundingBox{Top: 20, Right: 300, Bottom: 140, Left: 100}, boxes[0])
	api.AssertExpectations(t)
}

func TestLocator_LocateFaces_NoFaces(t *testing.T) {
	api := new(mockDetectFacesAPI)
	api.On("DetectFaces", mock.Anything, mock.Anything).Return(&rekognition.DetectFacesOutput{}, nil)

	boxes, err := NewLocatorWithAPI(api).LocateFaces(context.Background(), testPNG(t, 100, 100))
	require.NoError(t, err)
	assert.Empty(t, boxes)
}

func TestLocator_LocateFaces_UndecodableImage(t *testing.T) {
	api := new(mockDetectFacesAPI)

	_, err := NewLocatorWithAPI(api).LocateFaces(context.Background(), []byte("garbage"))
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
	api.AssertNotCalled(t, "DetectFaces")
}

func TestLocator_LocateFaces_AccessDenied(t *testing.T) {
	api := new(mockDetectFacesAPI)
	api.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{
		Code:    "AccessDeniedException",
		Message: "not authorized",
	})

	_, err := NewLocatorWithAPI(api).LocateFaces(context.Background(), testPNG(t, 100, 100))
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLocator_LocateFaces_InvalidImageFormat(t *testing.T) {
	api := new(mockDetectFacesAPI)
	api.On("DetectFaces", mock.Anything, mock.Anything).Return(nil, &smithy.GenericAPIError{
		Code:    "InvalidImageFormatException",
		Message: "bad format",
	})

	_, err := NewLocatorWithAPI(api).LocateFaces(context.Background(), testPNG(t, 100, 100))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
