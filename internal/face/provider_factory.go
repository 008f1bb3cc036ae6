package face

import (
	"context"
	"fmt"

	"github.com/lumeon/visage/internal/config"
	"github.com/lumeon/visage/internal/provider"
	"github.com/lumeon/visage/internal/provider/deepface"
	"github.com/lumeon/visage/internal/provider/mock"
	"github.com/lumeon/visage/internal/provider/rekognition"
)

// ProviderType defines supported face model backends
type ProviderType string

const (
	// ProviderTypeDeepFace is the self-hosted DeepFace backend (detection + encoding)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition uses AWS Rekognition for detection; encodings
	// still come from DeepFace because Rekognition exposes no raw vectors
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is the deterministic in-process backend for dev/test
	ProviderTypeMock ProviderType = "mock"
)

// NewFaceProvider creates a FaceProvider instance based on configuration.
//
// Environment variables:
//   - PROVIDER_TYPE: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL: DeepFace API URL (default: "http://localhost:5000")
//   - AWS_REGION: AWS region for Rekognition (default: "us-east-1")
//   - AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY: via AWS SDK credential chain
func NewFaceProvider(ctx context.Context, cfg *config.Config) (provider.FaceProvider, error) {
	switch ProviderType(cfg.ProviderType) {
	case ProviderTypeRekognition:
		locator, err := rekognition.NewLocator(ctx, rekognition.Config{Region: cfg.AWSRegion})
		if err != nil {
			return nil, fmt.Errorf("create rekognition locator: %w", err)
		}
		return provider.Composite{
			FaceLocator: locator,
			FaceEncoder: newDeepFaceProvider(cfg),
		}, nil

	case ProviderTypeMock:
		return mock.New(), nil

	case ProviderTypeDeepFace, "":
		return newDeepFaceProvider(cfg), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.ProviderType, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

func newDeepFaceProvider(cfg *config.Config) *deepface.Provider {
	deepfaceConfig := deepface.DefaultConfig()
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	return deepface.NewProvider(deepfaceConfig)
}
