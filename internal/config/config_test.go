package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/visage_test")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "deepface", cfg.ProviderType)
	assert.Equal(t, 0.6, cfg.MatchThreshold)
	assert.Equal(t, 5, cfg.MaxFacesPerUser)
	assert.Equal(t, 10*time.Second, cfg.ScanTimeout)
	assert.Equal(t, "face_images", cfg.FaceImagesDir)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/visage_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MATCH_THRESHOLD", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MATCH_THRESHOLD")
}

func TestLoad_InvalidMaxFaces(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/visage_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("MAX_FACES_PER_USER", "0")

	_, err := Load()
	assert.Error(t, err)
}
