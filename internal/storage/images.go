package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ImageStore persists the source image of each accepted enrollment so an
// operator can audit what was enrolled. Artifacts are plain files under a
// single directory; retention is an external concern.
type ImageStore struct {
	dir string
}

func NewImageStore(dir string) *ImageStore {
	return &ImageStore{dir: dir}
}

// Save writes the image bytes under a unique name tied to the identity and
// returns the artifact path, used as the stored encoding's image reference.
func (s *ImageStore) Save(identityID uuid.UUID, image []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create image dir: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")
	name := fmt.Sprintf("user_%s_%s_%s.jpg", identityID, timestamp, uuid.NewString()[:8])
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, image, 0o644); err != nil {
		return "", fmt.Errorf("write image artifact: %w", err)
	}

	return path, nil
}

// Remove deletes an artifact, used as the rollback step when enrollment
// fails after the image was written. Removing a missing file is not an
// error.
func (s *ImageStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image artifact: %w", err)
	}
	return nil
}
