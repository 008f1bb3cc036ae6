package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lumeon/visage/internal/audit"
	"github.com/lumeon/visage/internal/domain"
	"github.com/lumeon/visage/internal/match"
	"github.com/lumeon/visage/internal/quality"
	"github.com/lumeon/visage/internal/repository"
)

// QualityGateInterface validates that an image is usable for recognition
type QualityGateInterface interface {
	Validate(ctx context.Context, raw []byte) (bool, string, error)
}

// ExtractorInterface produces a face encoding from an image
type ExtractorInterface interface {
	ExtractEncoding(ctx context.Context, image []byte) ([]float64, error)
}

// ArtifactStoreInterface persists enrollment images on disk
type ArtifactStoreInterface interface {
	Save(identityID uuid.UUID, image []byte) (string, error)
	Remove(path string) error
}

type AuthService struct {
	identityRepo repository.IdentityRepositoryInterface
	encodingRepo repository.EncodingRepositoryInterface
	authLogRepo  repository.AuthLogRepositoryInterface
	gate         QualityGateInterface
	extractor    ExtractorInterface
	artifacts    ArtifactStoreInterface
	threshold    *match.Threshold
	auditLogger  audit.Logger
	logger       *slog.Logger
	providerName string
	scanTimeout  time.Duration
}

func NewAuthService(
	identityRepo repository.IdentityRepositoryInterface,
	encodingRepo repository.EncodingRepositoryInterface,
	authLogRepo repository.AuthLogRepositoryInterface,
	gate QualityGateInterface,
	extractor ExtractorInterface,
	artifacts ArtifactStoreInterface,
	threshold *match.Threshold,
	auditLogger audit.Logger,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		identityRepo: identityRepo,
		encodingRepo: encodingRepo,
		authLogRepo:  authLogRepo,
		gate:         gate,
		extractor:    extractor,
		artifacts:    artifacts,
		threshold:    threshold,
		auditLogger:  auditLogger,
		logger:       logger,
		providerName: "deepface",
		scanTimeout:  10 * time.Second,
	}
}

// WithProviderName sets the provider name reported in audit events
func (s *AuthService) WithProviderName(name string) *AuthService {
	s.providerName = name
	return s
}

// WithScanTimeout bounds how long a full authentication scan may take
func (s *AuthService) WithScanTimeout(d time.Duration) *AuthService {
	if d > 0 {
		s.scanTimeout = d
	}
	return s
}

// ValidateImage runs the quality gate without enrolling or matching anything.
// It returns whether the image passed and, when it did not, the reason.
func (s *AuthService) ValidateImage(ctx context.Context, image []byte) (bool, string, error) {
	ok, reason, err := s.gate.Validate(ctx, image)
	if err != nil {
		return false, "", fmt.Errorf("validate image: %w", err)
	}

	s.logAudit(ctx, audit.Event{
		EventType: audit.EventImageValidated,
		Provider:  s.providerName,
		Success:   ok,
		Error:     reason,
	})

	return ok, reason, nil
}

// Enroll validates an image, extracts its encoding and stores it for the
// identity. The raw image is kept on disk as an enrollment artifact; if the
// database write fails the artifact is removed again.
func (s *AuthService) Enroll(ctx context.Context, identityID uuid.UUID, image []byte) (*domain.FaceEncoding, error) {
	if _, err := s.identityRepo.GetByID(ctx, identityID); err != nil {
		return nil, err
	}

	ok, reason, err := s.gate.Validate(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("identity %s: validate image: %w", identityID, err)
	}
	if !ok {
		return nil, quality.ErrorFor(reason)
	}

	vector, err := s.extractor.ExtractEncoding(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("identity %s: extract encoding: %w", identityID, err)
	}

	imageRef, err := s.artifacts.Save(identityID, image)
	if err != nil {
		return nil, fmt.Errorf("identity %s: save artifact: %w", identityID, err)
	}

	encoding := &domain.FaceEncoding{
		IdentityID: identityID,
		Vector:     vector,
		ImageRef:   imageRef,
	}

	if err := s.encodingRepo.Create(ctx, encoding); err != nil {
		if rmErr := s.artifacts.Remove(imageRef); rmErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned artifact",
				slog.String("image_ref", imageRef),
				slog.String("error", rmErr.Error()),
			)
		}
		return nil, err
	}

	s.logAudit(ctx, audit.Event{
		EventType:  audit.EventFaceEnrolled,
		IdentityID: identityID.String(),
		Provider:   s.providerName,
		Success:    true,
	})

	return encoding, nil
}

// RegisterWithFace creates an identity and enrolls its first face in one
// operation. If enrollment fails, the freshly created identity is deleted so
// no identity exists without at least one encoding.
func (s *AuthService) RegisterWithFace(ctx context.Context, name, email string, image []byte) (*domain.Identity, *domain.FaceEncoding, error) {
	identity := &domain.Identity{
		Name:     name,
		Email:    email,
		IsActive: true,
	}

	if err := s.identityRepo.Create(ctx, identity); err != nil {
		return nil, nil, err
	}

	encoding, err := s.Enroll(ctx, identity.ID, image)
	if err != nil {
		if delErr := s.identityRepo.Delete(ctx, identity.ID); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to roll back identity after enrollment failure",
				slog.String("identity_id", identity.ID.String()),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, nil, err
	}

	s.logAudit(ctx, audit.Event{
		EventType:  audit.EventIdentityAdded,
		IdentityID: identity.ID.String(),
		Provider:   s.providerName,
		Success:    true,
	})

	return identity, encoding, nil
}

// CountFaces returns how many encodings an identity has enrolled
func (s *AuthService) CountFaces(ctx context.Context, identityID uuid.UUID) (int, error) {
	if _, err := s.identityRepo.GetByID(ctx, identityID); err != nil {
		return 0, err
	}
	return s.encodingRepo.CountByIdentity(ctx, identityID)
}

// Authenticate matches a probe image against every enrolled identity and
// returns the best match, if any clears the threshold. Every completed
// attempt is recorded in the auth log, including failed ones.
func (s *AuthService) Authenticate(ctx context.Context, image []byte) (*domain.AuthResult, error) {
	ok, reason, err := s.gate.Validate(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("authenticate: validate image: %w", err)
	}
	if !ok {
		return nil, quality.ErrorFor(reason)
	}

	probe, err := s.extractor.ExtractEncoding(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("authenticate: extract encoding: %w", err)
	}

	// The threshold is read once so a concurrent update cannot split a
	// single scan across two values.
	threshold := s.threshold.Get()

	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	identities, err := s.identityRepo.ListAll(scanCtx)
	if err != nil {
		return nil, fmt.Errorf("authenticate: list identities: %w", err)
	}

	var (
		bestIdentity   *domain.Identity
		bestResult     domain.MatchResult
		bestDistance   = -1.0
		bestConfidence = 0.0
	)

	for i := range identities {
		encodings, err := s.encodingRepo.ListByIdentity(scanCtx, identities[i].ID)
		if err != nil {
			return nil, fmt.Errorf("authenticate: list encodings for %s: %w", identities[i].ID, err)
		}
		if len(encodings) == 0 {
			continue
		}

		candidates := make([][]float64, len(encodings))
		for j := range encodings {
			candidates[j] = encodings[j].Vector
		}

		result, err := match.Compare(candidates, probe, threshold)
		if err != nil {
			return nil, fmt.Errorf("authenticate: compare against %s: %w", identities[i].ID, err)
		}

		if bestDistance < 0 || result.Distance < bestDistance {
			bestDistance = result.Distance
			bestConfidence = result.Confidence
			bestResult = result
			bestIdentity = &identities[i]
		}
	}

	result := &domain.AuthResult{
		Success:    bestIdentity != nil && bestResult.MatchFound,
		Confidence: bestConfidence,
	}
	if result.Success {
		result.Identity = bestIdentity
	}

	s.recordAttempt(ctx, result)

	eventType := audit.EventAuthFailed
	identityID := ""
	if result.Success {
		eventType = audit.EventAuthenticated
		identityID = result.Identity.ID.String()
	}
	s.logAudit(ctx, audit.Event{
		EventType:  eventType,
		IdentityID: identityID,
		Provider:   s.providerName,
		Success:    result.Success,
		Confidence: result.Confidence,
	})

	return result, nil
}

// GetThreshold returns the current match threshold
func (s *AuthService) GetThreshold() float64 {
	return s.threshold.Get()
}

// SetThreshold updates the match threshold for subsequent authentications
func (s *AuthService) SetThreshold(ctx context.Context, value float64) error {
	if err := s.threshold.Set(value); err != nil {
		return err
	}

	s.logAudit(ctx, audit.Event{
		EventType: audit.EventThresholdSet,
		Provider:  s.providerName,
		Success:   true,
		Metadata:  map[string]string{"threshold": fmt.Sprintf("%g", value)},
	})

	return nil
}

// recordAttempt writes the auth log entry. A logging failure never fails the
// authentication itself.
func (s *AuthService) recordAttempt(ctx context.Context, result *domain.AuthResult) {
	record := &domain.AuthRecord{
		Success: result.Success,
	}
	if result.Success {
		id := result.Identity.ID
		record.IdentityID = &id
	}
	confidence := result.Confidence
	record.Confidence = &confidence

	if err := s.authLogRepo.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to write auth log",
			slog.Bool("success", result.Success),
			slog.String("error", err.Error()),
		)
	}
}

func (s *AuthService) logAudit(ctx context.Context, event audit.Event) {
	if s.auditLogger == nil {
		return
	}
	if err := s.auditLogger.Log(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to write audit event",
			slog.String("event_type", string(event.EventType)),
			slog.String("error", err.Error()),
		)
	}
}
