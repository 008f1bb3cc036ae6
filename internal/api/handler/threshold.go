package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/lumeon/visage/internal/domain"
)

// ThresholdHandler exposes the match threshold tuning endpoints
type ThresholdHandler struct {
	service AuthService
	logger  *slog.Logger
}

// NewThresholdHandler creates a new ThresholdHandler instance
func NewThresholdHandler(service AuthService, logger *slog.Logger) *ThresholdHandler {
	return &ThresholdHandler{
		service: service,
		logger:  logger,
	}
}

// ThresholdResponse response for the threshold endpoints
type ThresholdResponse struct {
	Threshold float64 `json:"threshold"`
}

// UpdateThresholdRequest request body for the threshold update endpoint
type UpdateThresholdRequest struct {
	Threshold float64 `json:"threshold"`
}

// Get GET /v1/admin/threshold - current match threshold
func (h *ThresholdHandler) Get(c *fiber.Ctx) error {
	return c.JSON(ThresholdResponse{Threshold: h.service.GetThreshold()})
}

// Update PUT /v1/admin/threshold - change the match threshold
func (h *ThresholdHandler) Update(c *fiber.Ctx) error {
	var req UpdateThresholdRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrValidationFailed.WithError(err)
	}

	if err := h.service.SetThreshold(c.Context(), req.Threshold); err != nil {
		return err
	}

	h.logger.Info("match threshold updated", "threshold", req.Threshold)

	return c.JSON(ThresholdResponse{Threshold: h.service.GetThreshold()})
}
