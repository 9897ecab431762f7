package handler

import (
	"skillforge/internal/dto"
	"skillforge/internal/logger"
	"skillforge/internal/middleware"
	"skillforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// VerificationHandler handles submission verification HTTP requests
type VerificationHandler struct {
	service service.VerificationService
}

// NewVerificationHandler creates a new VerificationHandler instance
func NewVerificationHandler(service service.VerificationService) *VerificationHandler {
	return &VerificationHandler{
		service: service,
	}
}

// VerifySubmission godoc
// @Summary Verify a level submission
// @Description Grades a submitted solution and records the outcome
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body dto.VerifySubmissionRequest true "Submission details"
// @Success 200 {object} domain.VerificationResult
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /submissions/verify [post]
func (h *VerificationHandler) VerifySubmission(c *fiber.Ctx) error {
	userID, _ := c.Locals(middleware.UserIDKey).(string)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "UNAUTHORIZED",
		})
	}

	var req dto.VerifySubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse verification request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	result, err := h.service.VerifySubmission(c.Context(), userID, &req)
	if err != nil {
		logger.Get().Error("Failed to verify submission",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.String("project_id", req.ProjectID),
			zap.String("level_name", req.LevelName),
		)
		return err
	}

	return c.JSON(result)
}
