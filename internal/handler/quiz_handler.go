package handler

import (
	"skillforge/internal/dto"
	"skillforge/internal/logger"
	"skillforge/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz question HTTP requests
type QuizHandler struct {
	service service.QuizService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service: service,
	}
}

// GenerateQuiz godoc
// @Summary Get quiz questions for a roadmap level
// @Description Returns the cached question set for a level, generating one if needed
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Level details"
// @Success 200 {object} dto.QuizQuestionsResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /quizzes/generate [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Warn("Failed to parse quiz request", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "INVALID_REQUEST",
		})
	}

	resp, err := h.service.GetQuizQuestions(c.Context(), req.ProjectID, req.LevelName, req.LevelDescription, req.AttemptCount)
	if err != nil {
		logger.Get().Error("Failed to get quiz questions",
			zap.Error(err),
			zap.String("project_id", req.ProjectID),
			zap.String("level_name", req.LevelName),
		)
		return err
	}

	return c.JSON(resp)
}
