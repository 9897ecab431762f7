package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillforge/internal/domain"
	"skillforge/internal/logger"
	"skillforge/internal/util"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Generation parameters for question sets. Top-p is pinned to zero so the
// integer seed, not sampling, drives variation between sets.
const (
	genTemperature = 0.5
	genTopK        = 1
	genTopP        = 0.0
	genMaxTokens   = 8192
)

// GeminiQuizGenerator produces multiple-choice question sets through the
// external text-generation service.
type GeminiQuizGenerator struct {
	model   llms.Model
	timeout time.Duration
}

// NewGeminiQuizGenerator creates a generator on top of a connected model client.
func NewGeminiQuizGenerator(model llms.Model, timeout time.Duration) domain.QuizGenerator {
	return &GeminiQuizGenerator{model: model, timeout: timeout}
}

// GenerateQuestions builds the generation prompt, calls the model with the
// seed pinned, and parses the question array out of the response.
func (g *GeminiQuizGenerator) GenerateQuestions(ctx context.Context, input domain.QuizGenerationInput) ([]domain.QuizQuestion, error) {
	l := logger.Get()

	seedInt, err := util.SeedToInt(input.Seed)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid seed %q", input.Seed))
	}

	prompt := buildGenerationPrompt(input)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(callCtx, g.model, prompt,
		llms.WithTemperature(genTemperature),
		llms.WithTopK(genTopK),
		llms.WithTopP(genTopP),
		llms.WithMaxTokens(genMaxTokens),
		llms.WithSeed(seedInt),
	)
	if err != nil {
		l.Error("Question generation call failed",
			zap.Error(err),
			zap.String("level_name", input.LevelName))
		return nil, domain.NewGenerationError(err)
	}

	extracted, err := extractArray(response)
	if err != nil {
		l.Error("No question array found in generation service response",
			zap.String("raw_response", response),
			zap.String("level_name", input.LevelName))
		return nil, err
	}

	var questions []domain.QuizQuestion
	if err := json.Unmarshal([]byte(extracted), &questions); err != nil {
		l.Error("Failed to unmarshal generated questions",
			zap.Error(err),
			zap.String("extracted_json", extracted))
		return nil, domain.NewParseError("generated questions are not valid JSON", err)
	}

	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return nil, domain.NewParseError(fmt.Sprintf("generated question %d is malformed", i), err)
		}
	}

	if input.NumQuestions > 0 && len(questions) != input.NumQuestions {
		l.Error("Generation service returned the wrong number of questions",
			zap.Int("want", input.NumQuestions),
			zap.Int("got", len(questions)),
			zap.String("level_name", input.LevelName))
		return nil, domain.NewParseError(
			fmt.Sprintf("expected %d generated questions, got %d", input.NumQuestions, len(questions)), nil)
	}

	l.Info("Generated question set",
		zap.String("level_name", input.LevelName),
		zap.Int("count", len(questions)))

	return questions, nil
}

func buildGenerationPrompt(input domain.QuizGenerationInput) string {
	return fmt.Sprintf(`Generate %d multiple-choice questions related to the following project and level:

Project: %s
Project Description: %s
Level: %s
Level Description: %s

Please generate the questions in the following JSON format:
[
  {
    "question": "Question text here",
    "options": ["Option A", "Option B", "Option C", "Option D"],
    "correctAnswerIndex": 0
  },
  ...
]

The questions should test understanding of key concepts needed for this level. Generate exactly %d questions.

Important: Use seed value %s to ensure uniqueness.`,
		input.NumQuestions,
		input.ProjectTitle,
		input.ProjectDescription,
		input.LevelName,
		input.LevelDescription,
		input.NumQuestions,
		input.Seed,
	)
}
