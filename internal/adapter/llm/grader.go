package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"skillforge/internal/domain"
	"skillforge/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Generation parameters for grading. Low randomness: the same submission
// should grade the same way on consecutive calls.
const (
	gradeTemperature = 0.2
	gradeTopK        = 1
	gradeTopP        = 0.8
	gradeMaxTokens   = 8192
)

// GeminiGrader grades submissions through the external text-generation
// service. It is single-shot: transport and parse failures surface to the
// caller without retry.
type GeminiGrader struct {
	model   llms.Model
	timeout time.Duration
}

// NewGeminiGrader creates a grader on top of a connected model client.
func NewGeminiGrader(model llms.Model, timeout time.Duration) domain.AnswerGrader {
	return &GeminiGrader{model: model, timeout: timeout}
}

// GradeSubmission builds the grading prompt, calls the model and parses the
// structured result out of the free-form response.
func (g *GeminiGrader) GradeSubmission(ctx context.Context, criteria *domain.AnswerCriteria, submission *domain.Submission) (*domain.VerificationResult, error) {
	l := logger.Get()

	var prompt string
	if submission.SubmissionType == domain.SubmissionTypeText {
		prompt = buildTextGradingPrompt(criteria, submission)
	} else {
		prompt = buildCodeGradingPrompt(criteria, submission)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := llms.GenerateFromSinglePrompt(callCtx, g.model, prompt,
		llms.WithTemperature(gradeTemperature),
		llms.WithTopK(gradeTopK),
		llms.WithTopP(gradeTopP),
		llms.WithMaxTokens(gradeMaxTokens),
	)
	if err != nil {
		l.Error("Grading call to generation service failed",
			zap.Error(err),
			zap.String("project_id", criteria.ProjectID),
			zap.String("level_name", criteria.LevelName))
		return nil, domain.NewTransportError(err)
	}

	extracted, err := extractObjectWithField(response, "isCorrect")
	if err != nil {
		l.Error("No grading result found in generation service response",
			zap.String("raw_response", response),
			zap.String("project_id", criteria.ProjectID))
		return nil, err
	}

	var result domain.VerificationResult
	if err := json.Unmarshal([]byte(extracted), &result); err != nil {
		l.Error("Failed to unmarshal grading result",
			zap.Error(err),
			zap.String("extracted_json", extracted))
		return nil, domain.NewParseError("grading result is not valid JSON", err)
	}

	// The score decides correctness. Responses occasionally claim a verdict
	// that contradicts their own totalScore; the threshold rule wins.
	if result.IsCorrect != (result.TotalScore >= criteria.PassingThreshold()) {
		l.Warn("Grading verdict contradicts its score, recomputing from the threshold",
			zap.Bool("claimed_is_correct", result.IsCorrect),
			zap.Float64("total_score", result.TotalScore),
			zap.Float64("passing_score", criteria.PassingThreshold()))
	}
	result.IsCorrect = result.TotalScore >= criteria.PassingThreshold()

	// A parsed result is authoritative.
	result.Confidence = 1.0

	l.Info("Parsed grading result from generation service",
		zap.String("project_id", criteria.ProjectID),
		zap.String("level_name", criteria.LevelName),
		zap.Bool("is_correct", result.IsCorrect),
		zap.Float64("total_score", result.TotalScore))

	return &result, nil
}

func buildCodeGradingPrompt(criteria *domain.AnswerCriteria, submission *domain.Submission) string {
	return fmt.Sprintf(`I need you to evaluate a student's code submission for a programming assignment.

Project ID: %s
Level: %s
Project Type: %s

EXPECTED OUTPUT:
%s

ALTERNATIVE EXPECTED OUTPUTS:
%s

REQUIRED KEYWORDS/CONCEPTS:
%s

STUDENT'S CODE SUBMISSION:
%s

STUDENT'S OUTPUT:
%s

Please evaluate this submission based on:
1. Code Structure (30%%): Does it contain all required keywords/patterns?
2. Output Correctness (40%%): Does the output match the expected output?
3. Conceptual Understanding (30%%): Does the implementation show proper understanding?

Provide your evaluation in the following JSON format:
{
  "isCorrect": true/false,
  "totalScore": 85.5,
  "components": {
    "codeStructure": {
      "score": 25.0,
      "maxScore": 30.0,
      "details": {
        "keywordCheck": true/false,
        "missingKeywords": ["keyword1", "keyword2"]
      }
    },
    "output": {
      "score": 35.5,
      "maxScore": 40.0,
      "details": {
        "exactMatch": true/false
      }
    },
    "conceptual": {
      "score": 25.0,
      "maxScore": 30.0
    }
  },
  "feedback": {
    "codeStructure": ["Feedback point 1", "Feedback point 2"],
    "output": ["Feedback point 1"],
    "conceptual": ["Feedback point 1", "Feedback point 2"]
  }
}

A submission is considered correct if totalScore >= %.1f.
Be fair but rigorous in your assessment.`,
		criteria.ProjectID,
		criteria.LevelName,
		criteria.ProjectType,
		criteria.ExpectedOutput,
		strings.Join(criteria.ExpectedOutputs, "\n"),
		strings.Join(criteria.RequiredKeywords, ", "),
		submission.SubmittedCode,
		submission.SubmittedOutput,
		criteria.PassingThreshold(),
	)
}

func buildTextGradingPrompt(criteria *domain.AnswerCriteria, submission *domain.Submission) string {
	return fmt.Sprintf(`I need you to evaluate a student's text response for an assignment.

Project ID: %s
Level: %s

REQUIRED CONCEPTS/KEYWORDS:
%s

STUDENT'S ANSWER:
%s

Please evaluate if this text submission contains all the required concepts/keywords.
Consider synonyms and alternative phrasings.

Provide your evaluation in the following JSON format:
{
  "isCorrect": true/false,
  "totalScore": 85.0,
  "components": {
    "contentCompleteness": {
      "score": 42.5,
      "maxScore": 50.0
    },
    "conceptualUnderstanding": {
      "score": 42.5,
      "maxScore": 50.0
    }
  },
  "feedback": {
    "contentCompleteness": ["Feedback point 1"],
    "conceptualUnderstanding": ["Feedback point 2"]
  }
}

A submission is considered correct if totalScore >= %.1f.`,
		criteria.ProjectID,
		criteria.LevelName,
		strings.Join(criteria.RequiredKeywords, ", "),
		submission.SubmittedText,
		criteria.PassingThreshold(),
	)
}
