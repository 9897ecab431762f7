package service

import (
	"context"
	"fmt"
	"time"

	"skillforge/internal/domain"
	"skillforge/internal/dto"
	"skillforge/internal/logger"

	"go.uber.org/zap"
)

// highConfidenceThreshold gates the fast path: a correct rule-based result at
// or above this confidence is returned without consulting the generation
// service.
const highConfidenceThreshold = 0.90

// VerificationService grades submissions and persists the outcome.
type VerificationService interface {
	VerifySubmission(ctx context.Context, userID string, req *dto.VerifySubmissionRequest) (*domain.VerificationResult, error)
}

type verificationService struct {
	criteriaRepo domain.CriteriaRepository
	recordRepo   domain.VerificationRecordRepository
	grader       domain.AnswerGrader
}

// NewVerificationService creates a new instance of verificationService
func NewVerificationService(
	criteriaRepo domain.CriteriaRepository,
	recordRepo domain.VerificationRecordRepository,
	grader domain.AnswerGrader,
) VerificationService {
	return &verificationService{
		criteriaRepo: criteriaRepo,
		recordRepo:   recordRepo,
		grader:       grader,
	}
}

// VerifySubmission implements VerificationService. Exactly one record write
// happens per invocation, after the final result is chosen.
func (s *verificationService) VerifySubmission(ctx context.Context, userID string, req *dto.VerifySubmissionRequest) (*domain.VerificationResult, error) {
	l := logger.Get()

	if req.ProjectID == "" || req.LevelName == "" {
		return nil, domain.NewInvalidInputError("projectId and levelName are required")
	}

	criteria, err := s.criteriaRepo.GetCriteria(ctx, req.ProjectID, req.LevelName)
	if err != nil {
		return nil, domain.NewStoreError("Failed to load answer criteria", err)
	}
	if criteria == nil {
		return nil, domain.NewNotFoundError(fmt.Sprintf("Answer criteria not found for %s/%s", req.ProjectID, req.LevelName))
	}

	submission := toSubmission(req)
	ruleResult := ScoreSubmission(criteria, submission)

	final := ruleResult
	if ruleResult.IsCorrect && ruleResult.Confidence >= highConfidenceThreshold {
		l.Info("Rule-based result accepted without LLM pass",
			zap.String("user_id", userID),
			zap.String("project_id", req.ProjectID),
			zap.String("level_name", req.LevelName),
			zap.Float64("confidence", ruleResult.Confidence))
	} else {
		graded, gradeErr := s.grader.GradeSubmission(ctx, criteria, submission)
		if gradeErr != nil {
			// Availability over authority: the rule-based result stands in
			// for the failed LLM pass.
			l.Warn("LLM grading failed, falling back to rule-based result",
				zap.Error(gradeErr),
				zap.String("user_id", userID),
				zap.String("project_id", req.ProjectID),
				zap.String("level_name", req.LevelName))
		} else {
			final = graded
		}
	}

	record := &domain.VerificationRecord{
		UserID:      userID,
		ProjectID:   req.ProjectID,
		LevelName:   req.LevelName,
		Submission:  *submission,
		Result:      final,
		SubmittedAt: time.Now(),
	}
	if err := s.recordRepo.SaveRecord(ctx, record); err != nil {
		return nil, domain.NewStoreError("Failed to persist verification record", err)
	}

	return final, nil
}

func toSubmission(req *dto.VerifySubmissionRequest) *domain.Submission {
	submissionType := domain.SubmissionType(req.SubmissionType)
	if submissionType != domain.SubmissionTypeText {
		submissionType = domain.SubmissionTypeCode
	}
	attemptCount := req.AttemptCount
	if attemptCount < 1 {
		attemptCount = 1
	}
	return &domain.Submission{
		SubmissionType:  submissionType,
		SubmittedCode:   req.SubmittedCode,
		SubmittedOutput: req.SubmittedOutput,
		SubmittedText:   req.SubmittedText,
		FileURL:         req.FileURL,
		QuizScore:       req.QuizScore,
		AttemptCount:    attemptCount,
	}
}
