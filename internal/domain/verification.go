package domain

import (
	"context"
	"time"
)

// SubmissionType distinguishes code submissions from free-text answers.
type SubmissionType string

const (
	SubmissionTypeCode SubmissionType = "code"
	SubmissionTypeText SubmissionType = "text"
)

// DefaultPassingScore is used when a criteria record does not configure one.
const DefaultPassingScore = 70.0

// AnswerCriteria is the stored rubric for one (project, level). It is
// read-only input to scoring and never mutated by this service.
type AnswerCriteria struct {
	ProjectID        string
	LevelName        string
	ExpectedOutput   string
	ExpectedOutputs  []string
	RequiredKeywords []string
	PassingScore     float64
	ProjectType      string
	ConceptPatterns  []string
}

// PassingThreshold returns the configured passing score, falling back to the
// default when the record carries none.
func (c *AnswerCriteria) PassingThreshold() float64 {
	if c.PassingScore <= 0 {
		return DefaultPassingScore
	}
	return c.PassingScore
}

// Submission is one attempt by a learner. New attempts are new submissions;
// a Submission is never mutated after creation.
type Submission struct {
	SubmissionType  SubmissionType
	SubmittedCode   string
	SubmittedOutput string
	SubmittedText   string
	FileURL         string
	QuizScore       float64
	AttemptCount    int
}

// ComponentScore is one graded component of a verification result.
type ComponentScore struct {
	Score    float64        `json:"score"`
	MaxScore float64        `json:"maxScore"`
	Details  map[string]any `json:"details,omitempty"`
}

// VerificationResult is the outcome of grading one submission. Confidence is
// only meaningful for rule-based results; results parsed from the generation
// service are authoritative and carry confidence 1.0.
type VerificationResult struct {
	IsCorrect  bool                      `json:"isCorrect"`
	TotalScore float64                   `json:"totalScore"`
	Confidence float64                   `json:"confidence"`
	Components map[string]ComponentScore `json:"components,omitempty"`
	Feedback   map[string][]string       `json:"feedback,omitempty"`
}

// VerificationRecord is the persisted submission + result, keyed by
// (UserID, ProjectID, LevelName). Later attempts overwrite the record via a
// merge write; fields absent from a write survive.
type VerificationRecord struct {
	ID          string
	UserID      string
	ProjectID   string
	LevelName   string
	Submission  Submission
	Result      *VerificationResult
	SubmittedAt time.Time
}

// CriteriaRepository loads answer criteria. A missing record is reported as
// (nil, nil); callers decide whether absence is fatal.
type CriteriaRepository interface {
	GetCriteria(ctx context.Context, projectID, levelName string) (*AnswerCriteria, error)
}

// VerificationRecordRepository persists verification outcomes with merge
// semantics: one record per (user, project, level).
type VerificationRecordRepository interface {
	SaveRecord(ctx context.Context, record *VerificationRecord) error
}

// AnswerGrader is the port for LLM-backed grading. It is single-shot: a
// transport or parse failure is surfaced to the caller without retry.
type AnswerGrader interface {
	GradeSubmission(ctx context.Context, criteria *AnswerCriteria, submission *Submission) (*VerificationResult, error)
}
