package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// QuizQuestion is a single multiple-choice question with four options.
type QuizQuestion struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correctAnswerIndex"`
}

// Validate checks the shape the generation service promised.
func (q *QuizQuestion) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return NewInvalidInputError("question text is empty")
	}
	if len(q.Options) != 4 {
		return NewInvalidInputError(fmt.Sprintf("question has %d options, want 4", len(q.Options)))
	}
	if q.CorrectAnswerIndex < 0 || q.CorrectAnswerIndex > 3 {
		return NewInvalidInputError(fmt.Sprintf("correctAnswerIndex %d out of range", q.CorrectAnswerIndex))
	}
	return nil
}

// QuizSet is an ordered list of questions for one (project, level, attempt).
// A freshly generated set has exactly GeneratedSetSize questions. A stored
// set is immutable.
type QuizSet struct {
	CompositeID string
	ProjectID   string
	LevelName   string
	Attempt     int
	Questions   []QuizQuestion
	CreatedAt   time.Time
}

// GeneratedSetSize is the number of questions requested per generated set.
const GeneratedSetSize = 8

// QuizKey derives the composite identifier for one (project, level, attempt).
func QuizKey(projectID, levelName string, attempt int) string {
	return fmt.Sprintf("%s_%s_attempt%d", projectID, levelName, attempt)
}

// LevelCategory maps a level name to its fallback-bank category: the first
// whitespace-separated token, e.g. "Beginner Loops" -> "Beginner".
func LevelCategory(levelName string) string {
	fields := strings.Fields(levelName)
	if len(fields) == 0 {
		return levelName
	}
	return fields[0]
}

// Project is a learning project with an ordered roadmap of levels.
type Project struct {
	ID          string
	Title       string
	Description string
	Roadmap     []RoadmapLevel
}

// RoadmapLevel is one level within a project roadmap.
type RoadmapLevel struct {
	LevelName   string
	Description string
	Position    int
}

// QuizSetRepository stores generated question sets keyed by composite id.
// SaveQuizSet is write-once: an existing set is left untouched.
type QuizSetRepository interface {
	GetQuizSet(ctx context.Context, compositeID string) (*QuizSet, error)
	QuizSetExists(ctx context.Context, compositeID string) (bool, error)
	SaveQuizSet(ctx context.Context, set *QuizSet) error
}

// FallbackQuestionRepository reads the pre-seeded generic question banks
// keyed by level category. The banks are read-only for this service.
type FallbackQuestionRepository interface {
	GetFallbackQuestions(ctx context.Context, levelCategory string) ([]QuizQuestion, error)
}

// ProjectRepository reads project metadata and roadmaps.
type ProjectRepository interface {
	GetProject(ctx context.Context, projectID string) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
}

// QuizGenerationInput carries everything the generation prompt embeds.
type QuizGenerationInput struct {
	ProjectTitle       string
	ProjectDescription string
	LevelName          string
	LevelDescription   string
	Seed               string
	NumQuestions       int
}

// QuizGenerator is the port for LLM-backed question generation.
type QuizGenerator interface {
	GenerateQuestions(ctx context.Context, input QuizGenerationInput) ([]QuizQuestion, error)
}
