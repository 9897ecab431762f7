package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"skillforge/internal/domain"
	"skillforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// FallbackQuestionDatabaseAdapter implements domain.FallbackQuestionRepository
type FallbackQuestionDatabaseAdapter struct {
	db *sqlx.DB
}

// NewFallbackQuestionDatabaseAdapter creates a new adapter instance
func NewFallbackQuestionDatabaseAdapter(db *sqlx.DB) domain.FallbackQuestionRepository {
	return &FallbackQuestionDatabaseAdapter{db: db}
}

// GetFallbackQuestions returns the generic questions seeded for a level
// category, or (nil, nil) when the category has no bank.
func (a *FallbackQuestionDatabaseAdapter) GetFallbackQuestions(ctx context.Context, levelCategory string) ([]domain.QuizQuestion, error) {
	var model models.FallbackQuestionBank
	query := `SELECT
		level_category "level_category",
		questions "questions",
		updated_at "updated_at"
	FROM fallback_questions
	WHERE level_category = :1`

	err := a.db.GetContext(ctx, &model, query, levelCategory)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get fallback questions for %s: %w", levelCategory, err)
	}

	var questions []domain.QuizQuestion
	if err := json.Unmarshal(model.Questions, &questions); err != nil {
		return nil, fmt.Errorf("fallback bank %s is corrupt: %w", levelCategory, err)
	}
	return questions, nil
}
