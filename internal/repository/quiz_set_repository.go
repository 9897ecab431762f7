package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"skillforge/internal/domain"
	"skillforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizSetDatabaseAdapter implements domain.QuizSetRepository using sqlx.DB
type QuizSetDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizSetDatabaseAdapter creates a new instance of QuizSetDatabaseAdapter
func NewQuizSetDatabaseAdapter(db *sqlx.DB) domain.QuizSetRepository {
	return &QuizSetDatabaseAdapter{db: db}
}

// GetQuizSet implements domain.QuizSetRepository. A missing row is reported
// as (nil, nil).
func (a *QuizSetDatabaseAdapter) GetQuizSet(ctx context.Context, compositeID string) (*domain.QuizSet, error) {
	var model models.QuizSet
	query := `SELECT
		composite_id "composite_id",
		project_id "project_id",
		level_name "level_name",
		attempt "attempt",
		questions "questions",
		created_at "created_at"
	FROM quiz_sets
	WHERE composite_id = :1`

	err := a.db.GetContext(ctx, &model, query, compositeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz set %s: %w", compositeID, err)
	}

	var questions []domain.QuizQuestion
	if err := json.Unmarshal(model.Questions, &questions); err != nil {
		return nil, fmt.Errorf("stored quiz set %s is corrupt: %w", compositeID, err)
	}

	return &domain.QuizSet{
		CompositeID: model.CompositeID,
		ProjectID:   model.ProjectID,
		LevelName:   model.LevelName,
		Attempt:     model.Attempt,
		Questions:   questions,
		CreatedAt:   model.CreatedAt,
	}, nil
}

// QuizSetExists implements domain.QuizSetRepository
func (a *QuizSetDatabaseAdapter) QuizSetExists(ctx context.Context, compositeID string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM quiz_sets WHERE composite_id = :1`
	if err := a.db.GetContext(ctx, &count, query, compositeID); err != nil {
		return false, fmt.Errorf("failed to check quiz set %s: %w", compositeID, err)
	}
	return count > 0, nil
}

// SaveQuizSet stores a freshly generated set. The MERGE has no update branch,
// so an existing set is never overwritten: first writer wins.
func (a *QuizSetDatabaseAdapter) SaveQuizSet(ctx context.Context, set *domain.QuizSet) error {
	questionsJSON, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions for %s: %w", set.CompositeID, err)
	}

	createdAt := set.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `MERGE INTO quiz_sets t
	USING (SELECT :1 composite_id FROM dual) s
	ON (t.composite_id = s.composite_id)
	WHEN NOT MATCHED THEN INSERT (
		composite_id, project_id, level_name, attempt, questions, created_at
	) VALUES (
		s.composite_id, :2, :3, :4, :5, :6
	)`

	_, err = a.db.ExecContext(ctx, query,
		set.CompositeID,
		set.ProjectID,
		set.LevelName,
		set.Attempt,
		string(questionsJSON),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz set %s: %w", set.CompositeID, err)
	}
	return nil
}
