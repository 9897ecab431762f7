package repository

import (
	"context"
	"database/sql"
	"fmt"

	"skillforge/internal/domain"
	"skillforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// CriteriaDatabaseAdapter implements domain.CriteriaRepository using sqlx.DB
type CriteriaDatabaseAdapter struct {
	db *sqlx.DB
}

// NewCriteriaDatabaseAdapter creates a new instance of CriteriaDatabaseAdapter
func NewCriteriaDatabaseAdapter(db *sqlx.DB) domain.CriteriaRepository {
	return &CriteriaDatabaseAdapter{db: db}
}

// GetCriteria implements domain.CriteriaRepository. A missing row is
// reported as (nil, nil).
func (a *CriteriaDatabaseAdapter) GetCriteria(ctx context.Context, projectID, levelName string) (*domain.AnswerCriteria, error) {
	var model models.AnswerCriteria
	query := `SELECT
		project_id "project_id",
		level_name "level_name",
		expected_output "expected_output",
		expected_outputs "expected_outputs",
		required_keywords "required_keywords",
		passing_score "passing_score",
		project_type "project_type",
		concept_patterns "concept_patterns",
		created_at "created_at",
		updated_at "updated_at"
	FROM answer_criteria
	WHERE project_id = :1
	AND level_name = :2`

	err := a.db.GetContext(ctx, &model, query, projectID, levelName)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get criteria for %s/%s: %w", projectID, levelName, err)
	}

	return &domain.AnswerCriteria{
		ProjectID:        model.ProjectID,
		LevelName:        model.LevelName,
		ExpectedOutput:   model.ExpectedOutput,
		ExpectedOutputs:  model.ExpectedOutputs,
		RequiredKeywords: model.RequiredKeywords,
		PassingScore:     model.PassingScore,
		ProjectType:      model.ProjectType,
		ConceptPatterns:  model.ConceptPatterns,
	}, nil
}
