package repository

import (
	"context"
	"database/sql"
	"fmt"

	"skillforge/internal/domain"
	"skillforge/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// ProjectDatabaseAdapter implements domain.ProjectRepository using sqlx.DB
type ProjectDatabaseAdapter struct {
	db *sqlx.DB
}

// NewProjectDatabaseAdapter creates a new instance of ProjectDatabaseAdapter
func NewProjectDatabaseAdapter(db *sqlx.DB) domain.ProjectRepository {
	return &ProjectDatabaseAdapter{db: db}
}

// GetProject implements domain.ProjectRepository. A missing row is reported
// as (nil, nil).
func (a *ProjectDatabaseAdapter) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var model models.Project
	query := `SELECT
		id "id",
		title "title",
		description "description",
		created_at "created_at",
		updated_at "updated_at"
	FROM projects
	WHERE id = :1`

	err := a.db.GetContext(ctx, &model, query, projectID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project %s: %w", projectID, err)
	}

	roadmap, err := a.getRoadmap(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &domain.Project{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Roadmap:     roadmap,
	}, nil
}

// ListProjects implements domain.ProjectRepository
func (a *ProjectDatabaseAdapter) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var rows []models.Project
	query := `SELECT
		id "id",
		title "title",
		description "description",
		created_at "created_at",
		updated_at "updated_at"
	FROM projects
	ORDER BY id`

	if err := a.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := make([]*domain.Project, 0, len(rows))
	for _, row := range rows {
		roadmap, err := a.getRoadmap(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &domain.Project{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Roadmap:     roadmap,
		})
	}
	return projects, nil
}

func (a *ProjectDatabaseAdapter) getRoadmap(ctx context.Context, projectID string) ([]domain.RoadmapLevel, error) {
	var rows []models.RoadmapLevel
	query := `SELECT
		project_id "project_id",
		level_name "level_name",
		description "description",
		position "position"
	FROM roadmap_levels
	WHERE project_id = :1
	ORDER BY position`

	if err := a.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("failed to get roadmap for %s: %w", projectID, err)
	}

	roadmap := make([]domain.RoadmapLevel, 0, len(rows))
	for _, row := range rows {
		roadmap = append(roadmap, domain.RoadmapLevel{
			LevelName:   row.LevelName,
			Description: row.Description,
			Position:    row.Position,
		})
	}
	return roadmap, nil
}
