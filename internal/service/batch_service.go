package service

import (
	"context"
	"fmt"
	"time"

	"skillforge/internal/config"
	"skillforge/internal/domain"

	"go.uber.org/zap"
)

// BatchService pre-generates quiz sets for every project roadmap level so
// interactive requests mostly hit the cached tier.
type BatchService interface {
	PreGenerateQuizSets(ctx context.Context) error
}

type batchService struct {
	projectRepo domain.ProjectRepository
	quizRepo    domain.QuizSetRepository
	quizSvc     QuizService
	cfg         *config.BatchConfig
	logger      *zap.Logger
	sleep       func(time.Duration)
}

// NewBatchService creates a new instance of batchService.
func NewBatchService(
	projectRepo domain.ProjectRepository,
	quizRepo domain.QuizSetRepository,
	quizSvc QuizService,
	cfg *config.BatchConfig,
	logger *zap.Logger,
) BatchService {
	return &batchService{
		projectRepo: projectRepo,
		quizRepo:    quizRepo,
		quizSvc:     quizSvc,
		cfg:         cfg,
		logger:      logger,
		sleep:       time.Sleep,
	}
}

// PreGenerateQuizSets walks every (project, level, attempt) combination and
// generates the sets that are not stored yet. One failing combination never
// stops the run; failures are counted and reported at the end.
func (s *batchService) PreGenerateQuizSets(ctx context.Context) error {
	s.logger.Info("Starting batch quiz set generation", zap.Time("start_time", time.Now()))

	projects, err := s.projectRepo.ListProjects(ctx)
	if err != nil {
		s.logger.Error("Failed to list projects", zap.Error(err))
		return fmt.Errorf("failed to list projects: %w", err)
	}
	if len(projects) == 0 {
		s.logger.Info("No projects found. Batch process finishing early.")
		return nil
	}

	attempts := s.cfg.AttemptsPerLevel
	if attempts <= 0 {
		attempts = 1
	}

	var generated, skipped, failed int
	for _, project := range projects {
		s.logger.Info("Processing project",
			zap.String("project_id", project.ID),
			zap.Int("levels", len(project.Roadmap)))

		for _, level := range project.Roadmap {
			for attempt := 0; attempt < attempts; attempt++ {
				if ctx.Err() != nil {
					return ctx.Err()
				}

				compositeID := domain.QuizKey(project.ID, level.LevelName, attempt)
				exists, err := s.quizRepo.QuizSetExists(ctx, compositeID)
				if err != nil {
					s.logger.Error("Failed to check for existing quiz set",
						zap.String("composite_id", compositeID), zap.Error(err))
					failed++
					continue
				}
				if exists {
					s.logger.Debug("Quiz set already stored, skipping",
						zap.String("composite_id", compositeID))
					skipped++
					continue
				}

				if err := s.quizSvc.GenerateAndStore(ctx, project.ID, level.LevelName, level.Description, attempt); err != nil {
					s.logger.Error("Failed to generate quiz set",
						zap.String("composite_id", compositeID), zap.Error(err))
					failed++
				} else {
					s.logger.Info("Generated quiz set", zap.String("composite_id", compositeID))
					generated++
				}

				// Space out generation calls to stay inside provider rate limits.
				s.sleep(s.cfg.GenerationDelay)
			}
		}
	}

	s.logger.Info("Batch quiz set generation completed",
		zap.Int("generated", generated),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
		zap.Time("end_time", time.Now()))
	return nil
}
