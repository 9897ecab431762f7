package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"skillforge/internal/cache"
	"skillforge/internal/config"
	"skillforge/internal/domain"
	"skillforge/internal/dto"
	"skillforge/internal/logger"
	"skillforge/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// QuizService serves question sets: cached, freshly generated, or fallback.
type QuizService interface {
	// GetQuizQuestions never fails once inputs validate; when generation and
	// the stored banks are both unavailable it serves the built-in set.
	GetQuizQuestions(ctx context.Context, projectID, levelName, levelDescription string, attempt int) (*dto.QuizQuestionsResponse, error)
	// GenerateAndStore generates and persists one set, reporting failure to
	// the caller instead of falling back. Used by the batch generator.
	GenerateAndStore(ctx context.Context, projectID, levelName, levelDescription string, attempt int) error
}

type quizService struct {
	quizRepo     domain.QuizSetRepository
	fallbackRepo domain.FallbackQuestionRepository
	projectRepo  domain.ProjectRepository
	generator    domain.QuizGenerator
	cache        domain.Cache
	cfg          *config.QuizConfig
	group        singleflight.Group
	now          func() time.Time
}

// NewQuizService creates a new instance of quizService
func NewQuizService(
	quizRepo domain.QuizSetRepository,
	fallbackRepo domain.FallbackQuestionRepository,
	projectRepo domain.ProjectRepository,
	generator domain.QuizGenerator,
	cacheClient domain.Cache,
	cfg *config.QuizConfig,
) QuizService {
	return &quizService{
		quizRepo:     quizRepo,
		fallbackRepo: fallbackRepo,
		projectRepo:  projectRepo,
		generator:    generator,
		cache:        cacheClient,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *quizService) GetQuizQuestions(ctx context.Context, projectID, levelName, levelDescription string, attempt int) (*dto.QuizQuestionsResponse, error) {
	l := logger.Get()

	if projectID == "" || levelName == "" {
		return nil, domain.NewInvalidInputError("projectId and levelName are required")
	}
	if attempt < 0 {
		attempt = 0
	}
	compositeID := domain.QuizKey(projectID, levelName, attempt)

	if questions := s.lookupCached(ctx, compositeID); questions != nil {
		return &dto.QuizQuestionsResponse{Questions: questions, Source: dto.QuizSourceCache}, nil
	}

	// Concurrent requests for the same set share one generation.
	v, err, _ := s.group.Do(compositeID, func() (interface{}, error) {
		// A peer may have finished while we queued.
		if questions := s.lookupCached(ctx, compositeID); questions != nil {
			return &dto.QuizQuestionsResponse{Questions: questions, Source: dto.QuizSourceCache}, nil
		}
		questions, genErr := s.generate(ctx, projectID, levelName, levelDescription, attempt, compositeID)
		if genErr != nil {
			l.Warn("Quiz generation failed, serving fallback questions",
				zap.Error(genErr),
				zap.String("composite_id", compositeID))
			return &dto.QuizQuestionsResponse{
				Questions: s.fallbackQuestions(ctx, levelName),
				Source:    dto.QuizSourceFallback,
			}, nil
		}
		return &dto.QuizQuestionsResponse{Questions: questions, Source: dto.QuizSourceGenerated}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.QuizQuestionsResponse), nil
}

func (s *quizService) GenerateAndStore(ctx context.Context, projectID, levelName, levelDescription string, attempt int) error {
	compositeID := domain.QuizKey(projectID, levelName, attempt)

	exists, err := s.quizRepo.QuizSetExists(ctx, compositeID)
	if err != nil {
		return domain.NewStoreError("Failed to check for existing quiz set", err)
	}
	if exists {
		return nil
	}

	_, err = s.generate(ctx, projectID, levelName, levelDescription, attempt, compositeID)
	return err
}

// lookupCached checks Redis first, then the database, warming Redis on a
// database hit. Lookup failures are treated as misses.
func (s *quizService) lookupCached(ctx context.Context, compositeID string) []domain.QuizQuestion {
	l := logger.Get()
	cacheKey := cache.GenerateCacheKey("quiz", "set", compositeID)

	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var questions []domain.QuizQuestion
		if jsonErr := json.Unmarshal([]byte(cached), &questions); jsonErr == nil && len(questions) > 0 {
			return questions
		}
		l.Warn("Discarding unreadable cached quiz set", zap.String("key", cacheKey))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		l.Warn("Redis lookup failed, falling through to database", zap.Error(err))
	}

	set, err := s.quizRepo.GetQuizSet(ctx, compositeID)
	if err != nil {
		l.Warn("Quiz set lookup failed, treating as miss", zap.Error(err), zap.String("composite_id", compositeID))
		return nil
	}
	if set == nil {
		return nil
	}

	s.warmCache(ctx, cacheKey, set.Questions)
	return set.Questions
}

func (s *quizService) generate(ctx context.Context, projectID, levelName, levelDescription string, attempt int, compositeID string) ([]domain.QuizQuestion, error) {
	project, err := s.projectRepo.GetProject(ctx, projectID)
	if err != nil {
		return nil, domain.NewStoreError("Failed to load project", err)
	}
	// A missing project record is not fatal; the level context alone still
	// yields usable questions.
	title, description := "Project", "No description"
	if project != nil {
		title, description = project.Title, project.Description
	} else {
		logger.Get().Warn("Project record missing, generating with placeholder context",
			zap.String("project_id", projectID))
	}

	numQuestions := s.cfg.QuestionsPerSet
	if numQuestions <= 0 {
		numQuestions = domain.GeneratedSetSize
	}

	questions, err := s.generator.GenerateQuestions(ctx, domain.QuizGenerationInput{
		ProjectTitle:       title,
		ProjectDescription: description,
		LevelName:          levelName,
		LevelDescription:   levelDescription,
		Seed:               util.QuizSeed(compositeID, s.now()),
		NumQuestions:       numQuestions,
	})
	if err != nil {
		return nil, err
	}

	s.persist(ctx, compositeID, projectID, levelName, attempt, questions)
	return questions, nil
}

// persist stores a generated set in the database and in Redis. The database
// write is write-once, so a set generated concurrently elsewhere survives.
// Persistence failures are logged, not surfaced: the generated questions are
// already in hand.
func (s *quizService) persist(ctx context.Context, compositeID, projectID, levelName string, attempt int, questions []domain.QuizQuestion) {
	l := logger.Get()

	set := &domain.QuizSet{
		CompositeID: compositeID,
		ProjectID:   projectID,
		LevelName:   levelName,
		Attempt:     attempt,
		Questions:   questions,
		CreatedAt:   s.now(),
	}
	if err := s.quizRepo.SaveQuizSet(ctx, set); err != nil {
		l.Error("Failed to persist quiz set", zap.Error(err), zap.String("composite_id", compositeID))
	}

	payload, err := json.Marshal(questions)
	if err != nil {
		l.Error("Failed to marshal quiz set for caching", zap.Error(err))
		return
	}
	cacheKey := cache.GenerateCacheKey("quiz", "set", compositeID)
	if stored, err := s.cache.SetNX(ctx, cacheKey, string(payload), s.cfg.CacheTTL); err != nil {
		l.Warn("Failed to cache quiz set", zap.Error(err), zap.String("key", cacheKey))
	} else if !stored {
		l.Info("Quiz set already cached by a concurrent writer", zap.String("key", cacheKey))
	}
}

func (s *quizService) warmCache(ctx context.Context, cacheKey string, questions []domain.QuizQuestion) {
	payload, err := json.Marshal(questions)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, string(payload), s.cfg.CacheTTL); err != nil {
		logger.Get().Warn("Failed to warm quiz cache", zap.Error(err), zap.String("key", cacheKey))
	}
}

// fallbackQuestions serves the stored bank for the level's category, or the
// built-in set when the bank is missing or unreadable.
func (s *quizService) fallbackQuestions(ctx context.Context, levelName string) []domain.QuizQuestion {
	category := domain.LevelCategory(levelName)
	questions, err := s.fallbackRepo.GetFallbackQuestions(ctx, category)
	if err != nil {
		logger.Get().Warn("Fallback bank lookup failed, serving built-in questions",
			zap.Error(err), zap.String("category", category))
		return genericFallbackQuestions()
	}
	if len(questions) == 0 {
		return genericFallbackQuestions()
	}
	return questions
}
