package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"skillforge/internal/config"
	"skillforge/internal/domain"
	"skillforge/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testQuizConfig() *config.QuizConfig {
	return &config.QuizConfig{QuestionsPerSet: 8}
}

func sampleQuestions(n int) []domain.QuizQuestion {
	questions := make([]domain.QuizQuestion, n)
	for i := range questions {
		questions[i] = domain.QuizQuestion{
			Question:           "What does a loop do?",
			Options:            []string{"a", "b", "c", "d"},
			CorrectAnswerIndex: 0,
		}
	}
	return questions
}

func TestGetQuizQuestions_RedisHit(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	payload, _ := json.Marshal(sampleQuestions(8))
	cacheMock.On("Get", mock.Anything, "skillforge:quiz:set:proj1_Beginner Basics_attempt0").
		Return(string(payload), nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())
	resp, err := svc.GetQuizQuestions(context.Background(), "proj1", "Beginner Basics", "Variables and loops", 0)

	require.NoError(t, err)
	assert.Equal(t, dto.QuizSourceCache, resp.Source)
	assert.Len(t, resp.Questions, 8)
	generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything)
	quizRepo.AssertNotCalled(t, "GetQuizSet", mock.Anything, mock.Anything)
}

func TestGetQuizQuestions_DatabaseHitWarmsRedis(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	cacheMock.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizSet", mock.Anything, "proj1_Beginner Basics_attempt0").Return(&domain.QuizSet{
		CompositeID: "proj1_Beginner Basics_attempt0",
		ProjectID:   "proj1",
		LevelName:   "Beginner Basics",
		Questions:   sampleQuestions(8),
	}, nil)
	cacheMock.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())
	resp, err := svc.GetQuizQuestions(context.Background(), "proj1", "Beginner Basics", "", 0)

	require.NoError(t, err)
	assert.Equal(t, dto.QuizSourceCache, resp.Source)
	assert.Len(t, resp.Questions, 8)
	cacheMock.AssertCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything)
}

func TestGetQuizQuestions_GeneratesAndPersistsOnMiss(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	cacheMock.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizSet", mock.Anything, mock.Anything).Return(nil, nil)
	projectRepo.On("GetProject", mock.Anything, "proj1").Return(&domain.Project{
		ID: "proj1", Title: "Build a Todo CLI", Description: "A command line todo manager",
	}, nil)

	var captured domain.QuizGenerationInput
	generator.On("GenerateQuestions", mock.Anything, mock.AnythingOfType("domain.QuizGenerationInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.QuizGenerationInput)
		}).
		Return(sampleQuestions(8), nil)

	quizRepo.On("SaveQuizSet", mock.Anything, mock.MatchedBy(func(set *domain.QuizSet) bool {
		return set.CompositeID == "proj1_Beginner Basics_attempt1" && len(set.Questions) == 8
	})).Return(nil)
	cacheMock.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())
	resp, err := svc.GetQuizQuestions(context.Background(), "proj1", "Beginner Basics", "Variables and loops", 1)

	require.NoError(t, err)
	assert.Equal(t, dto.QuizSourceGenerated, resp.Source)
	assert.Len(t, resp.Questions, 8)
	assert.Equal(t, "Build a Todo CLI", captured.ProjectTitle)
	assert.Equal(t, "Beginner Basics", captured.LevelName)
	assert.Equal(t, 8, captured.NumQuestions)
	assert.Len(t, captured.Seed, 16)
	quizRepo.AssertNumberOfCalls(t, "SaveQuizSet", 1)
	cacheMock.AssertNumberOfCalls(t, "SetNX", 1)
}

func TestGetQuizQuestions_MissingProjectGeneratesWithPlaceholders(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	cacheMock.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizSet", mock.Anything, mock.Anything).Return(nil, nil)
	projectRepo.On("GetProject", mock.Anything, "ghost").Return(nil, nil)

	var captured domain.QuizGenerationInput
	generator.On("GenerateQuestions", mock.Anything, mock.AnythingOfType("domain.QuizGenerationInput")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(domain.QuizGenerationInput)
		}).
		Return(sampleQuestions(8), nil)
	quizRepo.On("SaveQuizSet", mock.Anything, mock.Anything).Return(nil)
	cacheMock.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())
	resp, err := svc.GetQuizQuestions(context.Background(), "ghost", "Beginner Basics", "Variables and loops", 0)

	require.NoError(t, err)
	assert.Equal(t, dto.QuizSourceGenerated, resp.Source)
	assert.Equal(t, "Project", captured.ProjectTitle)
	assert.Equal(t, "No description", captured.ProjectDescription)
	assert.Equal(t, "Beginner Basics", captured.LevelName)
	fallbackRepo.AssertNotCalled(t, "GetFallbackQuestions", mock.Anything, mock.Anything)
}

func TestGetQuizQuestions_GenerationFailureServesStoredBank(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	cacheMock.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizSet", mock.Anything, mock.Anything).Return(nil, nil)
	projectRepo.On("GetProject", mock.Anything, "proj1").Return(&domain.Project{ID: "proj1", Title: "T"}, nil)
	generator.On("GenerateQuestions", mock.Anything, mock.Anything).
		Return(nil, domain.NewGenerationError(errors.New("quota exceeded")))
	fallbackRepo.On("GetFallbackQuestions", mock.Anything, "Beginner").Return(sampleQuestions(6), nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())
	resp, err := svc.GetQuizQuestions(context.Background(), "proj1", "Beginner Basics", "", 0)

	require.NoError(t, err)
	assert.Equal(t, dto.QuizSourceFallback, resp.Source)
	assert.Len(t, resp.Questions, 6)
	quizRepo.AssertNotCalled(t, "SaveQuizSet", mock.Anything, mock.Anything)
}

func TestGetQuizQuestions_BuiltInFallbackWhenBankMissing(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	cacheMock.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizSet", mock.Anything, mock.Anything).Return(nil, nil)
	projectRepo.On("GetProject", mock.Anything, "proj1").Return(nil, errors.New("ORA-12541"))
	fallbackRepo.On("GetFallbackQuestions", mock.Anything, "Advanced").Return(nil, nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())
	resp, err := svc.GetQuizQuestions(context.Background(), "proj1", "Advanced Concurrency", "", 0)

	require.NoError(t, err)
	assert.Equal(t, dto.QuizSourceFallback, resp.Source)
	assert.Len(t, resp.Questions, domain.GeneratedSetSize)
	for _, q := range resp.Questions {
		assert.NoError(t, q.Validate())
	}
}

func TestGetQuizQuestions_ConcurrentRequestsShareOneGeneration(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	fallbackRepo := new(MockFallbackQuestionRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	release := make(chan struct{})
	started := make(chan struct{}, 1)

	cacheMock.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	quizRepo.On("GetQuizSet", mock.Anything, mock.Anything).Return(nil, nil)
	projectRepo.On("GetProject", mock.Anything, "proj1").Return(&domain.Project{ID: "proj1", Title: "T"}, nil)
	generator.On("GenerateQuestions", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
		}).
		Return(sampleQuestions(8), nil)
	quizRepo.On("SaveQuizSet", mock.Anything, mock.Anything).Return(nil)
	cacheMock.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	svc := NewQuizService(quizRepo, fallbackRepo, projectRepo, generator, cacheMock, testQuizConfig())

	var wg sync.WaitGroup
	results := make([]*dto.QuizQuestionsResponse, 5)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.GetQuizQuestions(context.Background(), "proj1", "Beginner Basics", "", 0)
	}()
	<-started
	for i := 1; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = svc.GetQuizQuestions(context.Background(), "proj1", "Beginner Basics", "", 0)
		}(i)
	}
	// Give the late arrivals time to join the in-flight generation.
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	for _, resp := range results {
		require.NotNil(t, resp)
		assert.Len(t, resp.Questions, 8)
	}
	generator.AssertNumberOfCalls(t, "GenerateQuestions", 1)
	quizRepo.AssertNumberOfCalls(t, "SaveQuizSet", 1)
}

func TestGenerateAndStore_SkipsExistingSet(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)

	quizRepo.On("QuizSetExists", mock.Anything, "proj1_Beginner Basics_attempt0").Return(true, nil)

	svc := NewQuizService(quizRepo, new(MockFallbackQuestionRepository), projectRepo, generator, new(MockCache), testQuizConfig())
	err := svc.GenerateAndStore(context.Background(), "proj1", "Beginner Basics", "", 0)

	require.NoError(t, err)
	generator.AssertNotCalled(t, "GenerateQuestions", mock.Anything, mock.Anything)
}

func TestGenerateAndStore_PropagatesGenerationFailure(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	quizRepo.On("QuizSetExists", mock.Anything, mock.Anything).Return(false, nil)
	projectRepo.On("GetProject", mock.Anything, "proj1").Return(&domain.Project{ID: "proj1", Title: "T"}, nil)
	generator.On("GenerateQuestions", mock.Anything, mock.Anything).
		Return(nil, domain.NewGenerationError(errors.New("quota")))

	svc := NewQuizService(quizRepo, new(MockFallbackQuestionRepository), projectRepo, generator, cacheMock, testQuizConfig())
	err := svc.GenerateAndStore(context.Background(), "proj1", "Beginner Basics", "", 0)

	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrGeneration))
	quizRepo.AssertNotCalled(t, "SaveQuizSet", mock.Anything, mock.Anything)
}

func TestGenerateAndStore_PersistsNewSet(t *testing.T) {
	quizRepo := new(MockQuizSetRepository)
	projectRepo := new(MockProjectRepository)
	generator := new(MockQuizGenerator)
	cacheMock := new(MockCache)

	quizRepo.On("QuizSetExists", mock.Anything, mock.Anything).Return(false, nil)
	projectRepo.On("GetProject", mock.Anything, "proj1").Return(&domain.Project{ID: "proj1", Title: "T"}, nil)
	generator.On("GenerateQuestions", mock.Anything, mock.Anything).Return(sampleQuestions(8), nil)
	quizRepo.On("SaveQuizSet", mock.Anything, mock.Anything).Return(nil)
	cacheMock.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

	svc := NewQuizService(quizRepo, new(MockFallbackQuestionRepository), projectRepo, generator, cacheMock, testQuizConfig())
	err := svc.GenerateAndStore(context.Background(), "proj1", "Beginner Basics", "", 0)

	require.NoError(t, err)
	quizRepo.AssertNumberOfCalls(t, "SaveQuizSet", 1)
}
