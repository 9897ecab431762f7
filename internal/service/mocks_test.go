package service

import (
	"context"
	"time"

	"skillforge/internal/domain"
	"skillforge/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockCriteriaRepository ---
type MockCriteriaRepository struct {
	mock.Mock
}

func (m *MockCriteriaRepository) GetCriteria(ctx context.Context, projectID, levelName string) (*domain.AnswerCriteria, error) {
	args := m.Called(ctx, projectID, levelName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnswerCriteria), args.Error(1)
}

// --- MockVerificationRecordRepository ---
type MockVerificationRecordRepository struct {
	mock.Mock
}

func (m *MockVerificationRecordRepository) SaveRecord(ctx context.Context, record *domain.VerificationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// --- MockAnswerGrader ---
type MockAnswerGrader struct {
	mock.Mock
}

func (m *MockAnswerGrader) GradeSubmission(ctx context.Context, criteria *domain.AnswerCriteria, submission *domain.Submission) (*domain.VerificationResult, error) {
	args := m.Called(ctx, criteria, submission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationResult), args.Error(1)
}

// --- MockQuizSetRepository ---
type MockQuizSetRepository struct {
	mock.Mock
}

func (m *MockQuizSetRepository) GetQuizSet(ctx context.Context, key string) (*domain.QuizSet, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuizSet), args.Error(1)
}

func (m *MockQuizSetRepository) QuizSetExists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizSetRepository) SaveQuizSet(ctx context.Context, set *domain.QuizSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}

// --- MockFallbackQuestionRepository ---
type MockFallbackQuestionRepository struct {
	mock.Mock
}

func (m *MockFallbackQuestionRepository) GetFallbackQuestions(ctx context.Context, levelCategory string) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, levelCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

// --- MockProjectRepository ---
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuestions(ctx context.Context, input domain.QuizGenerationInput) ([]domain.QuizQuestion, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.QuizQuestion), args.Error(1)
}

// --- MockQuizService ---
type MockQuizService struct {
	mock.Mock
}

func (m *MockQuizService) GetQuizQuestions(ctx context.Context, projectID, levelName, levelDescription string, attempt int) (*dto.QuizQuestionsResponse, error) {
	args := m.Called(ctx, projectID, levelName, levelDescription, attempt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.QuizQuestionsResponse), args.Error(1)
}

func (m *MockQuizService) GenerateAndStore(ctx context.Context, projectID, levelName, levelDescription string, attempt int) error {
	args := m.Called(ctx, projectID, levelName, levelDescription, attempt)
	return args.Error(0)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, expiration)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Ensure all required methods for interfaces are present in the mocks
var _ domain.CriteriaRepository = (*MockCriteriaRepository)(nil)
var _ domain.VerificationRecordRepository = (*MockVerificationRecordRepository)(nil)
var _ domain.AnswerGrader = (*MockAnswerGrader)(nil)
var _ domain.QuizSetRepository = (*MockQuizSetRepository)(nil)
var _ domain.FallbackQuestionRepository = (*MockFallbackQuestionRepository)(nil)
var _ domain.ProjectRepository = (*MockProjectRepository)(nil)
var _ domain.QuizGenerator = (*MockQuizGenerator)(nil)
var _ domain.Cache = (*MockCache)(nil)
var _ QuizService = (*MockQuizService)(nil)
