package repository

import (
	"context"
	"testing"
	"time"

	"skillforge/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const questionsJSON = `[{"question":"What is a function?","options":["A","B","C","D"],"correctAnswerIndex":0}]`

func TestQuizSetDatabaseAdapter_GetQuizSet(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	columns := []string{"composite_id", "project_id", "level_name", "attempt", "questions", "created_at"}

	t.Run("Found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizSetDatabaseAdapter(db)

		mock.ExpectQuery(`SELECT(.|\n)*FROM quiz_sets`).
			WithArgs("proj1_Level 1_attempt0").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("proj1_Level 1_attempt0", "proj1", "Level 1", 0, questionsJSON, now))

		set, err := repo.GetQuizSet(ctx, "proj1_Level 1_attempt0")
		assert.NoError(t, err)
		require.NotNil(t, set)
		assert.Equal(t, "proj1", set.ProjectID)
		assert.Len(t, set.Questions, 1)
		assert.Equal(t, "What is a function?", set.Questions[0].Question)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MissIsNilNil", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizSetDatabaseAdapter(db)

		mock.ExpectQuery(`SELECT(.|\n)*FROM quiz_sets`).
			WithArgs("nope").
			WillReturnRows(sqlmock.NewRows(columns))

		set, err := repo.GetQuizSet(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, set)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CorruptJSON", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewQuizSetDatabaseAdapter(db)

		mock.ExpectQuery(`SELECT(.|\n)*FROM quiz_sets`).
			WithArgs("bad").
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow("bad", "proj1", "Level 1", 0, "{not json", now))

		_, err := repo.GetQuizSet(ctx, "bad")
		assert.Error(t, err)
	})
}

func TestQuizSetDatabaseAdapter_QuizSetExists(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewQuizSetDatabaseAdapter(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM quiz_sets`).
		WithArgs("proj1_Level 1_attempt0").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.QuizSetExists(ctx, "proj1_Level 1_attempt0")
	assert.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuizSetDatabaseAdapter_SaveQuizSet(t *testing.T) {
	ctx := context.Background()
	db, mock := newMockDB(t)
	repo := NewQuizSetDatabaseAdapter(db)

	// First writer inserts; a concurrent second writer matches the existing
	// row and the MERGE does nothing.
	mock.ExpectExec(`MERGE INTO quiz_sets`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SaveQuizSet(ctx, &domain.QuizSet{
		CompositeID: "proj1_Level 1_attempt0",
		ProjectID:   "proj1",
		LevelName:   "Level 1",
		Attempt:     0,
		Questions: []domain.QuizQuestion{
			{Question: "What is a function?", Options: []string{"A", "B", "C", "D"}, CorrectAnswerIndex: 0},
		},
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
