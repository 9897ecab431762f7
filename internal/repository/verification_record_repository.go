package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"skillforge/internal/domain"
	"skillforge/internal/util"

	"github.com/jmoiron/sqlx"
)

// VerificationRecordDatabaseAdapter implements
// domain.VerificationRecordRepository using sqlx.DB.
type VerificationRecordDatabaseAdapter struct {
	db *sqlx.DB
}

// NewVerificationRecordDatabaseAdapter creates a new adapter instance.
func NewVerificationRecordDatabaseAdapter(db *sqlx.DB) domain.VerificationRecordRepository {
	return &VerificationRecordDatabaseAdapter{db: db}
}

// SaveRecord upserts the record for (user, project, level). Oracle MERGE
// gives the merge semantics: a later attempt overwrites the row's result
// fields while columns absent from the write survive.
func (a *VerificationRecordDatabaseAdapter) SaveRecord(ctx context.Context, record *domain.VerificationRecord) error {
	resultJSON, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal verification result: %w", err)
	}

	isCorrect := 0
	if record.Result.IsCorrect {
		isCorrect = 1
	}

	submittedAt := record.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}

	query := `MERGE INTO user_answers t
	USING (SELECT :1 user_id, :2 project_id, :3 level_name FROM dual) s
	ON (t.user_id = s.user_id AND t.project_id = s.project_id AND t.level_name = s.level_name)
	WHEN MATCHED THEN UPDATE SET
		t.submitted_code = :4,
		t.submitted_output = :5,
		t.submitted_text = :6,
		t.file_url = :7,
		t.quiz_score = :8,
		t.attempt_count = :9,
		t.is_correct = :10,
		t.total_score = :11,
		t.verification_result = :12,
		t.submitted_at = :13
	WHEN NOT MATCHED THEN INSERT (
		id, user_id, project_id, level_name,
		submitted_code, submitted_output, submitted_text, file_url,
		quiz_score, attempt_count, is_correct, total_score,
		verification_result, submitted_at
	) VALUES (
		:14, s.user_id, s.project_id, s.level_name,
		:4, :5, :6, :7, :8, :9, :10, :11, :12, :13
	)`

	_, err = a.db.ExecContext(ctx, query,
		record.UserID,
		record.ProjectID,
		record.LevelName,
		nullableString(record.Submission.SubmittedCode),
		nullableString(record.Submission.SubmittedOutput),
		nullableString(record.Submission.SubmittedText),
		nullableString(record.Submission.FileURL),
		record.Submission.QuizScore,
		record.Submission.AttemptCount,
		isCorrect,
		record.Result.TotalScore,
		string(resultJSON),
		submittedAt,
		util.NewULID(),
	)
	if err != nil {
		return fmt.Errorf("failed to save verification record for %s/%s/%s: %w",
			record.UserID, record.ProjectID, record.LevelName, err)
	}
	return nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
