package models

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// StringSlice stores a list of strings as a JSON document in a text column.
type StringSlice []string

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	jsonData, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(jsonData), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	var bytesToParse []byte
	switch v := value.(type) {
	case []byte:
		bytesToParse = v
	case string:
		bytesToParse = []byte(v)
	default:
		return errors.New("StringSlice Scan: unsupported type " + fmt.Sprintf("%T", value))
	}

	if len(bytesToParse) == 0 || string(bytesToParse) == "null" {
		*s = StringSlice{}
		return nil
	}
	return json.Unmarshal(bytesToParse, s)
}

// JSONDoc stores an arbitrary JSON document in a text column.
type JSONDoc []byte

// Value implements the driver.Valuer interface
func (d JSONDoc) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "{}", nil
	}
	return string(d), nil
}

// Scan implements the sql.Scanner interface
func (d *JSONDoc) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*d = append((*d)[:0], v...)
		return nil
	case string:
		*d = JSONDoc(v)
		return nil
	default:
		return errors.New("JSONDoc Scan: unsupported type " + fmt.Sprintf("%T", value))
	}
}

// AnswerCriteria is the stored rubric row, one per (project, level).
type AnswerCriteria struct {
	ProjectID        string      `db:"project_id"`
	LevelName        string      `db:"level_name"`
	ExpectedOutput   string      `db:"expected_output"`
	ExpectedOutputs  StringSlice `db:"expected_outputs"`
	RequiredKeywords StringSlice `db:"required_keywords"`
	PassingScore     float64     `db:"passing_score"`
	ProjectType      string      `db:"project_type"`
	ConceptPatterns  StringSlice `db:"concept_patterns"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

// UserAnswer is the persisted verification outcome row, one per
// (user, project, level); later attempts overwrite it.
type UserAnswer struct {
	ID                 string          `db:"id"`
	UserID             string          `db:"user_id"`
	ProjectID          string          `db:"project_id"`
	LevelName          string          `db:"level_name"`
	SubmittedCode      sql.NullString  `db:"submitted_code"`
	SubmittedOutput    sql.NullString  `db:"submitted_output"`
	SubmittedText      sql.NullString  `db:"submitted_text"`
	FileURL            sql.NullString  `db:"file_url"`
	QuizScore          float64         `db:"quiz_score"`
	AttemptCount       int             `db:"attempt_count"`
	IsCorrect          int             `db:"is_correct"`
	TotalScore         float64         `db:"total_score"`
	VerificationResult JSONDoc         `db:"verification_result"`
	SubmittedAt        time.Time       `db:"submitted_at"`
}

// QuizSet is one stored question set keyed by composite id.
type QuizSet struct {
	CompositeID string    `db:"composite_id"`
	ProjectID   string    `db:"project_id"`
	LevelName   string    `db:"level_name"`
	Attempt     int       `db:"attempt"`
	Questions   JSONDoc   `db:"questions"`
	CreatedAt   time.Time `db:"created_at"`
}

// FallbackQuestionBank is a pre-seeded generic question set per level category.
type FallbackQuestionBank struct {
	LevelCategory string    `db:"level_category"`
	Questions     JSONDoc   `db:"questions"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// Project is a learning project row.
type Project struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// RoadmapLevel is one level row within a project roadmap.
type RoadmapLevel struct {
	ProjectID   string `db:"project_id"`
	LevelName   string `db:"level_name"`
	Description string `db:"description"`
	Position    int    `db:"position"`
}
