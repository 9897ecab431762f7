package dto

import "skillforge/internal/domain"

// GenerateQuizRequest is the request body for quiz question retrieval
// @Description Request body for fetching or generating a question set
type GenerateQuizRequest struct {
	ProjectID        string `json:"projectId"`
	LevelName        string `json:"levelName"`
	LevelDescription string `json:"levelDescription,omitempty"`
	AttemptCount     int    `json:"attemptCount"`
}

// Values for QuizQuestionsResponse.Source.
const (
	QuizSourceCache     = "cache"
	QuizSourceGenerated = "generated"
	QuizSourceFallback  = "fallback"
)

// QuizQuestionsResponse carries the question set returned to the client.
// Source reports which tier produced it: "cache", "generated" or "fallback".
type QuizQuestionsResponse struct {
	Questions []domain.QuizQuestion `json:"questions"`
	Source    string                `json:"source,omitempty"`
}
