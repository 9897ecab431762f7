package dto

import "github.com/golang-jwt/jwt/v5"

// VerifySubmissionRequest is the request body for submission verification
// @Description Request body for verifying a learner submission
type VerifySubmissionRequest struct {
	ProjectID       string  `json:"projectId"`
	LevelName       string  `json:"levelName"`
	SubmissionType  string  `json:"submissionType,omitempty"`
	SubmittedCode   string  `json:"submittedCode,omitempty"`
	SubmittedOutput string  `json:"submittedOutput,omitempty"`
	SubmittedText   string  `json:"submittedText,omitempty"`
	FileURL         string  `json:"fileUrl,omitempty"`
	QuizScore       float64 `json:"quizScore,omitempty"`
	AttemptCount    int     `json:"attemptCount,omitempty"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// AuthClaims are the JWT claims this service accepts. Identity is issued by
// the external auth provider; only validation happens here.
type AuthClaims struct {
	UserID    string `json:"uid,omitempty"`
	TokenType string `json:"token_type,omitempty"`
	jwt.RegisteredClaims
}
