package service

import (
	"skillforge/internal/domain"
	"skillforge/internal/util"
)

// Component weights for rule-based code grading. Conceptual understanding has
// no local signal, so it is always granted in full; the LLM pass is the place
// where it is actually judged.
const (
	keywordMaxScore    = 30.0
	outputMaxScore     = 40.0
	conceptualMaxScore = 30.0

	codeConfidenceHigh = 0.95
	codeConfidenceLow  = 0.6
	textConfidenceHigh = 0.9
	textConfidenceLow  = 0.5
)

// ScoreSubmission grades a submission against its criteria with local rules
// only. It is total: missing fields count as absent matches and every input
// yields a result.
func ScoreSubmission(criteria *domain.AnswerCriteria, submission *domain.Submission) *domain.VerificationResult {
	if submission.SubmissionType == domain.SubmissionTypeText {
		return scoreTextSubmission(criteria, submission)
	}
	return scoreCodeSubmission(criteria, submission)
}

func scoreCodeSubmission(criteria *domain.AnswerCriteria, submission *domain.Submission) *domain.VerificationResult {
	keywordScore := keywordMaxScore
	var missingKeywords []string
	if len(criteria.RequiredKeywords) > 0 {
		found := 0
		for _, keyword := range criteria.RequiredKeywords {
			if util.ContainsFold(submission.SubmittedCode, keyword) {
				found++
			} else {
				missingKeywords = append(missingKeywords, keyword)
			}
		}
		keywordScore = float64(found) / float64(len(criteria.RequiredKeywords)) * keywordMaxScore
	}
	keywordCheck := len(missingKeywords) == 0

	outputCheck := matchesExpectedOutput(criteria, submission.SubmittedOutput)
	outputScore := 0.0
	if outputCheck {
		outputScore = outputMaxScore
	}

	totalScore := keywordScore + outputScore + conceptualMaxScore

	confidence := codeConfidenceLow
	if keywordCheck && outputCheck {
		confidence = codeConfidenceHigh
	}

	keywordFeedback := "Your code is missing some required elements"
	if keywordCheck {
		keywordFeedback = "All required elements are present in your code"
	}
	outputFeedback := "Your output does not match the expected result"
	if outputCheck {
		outputFeedback = "Your output matches the expected result"
	}

	return &domain.VerificationResult{
		IsCorrect:  totalScore >= criteria.PassingThreshold(),
		TotalScore: totalScore,
		Confidence: confidence,
		Components: map[string]domain.ComponentScore{
			"codeStructure": {
				Score:    keywordScore,
				MaxScore: keywordMaxScore,
				Details: map[string]any{
					"keywordCheck":    keywordCheck,
					"missingKeywords": missingKeywords,
				},
			},
			"output": {
				Score:    outputScore,
				MaxScore: outputMaxScore,
				Details: map[string]any{
					"exactMatch": outputCheck,
				},
			},
			"conceptual": {
				Score:    conceptualMaxScore,
				MaxScore: conceptualMaxScore,
			},
		},
		Feedback: map[string][]string{
			"codeStructure": {keywordFeedback},
			"output":        {outputFeedback},
			"conceptual":    {"Good work on the implementation"},
		},
	}
}

// matchesExpectedOutput compares normalized output against the criteria.
// A non-empty ExpectedOutputs list takes precedence over ExpectedOutput.
func matchesExpectedOutput(criteria *domain.AnswerCriteria, submittedOutput string) bool {
	normalized := util.NormalizeText(submittedOutput)
	if len(criteria.ExpectedOutputs) > 0 {
		for _, expected := range criteria.ExpectedOutputs {
			if normalized == util.NormalizeText(expected) {
				return true
			}
		}
		return false
	}
	if criteria.ExpectedOutput == "" {
		return false
	}
	return normalized == util.NormalizeText(criteria.ExpectedOutput)
}

// scoreTextSubmission only checks keyword presence; text answers have no
// numeric score outside the LLM path.
func scoreTextSubmission(criteria *domain.AnswerCriteria, submission *domain.Submission) *domain.VerificationResult {
	allPresent := true
	for _, keyword := range criteria.RequiredKeywords {
		if !util.ContainsFold(submission.SubmittedText, keyword) {
			allPresent = false
			break
		}
	}

	confidence := textConfidenceLow
	feedback := "Your answer is missing some key elements"
	if allPresent {
		confidence = textConfidenceHigh
		feedback = "Your answer contains all the required elements"
	}

	return &domain.VerificationResult{
		IsCorrect:  allPresent,
		Confidence: confidence,
		Feedback: map[string][]string{
			"content": {feedback},
		},
	}
}
