package service

import "skillforge/internal/domain"

// genericFallbackQuestions is the last-resort question set, served only when
// both generation and the stored fallback banks are unavailable. The content
// is level-agnostic on purpose.
func genericFallbackQuestions() []domain.QuizQuestion {
	return []domain.QuizQuestion{
		{
			Question:           "What is the primary purpose of breaking a program into functions?",
			Options:            []string{"To make the file longer", "To reuse logic and organize code", "To slow down execution", "To avoid using variables"},
			CorrectAnswerIndex: 1,
		},
		{
			Question:           "Which of the following best describes a variable?",
			Options:            []string{"A fixed value that never changes", "A named storage location for data", "A type of loop", "A compiler error"},
			CorrectAnswerIndex: 1,
		},
		{
			Question:           "What does a loop allow a program to do?",
			Options:            []string{"Repeat a block of code", "Delete source files", "Change its programming language", "Skip compilation"},
			CorrectAnswerIndex: 0,
		},
		{
			Question:           "What is the purpose of a conditional statement?",
			Options:            []string{"To store data permanently", "To run code only when a condition holds", "To rename variables", "To import libraries"},
			CorrectAnswerIndex: 1,
		},
		{
			Question:           "Why is it useful to read error messages carefully?",
			Options:            []string{"They are always wrong", "They usually point to what and where the problem is", "They delete the bug automatically", "They only appear in production"},
			CorrectAnswerIndex: 1,
		},
		{
			Question:           "What is the benefit of testing code in small pieces?",
			Options:            []string{"Bugs are found closer to their cause", "Tests make programs run faster", "Small pieces never fail", "It removes the need for version control"},
			CorrectAnswerIndex: 0,
		},
		{
			Question:           "What does it mean to debug a program?",
			Options:            []string{"To write documentation", "To find and fix defects in it", "To compress the source code", "To publish it online"},
			CorrectAnswerIndex: 1,
		},
		{
			Question:           "Which habit most helps when a program does not behave as expected?",
			Options:            []string{"Rewriting everything from scratch", "Checking assumptions step by step", "Ignoring the output", "Removing all comments"},
			CorrectAnswerIndex: 1,
		},
	}
}
