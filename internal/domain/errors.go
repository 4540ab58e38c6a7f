package domain

import "errors"

var (
	// ErrNoActiveQuiz is returned when an answer arrives with no quiz in play.
	ErrNoActiveQuiz = errors.New("no active quiz")
	// ErrQuizCompleted is returned when a completed quiz receives further answers.
	ErrQuizCompleted = errors.New("quiz already completed")
	// ErrQuizNotCompleted is returned when results are requested too early.
	ErrQuizNotCompleted = errors.New("quiz not completed")
	// ErrTopicNotFound indicates the catalog has no question set for a topic.
	ErrTopicNotFound = errors.New("topic not found in catalog")
	// ErrNoQuestions indicates a topic's question pool is empty.
	ErrNoQuestions = errors.New("topic has no questions")
	// ErrComponentNotFound indicates a component ID is unknown to the session.
	ErrComponentNotFound = errors.New("component not found")
)
