// Package app owns the per-session tutoring state: the quiz state
// machine, display components, canvas snapshots, and student info. One
// SessionState exists per connected room; the surrounding transport
// serializes tool invocations and agent-side handlers per session
// through one lock, so no locking happens here.
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"vyna-tutor-agent/internal/domain"
)

// DefaultTopic is used when a requested topic is missing from the
// catalog. Unknown topics fall back to this pool instead of failing;
// the quiz keeps the requested topic name.
const DefaultTopic = "algebra"

const (
	MinQuestions = 1
	MaxQuestions = 10
)

// CatalogRepository resolves a topic to its question pool.
type CatalogRepository interface {
	GetTopic(ctx context.Context, topic string) (domain.TopicSet, error)
}

// SessionRepository abstracts how sessions are stored (in-memory, Redis-marked).
type SessionRepository interface {
	GetOrCreate(roomName string) *SessionState
	Get(roomName string) (*SessionState, bool)
	Delete(roomName string)
}

// SessionState is the mutable state for one room's conversation.
type SessionState struct {
	catalog CatalogRepository
	now     func() time.Time

	CurrentQuiz *domain.Quiz
	History     []domain.QuizRecord

	Components []domain.Component
	UserName   string
	UserAge    int

	LastCanvasDrawing *domain.CanvasDrawing
	CanvasHistory     []domain.CanvasDrawing
}

func NewSessionState(catalog CatalogRepository) *SessionState {
	return NewSessionStateWithClock(catalog, time.Now)
}

// NewSessionStateWithClock allows deterministic timestamps in tests.
func NewSessionStateWithClock(catalog CatalogRepository, now func() time.Time) *SessionState {
	return &SessionState{catalog: catalog, now: now}
}

// CreateQuiz builds and activates a new quiz. The question count is
// clamped into [1, 10], the difficulty normalized, and the topic looked
// up case-insensitively with a fallback to DefaultTopic. Any prior quiz
// is abandoned in place; its history record keeps its last status.
func (s *SessionState) CreateQuiz(ctx context.Context, topic string, numQuestions int, difficulty string) (*domain.Quiz, error) {
	if numQuestions < MinQuestions {
		numQuestions = MinQuestions
	}
	if numQuestions > MaxQuestions {
		numQuestions = MaxQuestions
	}
	level := domain.ParseDifficulty(difficulty)

	set, err := s.catalog.GetTopic(ctx, strings.ToLower(topic))
	// A topic with an empty pool is as unusable as a missing one; both
	// fall back to the default topic's questions.
	if err == domain.ErrTopicNotFound || (err == nil && len(set.Questions) == 0) {
		set, err = s.catalog.GetTopic(ctx, DefaultTopic)
	}
	if err != nil {
		return nil, err
	}
	if len(set.Questions) == 0 {
		return nil, domain.ErrNoQuestions
	}

	questions := cloneQuestions(set.Questions)
	// Truncate to the available supply; fewer than requested is fine.
	if len(questions) > numQuestions {
		questions = questions[:numQuestions]
	}

	quiz := &domain.Quiz{
		ID:         uuid.NewString(),
		Topic:      topic,
		Difficulty: level,
		Questions:  questions,
	}
	s.CurrentQuiz = quiz
	s.History = append(s.History, domain.QuizRecord{
		ID:         quiz.ID,
		Topic:      topic,
		Difficulty: level,
		Status:     domain.QuizInProgress,
		CreatedAt:  s.now(),
	})
	return quiz, nil
}

// AdvanceOutcome describes one submit/skip transition.
type AdvanceOutcome struct {
	Quiz      *domain.Quiz
	Correct   bool
	Completed bool
}

// SubmitAnswer scores the submitted letter against the current question
// (case-insensitively), records the answer exactly once, and advances
// the quiz by one question.
func (s *SessionState) SubmitAnswer(answer string) (AdvanceOutcome, error) {
	return s.advance(strings.ToUpper(answer), func(q *domain.QuizQuestion) bool {
		return strings.EqualFold(answer, q.CorrectAnswer)
	})
}

// SkipQuestion records the skip sentinel as the answer and advances;
// skipped questions are always incorrect.
func (s *SessionState) SkipQuestion() (AdvanceOutcome, error) {
	return s.advance(domain.SkippedAnswer, func(*domain.QuizQuestion) bool {
		return false
	})
}

func (s *SessionState) advance(recorded string, check func(*domain.QuizQuestion) bool) (AdvanceOutcome, error) {
	quiz := s.CurrentQuiz
	if quiz == nil {
		return AdvanceOutcome{}, domain.ErrNoActiveQuiz
	}
	if quiz.Completed {
		return AdvanceOutcome{Quiz: quiz}, domain.ErrQuizCompleted
	}

	question, _ := quiz.CurrentQuestion()
	correct := check(question)
	if correct {
		quiz.Score++
	}
	question.UserAnswer = &recorded
	question.IsCorrect = &correct

	quiz.CurrentQuestionIndex++
	if quiz.CurrentQuestionIndex >= len(quiz.Questions) {
		quiz.Completed = true
		s.recordCompletion(quiz)
	}
	return AdvanceOutcome{Quiz: quiz, Correct: correct, Completed: quiz.Completed}, nil
}

// recordCompletion updates the matching history record in place. A
// linear scan by id is enough at single-session scale.
func (s *SessionState) recordCompletion(quiz *domain.Quiz) {
	for i := range s.History {
		if s.History[i].ID == quiz.ID {
			s.History[i].Status = domain.QuizCompleted
			s.History[i].Score = scoreSummary(quiz)
			s.History[i].Percentage = quiz.Percentage()
		}
	}
}

// StatusKind tells which shape of status applies.
type StatusKind int

const (
	StatusNoQuiz StatusKind = iota
	StatusLastRecord
	StatusCompleted
	StatusInProgress
)

// Status is the read-only progress summary for the session.
type Status struct {
	Kind       StatusKind
	LastRecord domain.QuizRecord // set for StatusLastRecord
	Quiz       *domain.Quiz      // set for StatusCompleted / StatusInProgress
}

// QuizStatus reports the current quiz position, the final score for a
// completed quiz, or the most recent history entry when nothing is active.
func (s *SessionState) QuizStatus() Status {
	if s.CurrentQuiz == nil {
		if len(s.History) > 0 {
			return Status{Kind: StatusLastRecord, LastRecord: s.History[len(s.History)-1]}
		}
		return Status{Kind: StatusNoQuiz}
	}
	if s.CurrentQuiz.Completed {
		return Status{Kind: StatusCompleted, Quiz: s.CurrentQuiz}
	}
	return Status{Kind: StatusInProgress, Quiz: s.CurrentQuiz}
}

// NotAnswered is reported for questions that never received an answer.
const NotAnswered = "Not answered"

// QuestionResult is the per-question line in detailed results.
type QuestionResult struct {
	Number        int
	Question      string
	CorrectAnswer string
	UserAnswer    string
	IsCorrect     bool
}

// DetailedResults is the full breakdown of a completed quiz.
type DetailedResults struct {
	Quiz       *domain.Quiz
	Results    []QuestionResult
	Score      int
	Total      int
	Percentage int
}

// QuizResults returns the full breakdown of the active quiz. It fails
// until the quiz has been completed.
func (s *SessionState) QuizResults() (DetailedResults, error) {
	quiz := s.CurrentQuiz
	if quiz == nil {
		return DetailedResults{}, domain.ErrNoActiveQuiz
	}
	if !quiz.Completed {
		return DetailedResults{}, domain.ErrQuizNotCompleted
	}

	results := make([]QuestionResult, 0, len(quiz.Questions))
	for i, q := range quiz.Questions {
		userAnswer := NotAnswered
		if q.UserAnswer != nil {
			userAnswer = *q.UserAnswer
		}
		correct := q.IsCorrect != nil && *q.IsCorrect
		results = append(results, QuestionResult{
			Number:        i + 1,
			Question:      q.QuestionText,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    userAnswer,
			IsCorrect:     correct,
		})
	}
	return DetailedResults{
		Quiz:       quiz,
		Results:    results,
		Score:      quiz.Score,
		Total:      len(quiz.Questions),
		Percentage: quiz.Percentage(),
	}, nil
}

// SetUserInfo stores the student's name and age.
func (s *SessionState) SetUserInfo(name string, age int) domain.UserInfo {
	s.UserName = name
	s.UserAge = age
	return domain.UserInfo{ID: uuid.NewString(), Name: name, Age: age}
}

// UserInfo returns the stored student identity, if any was given.
func (s *SessionState) UserInfo() (domain.UserInfo, bool) {
	if s.UserName == "" {
		return domain.UserInfo{}, false
	}
	return domain.UserInfo{ID: uuid.NewString(), Name: s.UserName, Age: s.UserAge}, true
}

// AddComponent registers a new display component.
func (s *SessionState) AddComponent(content string) domain.Component {
	component := domain.Component{ID: uuid.NewString(), Content: content}
	s.Components = append(s.Components, component)
	return component
}

// ToggleComponent flips a component's visibility by id.
func (s *SessionState) ToggleComponent(id string) (domain.Component, error) {
	for i := range s.Components {
		if s.Components[i].ID == id {
			s.Components[i].IsShowed = !s.Components[i].IsShowed
			return s.Components[i], nil
		}
	}
	return domain.Component{}, domain.ErrComponentNotFound
}

// SetCanvasDrawing stores the latest canvas snapshot.
func (s *SessionState) SetCanvasDrawing(drawing domain.CanvasDrawing) {
	s.LastCanvasDrawing = &drawing
}

// SaveCanvasToHistory appends the current snapshot to the canvas history.
func (s *SessionState) SaveCanvasToHistory() {
	if s.LastCanvasDrawing != nil {
		s.CanvasHistory = append(s.CanvasHistory, *s.LastCanvasDrawing)
	}
}

// ClearCanvasDrawing drops the current snapshot.
func (s *SessionState) ClearCanvasDrawing() {
	s.LastCanvasDrawing = nil
}

func scoreSummary(quiz *domain.Quiz) string {
	return fmt.Sprintf("%d/%d", quiz.Score, len(quiz.Questions))
}

func cloneQuestions(src []domain.QuizQuestion) []domain.QuizQuestion {
	out := make([]domain.QuizQuestion, len(src))
	copy(out, src)
	for i := range out {
		out[i].Options = append([]string(nil), src[i].Options...)
		out[i].UserAnswer = nil
		out[i].IsCorrect = nil
	}
	return out
}
