package domain

import (
	"strings"
	"time"
)

// Difficulty is the closed set of quiz difficulty levels.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty normalizes raw input case-insensitively and falls back
// to medium for anything it does not recognize.
func ParseDifficulty(raw string) Difficulty {
	switch Difficulty(strings.ToLower(raw)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// SkippedAnswer is the sentinel recorded when a question is skipped
// instead of answered.
const SkippedAnswer = "SKIPPED"

// QuizQuestion is a single multiple-choice question. UserAnswer and
// IsCorrect are nil until the student submits or skips, and are set
// exactly once.
type QuizQuestion struct {
	ID            string   `json:"id"`
	QuestionText  string   `json:"question_text"`
	Options       []string `json:"options"` // labels prefixed with "A) ", "B) ", ...
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
	UserAnswer    *string  `json:"user_answer,omitempty"`
	IsCorrect     *bool    `json:"is_correct,omitempty"`
}

// Quiz is one quiz attempt in a session. CurrentQuestionIndex only ever
// advances; Completed is true exactly when it has reached len(Questions).
type Quiz struct {
	ID                   string         `json:"id"`
	Topic                string         `json:"topic"`
	Difficulty           Difficulty     `json:"difficulty"`
	Questions            []QuizQuestion `json:"questions"`
	CurrentQuestionIndex int            `json:"current_question_index"`
	Score                int            `json:"score"`
	Completed            bool           `json:"completed"`
}

// CurrentQuestion returns the question awaiting an answer. The second
// result is false once the quiz is completed.
func (q *Quiz) CurrentQuestion() (*QuizQuestion, bool) {
	if q.CurrentQuestionIndex >= len(q.Questions) {
		return nil, false
	}
	return &q.Questions[q.CurrentQuestionIndex], true
}

// Percentage is the score as an integer percentage, truncated.
func (q *Quiz) Percentage() int {
	if len(q.Questions) == 0 {
		return 0
	}
	return q.Score * 100 / len(q.Questions)
}

// QuizRecordStatus tracks a history entry's lifecycle.
type QuizRecordStatus string

const (
	QuizInProgress QuizRecordStatus = "in_progress"
	QuizCompleted  QuizRecordStatus = "completed"
)

// QuizRecord is the lightweight, append-only history entry kept per quiz.
// Score and Percentage are filled in on completion.
type QuizRecord struct {
	ID         string           `json:"id"`
	Topic      string           `json:"topic"`
	Difficulty Difficulty       `json:"difficulty"`
	Status     QuizRecordStatus `json:"status"`
	Score      string           `json:"score,omitempty"`
	Percentage int              `json:"percentage,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// TopicSet is a catalog entry: the question pool for one topic.
type TopicSet struct {
	Topic     string         `json:"topic"`
	Questions []QuizQuestion `json:"questions"`
}

// Component is a frontend display component managed by the session.
type Component struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	IsShowed bool   `json:"is_showed"`
}

// UserInfo holds the student identity collected during the session.
type UserInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// Stroke is one pen stroke in a canvas snapshot.
type Stroke struct {
	Points []Point `json:"points"`
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

// Point is a canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CanvasDrawing is the snapshot the frontend returns for analysis.
type CanvasDrawing struct {
	Strokes []Stroke `json:"strokes"`
	Image   string   `json:"image,omitempty"` // base64 PNG
}

// Illustration is a visual aid the agent can display.
type Illustration struct {
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
}
