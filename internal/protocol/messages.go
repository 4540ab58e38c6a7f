// Package protocol defines the JSON action messages exchanged with the
// frontend over the room RPC channel, and their encode/decode contracts.
package protocol

import "vyna-tutor-agent/internal/domain"

// Action discriminates the semantic type of a request message.
type Action string

const (
	ActionStartQuiz    Action = "start_quiz"
	ActionNextQuestion Action = "next_question"
	ActionCompleteQuiz Action = "complete_quiz"
	ActionShowResults  Action = "show_results"

	ActionGetDrawing Action = "get_drawing"
	ActionClear      Action = "clear"
	ActionHighlight  Action = "highlight"

	ActionShowComponent   Action = "show"
	ActionToggleComponent Action = "toggle"
)

// QuestionPayload carries one question to the frontend. The correct
// answer is intentionally absent.
type QuestionPayload struct {
	Index        int      `json:"index"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	QuestionID   string   `json:"question_id"`
}

// ProgressPayload reports quiz progress alongside a question.
type ProgressPayload struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Score   int `json:"score"`
}

// StartQuizRequest opens a quiz on the frontend with its first question.
type StartQuizRequest struct {
	Action         Action          `json:"action"`
	QuizID         string          `json:"quiz_id"`
	Topic          string          `json:"topic"`
	Difficulty     string          `json:"difficulty"`
	TotalQuestions int             `json:"total_questions"`
	Question       QuestionPayload `json:"question"`
}

// NextQuestionRequest advances the frontend to the next question.
type NextQuestionRequest struct {
	Action   Action          `json:"action"`
	QuizID   string          `json:"quiz_id"`
	Question QuestionPayload `json:"question"`
	Progress ProgressPayload `json:"progress"`
}

// CompleteQuizRequest tells the frontend the quiz is over.
type CompleteQuizRequest struct {
	Action     Action `json:"action"`
	QuizID     string `json:"quiz_id"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// ResultEntry is the per-question breakdown sent with show_results.
type ResultEntry struct {
	QuestionNumber int    `json:"question_number"`
	Question       string `json:"question"`
	CorrectAnswer  string `json:"correct_answer"`
	UserAnswer     string `json:"user_answer"`
	IsCorrect      bool   `json:"is_correct"`
}

// ShowResultsRequest sends the full per-question breakdown.
type ShowResultsRequest struct {
	Action     Action        `json:"action"`
	QuizID     string        `json:"quiz_id"`
	Score      int           `json:"score"`
	Total      int           `json:"total"`
	Percentage int           `json:"percentage"`
	Results    []ResultEntry `json:"results"`
}

// CanvasRequest addresses the drawing canvas. Highlight fields are only
// set for the highlight action.
type CanvasRequest struct {
	Action Action `json:"action"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Color  string `json:"color,omitempty"`
}

// IllustrationRequest shows or hides an illustration. State is "show"
// or "hidden"; ImageURL accompanies "show".
type IllustrationRequest struct {
	State    string `json:"state"`
	ImageURL string `json:"image_url,omitempty"`
}

// ComponentRequest shows or toggles a display component.
type ComponentRequest struct {
	Action  Action `json:"action"`
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
	Index   int    `json:"index,omitempty"`
}

// NewQuestionPayload builds the wire form of a question at a given index.
func NewQuestionPayload(index int, q domain.QuizQuestion) QuestionPayload {
	return QuestionPayload{
		Index:        index,
		QuestionText: q.QuestionText,
		Options:      q.Options,
		QuestionID:   q.ID,
	}
}
