package tools

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vyna-tutor-agent/internal/app"
	"vyna-tutor-agent/internal/domain"
	"vyna-tutor-agent/internal/protocol"
	"vyna-tutor-agent/internal/rpc"
)

// CreateQuiz builds a quiz on the requested topic and shows its first
// question on the frontend. The quiz is active either way; display
// failures only change the spoken reply.
func (t *Toolset) CreateQuiz(ctx context.Context, topic string, numQuestions int, difficulty string) string {
	quiz, err := t.session.CreateQuiz(ctx, topic, numQuestions, difficulty)
	if err != nil {
		log.Printf("tools: create quiz: %v", err)
		return fmt.Sprintf("I couldn't put together a quiz on %s right now. Please try again.", topic)
	}

	first := quiz.Questions[0]
	resp, err := t.callFrontend(ctx, t.methods.Quiz, protocol.StartQuizRequest{
		Action:         protocol.ActionStartQuiz,
		QuizID:         quiz.ID,
		Topic:          quiz.Topic,
		Difficulty:     string(quiz.Difficulty),
		TotalQuestions: len(quiz.Questions),
		Question:       protocol.NewQuestionPayload(0, first),
	})
	switch {
	case errors.Is(err, errNoRoom):
		return fmt.Sprintf("Created a %d-question quiz on %s, but couldn't display it", len(quiz.Questions), topic)
	case errors.Is(err, rpc.ErrNoPeer):
		return "Quiz created, but no participants found to send it to"
	case rpc.IsKind(err, rpc.KindTimeout):
		return "Quiz created but the display timed out. Please try again."
	case err != nil:
		return "Created quiz but encountered an error displaying it"
	case !resp.OK:
		return fmt.Sprintf("Created quiz but couldn't display it: %s", respError(resp))
	}
	return fmt.Sprintf("I've created a %s %s quiz with %d questions. Let's start with question 1!",
		quiz.Difficulty, quiz.Topic, len(quiz.Questions))
}

// SubmitAnswer scores the student's letter against the current question
// and moves the quiz forward, completing it on the last question.
func (t *Toolset) SubmitAnswer(ctx context.Context, answer string) string {
	outcome, err := t.session.SubmitAnswer(answer)
	switch {
	case errors.Is(err, domain.ErrNoActiveQuiz):
		return "There's no active quiz. Create a quiz first using create_quiz."
	case errors.Is(err, domain.ErrQuizCompleted):
		quiz := t.session.CurrentQuiz
		return fmt.Sprintf("This quiz is already completed. Your score was %d/%d.", quiz.Score, len(quiz.Questions))
	}

	if outcome.Completed {
		return t.completeQuiz(ctx, outcome.Quiz)
	}
	return t.showNextQuestion(ctx, outcome.Quiz)
}

// SkipQuestion marks the current question as skipped (and incorrect) and
// moves on.
func (t *Toolset) SkipQuestion(ctx context.Context) string {
	outcome, err := t.session.SkipQuestion()
	switch {
	case errors.Is(err, domain.ErrNoActiveQuiz):
		return "There's no active quiz."
	case errors.Is(err, domain.ErrQuizCompleted):
		return "Quiz is already completed."
	}

	if outcome.Completed {
		return t.completeQuiz(ctx, outcome.Quiz)
	}
	return t.showNextQuestion(ctx, outcome.Quiz)
}

// GetQuizStatus reports progress without touching any state.
func (t *Toolset) GetQuizStatus() string {
	status := t.session.QuizStatus()
	switch status.Kind {
	case app.StatusNoQuiz:
		return "No quiz has been created yet. Use create_quiz to start one."
	case app.StatusLastRecord:
		return fmt.Sprintf("No active quiz. Last quiz was on %s (%s).", status.LastRecord.Topic, status.LastRecord.Status)
	case app.StatusCompleted:
		quiz := status.Quiz
		return fmt.Sprintf("Quiz completed! Final score: %d/%d (%d%%)", quiz.Score, len(quiz.Questions), quiz.Percentage())
	case app.StatusInProgress:
		quiz := status.Quiz
		return fmt.Sprintf("Currently on question %d of %d. Score so far: %d/%d answered correctly.",
			quiz.CurrentQuestionIndex+1, len(quiz.Questions), quiz.Score, quiz.CurrentQuestionIndex)
	}
	log.Printf("tools: unhandled quiz status kind %d", status.Kind)
	return "No quiz has been created yet. Use create_quiz to start one."
}

// ShowQuizResults sends the per-question breakdown to the frontend and
// summarizes it aloud.
func (t *Toolset) ShowQuizResults(ctx context.Context) string {
	details, err := t.session.QuizResults()
	switch {
	case errors.Is(err, domain.ErrNoActiveQuiz):
		return "No quiz to show results for."
	case errors.Is(err, domain.ErrQuizNotCompleted):
		return "Quiz is not completed yet. Finish the quiz first."
	}

	results := make([]protocol.ResultEntry, 0, len(details.Results))
	for _, r := range details.Results {
		results = append(results, protocol.ResultEntry{
			QuestionNumber: r.Number,
			Question:       r.Question,
			CorrectAnswer:  r.CorrectAnswer,
			UserAnswer:     r.UserAnswer,
			IsCorrect:      r.IsCorrect,
		})
	}

	resp, err := t.callFrontend(ctx, t.methods.Quiz, protocol.ShowResultsRequest{
		Action:     protocol.ActionShowResults,
		QuizID:     details.Quiz.ID,
		Score:      details.Score,
		Total:      details.Total,
		Percentage: details.Percentage,
		Results:    results,
	})
	switch {
	case errors.Is(err, errNoRoom):
		return "Quiz completed but couldn't display results"
	case errors.Is(err, rpc.ErrNoPeer):
		return "No participants to send results to"
	case rpc.IsKind(err, rpc.KindTimeout):
		return fmt.Sprintf("The results display timed out. Your score: %d/%d.", details.Score, details.Total)
	case err != nil:
		return fmt.Sprintf("Quiz completed with score %d/%d", details.Score, details.Total)
	case !resp.OK:
		return fmt.Sprintf("Results: %d/%d", details.Score, details.Total)
	}
	return fmt.Sprintf("Here are your detailed results: %d/%d correct (%d%%)", details.Score, details.Total, details.Percentage)
}

func (t *Toolset) showNextQuestion(ctx context.Context, quiz *domain.Quiz) string {
	question, ok := quiz.CurrentQuestion()
	if !ok {
		return "Moving to next question"
	}

	resp, err := t.callFrontend(ctx, t.methods.Quiz, protocol.NextQuestionRequest{
		Action:   protocol.ActionNextQuestion,
		QuizID:   quiz.ID,
		Question: protocol.NewQuestionPayload(quiz.CurrentQuestionIndex, *question),
		Progress: protocol.ProgressPayload{
			Current: quiz.CurrentQuestionIndex + 1,
			Total:   len(quiz.Questions),
			Score:   quiz.Score,
		},
	})
	switch {
	case errors.Is(err, errNoRoom):
		return "Moving to next question, but couldn't display it"
	case errors.Is(err, rpc.ErrNoPeer):
		return "No participants"
	case rpc.IsKind(err, rpc.KindTimeout):
		return fmt.Sprintf("Moving to question %d, but the display request timed out.", quiz.CurrentQuestionIndex+1)
	case err != nil:
		return "Moving to next question"
	case !resp.OK:
		return fmt.Sprintf("Next question ready (Question %d)", quiz.CurrentQuestionIndex+1)
	}
	return fmt.Sprintf("Moving to question %d.", quiz.CurrentQuestionIndex+1)
}

func (t *Toolset) completeQuiz(ctx context.Context, quiz *domain.Quiz) string {
	score, total, percentage := quiz.Score, len(quiz.Questions), quiz.Percentage()

	resp, err := t.callFrontend(ctx, t.methods.Quiz, protocol.CompleteQuizRequest{
		Action:     protocol.ActionCompleteQuiz,
		QuizID:     quiz.ID,
		Score:      score,
		Total:      total,
		Percentage: percentage,
	})
	switch {
	case errors.Is(err, errNoRoom):
		return fmt.Sprintf("Quiz completed! Final score: %d/%d (%d%%)", score, total, percentage)
	case errors.Is(err, rpc.ErrNoPeer):
		return fmt.Sprintf("Quiz completed! Score: %d/%d", score, total)
	case rpc.IsKind(err, rpc.KindTimeout):
		return fmt.Sprintf("Quiz completed! Final score: %d/%d (%d%%), but the display timed out.", score, total, percentage)
	case err != nil:
		return fmt.Sprintf("Quiz completed! Final score: %d/%d (%d%%)", score, total, percentage)
	case !resp.OK:
		return fmt.Sprintf("Quiz completed! Score: %d/%d (%d%%)", score, total, percentage)
	}
	return fmt.Sprintf("Quiz completed! You scored %d/%d (%d%%). Great job!", score, total, percentage)
}

func respError(resp protocol.ActionResponse) string {
	if resp.Error == "" {
		return "Unknown error"
	}
	return resp.Error
}
