// Package catalog holds the built-in topic question bank. In production
// the loader would be swapped for one backed by an LLM or a document
// store; the postgres loader covers the latter.
package catalog

import (
	"github.com/google/uuid"

	"vyna-tutor-agent/internal/domain"
)

// Builtin returns the static topic → question-set table the agent ships
// with. Question ids are generated fresh per call.
func Builtin() map[string]domain.TopicSet {
	return map[string]domain.TopicSet{
		"algebra": {
			Topic: "algebra",
			Questions: []domain.QuizQuestion{
				{
					ID:            uuid.NewString(),
					QuestionText:  "What is 2x + 5 = 15? Solve for x.",
					Options:       []string{"A) x = 5", "B) x = 10", "C) x = 7", "D) x = 3"},
					CorrectAnswer: "A",
					Explanation:   "Subtract 5 from both sides: 2x = 10, then divide by 2: x = 5",
				},
				{
					ID:            uuid.NewString(),
					QuestionText:  "Simplify: 3(x + 2) - 2x",
					Options:       []string{"A) x + 6", "B) 5x + 6", "C) x + 2", "D) 3x + 6"},
					CorrectAnswer: "A",
					Explanation:   "3(x + 2) - 2x = 3x + 6 - 2x = x + 6",
				},
			},
		},
		"geometry": {
			Topic: "geometry",
			Questions: []domain.QuizQuestion{
				{
					ID:            uuid.NewString(),
					QuestionText:  "What is the area of a rectangle with length 8 and width 5?",
					Options:       []string{"A) 13", "B) 40", "C) 26", "D) 32"},
					CorrectAnswer: "B",
					Explanation:   "Area = length × width = 8 × 5 = 40",
				},
			},
		},
		"fractions": {
			Topic: "fractions",
			Questions: []domain.QuizQuestion{
				{
					ID:            uuid.NewString(),
					QuestionText:  "What is 1/2 + 1/4?",
					Options:       []string{"A) 2/6", "B) 3/4", "C) 1/6", "D) 2/4"},
					CorrectAnswer: "B",
					Explanation:   "1/2 + 1/4 = 2/4 + 1/4 = 3/4",
				},
			},
		},
	}
}
