package quiz

import (
	"math"
	"strings"
)

// QuestionResult is the per-question breakdown inside a Result.
type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    any    `json:"user_answer"`
	CorrectAnswer any    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Points        int    `json:"points"`
	EarnedPoints  int    `json:"earned_points"`
	Explanation   string `json:"explanation,omitempty"`
}

// Result is the graded outcome of one submission. It is ephemeral: the
// attempt is what gets persisted, and a Result can be rebuilt from the
// attempt's answer map and the quiz definition at any time.
type Result struct {
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	WrongAnswers    int              `json:"wrong_answers"`
	Score           int              `json:"score"` // percentage, 0-100
	Passed          bool             `json:"passed"`
	PassingScore    int              `json:"passing_score"`
	QuestionResults []QuestionResult `json:"question_results"`
}

// Score grades an answer map against a quiz definition. It is a pure
// function of its two inputs: no clock, no storage, so a persisted
// attempt's answers always reproduce the same result.
//
// A question earns its full point weight on a normalized-equal answer and
// zero otherwise; there is no partial credit. Questions missing from the
// answer map are simply wrong. A quiz whose questions carry zero total
// points scores 0.
func Score(q *Quiz, answers map[string]any) Result {
	results := make([]QuestionResult, 0, len(q.Questions))
	totalPoints := 0
	earnedPoints := 0

	for i := range q.Questions {
		question := &q.Questions[i]
		userAnswer := answers[question.ID]

		correct := answersEqual(userAnswer, question.CorrectAnswer)
		earned := 0
		if correct {
			earned = question.Points
		}

		totalPoints += question.Points
		earnedPoints += earned

		results = append(results, QuestionResult{
			QuestionID:    question.ID,
			Question:      question.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: question.CorrectAnswer,
			IsCorrect:     correct,
			Points:        question.Points,
			EarnedPoints:  earned,
			Explanation:   question.Explanation,
		})
	}

	score := 0
	if totalPoints > 0 {
		score = int(math.Round(float64(earnedPoints) / float64(totalPoints) * 100))
	}

	correctCount := 0
	for _, r := range results {
		if r.IsCorrect {
			correctCount++
		}
	}

	return Result{
		TotalQuestions:  len(q.Questions),
		CorrectAnswers:  correctCount,
		WrongAnswers:    len(results) - correctCount,
		Score:           score,
		Passed:          score >= q.PassingScore, // boundary is inclusive
		PassingScore:    q.PassingScore,
		QuestionResults: results,
	}
}

// answersEqual compares a submitted answer with the correct one. Strings are
// lowercase-folded before comparison; everything else is an identity
// comparison on the decoded JSON value. There is deliberately no whitespace
// trimming and no coercion between numeric and string representations
// (0 != "0"): recorded attempts depend on this exact rule.
func answersEqual(user, correct any) bool {
	if us, ok := user.(string); ok {
		cs, ok := correct.(string)
		return ok && strings.ToLower(us) == strings.ToLower(cs)
	}

	switch uv := user.(type) {
	case float64:
		cv, ok := correct.(float64)
		return ok && uv == cv
	case int:
		cv, ok := correct.(int)
		return ok && uv == cv
	case bool:
		cv, ok := correct.(bool)
		return ok && uv == cv
	default:
		return false
	}
}
