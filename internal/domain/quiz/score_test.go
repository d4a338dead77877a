package quiz_test

import (
	"testing"

	"github.com/onboards-me/backend/internal/domain/quiz"
)

func twoQuestionQuiz() *quiz.Quiz {
	return &quiz.Quiz{
		ID:           "quiz-1",
		CourseID:     "course-1",
		PassingScore: 50,
		Questions: []quiz.Question{
			{
				ID:            "q1",
				Type:          quiz.QuestionTypeSingleChoice,
				Question:      "Which keyword starts a goroutine?",
				Options:       []string{"go", "run", "spawn"},
				CorrectAnswer: float64(0),
				Points:        10,
			},
			{
				ID:            "q2",
				Type:          quiz.QuestionTypeTrueFalse,
				Question:      "Channels are typed.",
				CorrectAnswer: "true",
				Points:        10,
			},
		},
	}
}

func TestScore_HalfCorrectPassesOnBoundary(t *testing.T) {
	q := twoQuestionQuiz()

	result := quiz.Score(q, map[string]any{
		"q1": float64(0),
		"q2": "false",
	})

	if result.Score != 50 {
		t.Errorf("expected score 50, got %d", result.Score)
	}
	if !result.Passed {
		t.Error("expected a score exactly at the passing threshold to pass")
	}
	if result.CorrectAnswers != 1 || result.WrongAnswers != 1 {
		t.Errorf("expected 1 correct / 1 wrong, got %d / %d", result.CorrectAnswers, result.WrongAnswers)
	}
}

func TestScore_AllWrong(t *testing.T) {
	q := twoQuestionQuiz()

	result := quiz.Score(q, map[string]any{
		"q1": float64(2),
		"q2": "false",
	})

	if result.Score != 0 {
		t.Errorf("expected score 0, got %d", result.Score)
	}
	if result.Passed {
		t.Error("expected a zero score to fail")
	}
}

func TestScore_StringComparisonIsCaseInsensitive(t *testing.T) {
	q := twoQuestionQuiz()

	result := quiz.Score(q, map[string]any{"q2": "TRUE"})

	if !result.QuestionResults[1].IsCorrect {
		t.Error("expected case-insensitive match for string answers")
	}
}

func TestScore_NoCoercionBetweenStringAndNumber(t *testing.T) {
	q := twoQuestionQuiz()

	// "0" as a string must not match the numeric index 0.
	result := quiz.Score(q, map[string]any{"q1": "0"})

	if result.QuestionResults[0].IsCorrect {
		t.Error(`expected "0" to not match numeric answer 0`)
	}
}

func TestScore_NoWhitespaceTrimming(t *testing.T) {
	q := twoQuestionQuiz()

	result := quiz.Score(q, map[string]any{"q2": " true"})

	if result.QuestionResults[1].IsCorrect {
		t.Error("expected untrimmed answer to stay wrong")
	}
}

func TestScore_MissingAnswersAreWrong(t *testing.T) {
	q := twoQuestionQuiz()

	result := quiz.Score(q, map[string]any{})

	if result.Score != 0 {
		t.Errorf("expected score 0 for no answers, got %d", result.Score)
	}
	if result.TotalQuestions != 2 || result.WrongAnswers != 2 {
		t.Errorf("expected every question counted as wrong, got %+v", result)
	}
}

func TestScore_ZeroTotalPoints(t *testing.T) {
	q := &quiz.Quiz{
		ID:           "quiz-zero",
		PassingScore: 50,
		Questions: []quiz.Question{
			{ID: "q1", CorrectAnswer: "true", Points: 0},
		},
	}

	result := quiz.Score(q, map[string]any{"q1": "true"})

	if result.Score != 0 {
		t.Errorf("expected zero-weight quiz to score 0, got %d", result.Score)
	}
	if result.Passed {
		t.Error("expected zero-weight quiz to fail a 50%% threshold")
	}
}

func TestScore_IsReproducible(t *testing.T) {
	q := twoQuestionQuiz()
	answers := map[string]any{"q1": float64(0), "q2": "true"}

	first := quiz.Score(q, answers)
	second := quiz.Score(q, answers)

	if first.Score != second.Score || first.Passed != second.Passed {
		t.Errorf("expected identical results on recompute, got %+v vs %+v", first, second)
	}
}

func TestScore_PerQuestionBreakdown(t *testing.T) {
	q := twoQuestionQuiz()

	result := quiz.Score(q, map[string]any{"q1": float64(0)})

	if len(result.QuestionResults) != 2 {
		t.Fatalf("expected 2 question results, got %d", len(result.QuestionResults))
	}

	first := result.QuestionResults[0]
	if !first.IsCorrect || first.EarnedPoints != 10 {
		t.Errorf("expected q1 correct for 10 points, got %+v", first)
	}

	second := result.QuestionResults[1]
	if second.IsCorrect || second.EarnedPoints != 0 {
		t.Errorf("expected q2 wrong for 0 points, got %+v", second)
	}
	if second.UserAnswer != nil {
		t.Errorf("expected nil user answer for unanswered question, got %v", second.UserAnswer)
	}
}
