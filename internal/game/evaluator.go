package game

import (
	"fmt"

	"quiz-battle-service/internal/domain"
)

// AnswerEvaluator grades one question. Implementations form a closed set
// chosen by the question's grading payload.
type AnswerEvaluator interface {
	Mode() domain.GradingMode
	// Reveal returns the text shown once the answer is exposed.
	Reveal() string
}

// Verdict is the outcome of an auto-graded submission.
type Verdict struct {
	Correct       bool
	CorrectOption string
	Points        int // points earned, 0 when incorrect
}

// ChoiceEvaluator compares a selection to the stored correct option.
type ChoiceEvaluator struct {
	grading domain.ChoiceGrading
	points  int
}

func (e ChoiceEvaluator) Mode() domain.GradingMode { return domain.ModeChoice }

func (e ChoiceEvaluator) Reveal() string { return e.grading.Correct }

// Evaluate rejects empty or unlisted selections.
func (e ChoiceEvaluator) Evaluate(selection string) (Verdict, error) {
	if selection == "" {
		return Verdict{}, domain.ErrNoAnswerSelected
	}
	if !e.grading.HasOption(selection) {
		return Verdict{}, domain.ErrInvalidOption
	}
	v := Verdict{
		Correct:       selection == e.grading.Correct,
		CorrectOption: e.grading.Correct,
	}
	if v.Correct {
		v.Points = e.points
	}
	return v, nil
}

// ManualEvaluator only exposes the expected answer. Scoring is an explicit
// award decided outside the game.
type ManualEvaluator struct {
	grading domain.RevealGrading
}

func (e ManualEvaluator) Mode() domain.GradingMode { return domain.ModeReveal }

func (e ManualEvaluator) Reveal() string { return e.grading.Answer }

// EvaluatorFor dispatches on the question's grading payload.
func EvaluatorFor(q domain.Question) (AnswerEvaluator, error) {
	switch g := q.Grading.(type) {
	case domain.ChoiceGrading:
		return ChoiceEvaluator{grading: g, points: q.Points}, nil
	case domain.RevealGrading:
		return ManualEvaluator{grading: g}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported grading %T", domain.ErrMalformedCatalog, q.Grading)
	}
}
