package game_test

import (
	"context"
	"errors"
	"testing"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

type recorder struct {
	events []domain.Event
}

func (r *recorder) Notify(e domain.Event) {
	r.events = append(r.events, e)
}

func (r *recorder) last() domain.Event {
	if len(r.events) == 0 {
		return domain.Event{}
	}
	return r.events[len(r.events)-1]
}

func sampleCatalog() domain.Catalog {
	return domain.Catalog{
		Categories: []domain.Category{
			{
				Name: "Geography",
				Questions: []domain.Question{
					{Text: "Capital of France?", Points: 10, Grading: domain.ChoiceGrading{Options: []string{"Paris", "Rome", "Oslo"}, Correct: "Paris"}},
					{Text: "Longest river?", Points: 20, Grading: domain.ChoiceGrading{Options: []string{"Nile", "Rhine"}, Correct: "Nile"}},
					{Text: "Highest peak?", Image: "everest.jpg", Points: 30, Grading: domain.ChoiceGrading{Options: []string{"K2", "Everest"}, Correct: "Everest"}},
				},
			},
			{
				Name: "Open",
				Questions: []domain.Question{
					{Text: "Name a prime above 10", Points: 10, Grading: domain.RevealGrading{Answer: "11, 13, 17 ..."}},
					{Text: "Who painted Guernica?", Points: 15, Grading: domain.RevealGrading{Answer: "Picasso"}},
				},
			},
		},
	}
}

func fetchSample(context.Context, string) (domain.Catalog, error) {
	return sampleCatalog(), nil
}

func newMachine(t *testing.T) (*game.Machine, *recorder) {
	t.Helper()
	rec := &recorder{}
	m := game.NewMachine(rec)
	if err := m.Load(context.Background(), "sample", fetchSample); err != nil {
		t.Fatalf("load: %v", err)
	}
	return m, rec
}

func startedMachine(t *testing.T) (*game.Machine, *recorder) {
	t.Helper()
	m, rec := newMachine(t)
	if err := m.StartGame("Owls", "Foxes"); err != nil {
		t.Fatalf("start: %v", err)
	}
	return m, rec
}

func TestStartGameValidatesNames(t *testing.T) {
	cases := []struct {
		name    string
		a, b    string
		wantErr bool
	}{
		{name: "both named", a: "Owls", b: "Foxes"},
		{name: "names trimmed", a: "  Owls ", b: "\tFoxes\n"},
		{name: "first empty", a: "", b: "Foxes", wantErr: true},
		{name: "second whitespace", a: "Owls", b: "   ", wantErr: true},
		{name: "both empty", a: "", b: "", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, rec := newMachine(t)
			err := m.StartGame(tc.a, tc.b)
			snap := m.Snapshot()
			if tc.wantErr {
				if !errors.Is(err, domain.ErrMissingTeamName) {
					t.Fatalf("expected missing team name, got %v", err)
				}
				if snap.Screen != domain.ScreenSetup {
					t.Fatalf("expected setup screen, got %s", snap.Screen)
				}
				if rec.last().Kind != domain.EventValidationFailed || rec.last().Reason != "missing team name" {
					t.Fatalf("expected validation event, got %+v", rec.last())
				}
				return
			}
			if err != nil {
				t.Fatalf("start: %v", err)
			}
			if snap.Screen != domain.ScreenCategorySelect {
				t.Fatalf("expected category screen, got %s", snap.Screen)
			}
			if snap.Teams[0].Name != "Owls" || snap.Teams[1].Name != "Foxes" {
				t.Fatalf("expected trimmed names, got %+v", snap.Teams)
			}
		})
	}
}

func TestActionsRejectedUntilLoaded(t *testing.T) {
	rec := &recorder{}
	m := game.NewMachine(rec)

	if err := m.StartGame("Owls", "Foxes"); !errors.Is(err, domain.ErrCatalogNotLoaded) {
		t.Fatalf("expected catalog not loaded, got %v", err)
	}
	if m.Snapshot().Loaded {
		t.Fatalf("expected unloaded snapshot")
	}

	fetchErr := errors.New("connection refused")
	err := m.Load(context.Background(), "remote", func(context.Context, string) (domain.Catalog, error) {
		return domain.Catalog{}, fetchErr
	})
	var loadErr *domain.DataLoadError
	if !errors.As(err, &loadErr) || !errors.Is(err, fetchErr) || loadErr.CatalogID != "remote" {
		t.Fatalf("expected data load error wrapping fetch error, got %v", err)
	}
	if rec.last().Kind != domain.EventDataLoadFailed {
		t.Fatalf("expected dataLoadFailed event, got %+v", rec.last())
	}
	if m.Loaded() {
		t.Fatalf("failed load must leave machine unloaded")
	}
}

func TestLoadRejectsMalformedCatalog(t *testing.T) {
	m := game.NewMachine(nil)
	err := m.Load(context.Background(), "broken", func(context.Context, string) (domain.Catalog, error) {
		return domain.Catalog{Categories: []domain.Category{{Name: "Empty"}}}, nil
	})
	if !errors.Is(err, domain.ErrMalformedCatalog) {
		t.Fatalf("expected malformed catalog, got %v", err)
	}
}

func TestLoadIsOneShot(t *testing.T) {
	m, _ := newMachine(t)
	err := m.Load(context.Background(), "sample", fetchSample)
	if !errors.Is(err, domain.ErrCatalogAlreadyLoaded) {
		t.Fatalf("expected already loaded, got %v", err)
	}
}

func TestSelectCategoryResetsCursor(t *testing.T) {
	m, _ := startedMachine(t)

	if err := m.SelectCategory("Nope"); !errors.Is(err, domain.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
	if m.Snapshot().Screen != domain.ScreenCategorySelect {
		t.Fatalf("invalid category must not change screen")
	}

	if err := m.SelectCategory("Geography"); err != nil {
		t.Fatalf("select: %v", err)
	}
	answerCurrent(t, m, "Paris")
	if err := m.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if err := m.SelectOption("Nile"); err != nil {
		t.Fatalf("select option: %v", err)
	}
	if _, err := m.ResolveAnswer(); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if err := m.SelectCategory("Geography"); err != nil {
		t.Fatalf("reselect: %v", err)
	}
	q := m.Snapshot().Question
	if q == nil || q.Index != 0 || q.Revealed || q.Selected != nil {
		t.Fatalf("expected fresh first question, got %+v", q)
	}
}

func TestAutoModeScoring(t *testing.T) {
	m, rec := startedMachine(t)
	if err := m.SelectCategory("Geography"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if _, err := m.ResolveAnswer(); !errors.Is(err, domain.ErrNoAnswerSelected) {
		t.Fatalf("expected no answer selected, got %v", err)
	}
	if err := m.SelectOption("Berlin"); !errors.Is(err, domain.ErrInvalidOption) {
		t.Fatalf("expected invalid option, got %v", err)
	}

	v := answerCurrent(t, m, "Paris")
	if !v.Correct {
		t.Fatalf("expected correct verdict")
	}
	snap := m.Snapshot()
	if snap.Teams[0].Score != 10 || snap.Teams[1].Score != 0 {
		t.Fatalf("expected 10 points for team 1, got %+v", snap.Teams)
	}
	if got := rec.last(); got.Kind != domain.EventAnswerCorrect || got.Team != domain.Team1 || got.Points != 10 {
		t.Fatalf("expected answerCorrect event, got %+v", got)
	}
	if snap.Question.Answer != "Paris" || snap.Question.Correct == nil || !*snap.Question.Correct {
		t.Fatalf("expected revealed correct answer, got %+v", snap.Question)
	}

	if _, err := m.ResolveAnswer(); !errors.Is(err, domain.ErrAlreadyRevealed) {
		t.Fatalf("expected already revealed, got %v", err)
	}
	if m.Snapshot().Teams[0].Score != 10 {
		t.Fatalf("double submit must not score twice")
	}

	if err := m.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if m.Snapshot().CurrentTeam != domain.Team2 {
		t.Fatalf("expected team 2 after next")
	}

	v = answerCurrent(t, m, "Rhine")
	if v.Correct {
		t.Fatalf("expected incorrect verdict")
	}
	snap = m.Snapshot()
	if snap.Teams[1].Score != 0 {
		t.Fatalf("wrong answer must award 0, got %d", snap.Teams[1].Score)
	}
	if got := rec.last(); got.Kind != domain.EventAnswerIncorrect || got.CorrectAnswer != "Nile" {
		t.Fatalf("expected answerIncorrect with correct answer, got %+v", got)
	}
	if snap.Question.Answer != "Nile" {
		t.Fatalf("expected correct option surfaced, got %q", snap.Question.Answer)
	}

	if err := m.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if m.Snapshot().CurrentTeam != domain.Team1 {
		t.Fatalf("turn must toggle regardless of outcome")
	}
}

func TestAutoModeRejectsManualActions(t *testing.T) {
	m, _ := startedMachine(t)
	_ = m.SelectCategory("Geography")

	if _, err := m.RevealAnswer(); !errors.Is(err, domain.ErrWrongMode) {
		t.Fatalf("expected wrong mode for reveal, got %v", err)
	}
	answerCurrent(t, m, "Paris")
	if err := m.Award(domain.Team2, 10); !errors.Is(err, domain.ErrWrongMode) {
		t.Fatalf("expected wrong mode for award, got %v", err)
	}
}

func TestNextQuestionRequiresReveal(t *testing.T) {
	m, _ := startedMachine(t)
	_ = m.SelectCategory("Geography")

	if err := m.NextQuestion(); !errors.Is(err, domain.ErrNotRevealed) {
		t.Fatalf("expected not revealed, got %v", err)
	}
	if q := m.Snapshot().Question; q.Index != 0 {
		t.Fatalf("index must not move, got %d", q.Index)
	}
}

func TestManualModeAwardAndAdjust(t *testing.T) {
	m, rec := startedMachine(t)
	if err := m.SelectCategory("Open"); err != nil {
		t.Fatalf("select: %v", err)
	}

	if err := m.Award(domain.Team1, 10); !errors.Is(err, domain.ErrNotRevealed) {
		t.Fatalf("expected not revealed, got %v", err)
	}
	if err := m.SelectOption("x"); !errors.Is(err, domain.ErrWrongMode) {
		t.Fatalf("expected wrong mode, got %v", err)
	}

	answer, err := m.RevealAnswer()
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if answer != "11, 13, 17 ..." || m.Snapshot().Question.Answer != answer {
		t.Fatalf("expected revealed answer, got %q", answer)
	}

	// Either team may be awarded, whoever's turn it is.
	if err := m.Award(domain.Team2, 10); err != nil {
		t.Fatalf("award: %v", err)
	}
	if got := rec.last(); got.Kind != domain.EventPointsAwarded || got.Team != domain.Team2 || got.Points != 10 {
		t.Fatalf("expected pointsAwarded event, got %+v", got)
	}
	if err := m.Award(domain.TeamID(3), 10); !errors.Is(err, domain.ErrInvalidTeam) {
		t.Fatalf("expected invalid team, got %v", err)
	}
	if err := m.Award(domain.Team1, -1); !errors.Is(err, domain.ErrInvalidPoints) {
		t.Fatalf("expected invalid points, got %v", err)
	}

	if err := m.Award(domain.Team1, 3); err != nil {
		t.Fatalf("award: %v", err)
	}
	score, err := m.Adjust(domain.Team1, -5)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if score != 0 {
		t.Fatalf("expected clamp to 0, got %d", score)
	}
	if got := rec.last(); got.Kind != domain.EventScoreAdjusted || got.Score != 0 || got.Points != -5 {
		t.Fatalf("expected scoreAdjusted event, got %+v", got)
	}

	snap := m.Snapshot()
	if snap.Teams[0].Score != 0 || snap.Teams[1].Score != 10 {
		t.Fatalf("unexpected scores %+v", snap.Teams)
	}
	if snap.CurrentTeam != domain.Team1 {
		t.Fatalf("awards must not move the turn")
	}

	if err := m.NextQuestion(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if m.Snapshot().CurrentTeam != domain.Team2 {
		t.Fatalf("turn toggles on progression in manual mode too")
	}
}

func TestAdjustNotAvailableInSetup(t *testing.T) {
	m, _ := newMachine(t)
	if _, err := m.Adjust(domain.Team1, 1); !errors.Is(err, domain.ErrWrongScreen) {
		t.Fatalf("expected wrong screen, got %v", err)
	}
}

func TestBackToCategoriesKeepsScoresAndTurn(t *testing.T) {
	m, _ := startedMachine(t)
	_ = m.SelectCategory("Geography")
	answerCurrent(t, m, "Paris")
	_ = m.NextQuestion()

	if err := m.BackToCategories(); err != nil {
		t.Fatalf("back: %v", err)
	}
	snap := m.Snapshot()
	if snap.Screen != domain.ScreenCategorySelect {
		t.Fatalf("expected category screen, got %s", snap.Screen)
	}
	if snap.Teams[0].Score != 10 || snap.CurrentTeam != domain.Team2 {
		t.Fatalf("expected scores and turn preserved, got %+v", snap)
	}
	if snap.Question != nil {
		t.Fatalf("no question view outside quiz")
	}
	if err := m.BackToCategories(); !errors.Is(err, domain.ErrWrongScreen) {
		t.Fatalf("expected wrong screen, got %v", err)
	}
}

func TestRoundTripReachesResultsAfterNQuestions(t *testing.T) {
	m, _ := startedMachine(t)
	_ = m.SelectCategory("Geography")

	answers := []string{"Paris", "Nile", "K2"}
	nexts := 0
	for i, answer := range answers {
		if m.Snapshot().Screen != domain.ScreenQuiz {
			t.Fatalf("left quiz early after %d questions", i)
		}
		answerCurrent(t, m, answer)
		if err := m.NextQuestion(); err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		nexts++
	}
	snap := m.Snapshot()
	if snap.Screen != domain.ScreenResults || nexts != len(answers) {
		t.Fatalf("expected results after %d nexts, got %s", len(answers), snap.Screen)
	}
	// Team 1 answered Q1 and Q3, team 2 answered Q2.
	if snap.Teams[0].Score != 10 || snap.Teams[1].Score != 20 {
		t.Fatalf("unexpected scores %+v", snap.Teams)
	}
	if snap.Outcome == nil || snap.Outcome.Winner != domain.Team2 || snap.Outcome.Text != "Foxes Wins!" {
		t.Fatalf("unexpected outcome %+v", snap.Outcome)
	}
	if err := m.NextQuestion(); !errors.Is(err, domain.ErrWrongScreen) {
		t.Fatalf("expected wrong screen on results, got %v", err)
	}
}

func TestResultsOutcomeText(t *testing.T) {
	cases := []struct {
		name   string
		a, b   int
		winner domain.TeamID
		tie    bool
		text   string
	}{
		{name: "team one wins", a: 30, b: 20, winner: domain.Team1, text: "Owls Wins!"},
		{name: "team two wins", a: 20, b: 30, winner: domain.Team2, text: "Foxes Wins!"},
		{name: "tie", a: 20, b: 20, tie: true, text: "It's a Tie!"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := startedMachine(t)
			_, _ = m.Adjust(domain.Team1, tc.a)
			_, _ = m.Adjust(domain.Team2, tc.b)
			finishCategory(t, m, "Open")

			o := m.Snapshot().Outcome
			if o == nil {
				t.Fatalf("expected outcome on results")
			}
			if o.Winner != tc.winner || o.Tie != tc.tie || o.Text != tc.text {
				t.Fatalf("expected %+v, got %+v", tc, o)
			}
		})
	}
}

func TestResetGameIsIdempotent(t *testing.T) {
	m, _ := startedMachine(t)
	_ = m.SelectCategory("Geography")
	answerCurrent(t, m, "Paris")
	_ = m.NextQuestion()

	for i := 0; i < 2; i++ {
		if err := m.Apply(domain.Action{Type: domain.ActionReset}); err != nil {
			t.Fatalf("reset: %v", err)
		}
		snap := m.Snapshot()
		if snap.Screen != domain.ScreenSetup || snap.CurrentTeam != domain.Team1 {
			t.Fatalf("unexpected reset state %+v", snap)
		}
		if snap.Teams[0].Score != 0 || snap.Teams[1].Score != 0 || snap.Teams[0].Name != "" {
			t.Fatalf("expected cleared teams, got %+v", snap.Teams)
		}
		if snap.Category != nil || snap.Question != nil {
			t.Fatalf("expected no selection, got %+v", snap)
		}
		if !snap.Loaded {
			t.Fatalf("reset must keep the catalog")
		}
	}
}

func TestApplyRoutesActions(t *testing.T) {
	m, rec := newMachine(t)
	steps := []domain.Action{
		{Type: domain.ActionStart, Team1: "Owls", Team2: "Foxes"},
		{Type: domain.ActionSelectCategory, Category: "Geography"},
		{Type: domain.ActionSubmit, Option: "Paris"},
		{Type: domain.ActionNext},
		{Type: domain.ActionBack},
		{Type: domain.ActionSelectCategory, Category: "Open"},
		{Type: domain.ActionReveal},
		{Type: domain.ActionAward, Team: domain.Team1, Points: 5},
		{Type: domain.ActionAdjust, Team: domain.Team1, Delta: -1},
	}
	for _, a := range steps {
		if err := m.Apply(a); err != nil {
			t.Fatalf("apply %s: %v", a.Type, err)
		}
	}
	if got := m.Snapshot().Teams[0].Score; got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}

	if err := m.Apply(domain.Action{Type: "dance"}); !errors.Is(err, domain.ErrUnknownAction) {
		t.Fatalf("expected unknown action, got %v", err)
	}
	if rec.last().Kind != domain.EventValidationFailed {
		t.Fatalf("expected validation event for unknown action")
	}
}

func answerCurrent(t *testing.T, m *game.Machine, option string) game.Verdict {
	t.Helper()
	if err := m.SelectOption(option); err != nil {
		t.Fatalf("select option %q: %v", option, err)
	}
	v, err := m.ResolveAnswer()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	return v
}

func finishCategory(t *testing.T, m *game.Machine, category string) {
	t.Helper()
	if err := m.SelectCategory(category); err != nil {
		t.Fatalf("select: %v", err)
	}
	for m.Snapshot().Screen == domain.ScreenQuiz {
		if _, err := m.RevealAnswer(); err != nil {
			t.Fatalf("reveal: %v", err)
		}
		if err := m.NextQuestion(); err != nil {
			t.Fatalf("next: %v", err)
		}
	}
}
