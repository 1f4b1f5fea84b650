// Package game is the turn-based trivia state machine. It performs no I/O:
// callers feed it actions one at a time and render the snapshots and events
// it produces.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"quiz-battle-service/internal/domain"
)

// Notifier receives the semantic events emitted while processing an action.
type Notifier interface {
	Notify(domain.Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(domain.Event)

func (f NotifierFunc) Notify(e domain.Event) { f(e) }

// CatalogFetcher resolves a question catalog by ID. A catalog loader's
// LoadCatalog method satisfies it.
type CatalogFetcher func(ctx context.Context, catalogID string) (domain.Catalog, error)

// Machine owns the screen, the question cursor and the per-round components.
// It is not safe for concurrent use; callers serialise actions.
type Machine struct {
	notify  Notifier
	catalog *domain.Catalog

	screen domain.Screen
	names  [2]string
	board  *ScoreBoard
	turn   *TurnManager

	category *domain.Category
	index    int
	revealed bool
	pending  *string
	verdict  *Verdict
}

// NewMachine returns a machine on the Setup screen waiting for its catalog.
func NewMachine(notify Notifier) *Machine {
	if notify == nil {
		notify = NotifierFunc(func(domain.Event) {})
	}
	return &Machine{
		notify: notify,
		screen: domain.ScreenSetup,
		board:  NewScoreBoard(),
		turn:   NewTurnManager(),
	}
}

// Load awaits the catalog. On failure the machine stays unloaded, emits
// dataLoadFailed and returns a *domain.DataLoadError. Retrying is up to the caller.
func (m *Machine) Load(ctx context.Context, catalogID string, fetch CatalogFetcher) error {
	if m.catalog != nil {
		return domain.ErrCatalogAlreadyLoaded
	}
	c, err := fetch(ctx, catalogID)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		m.notify.Notify(domain.DataLoadFailed())
		var loadErr *domain.DataLoadError
		if errors.As(err, &loadErr) {
			return err
		}
		return &domain.DataLoadError{CatalogID: catalogID, Err: err}
	}
	m.catalog = &c
	return nil
}

// Loaded reports whether the catalog is available.
func (m *Machine) Loaded() bool {
	return m.catalog != nil
}

// Apply routes an action to the matching transition.
func (m *Machine) Apply(a domain.Action) error {
	switch a.Type {
	case domain.ActionStart:
		return m.StartGame(a.Team1, a.Team2)
	case domain.ActionSelectCategory:
		return m.SelectCategory(a.Category)
	case domain.ActionSelectOption:
		return m.SelectOption(a.Option)
	case domain.ActionSubmit:
		if a.Option != "" {
			if err := m.SelectOption(a.Option); err != nil {
				return err
			}
		}
		_, err := m.ResolveAnswer()
		return err
	case domain.ActionReveal:
		_, err := m.RevealAnswer()
		return err
	case domain.ActionAward:
		return m.Award(a.Team, a.Points)
	case domain.ActionAdjust:
		_, err := m.Adjust(a.Team, a.Delta)
		return err
	case domain.ActionNext:
		return m.NextQuestion()
	case domain.ActionBack:
		return m.BackToCategories()
	case domain.ActionReset:
		m.ResetGame()
		return nil
	default:
		return m.reject(fmt.Errorf("%w: %q", domain.ErrUnknownAction, a.Type))
	}
}

// StartGame leaves Setup once both trimmed team names are non-empty.
func (m *Machine) StartGame(team1, team2 string) error {
	if err := m.require(domain.ScreenSetup); err != nil {
		return m.reject(err)
	}
	n1, n2 := strings.TrimSpace(team1), strings.TrimSpace(team2)
	if n1 == "" || n2 == "" {
		return m.reject(domain.ErrMissingTeamName)
	}
	m.names = [2]string{n1, n2}
	m.screen = domain.ScreenCategorySelect
	return nil
}

// SelectCategory (re)starts a category at its first question.
func (m *Machine) SelectCategory(key string) error {
	if err := m.require(domain.ScreenCategorySelect, domain.ScreenQuiz); err != nil {
		return m.reject(err)
	}
	cat, ok := m.catalog.Category(key)
	if !ok {
		return m.reject(domain.ErrInvalidCategory)
	}
	m.category = &cat
	m.index = 0
	m.clearQuestionState()
	m.screen = domain.ScreenQuiz
	return nil
}

// SelectOption records the pending choice for an auto-graded question.
func (m *Machine) SelectOption(option string) error {
	choice, err := m.choiceEvaluator()
	if err != nil {
		return m.reject(err)
	}
	if m.revealed {
		return m.reject(domain.ErrAlreadyRevealed)
	}
	if option == "" {
		return m.reject(domain.ErrNoAnswerSelected)
	}
	if !choice.grading.HasOption(option) {
		return m.reject(domain.ErrInvalidOption)
	}
	m.pending = &option
	return nil
}

// ResolveAnswer grades the pending selection and awards the current team on
// a correct answer. The correct option is surfaced either way.
func (m *Machine) ResolveAnswer() (Verdict, error) {
	choice, err := m.choiceEvaluator()
	if err != nil {
		return Verdict{}, m.reject(err)
	}
	if m.revealed {
		return Verdict{}, m.reject(domain.ErrAlreadyRevealed)
	}
	if m.pending == nil {
		return Verdict{}, m.reject(domain.ErrNoAnswerSelected)
	}
	v, err := choice.Evaluate(*m.pending)
	if err != nil {
		return Verdict{}, m.reject(err)
	}

	team := m.turn.Current()
	if v.Correct {
		if err := m.board.Award(team, v.Points); err != nil {
			return Verdict{}, m.reject(err)
		}
	}
	m.revealed = true
	m.verdict = &v
	if v.Correct {
		m.notify.Notify(domain.AnswerCorrect(team, v.Points))
	} else {
		m.notify.Notify(domain.AnswerIncorrect(v.CorrectOption))
	}
	return v, nil
}

// RevealAnswer exposes the answer of a manual-award question.
func (m *Machine) RevealAnswer() (string, error) {
	ev, err := m.evaluator()
	if err != nil {
		return "", m.reject(err)
	}
	manual, ok := ev.(ManualEvaluator)
	if !ok {
		return "", m.reject(domain.ErrWrongMode)
	}
	m.revealed = true
	return manual.Reveal(), nil
}

// Award gives points to any team once a manual question is revealed,
// regardless of whose turn it is.
func (m *Machine) Award(team domain.TeamID, points int) error {
	ev, err := m.evaluator()
	if err != nil {
		return m.reject(err)
	}
	if ev.Mode() != domain.ModeReveal {
		return m.reject(domain.ErrWrongMode)
	}
	if !m.revealed {
		return m.reject(domain.ErrNotRevealed)
	}
	if err := m.board.Award(team, points); err != nil {
		return m.reject(err)
	}
	m.notify.Notify(domain.PointsAwarded(team, points))
	return nil
}

// Adjust corrects a team's score by delta, clamping at zero.
func (m *Machine) Adjust(team domain.TeamID, delta int) (int, error) {
	if err := m.require(domain.ScreenCategorySelect, domain.ScreenQuiz, domain.ScreenResults); err != nil {
		return 0, m.reject(err)
	}
	score, err := m.board.Adjust(team, delta)
	if err != nil {
		return 0, m.reject(err)
	}
	m.notify.Notify(domain.ScoreAdjusted(team, delta, score))
	return score, nil
}

// NextQuestion advances within the category and passes the turn, or ends
// the round on the last question.
func (m *Machine) NextQuestion() error {
	if _, err := m.evaluator(); err != nil {
		return m.reject(err)
	}
	if !m.revealed {
		return m.reject(domain.ErrNotRevealed)
	}
	if m.index+1 < len(m.category.Questions) {
		m.index++
		m.clearQuestionState()
		m.turn.Toggle()
		return nil
	}
	m.clearQuestionState()
	m.screen = domain.ScreenResults
	return nil
}

// BackToCategories returns to category choice keeping scores and turn.
func (m *Machine) BackToCategories() error {
	if err := m.require(domain.ScreenQuiz); err != nil {
		return m.reject(err)
	}
	m.clearQuestionState()
	m.screen = domain.ScreenCategorySelect
	return nil
}

// ResetGame returns to Setup with cleared names and zeroed scores. The
// catalog, once loaded, is kept.
func (m *Machine) ResetGame() {
	m.screen = domain.ScreenSetup
	m.names = [2]string{}
	m.board.Reset()
	m.turn.Reset()
	m.category = nil
	m.index = 0
	m.clearQuestionState()
}

// Snapshot copies the renderable state.
func (m *Machine) Snapshot() domain.Snapshot {
	s := domain.Snapshot{
		Screen: m.screen,
		Loaded: m.catalog != nil,
		Teams: [2]domain.Team{
			{ID: domain.Team1, Name: m.names[0], Score: m.board.Score(domain.Team1)},
			{ID: domain.Team2, Name: m.names[1], Score: m.board.Score(domain.Team2)},
		},
		CurrentTeam: m.turn.Current(),
	}
	if m.catalog != nil {
		s.Categories = Summarize(*m.catalog)
	}
	if m.category != nil {
		name := m.category.Name
		s.Category = &name
	}
	if m.screen == domain.ScreenQuiz {
		if q, ok := m.currentQuestion(); ok {
			s.Question = m.questionView(q)
		}
	}
	if m.screen == domain.ScreenResults {
		o := m.outcome()
		s.Outcome = &o
	}
	return s
}

func (m *Machine) require(screens ...domain.Screen) error {
	if m.catalog == nil {
		return domain.ErrCatalogNotLoaded
	}
	for _, s := range screens {
		if m.screen == s {
			return nil
		}
	}
	return domain.ErrWrongScreen
}

func (m *Machine) reject(err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		m.notify.Notify(domain.ValidationFailed(verr.Reason))
	}
	return err
}

func (m *Machine) currentQuestion() (domain.Question, bool) {
	if m.category == nil || m.index < 0 || m.index >= len(m.category.Questions) {
		return domain.Question{}, false
	}
	return m.category.Questions[m.index], true
}

// evaluator resolves the strategy for the question on screen.
func (m *Machine) evaluator() (AnswerEvaluator, error) {
	if err := m.require(domain.ScreenQuiz); err != nil {
		return nil, err
	}
	q, ok := m.currentQuestion()
	if !ok {
		return nil, domain.ErrNoActiveQuestion
	}
	return EvaluatorFor(q)
}

func (m *Machine) choiceEvaluator() (ChoiceEvaluator, error) {
	ev, err := m.evaluator()
	if err != nil {
		return ChoiceEvaluator{}, err
	}
	choice, ok := ev.(ChoiceEvaluator)
	if !ok {
		return ChoiceEvaluator{}, domain.ErrWrongMode
	}
	return choice, nil
}

func (m *Machine) clearQuestionState() {
	m.revealed = false
	m.pending = nil
	m.verdict = nil
}

func (m *Machine) questionView(q domain.Question) *domain.QuestionView {
	view := &domain.QuestionView{
		Index:    m.index,
		Total:    len(m.category.Questions),
		Last:     m.index+1 == len(m.category.Questions),
		Text:     q.Text,
		Image:    q.Image,
		Points:   q.Points,
		Mode:     q.Grading.Mode(),
		Revealed: m.revealed,
	}
	if g, ok := q.Grading.(domain.ChoiceGrading); ok {
		view.Options = append([]string(nil), g.Options...)
	}
	if m.pending != nil {
		selected := *m.pending
		view.Selected = &selected
	}
	if m.revealed {
		if ev, err := EvaluatorFor(q); err == nil {
			view.Answer = ev.Reveal()
		}
		if m.verdict != nil {
			correct := m.verdict.Correct
			view.Correct = &correct
		}
	}
	return view
}

func (m *Machine) outcome() domain.Outcome {
	leader, tie := m.board.Leader()
	if tie {
		return domain.Outcome{Tie: true, Text: "It's a Tie!"}
	}
	return domain.Outcome{Winner: leader, Text: m.names[leader-1] + " Wins!"}
}

// Summarize lists the categories of c for the selection screen.
func Summarize(c domain.Catalog) []domain.CategorySummary {
	out := make([]domain.CategorySummary, 0, len(c.Categories))
	for _, cat := range c.Categories {
		total := 0
		for _, q := range cat.Questions {
			total += q.Points
		}
		out = append(out, domain.CategorySummary{
			Name:        cat.Name,
			Questions:   len(cat.Questions),
			TotalPoints: total,
		})
	}
	return out
}
