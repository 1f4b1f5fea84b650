package domain

// TeamID indexes one of the two teams.
type TeamID int

const (
	Team1 TeamID = 1
	Team2 TeamID = 2
)

// Valid reports whether t is 1 or 2.
func (t TeamID) Valid() bool {
	return t == Team1 || t == Team2
}

// Other returns the opposing team.
func (t TeamID) Other() TeamID {
	if t == Team1 {
		return Team2
	}
	return Team1
}

// Team is a snapshot-friendly view of a team.
type Team struct {
	ID    TeamID `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Screen is one of the four macro-states of play.
type Screen string

const (
	ScreenSetup          Screen = "setup"
	ScreenCategorySelect Screen = "category"
	ScreenQuiz           Screen = "quiz"
	ScreenResults        Screen = "results"
)

// ActionType names a user action delivered to a game session.
type ActionType string

const (
	ActionStart          ActionType = "start"
	ActionSelectCategory ActionType = "selectCategory"
	ActionSelectOption   ActionType = "selectOption"
	ActionSubmit         ActionType = "submit"
	ActionReveal         ActionType = "reveal"
	ActionAward          ActionType = "award"
	ActionAdjust         ActionType = "adjust"
	ActionNext           ActionType = "next"
	ActionBack           ActionType = "back"
	ActionReset          ActionType = "reset"
)

// Action models a user input. Only the fields relevant to Type are read.
type Action struct {
	Type     ActionType `json:"type"`
	Team1    string     `json:"team1,omitempty"`
	Team2    string     `json:"team2,omitempty"`
	Category string     `json:"category,omitempty"`
	Option   string     `json:"option,omitempty"`
	Team     TeamID     `json:"team,omitempty"`
	Points   int        `json:"points,omitempty"`
	Delta    int        `json:"delta,omitempty"`
}

// EventKind names a semantic notification for the presentation layer.
type EventKind string

const (
	EventValidationFailed EventKind = "validationFailed"
	EventAnswerCorrect    EventKind = "answerCorrect"
	EventAnswerIncorrect  EventKind = "answerIncorrect"
	EventPointsAwarded    EventKind = "pointsAwarded"
	EventScoreAdjusted    EventKind = "scoreAdjusted"
	EventDataLoadFailed   EventKind = "dataLoadFailed"
)

// Event is emitted by the game core. It is never formatted or localized here.
type Event struct {
	Kind          EventKind `json:"kind"`
	Reason        string    `json:"reason,omitempty"`
	Team          TeamID    `json:"team,omitempty"`
	Points        int       `json:"points,omitempty"`
	Score         int       `json:"score,omitempty"`
	CorrectAnswer string    `json:"correctAnswer,omitempty"`
}

func ValidationFailed(reason string) Event {
	return Event{Kind: EventValidationFailed, Reason: reason}
}

func AnswerCorrect(team TeamID, points int) Event {
	return Event{Kind: EventAnswerCorrect, Team: team, Points: points}
}

func AnswerIncorrect(correctAnswer string) Event {
	return Event{Kind: EventAnswerIncorrect, CorrectAnswer: correctAnswer}
}

func PointsAwarded(team TeamID, points int) Event {
	return Event{Kind: EventPointsAwarded, Team: team, Points: points}
}

// ScoreAdjusted carries the applied delta in Points and the resulting total in Score.
func ScoreAdjusted(team TeamID, delta, score int) Event {
	return Event{Kind: EventScoreAdjusted, Team: team, Points: delta, Score: score}
}

func DataLoadFailed() Event {
	return Event{Kind: EventDataLoadFailed}
}

// CategorySummary lists a category on the selection screen.
type CategorySummary struct {
	Name        string `json:"name"`
	Questions   int    `json:"questions"`
	TotalPoints int    `json:"totalPoints"`
}

// QuestionView is the renderable part of the current question.
// Answer and Correct stay empty until the question is revealed.
type QuestionView struct {
	Index    int         `json:"index"`
	Total    int         `json:"total"`
	Last     bool        `json:"last"`
	Text     string      `json:"text"`
	Image    string      `json:"image,omitempty"`
	Points   int         `json:"points"`
	Mode     GradingMode `json:"mode"`
	Options  []string    `json:"options,omitempty"`
	Selected *string     `json:"selected,omitempty"`
	Revealed bool        `json:"revealed"`
	Answer   string      `json:"answer,omitempty"`
	Correct  *bool       `json:"correct,omitempty"`
}

// Outcome is the result of a finished round.
type Outcome struct {
	Tie    bool   `json:"tie"`
	Winner TeamID `json:"winner,omitempty"`
	Text   string `json:"text"`
}

// Snapshot is an immutable copy of the game state for rendering.
type Snapshot struct {
	Screen      Screen            `json:"screen"`
	Loaded      bool              `json:"loaded"`
	Teams       [2]Team           `json:"teams"`
	CurrentTeam TeamID            `json:"currentTeam"`
	Categories  []CategorySummary `json:"categories,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Question    *QuestionView     `json:"question,omitempty"`
	Outcome     *Outcome          `json:"outcome,omitempty"`
}

// Team returns the team record for id.
func (s Snapshot) Team(id TeamID) Team {
	if id == Team2 {
		return s.Teams[1]
	}
	return s.Teams[0]
}

// Update is pushed to session subscribers after each processed action.
type Update struct {
	SessionID string   `json:"sessionId"`
	Snapshot  Snapshot `json:"snapshot"`
	Events    []Event  `json:"events,omitempty"`
}
