package game

import "quiz-battle-service/internal/domain"

// TurnManager tracks which team is up next. It only ever holds 1 or 2.
type TurnManager struct {
	current domain.TeamID
}

func NewTurnManager() *TurnManager {
	return &TurnManager{current: domain.Team1}
}

func (t *TurnManager) Current() domain.TeamID {
	return t.current
}

func (t *TurnManager) Toggle() {
	t.current = t.current.Other()
}

func (t *TurnManager) Reset() {
	t.current = domain.Team1
}
