package game

import (
	"testing"

	"quiz-battle-service/internal/domain"
)

func TestTurnManagerToggleAndReset(t *testing.T) {
	tm := NewTurnManager()
	if tm.Current() != domain.Team1 {
		t.Fatalf("expected team 1 to start, got %d", tm.Current())
	}

	tm.Toggle()
	if tm.Current() != domain.Team2 {
		t.Fatalf("expected team 2 after toggle, got %d", tm.Current())
	}
	tm.Toggle()
	if tm.Current() != domain.Team1 {
		t.Fatalf("expected team 1 after second toggle, got %d", tm.Current())
	}

	tm.Toggle()
	tm.Reset()
	if tm.Current() != domain.Team1 {
		t.Fatalf("expected reset to team 1, got %d", tm.Current())
	}
}
