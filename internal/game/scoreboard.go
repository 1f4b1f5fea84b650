package game

import (
	"math"

	"quiz-battle-service/internal/domain"
)

// ScoreBoard owns the cumulative score of both teams. Scores never go negative.
type ScoreBoard struct {
	scores [2]int
}

func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{}
}

// Award adds a non-negative number of points to team. Totals saturate at
// math.MaxInt instead of wrapping.
func (b *ScoreBoard) Award(team domain.TeamID, points int) error {
	if !team.Valid() {
		return domain.ErrInvalidTeam
	}
	if points < 0 {
		return domain.ErrInvalidPoints
	}
	b.scores[team-1] = saturatingAdd(b.scores[team-1], points)
	return nil
}

// Adjust applies delta and clamps the result at zero. It returns the new score.
func (b *ScoreBoard) Adjust(team domain.TeamID, delta int) (int, error) {
	if !team.Valid() {
		return 0, domain.ErrInvalidTeam
	}
	score := saturatingAdd(b.scores[team-1], delta)
	if score < 0 {
		score = 0
	}
	b.scores[team-1] = score
	return score, nil
}

// Score returns the running total for team, or 0 for an invalid index.
func (b *ScoreBoard) Score(team domain.TeamID) int {
	if !team.Valid() {
		return 0
	}
	return b.scores[team-1]
}

// Leader returns the team with the strictly higher score; tie is true when equal.
func (b *ScoreBoard) Leader() (leader domain.TeamID, tie bool) {
	switch {
	case b.scores[0] > b.scores[1]:
		return domain.Team1, false
	case b.scores[1] > b.scores[0]:
		return domain.Team2, false
	default:
		return 0, true
	}
}

func (b *ScoreBoard) Reset() {
	b.scores = [2]int{}
}

// saturatingAdd adds delta to a non-negative score, pinning at math.MaxInt.
func saturatingAdd(score, delta int) int {
	if delta > 0 && score > math.MaxInt-delta {
		return math.MaxInt
	}
	return score + delta
}
