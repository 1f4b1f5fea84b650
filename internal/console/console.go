// Package console plays a full game in a terminal. It is a thin presentation
// layer: every decision is delegated to the game machine and its events are
// rendered as "! ..." lines.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"quiz-battle-service/internal/domain"
	"quiz-battle-service/internal/game"
)

type console struct {
	m   *game.Machine
	in  *bufio.Scanner
	out io.Writer
}

// Run loads catalogID through fetch and plays until the input ends or the
// players quit.
func Run(ctx context.Context, catalogID string, fetch game.CatalogFetcher, in io.Reader, out io.Writer) error {
	c := &console{in: bufio.NewScanner(in), out: out}
	c.m = game.NewMachine(game.NotifierFunc(c.printEvent))

	if err := c.m.Load(ctx, catalogID, fetch); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		snap := c.m.Snapshot()
		var done bool
		switch snap.Screen {
		case domain.ScreenSetup:
			done = c.setup()
		case domain.ScreenCategorySelect:
			done = c.categories(snap)
		case domain.ScreenQuiz:
			done = c.question(snap)
		case domain.ScreenResults:
			done = c.results(snap)
		}
		if done {
			return nil
		}
	}
}

func (c *console) setup() bool {
	fmt.Fprintln(c.out)
	team1, ok := c.prompt("Team 1 name: ")
	if !ok {
		return true
	}
	team2, ok := c.prompt("Team 2 name: ")
	if !ok {
		return true
	}
	_ = c.m.StartGame(team1, team2)
	return false
}

func (c *console) categories(snap domain.Snapshot) bool {
	fmt.Fprintln(c.out)
	fmt.Fprintln(c.out, scoreLine(snap))
	fmt.Fprintf(c.out, "%s, choose a category:\n", snap.Team(snap.CurrentTeam).Name)
	for i, cat := range snap.Categories {
		fmt.Fprintf(c.out, "%d. %s (%d questions, %d pts)\n", i+1, cat.Name, cat.Questions, cat.TotalPoints)
	}

	line, ok := c.prompt("> ")
	if !ok {
		return true
	}
	if handled, quit := c.common(line); handled {
		return quit
	}
	if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(snap.Categories) {
		line = snap.Categories[n-1].Name
	}
	_ = c.m.SelectCategory(line)
	return false
}

func (c *console) question(snap domain.Snapshot) bool {
	q := snap.Question
	if q == nil {
		_ = c.m.BackToCategories()
		return false
	}

	category := ""
	if snap.Category != nil {
		category = *snap.Category
	}
	fmt.Fprintln(c.out)
	fmt.Fprintf(c.out, "%s, question %d/%d for %d points (%s's turn)\n",
		category, q.Index+1, q.Total, q.Points, snap.Team(snap.CurrentTeam).Name)
	fmt.Fprintln(c.out, q.Text)
	if q.Image != "" {
		fmt.Fprintf(c.out, "[image: %s]\n", q.Image)
	}

	switch {
	case q.Mode == domain.ModeChoice && !q.Revealed:
		for i, opt := range q.Options {
			fmt.Fprintf(c.out, "%c. %s\n", 'A'+i, opt)
		}
		line, ok := c.prompt(fmt.Sprintf("Answer A-%c: ", 'A'+len(q.Options)-1))
		if !ok {
			return true
		}
		if option, ok := optionForLetter(q.Options, line); ok {
			line = option
		} else if handled, quit := c.common(line); handled {
			return quit
		}
		if err := c.m.SelectOption(line); err == nil {
			_, _ = c.m.ResolveAnswer()
		}
		return false

	case q.Mode == domain.ModeReveal && !q.Revealed:
		line, ok := c.prompt("[r]eveal, [c]ategories, [q]uit: ")
		if !ok {
			return true
		}
		if handled, quit := c.common(line); handled {
			return quit
		}
		if line == "r" || line == "reveal" {
			_, _ = c.m.RevealAnswer()
			return false
		}
		fmt.Fprintln(c.out, "! unknown command")
		return false
	}

	help := "[n]ext, [c]ategories, [q]uit: "
	if q.Mode == domain.ModeReveal {
		fmt.Fprintf(c.out, "Answer: %s\n", q.Answer)
		help = "[a]ward <team> <points>, " + help
	}
	line, ok := c.prompt(help)
	if !ok {
		return true
	}
	if handled, quit := c.common(line); handled {
		return quit
	}
	fields := strings.Fields(line)
	switch {
	case line == "n" || line == "next":
		_ = c.m.NextQuestion()
	case len(fields) == 3 && (fields[0] == "a" || fields[0] == "award"):
		team, errTeam := strconv.Atoi(fields[1])
		points, errPoints := strconv.Atoi(fields[2])
		if errTeam != nil || errPoints != nil {
			fmt.Fprintln(c.out, "! usage: a <team> <points>")
			return false
		}
		_ = c.m.Award(domain.TeamID(team), points)
	default:
		fmt.Fprintln(c.out, "! unknown command")
	}
	return false
}

func (c *console) results(snap domain.Snapshot) bool {
	fmt.Fprintln(c.out)
	if snap.Outcome != nil {
		fmt.Fprintln(c.out, snap.Outcome.Text)
	}
	fmt.Fprintln(c.out, scoreLine(snap))

	line, ok := c.prompt("[p]lay again, [q]uit: ")
	if !ok {
		return true
	}
	if handled, quit := c.common(line); handled {
		return quit
	}
	if line == "p" || line == "play" {
		c.m.ResetGame()
		return false
	}
	fmt.Fprintln(c.out, "! unknown command")
	return false
}

// common handles commands valid on every screen after setup.
func (c *console) common(line string) (handled, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, false
	}
	switch fields[0] {
	case "q", "quit":
		return true, true
	case "c", "back":
		_ = c.m.BackToCategories()
		return true, false
	case "adj", "adjust":
		if len(fields) != 3 {
			fmt.Fprintln(c.out, "! usage: adj <team> <delta>")
			return true, false
		}
		team, errTeam := strconv.Atoi(fields[1])
		delta, errDelta := strconv.Atoi(fields[2])
		if errTeam != nil || errDelta != nil {
			fmt.Fprintln(c.out, "! usage: adj <team> <delta>")
			return true, false
		}
		_, _ = c.m.Adjust(domain.TeamID(team), delta)
		return true, false
	}
	return false, false
}

func (c *console) prompt(label string) (string, bool) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.in.Text()), true
}

func (c *console) printEvent(e domain.Event) {
	name := func(id domain.TeamID) string {
		return c.m.Snapshot().Team(id).Name
	}
	switch e.Kind {
	case domain.EventValidationFailed:
		fmt.Fprintf(c.out, "! %s\n", e.Reason)
	case domain.EventAnswerCorrect:
		fmt.Fprintf(c.out, "! Correct! %d points to %s\n", e.Points, name(e.Team))
	case domain.EventAnswerIncorrect:
		fmt.Fprintf(c.out, "! Wrong. The correct answer was %s\n", e.CorrectAnswer)
	case domain.EventPointsAwarded:
		fmt.Fprintf(c.out, "! %d points to %s\n", e.Points, name(e.Team))
	case domain.EventScoreAdjusted:
		fmt.Fprintf(c.out, "! %s now has %d points (%+d)\n", name(e.Team), e.Score, e.Points)
	case domain.EventDataLoadFailed:
		fmt.Fprintln(c.out, "! Could not load questions")
	}
}

func optionForLetter(options []string, line string) (string, bool) {
	if len(line) != 1 {
		return "", false
	}
	idx := int(strings.ToUpper(line)[0]) - 'A'
	if idx < 0 || idx >= len(options) {
		return "", false
	}
	return options[idx], true
}

func scoreLine(snap domain.Snapshot) string {
	return fmt.Sprintf("%s %d : %d %s", snap.Teams[0].Name, snap.Teams[0].Score, snap.Teams[1].Score, snap.Teams[1].Name)
}
