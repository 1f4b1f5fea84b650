package domain

import "fmt"

// GradingMode names the scoring discipline of a question.
type GradingMode string

const (
	// ModeChoice questions are auto-graded against a stored correct option.
	ModeChoice GradingMode = "choice"
	// ModeReveal questions only expose an answer; a moderator awards points.
	ModeReveal GradingMode = "reveal"
)

// Grading is the closed set of grading payloads a question can carry.
type Grading interface {
	Mode() GradingMode
	grading()
}

// ChoiceGrading is the auto-graded payload.
type ChoiceGrading struct {
	Options []string
	Correct string
}

func (ChoiceGrading) Mode() GradingMode { return ModeChoice }
func (ChoiceGrading) grading()          {}

// HasOption reports whether option is one of the listed options.
func (g ChoiceGrading) HasOption(option string) bool {
	for _, o := range g.Options {
		if o == option {
			return true
		}
	}
	return false
}

// RevealGrading is the manual-award payload.
type RevealGrading struct {
	Answer string
}

func (RevealGrading) Mode() GradingMode { return ModeReveal }
func (RevealGrading) grading()          {}

// Question is immutable once loaded.
type Question struct {
	Text    string
	Image   string // optional, resolved by the presentation layer
	Points  int
	Grading Grading
}

// Category is a named, ordered group of questions.
type Category struct {
	Name      string
	Questions []Question
}

// Catalog holds categories in document order. Names are unique keys.
type Catalog struct {
	Categories []Category
}

// Category looks up a category by name.
func (c Catalog) Category(name string) (Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return Category{}, false
}

// Names returns the category keys in document order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.Categories))
	for _, cat := range c.Categories {
		names = append(names, cat.Name)
	}
	return names
}

// Validate checks the structural rules every playable catalog must satisfy.
// Failures wrap ErrMalformedCatalog.
func (c Catalog) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories", ErrMalformedCatalog)
	}
	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: empty category name", ErrMalformedCatalog)
		}
		if _, dup := seen[cat.Name]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrMalformedCatalog, cat.Name)
		}
		seen[cat.Name] = struct{}{}
		if len(cat.Questions) == 0 {
			return fmt.Errorf("%w: category %q has no questions", ErrMalformedCatalog, cat.Name)
		}
		for i, q := range cat.Questions {
			if err := q.validate(); err != nil {
				return fmt.Errorf("%w: category %q question %d: %v", ErrMalformedCatalog, cat.Name, i+1, err)
			}
		}
	}
	return nil
}

func (q Question) validate() error {
	if q.Text == "" {
		return fmt.Errorf("empty question text")
	}
	if q.Points <= 0 {
		return fmt.Errorf("points must be positive, got %d", q.Points)
	}
	switch g := q.Grading.(type) {
	case ChoiceGrading:
		if len(g.Options) == 0 {
			return fmt.Errorf("no options")
		}
		seen := make(map[string]struct{}, len(g.Options))
		for _, o := range g.Options {
			if o == "" {
				return fmt.Errorf("empty option")
			}
			if _, dup := seen[o]; dup {
				return fmt.Errorf("duplicate option %q", o)
			}
			seen[o] = struct{}{}
		}
		if !g.HasOption(g.Correct) {
			return fmt.Errorf("correct option %q is not listed", g.Correct)
		}
	case RevealGrading:
		if g.Answer == "" {
			return fmt.Errorf("empty answer")
		}
	case nil:
		return fmt.Errorf("missing grading payload")
	default:
		return fmt.Errorf("unsupported grading %T", g)
	}
	return nil
}
