// Package catalog decodes and encodes question catalog documents.
//
// A document maps category names to an ordered list of questions:
//
//	{"categories": {"Movies": {"questions": [
//	    {"question": "...", "image": "a.jpg", "points": 10, "options": ["A", "B"], "correct": "A"},
//	    {"question": "...", "points": 10, "answer": "..."}
//	]}}}
//
// Category order in the document is preserved.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"quiz-battle-service/internal/domain"
)

// Format selects the document syntax.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath guesses the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

type rawQuestion struct {
	Question string   `json:"question" yaml:"question"`
	Image    string   `json:"image,omitempty" yaml:"image,omitempty"`
	Points   int      `json:"points" yaml:"points"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
	Correct  *string  `json:"correct,omitempty" yaml:"correct,omitempty"`
	Answer   *string  `json:"answer,omitempty" yaml:"answer,omitempty"`
}

type rawCategory struct {
	Questions []rawQuestion `json:"questions" yaml:"questions"`
}

// Parse decodes and validates a catalog document.
func Parse(data []byte, format Format) (domain.Catalog, error) {
	switch format {
	case FormatYAML:
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a JSON document. Errors wrap domain.ErrMalformedCatalog.
func ParseJSON(data []byte) (domain.Catalog, error) {
	var doc struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	if len(doc.Categories) == 0 {
		return domain.Catalog{}, fmt.Errorf("%w: missing categories", domain.ErrMalformedCatalog)
	}

	// Walk the object token by token so document order survives.
	dec := json.NewDecoder(bytes.NewReader(doc.Categories))
	tok, err := dec.Token()
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return domain.Catalog{}, fmt.Errorf("%w: categories must be an object", domain.ErrMalformedCatalog)
	}

	var c domain.Catalog
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
		}
		name, _ := tok.(string)
		var raw rawCategory
		if err := dec.Decode(&raw); err != nil {
			return domain.Catalog{}, fmt.Errorf("%w: category %q: %v", domain.ErrMalformedCatalog, name, err)
		}
		cat, err := raw.toDomain(name)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Categories = append(c.Categories, cat)
	}
	if err := c.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// ParseYAML decodes a YAML document with the same shape as the JSON one.
func ParseYAML(data []byte) (domain.Catalog, error) {
	var doc struct {
		Categories yaml.Node `yaml:"categories"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return domain.Catalog{}, fmt.Errorf("%w: %v", domain.ErrMalformedCatalog, err)
	}
	if doc.Categories.Kind != yaml.MappingNode {
		return domain.Catalog{}, fmt.Errorf("%w: categories must be a mapping", domain.ErrMalformedCatalog)
	}

	var c domain.Catalog
	content := doc.Categories.Content
	for i := 0; i+1 < len(content); i += 2 {
		name := content[i].Value
		var raw rawCategory
		if err := content[i+1].Decode(&raw); err != nil {
			return domain.Catalog{}, fmt.Errorf("%w: category %q: %v", domain.ErrMalformedCatalog, name, err)
		}
		cat, err := raw.toDomain(name)
		if err != nil {
			return domain.Catalog{}, err
		}
		c.Categories = append(c.Categories, cat)
	}
	if err := c.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// Encode writes c as a JSON document, keeping category order.
func Encode(c domain.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"categories":{`)
	for i, cat := range c.Categories {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		raw := rawCategory{Questions: make([]rawQuestion, 0, len(cat.Questions))}
		for _, q := range cat.Questions {
			raw.Questions = append(raw.Questions, fromDomain(q))
		}
		value, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

func (r rawCategory) toDomain(name string) (domain.Category, error) {
	cat := domain.Category{Name: name, Questions: make([]domain.Question, 0, len(r.Questions))}
	for i, rq := range r.Questions {
		q, err := rq.toDomain()
		if err != nil {
			return domain.Category{}, fmt.Errorf("%w: category %q question %d: %v", domain.ErrMalformedCatalog, name, i+1, err)
		}
		cat.Questions = append(cat.Questions, q)
	}
	return cat, nil
}

// toDomain picks the grading variant. A question must carry exactly one of
// options/correct or answer.
func (r rawQuestion) toDomain() (domain.Question, error) {
	q := domain.Question{Text: r.Question, Image: r.Image, Points: r.Points}
	choice := len(r.Options) > 0 || r.Correct != nil
	reveal := r.Answer != nil
	switch {
	case choice && reveal:
		return domain.Question{}, fmt.Errorf("both options and answer given")
	case choice:
		if r.Correct == nil {
			return domain.Question{}, fmt.Errorf("options without correct")
		}
		q.Grading = domain.ChoiceGrading{Options: append([]string(nil), r.Options...), Correct: *r.Correct}
	case reveal:
		q.Grading = domain.RevealGrading{Answer: *r.Answer}
	default:
		return domain.Question{}, fmt.Errorf("neither options nor answer given")
	}
	return q, nil
}

func fromDomain(q domain.Question) rawQuestion {
	raw := rawQuestion{Question: q.Text, Image: q.Image, Points: q.Points}
	switch g := q.Grading.(type) {
	case domain.ChoiceGrading:
		correct := g.Correct
		raw.Options = append([]string(nil), g.Options...)
		raw.Correct = &correct
	case domain.RevealGrading:
		answer := g.Answer
		raw.Answer = &answer
	}
	return raw
}
