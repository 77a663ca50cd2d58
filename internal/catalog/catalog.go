// Package catalog provides the ordered questionnaire: the builtin questions,
// a YAML or JSON file, or a Notion database.
package catalog

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/model"
)

// Catalog is an ordered, immutable list of questions.
type Catalog struct {
	questions []model.Question
}

// New orders questions by ID and checks that IDs run 0..n-1.
func New(questions []model.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, eris.New("catalog: no questions")
	}
	qs := append([]model.Question(nil), questions...)
	sort.SliceStable(qs, func(i, j int) bool { return qs[i].ID < qs[j].ID })
	for i, q := range qs {
		if q.ID != i {
			return nil, eris.Errorf("catalog: question ids must run from 0 without gaps, found %d at position %d", q.ID, i)
		}
		if q.Rule == "" {
			return nil, eris.Errorf("catalog: question %d has no rule", q.ID)
		}
	}
	return &Catalog{questions: qs}, nil
}

// Questions returns a copy of the ordered questions.
func (c *Catalog) Questions() []model.Question {
	return append([]model.Question(nil), c.questions...)
}

// Len is the number of questions.
func (c *Catalog) Len() int { return len(c.questions) }

// Get returns question i, wrapping to the first question past the end.
func (c *Catalog) Get(i int) (model.Question, error) {
	if i < 0 {
		return model.Question{}, eris.Errorf("catalog: question id %d is negative", i)
	}
	if i >= len(c.questions) {
		i = 0
	}
	return c.questions[i], nil
}

// Type returns the input type of question i.
func (c *Catalog) Type(i int) (model.InputType, error) {
	q, err := c.Get(i)
	if err != nil {
		return "", err
	}
	return q.Type, nil
}

// Options returns the answer choices of question i.
func (c *Catalog) Options(i int) ([]model.Option, error) {
	q, err := c.Get(i)
	if err != nil {
		return nil, err
	}
	return append([]model.Option(nil), q.Options...), nil
}
