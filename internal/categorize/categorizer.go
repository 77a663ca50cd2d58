// Package categorize classifies free-text role requirements into named
// categories by counting whole-word keyword matches.
package categorize

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/model"
)

// None is the category of a requirement explicitly marked false. Respondent
// selections always include it.
const None = "NONE"

// NoCategory is returned by Top when no keyword matched.
const NoCategory = ""

// ErrAmbiguous is returned for a bare boolean true where requirement text
// was expected.
var ErrAmbiguous = eris.New("categorize: bare true where requirement text was expected")

// Category is a named keyword list.
type Category struct {
	Name     string
	Keywords []string
}

// Count is the number of keyword hits for one category.
type Count struct {
	Category string `json:"category"`
	N        int    `json:"n"`
}

// Counts holds per-category hits in category order.
type Counts []Count

// Get returns the hits for name, or zero.
func (c Counts) Get(name string) int {
	for _, e := range c {
		if e.Category == name {
			return e.N
		}
	}
	return 0
}

// Top returns the category with the most hits. Ties go to the earliest
// category; empty or all-zero counts yield NoCategory.
func (c Counts) Top() string {
	best, bestN := NoCategory, 0
	for _, e := range c {
		if e.N > bestN {
			best, bestN = e.Category, e.N
		}
	}
	return best
}

type compiled struct {
	name    string
	pattern *regexp.Regexp
}

// Categorizer matches text against an ordered set of categories.
type Categorizer struct {
	categories []compiled
}

// New compiles one case-insensitive, word-bounded alternation per category.
// Categories without usable keywords never match.
func New(categories []Category) *Categorizer {
	c := &Categorizer{categories: make([]compiled, 0, len(categories))}
	for _, cat := range categories {
		var escaped []string
		for _, kw := range cat.Keywords {
			if kw == "" {
				continue
			}
			escaped = append(escaped, regexp.QuoteMeta(kw))
		}
		var re *regexp.Regexp
		if len(escaped) > 0 {
			re = regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`)
		}
		c.categories = append(c.categories, compiled{name: cat.Name, pattern: re})
	}
	return c
}

// Names returns the category names in order.
func (c *Categorizer) Names() []string {
	out := make([]string, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat.name
	}
	return out
}

// Has reports whether name is one of c's categories.
func (c *Categorizer) Has(name string) bool {
	for _, cat := range c.categories {
		if cat.name == name {
			return true
		}
	}
	return false
}

// Count returns hits per category. Each category is scanned independently,
// so a phrase listed under two categories counts for both. Empty text
// returns no counts.
func (c *Categorizer) Count(text string) Counts {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	out := make(Counts, 0, len(c.categories))
	for _, cat := range c.categories {
		n := 0
		if cat.pattern != nil {
			n = len(cat.pattern.FindAllStringIndex(text, -1))
		}
		out = append(out, Count{Category: cat.name, N: n})
	}
	return out
}

// TopOf categorizes a role field. A boolean false means the role requires
// nothing (None); a boolean true is ambiguous and rejected.
func (c *Categorizer) TopOf(f model.Field) (string, error) {
	switch f.Kind {
	case model.FieldBool:
		if f.Bool {
			return NoCategory, ErrAmbiguous
		}
		return None, nil
	case model.FieldEmpty:
		return NoCategory, nil
	}
	return c.Count(f.Text).Top(), nil
}
