package catalog

import (
	"context"
	"sort"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/pkg/notion"
)

// LoadNotion queries a Notion question database for active questions and
// returns them ordered by their ID property.
func LoadNotion(ctx context.Context, client notion.Client, dbID string) ([]model.Question, error) {
	pages, err := notion.QueryActive(ctx, client, dbID)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: load notion questions")
	}

	var questions []model.Question
	for _, p := range pages {
		q, err := parseQuestionPage(p)
		if err != nil {
			zap.L().Warn("catalog: skipping malformed question page",
				zap.String("page_id", string(p.ID)),
				zap.Error(err),
			)
			continue
		}
		questions = append(questions, q)
	}
	sort.SliceStable(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return questions, nil
}

func parseQuestionPage(p notionapi.Page) (model.Question, error) {
	var q model.Question
	hasID := false

	// Question (title)
	if prop, ok := p.Properties["Question"]; ok {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			q.Text = plainText(tp.Title)
		}
	}

	// ID (number)
	if prop, ok := p.Properties["ID"]; ok {
		if np, ok := prop.(*notionapi.NumberProperty); ok {
			q.ID = int(np.Number)
			hasID = true
		}
	}

	// Key (rich_text)
	if prop, ok := p.Properties["Key"]; ok {
		if rtp, ok := prop.(*notionapi.RichTextProperty); ok {
			q.Key = plainText(rtp.RichText)
		}
	}

	// Type (select)
	if prop, ok := p.Properties["Type"]; ok {
		if sp, ok := prop.(*notionapi.SelectProperty); ok {
			q.Type = model.InputType(sp.Select.Name)
		}
	}

	// Rule (select)
	if prop, ok := p.Properties["Rule"]; ok {
		if sp, ok := prop.(*notionapi.SelectProperty); ok {
			q.Rule = sp.Select.Name
		}
	}

	// Options (multi_select); the option name is the canonical value.
	if prop, ok := p.Properties["Options"]; ok {
		if msp, ok := prop.(*notionapi.MultiSelectProperty); ok {
			for _, opt := range msp.MultiSelect {
				q.Options = append(q.Options, model.Option{Value: opt.Name, Label: opt.Name})
			}
		}
	}

	// Eliminate (checkbox)
	if prop, ok := p.Properties["Eliminate"]; ok {
		if cp, ok := prop.(*notionapi.CheckboxProperty); ok {
			q.Eliminate = cp.Checkbox
		}
	}

	switch {
	case q.Text == "":
		return q, eris.New("missing Question property")
	case !hasID:
		return q, eris.New("missing ID property")
	case q.Rule == "":
		return q, eris.New("missing Rule property")
	}
	return q, nil
}

// plainText concatenates the plain_text values from a slice of RichText.
func plainText(rts []notionapi.RichText) string {
	var s string
	for _, rt := range rts {
		s += rt.PlainText
	}
	return s
}
