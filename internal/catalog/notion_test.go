package catalog

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/model"
)

func init() {
	// Replace global logger with no-op for tests (suppress warning output).
	zap.ReplaceGlobals(zap.NewNop())
}

func TestLoadNotion_Success(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "q-db", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{
				makeQuestionPage("p2", 1, "Do you want to lead?", "lead", "select-3", "leadership_preference", []string{"YES", "NO", "NO_PREF"}, true),
				makeQuestionPage("p1", 0, "What is your age?", "age", "number", "age", nil, true),
			},
			HasMore: false,
		}, nil).Once()

	qs, err := LoadNotion(ctx, mc, "q-db")
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, 0, qs[0].ID)
	assert.Equal(t, "age", qs[0].Key)
	assert.Equal(t, model.InputNumber, qs[0].Type)
	assert.Empty(t, qs[0].Options)

	assert.Equal(t, 1, qs[1].ID)
	assert.Equal(t, "Do you want to lead?", qs[1].Text)
	assert.Equal(t, []string{"YES", "NO", "NO_PREF"}, qs[1].OptionValues())
	assert.True(t, qs[1].Eliminate)
	mc.AssertExpectations(t)
}

func TestLoadNotion_SkipsMalformed(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	noRule := makeQuestionPage("p2", 1, "Orphan", "orphan", "number", "", nil, false)
	mc.On("QueryDatabase", ctx, "q-db", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(&notionapi.DatabaseQueryResponse{
			Results: []notionapi.Page{
				makeQuestionPage("p1", 0, "How many days?", "days", "number", "availability", nil, true),
				noRule,
				makeQuestionPage("p3", 2, "", "blank", "number", "age", nil, false),
			},
		}, nil).Once()

	qs, err := LoadNotion(ctx, mc, "q-db")
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "days", qs[0].Key)
	mc.AssertExpectations(t)
}

func TestLoadNotion_QueryError(t *testing.T) {
	mc := new(mockNotionClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "q-db", mock.AnythingOfType("*notionapi.DatabaseQueryRequest")).
		Return(nil, assert.AnError).Once()

	qs, err := LoadNotion(ctx, mc, "q-db")
	assert.ErrorContains(t, err, "catalog: load notion questions")
	assert.Nil(t, qs)
	mc.AssertExpectations(t)
}

func makeQuestionPage(id string, qid int, text, key, typ, rule string, options []string, eliminate bool) notionapi.Page {
	props := make(notionapi.Properties)

	props["Question"] = &notionapi.TitleProperty{
		Type:  notionapi.PropertyTypeTitle,
		Title: []notionapi.RichText{{PlainText: text}},
	}
	props["ID"] = &notionapi.NumberProperty{
		Type:   notionapi.PropertyTypeNumber,
		Number: float64(qid),
	}
	props["Key"] = &notionapi.RichTextProperty{
		Type:     notionapi.PropertyTypeRichText,
		RichText: []notionapi.RichText{{PlainText: key}},
	}
	props["Type"] = &notionapi.SelectProperty{
		Type:   notionapi.PropertyTypeSelect,
		Select: notionapi.Option{Name: typ},
	}
	if rule != "" {
		props["Rule"] = &notionapi.SelectProperty{
			Type:   notionapi.PropertyTypeSelect,
			Select: notionapi.Option{Name: rule},
		}
	}
	if len(options) > 0 {
		opts := make([]notionapi.Option, len(options))
		for i, o := range options {
			opts[i] = notionapi.Option{Name: o}
		}
		props["Options"] = &notionapi.MultiSelectProperty{
			Type:        notionapi.PropertyTypeMultiSelect,
			MultiSelect: opts,
		}
	}
	props["Eliminate"] = &notionapi.CheckboxProperty{
		Type:     notionapi.PropertyTypeCheckbox,
		Checkbox: eliminate,
	}

	return notionapi.Page{
		ID:         notionapi.ObjectID(id),
		Properties: props,
	}
}
