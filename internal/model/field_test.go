package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseField(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    string
		kind   FieldKind
		truthy bool
	}{
		{"blank", "   ", FieldEmpty, false},
		{"true upper", "TRUE", FieldBool, true},
		{"false mixed", " False ", FieldBool, false},
		{"text", "Stand for long periods", FieldText, true},
		{"truthy word is text", "yes", FieldText, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := ParseField(tt.raw)
			assert.Equal(t, tt.kind, f.Kind)
			assert.Equal(t, tt.truthy, f.Truthy())
		})
	}
}

func TestField_JSON(t *testing.T) {
	t.Parallel()

	out, err := json.Marshal([]Field{BoolField(true), TextField("walk"), {}})
	require.NoError(t, err)
	assert.JSONEq(t, `[true, "walk", null]`, string(out))

	var fields []Field
	require.NoError(t, json.Unmarshal([]byte(`[false, "false", "lift boxes", null]`), &fields))
	require.Len(t, fields, 4)
	assert.True(t, fields[0].IsBool())
	assert.True(t, fields[1].IsBool())
	assert.Equal(t, "lift boxes", fields[2].Text)
	assert.True(t, fields[3].IsEmpty())
}

func TestParseAgeBound(t *testing.T) {
	t.Parallel()

	extract := func(s string) (float64, bool) {
		if s == "18 or older" {
			return 18, true
		}
		return 0, false
	}

	assert.Equal(t, AgeBound{Raw: "16", Value: 16, HasValue: true}, ParseAgeBound("16", extract))
	assert.True(t, ParseAgeBound("students", extract).Students)
	assert.Equal(t, 18.0, ParseAgeBound("18 or older", extract).Value)
	assert.False(t, ParseAgeBound("adult", extract).HasValue)
	assert.False(t, ParseAgeBound("", nil).HasValue)
}

func TestParseWorkPref(t *testing.T) {
	t.Parallel()

	assert.Equal(t, WorkPrefBTS, ParseWorkPref("Behind-the-scenes"))
	assert.Equal(t, WorkPrefBTS, ParseWorkPref("bts"))
	assert.Equal(t, WorkPrefFront, ParseWorkPref("Front-facing"))
	assert.Equal(t, WorkPrefNoPref, ParseWorkPref("no preference"))
	assert.Equal(t, WorkPref("Hybrid"), ParseWorkPref(" Hybrid "))
	assert.Equal(t, WorkPrefFront, WorkPrefBTS.Opposite())
	assert.Equal(t, WorkPref(""), WorkPrefNoPref.Opposite())
}

func TestParseKnowledgeLevel(t *testing.T) {
	t.Parallel()

	k, ok := ParseKnowledgeLevel("average")
	assert.True(t, ok)
	assert.Equal(t, KnowledgeAverage, k)
	assert.Equal(t, "AVERAGE", k.String())

	_, ok = ParseKnowledgeLevel("expert")
	assert.False(t, ok)
	assert.True(t, KnowledgeThorough > KnowledgeLimited)
}

func TestQuestion_ResolveOption(t *testing.T) {
	t.Parallel()

	q := Question{Options: []Option{{Value: "BTS", Label: "Behind the scenes"}, {Value: "NO_PREF", Label: "No Preference"}}}

	v, ok := q.ResolveOption("behind the scenes")
	assert.True(t, ok)
	assert.Equal(t, "BTS", v)

	v, ok = q.ResolveOption("no_pref")
	assert.True(t, ok)
	assert.Equal(t, "NO_PREF", v)

	_, ok = q.ResolveOption("front")
	assert.False(t, ok)
	assert.Equal(t, []string{"BTS", "NO_PREF"}, q.OptionValues())
	assert.True(t, InputSelect3.IsSelect())
	assert.False(t, InputMultiSelect.IsSelect())
}
