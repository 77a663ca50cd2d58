package main

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/volunteer-match/internal/catalog"
	"github.com/sells-group/volunteer-match/internal/dataset"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/store"
)

func TestWriteRoles(t *testing.T) {
	c := testConfig(t, writeTemp(t, "roles.csv", rolesCSV))
	roles, err := loadRoles(context.Background(), c, newResolver(c))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeRoles(&buf, "table", roles))
	assert.Contains(t, buf.String(), "ROLE")
	assert.Contains(t, buf.String(), "Scorekeeper")
	assert.Contains(t, buf.String(), "FRONT")

	buf.Reset()
	filtered, err := dataset.Filter(roles, "age_exception_allowed")
	require.NoError(t, err)
	require.NoError(t, writeRoles(&buf, "json", filtered))
	var got []model.Role
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Scorekeeper", got[0].Name)

	assert.Error(t, writeRoles(&buf, "xml", roles))
}

func TestWriteFaults(t *testing.T) {
	var buf bytes.Buffer
	writeFaults(&buf, 2, nil)
	assert.Equal(t, "2 roles, no faults\n", buf.String())

	bad := rolesCSV + ",21,,false,1,BTS,maybe,false,false,false,false,,false\n"
	c := testConfig(t, writeTemp(t, "roles.csv", bad))
	rows, err := readRows(context.Background(), c, newResolver(c))
	require.NoError(t, err)
	faults := dataset.Check(rows)
	require.Len(t, faults, 2)

	buf.Reset()
	writeFaults(&buf, len(rows), faults)
	out := buf.String()
	assert.Contains(t, out, "is empty")
	assert.Contains(t, out, "is not true or false")
	assert.Contains(t, out, "3 roles, 2 faults")
}

func TestWriteQuestions(t *testing.T) {
	c, err := catalog.New(catalog.Builtin())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeQuestions(&buf, "table", c))
	assert.Contains(t, buf.String(), "physical_ability_stand")
	assert.Contains(t, buf.String(), "YES, NO")

	buf.Reset()
	require.NoError(t, writeQuestions(&buf, "json", c))
	var qs []model.Question
	require.NoError(t, json.Unmarshal(buf.Bytes(), &qs))
	assert.Len(t, qs, c.Len())
}

func TestWriteHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHistory(&buf, "table", nil))
	assert.Equal(t, "No history found.\n", buf.String())

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	entries := []store.Entry{
		{SessionID: "s1", Kind: store.KindAnswer, QuestionID: 0, Payload: json.RawMessage(`{"answer":18}`), CreatedAt: created},
		{SessionID: "s1", Kind: store.KindResult, QuestionID: store.NoQuestion, Payload: json.RawMessage(`{}`), CreatedAt: created},
	}
	buf.Reset()
	require.NoError(t, writeHistory(&buf, "table", entries))
	out := buf.String()
	assert.Contains(t, out, "2026-03-14T09:30:00Z")
	assert.Contains(t, out, `{"answer":18}`)
	assert.Contains(t, out, "result")

	buf.Reset()
	require.NoError(t, writeHistory(&buf, "json", nil))
	assert.JSONEq(t, `[]`, buf.String())
}

func TestRolesCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rolesCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"list", "validate", "import"} {
		assert.True(t, names[name], "roles should have subcommand %q", name)
	}
	assert.Equal(t, string(dataset.ImportUpsert), rolesImportCmd.Flags().Lookup("mode").DefValue)
}
