package mcptools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/catalog"
	"github.com/sells-group/volunteer-match/internal/extract"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/session"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func load(context.Context) (*assess.Engine, error) {
	roles := []model.Role{
		{
			Name:           "Referee",
			AgeMin:         model.ParseAgeBound("18", extract.Number),
			PhysicalReq:    model.ParseField("Must stand and walk the field"),
			TimeCommitment: model.ParseField("3 days"),
			WorkPref:       model.WorkPrefFront,
			LeadershipPref: true,
		},
		{
			Name:           "Scorekeeper",
			AgeMin:         model.ParseAgeBound("16", extract.Number),
			PhysicalReq:    model.ParseField("false"),
			TimeCommitment: model.ParseField("2"),
			WorkPref:       model.WorkPrefBTS,
		},
	}
	return assess.NewEngine(roles, catalog.Builtin(), assess.DefaultOptions())
}

func connect(t *testing.T) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	m, err := session.NewManager(ctx, load, session.Options{})
	require.NoError(t, err)
	server := NewServer(m, "test")

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() }) //nolint:errcheck

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() }) //nolint:errcheck
	return cs
}

func call[T any](t *testing.T, cs *mcp.ClientSession, name string, args map[string]any) (T, *mcp.CallToolResult) {
	t.Helper()
	var out T
	res, err := cs.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if !res.IsError {
		raw, err := json.Marshal(res.StructuredContent)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return out, res
}

func TestListTools(t *testing.T) {
	cs := connect(t)
	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"get_question", "submit_answer", "get_result", "reset", "list_roles"}, names)
}

func TestQuestionAndAnswer(t *testing.T) {
	cs := connect(t)

	q, res := call[QuestionOutput](t, cs, "get_question", map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, 0, q.ID)
	assert.Equal(t, "age", q.Key)

	q, res = call[QuestionOutput](t, cs, "get_question", map[string]any{"question_id": 1})
	require.False(t, res.IsError)
	assert.Equal(t, 1, q.ID)

	out, res := call[AnswerOutput](t, cs, "submit_answer", map[string]any{"question_id": "0", "answer": 17})
	require.False(t, res.IsError)
	assert.Equal(t, 1, out.NextQuestionID)
	assert.Equal(t, []string{"Referee"}, out.Eliminated)

	_, res = call[AnswerOutput](t, cs, "submit_answer", map[string]any{"question_id": "5", "answer": "Yes"})
	assert.True(t, res.IsError)

	result, res := call[ResultOutput](t, cs, "get_result", map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, "Scorekeeper", result.BestFit)

	reset, res := call[ResetOutput](t, cs, "reset", map[string]any{})
	require.False(t, res.IsError)
	assert.Equal(t, 2, reset.Remaining)
}

func TestListRoles(t *testing.T) {
	cs := connect(t)

	out, res := call[RolesOutput](t, cs, "list_roles", map[string]any{})
	require.False(t, res.IsError)
	require.Len(t, out.Roles, 2)
	assert.Equal(t, "Referee", out.Roles[0].Name)

	out, res = call[RolesOutput](t, cs, "list_roles", map[string]any{"where": "leadership_pref"})
	require.False(t, res.IsError)
	require.Len(t, out.Roles, 1)
	assert.True(t, out.Roles[0].LeadershipPref)

	_, res = call[RolesOutput](t, cs, "list_roles", map[string]any{"where": "shoe_size"})
	assert.True(t, res.IsError)
}

func TestUnknownSession(t *testing.T) {
	cs := connect(t)
	_, res := call[ResultOutput](t, cs, "get_result", map[string]any{"session_id": "nope"})
	assert.True(t, res.IsError)
}
