package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "audit.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_RecordAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.RecordAnswer(ctx, "s1", 0, map[string]any{"answer": 18}))
	require.NoError(t, st.RecordAnswer(ctx, "s2", 0, map[string]any{"answer": 30}))
	require.NoError(t, st.RecordAnswer(ctx, "s1", 1, map[string]any{"answer": "YES"}))
	require.NoError(t, st.RecordResult(ctx, "s1", map[string]string{"Best fit roles": "Referee"}))

	entries, err := st.ListHistory(ctx, HistoryFilter{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, KindAnswer, entries[0].Kind)
	assert.Equal(t, 0, entries[0].QuestionID)
	assert.Equal(t, 1, entries[1].QuestionID)
	assert.Equal(t, KindResult, entries[2].Kind)
	assert.Equal(t, NoQuestion, entries[2].QuestionID)
	assert.False(t, entries[2].CreatedAt.IsZero())

	var payload map[string]string
	require.NoError(t, json.Unmarshal(entries[2].Payload, &payload))
	assert.Equal(t, "Referee", payload["Best fit roles"])
}

func TestSQLite_ListFilters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, st.RecordAnswer(ctx, "s1", i, i))
	}
	require.NoError(t, st.RecordResult(ctx, "s1", "done"))

	results, err := st.ListHistory(ctx, HistoryFilter{Kind: KindResult})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, `"done"`, string(results[0].Payload))

	limited, err := st.ListHistory(ctx, HistoryFilter{SessionID: "s1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, 0, limited[0].QuestionID)
	assert.Equal(t, 1, limited[1].QuestionID)

	none, err := st.ListHistory(ctx, HistoryFilter{SessionID: "missing"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLite_UnmarshalablePayload(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.RecordAnswer(context.Background(), "s1", 0, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal answer payload")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	require.NoError(t, s.RecordResult(ctx, "s", 1))
	require.NoError(t, s.Close())

	s, err = Open(ctx, DriverNone, "")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, s)
	entries, err := s.ListHistory(ctx, HistoryFilter{})
	assert.NoError(t, err)
	assert.Empty(t, entries)

	_, err = Open(ctx, "mongo", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
