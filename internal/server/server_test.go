package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/catalog"
	"github.com/sells-group/volunteer-match/internal/extract"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/session"
	"github.com/sells-group/volunteer-match/internal/store"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

var answers = []string{
	`18`, `"Yes"`, `"YES"`, `"Yes"`, `3`, `"Front-facing"`,
	`"NO_PREF"`, `"YES"`, `"THOROUGH"`,
	`["Mechanical/Technical Skills"]`, `["FRC REFEREE EXPERIENCE"]`, `[]`,
}

func testRoles() []model.Role {
	return []model.Role{
		{
			Name:               "Referee",
			AgeMin:             model.ParseAgeBound("18", extract.Number),
			PhysicalReq:        model.ParseField("Must stand and walk the field"),
			TimeCommitment:     model.ParseField("3 days"),
			WorkPref:           model.WorkPrefFront,
			PriorFirstExp:      model.BoolField(false),
			BasicGameKnowledge: model.ParseField("Thorough knowledge of game rules"),
			RequiredSkills:     model.ParseField("game rules and robot inspection"),
			RequiredExperience: model.ParseField("FRC referee experience"),
			LeadershipPref:     true,
		},
		{
			Name:               "Scorekeeper",
			AgeMin:             model.ParseAgeBound("16", extract.Number),
			PhysicalReq:        model.ParseField("false"),
			TimeCommitment:     model.ParseField("2"),
			WorkPref:           model.WorkPrefBTS,
			PriorFirstExp:      model.BoolField(false),
			BasicGameKnowledge: model.ParseField("Average"),
			RequiredSkills:     model.ParseField("Basic computer skills"),
			RequiredExperience: model.ParseField("false"),
		},
	}
}

type loader struct {
	fail atomic.Bool
}

func (l *loader) load(context.Context) (*assess.Engine, error) {
	if l.fail.Load() {
		return nil, errors.New("roles.csv: no such file")
	}
	return assess.NewEngine(testRoles(), catalog.Builtin(), assess.DefaultOptions())
}

type fixture struct {
	srv    *Server
	loader *loader
	store  store.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	l := &loader{}
	m, err := session.NewManager(context.Background(), l.load, session.Options{Store: st})
	require.NoError(t, err)
	return &fixture{
		srv:    New(m, Options{CORSOrigins: []string{"https://volunteer.example.org"}, Store: st}),
		loader: l,
		store:  st,
	}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	decode(t, rec, &body)
	return body.Error.Code
}

func submitBody(id any, answer string) string {
	qid, _ := json.Marshal(id)
	return `{"question_id":` + string(qid) + `,"answer":` + answer + `}`
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetQuestion(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/get-question", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var q model.Question
	decode(t, rec, &q)
	assert.Equal(t, 0, q.ID)
	assert.Equal(t, "age", q.Key)

	rec = f.do(t, http.MethodGet, "/api/get-question?question_id=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &q)
	assert.Equal(t, 2, q.ID)

	rec = f.do(t, http.MethodGet, "/api/get-question?question_id=99", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &q)
	assert.Equal(t, 0, q.ID)
}

func TestGetQuestion_Invalid(t *testing.T) {
	f := newFixture(t)
	for _, raw := range []string{"-1", "abc", "1.5"} {
		rec := f.do(t, http.MethodGet, "/api/get-question?question_id="+raw, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, raw)
		assert.Equal(t, CodeInvalid, errorCode(t, rec), raw)
	}
}

func TestSubmitAnswer_FullRun(t *testing.T) {
	f := newFixture(t)

	var last submitResponse
	for i, raw := range answers {
		// both string and numeric ids are accepted
		var id any = i
		if i%2 == 0 {
			id = strconv.Itoa(i)
		}
		rec := f.do(t, http.MethodPost, "/api/submit-answer", submitBody(id, raw))
		require.Equal(t, http.StatusOK, rec.Code, "question %d: %s", i, rec.Body.String())
		decode(t, rec, &last)
		assert.Equal(t, "accepted", last.Status)
		assert.Equal(t, i, last.QuestionID)
	}
	assert.True(t, last.Complete)
	require.NotNil(t, last.Result)

	rec := f.do(t, http.MethodGet, "/api/get-result", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string]string
	decode(t, rec, &res)
	assert.Equal(t, "Referee", res["Best fit roles"])

	rec = f.do(t, http.MethodPost, "/api/submit-answer", submitBody(0, `18`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, CodeComplete, errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/api/history?kind=result", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []store.Entry
	decode(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, store.KindResult, entries[0].Kind)

	rec = f.do(t, http.MethodGet, "/api/history?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &entries)
	assert.Len(t, entries, 3)
}

func TestSubmitAnswer_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{"question_id":`},
		{"missing question id", `{"answer":18}`},
		{"missing answer", `{"question_id":"0"}`},
		{"non integer id", `{"question_id":"zero","answer":18}`},
		{"out of order", submitBody("3", `18`)},
		{"bad answer", submitBody("0", `"eighteen"`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/api/submit-answer", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, CodeInvalid, errorCode(t, rec))
		})
	}

	rec := f.do(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st assess.State
	decode(t, rec, &st)
	assert.Zero(t, st.Cursor)
}

func TestReset(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/api/submit-answer", submitBody(0, `18`))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Status string       `json:"status"`
		State  assess.State `json:"state"`
	}
	decode(t, rec, &body)
	assert.Equal(t, "reset", body.Status)
	assert.Zero(t, body.State.Cursor)
	assert.Equal(t, 2, body.State.Remaining)
}

func TestReset_LoadFailure(t *testing.T) {
	f := newFixture(t)
	f.loader.fail.Store(true)

	rec := f.do(t, http.MethodPost, "/api/reset", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, CodeNotInitialized, errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/api/get-question", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	rec = f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.loader.fail.Store(false)
	rec = f.do(t, http.MethodPost, "/api/reset", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoles(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/roles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var roles []model.Role
	decode(t, rec, &roles)
	assert.Len(t, roles, 2)

	rec = f.do(t, http.MethodGet, "/api/roles?where=leadership-pref", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &roles)
	require.Len(t, roles, 1)
	assert.Equal(t, "Referee", roles[0].Name)

	rec = f.do(t, http.MethodGet, "/api/roles?where=shoe_size", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessions(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/api/sessions", `{"student":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		SessionID string         `json:"session_id"`
		Question  model.Question `json:"question"`
		State     assess.State   `json:"state"`
	}
	decode(t, rec, &created)
	require.NotEmpty(t, created.SessionID)
	assert.True(t, created.State.Student)
	assert.Equal(t, "age", created.Question.Key)

	base := "/api/sessions/" + created.SessionID
	rec = f.do(t, http.MethodPost, base+"/submit-answer", submitBody(0, `17`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, base+"/state", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var st assess.State
	decode(t, rec, &st)
	assert.Equal(t, 1, st.Cursor)

	rec = f.do(t, http.MethodGet, "/api/state", "")
	decode(t, rec, &st)
	assert.Zero(t, st.Cursor)

	rec = f.do(t, http.MethodGet, base+"/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []store.Entry
	decode(t, rec, &entries)
	require.Len(t, entries, 1)
	assert.Equal(t, created.SessionID, entries[0].SessionID)

	rec = f.do(t, http.MethodGet, "/api/sessions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Sessions []string `json:"sessions"`
	}
	decode(t, rec, &list)
	assert.Equal(t, []string{created.SessionID}, list.Sessions)

	rec = f.do(t, http.MethodDelete, base, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, base+"/get-question", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, CodeNotFound, errorCode(t, rec))

	rec = f.do(t, http.MethodDelete, "/api/sessions/"+session.DefaultID, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddleware_Headers(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	req.Header.Set("Origin", "https://volunteer.example.org")
	rec := httptest.NewRecorder()
	f.srv.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "https://volunteer.example.org", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(t, http.MethodGet, "/health", "")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.do(t, http.MethodGet, "/health", "")

	rec := f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "vmatch_http_request_duration_seconds")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{assess.ErrNotInitialized, http.StatusServiceUnavailable, CodeNotInitialized},
		{session.ErrNotFound, http.StatusNotFound, CodeNotFound},
		{assess.ErrComplete, http.StatusConflict, CodeComplete},
		{assess.ErrDataQuality, http.StatusUnprocessableEntity, CodeDataQuality},
		{assess.ErrOutOfOrder, http.StatusBadRequest, CodeInvalid},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		status, code := classify(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code, tt.err.Error())
	}
}
