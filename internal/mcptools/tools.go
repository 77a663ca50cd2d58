// Package mcptools exposes the questionnaire as MCP tools so an assistant
// can walk a volunteer through it.
package mcptools

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/dataset"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/session"
)

// Name identifies the server to MCP clients.
const Name = "volunteer-match"

// NewServer builds an MCP server with every tool registered.
func NewServer(m *session.Manager, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version}, nil)
	RegisterTools(server, m)
	return server
}

// RegisterTools adds get_question, submit_answer, get_result, reset and
// list_roles to server.
func RegisterTools(server *mcp.Server, m *session.Manager) {
	t := tools{sessions: m}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_question",
		Description: "Return a questionnaire question. Without question_id the session's current question is returned.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.getQuestion)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "submit_answer",
		Description: "Answer the session's current question. Numbers for number questions, an option value or label for selects, a list of option values for multiselects.",
	}, t.submitAnswer)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_result",
		Description: "Return the best fit and next best volunteer roles for the session so far.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.getResult)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "reset",
		Description: "Discard the session's answers and reload the role dataset.",
	}, t.reset)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_roles",
		Description: "List the volunteer roles in dataset order, optionally only those with a truthy attribute such as leadership_pref.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, t.listRoles)
}

// SessionInput selects a session. Empty means the default session.
type SessionInput struct {
	SessionID string `json:"session_id,omitempty" jsonschema:"Session id (default: the shared default session)"`
}

// QuestionInput is the get_question request.
type QuestionInput struct {
	SessionID  string `json:"session_id,omitempty" jsonschema:"Session id (default: the shared default session)"`
	QuestionID *int   `json:"question_id,omitempty" jsonschema:"Question index (default: current question)"`
}

// QuestionOutput is a question as presented to a respondent.
type QuestionOutput struct {
	ID       int            `json:"id"`
	Key      string         `json:"key"`
	Question string         `json:"question"`
	Type     string         `json:"type"`
	Options  []model.Option `json:"options,omitempty"`
}

// AnswerInput is the submit_answer request.
type AnswerInput struct {
	SessionID  string `json:"session_id,omitempty" jsonschema:"Session id (default: the shared default session)"`
	QuestionID string `json:"question_id" jsonschema:"Index of the question being answered, as a string"`
	Answer     any    `json:"answer" jsonschema:"The answer value"`
}

// AnswerOutput reports an accepted answer.
type AnswerOutput struct {
	QuestionID     int           `json:"question_id"`
	NextQuestionID int           `json:"next_question_id"`
	Complete       bool          `json:"complete"`
	Eliminated     []string      `json:"eliminated"`
	Result         *ResultOutput `json:"result,omitempty"`
}

// ResultOutput is a recommendation.
type ResultOutput struct {
	BestFit  string   `json:"best_fit_roles"`
	NextBest string   `json:"next_best_roles"`
	Best     []string `json:"best"`
	Next     []string `json:"next"`
}

// ResetOutput is the state after a reset.
type ResetOutput struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

// RolesInput is the list_roles request.
type RolesInput struct {
	Where string `json:"where,omitempty" jsonschema:"Keep only roles where this attribute is truthy"`
}

// RoleOutput summarizes one role.
type RoleOutput struct {
	Name           string `json:"role_name"`
	WorkPref       string `json:"work_pref,omitempty"`
	LeadershipPref bool   `json:"leadership_pref"`
}

// RolesOutput is the list_roles reply.
type RolesOutput struct {
	Roles []RoleOutput `json:"roles"`
}

type tools struct {
	sessions *session.Manager
}

func (t tools) getQuestion(_ context.Context, _ *mcp.CallToolRequest, in QuestionInput) (*mcp.CallToolResult, QuestionOutput, error) {
	var (
		q   model.Question
		err error
	)
	if in.QuestionID == nil {
		q, err = t.current(in.SessionID)
	} else {
		q, err = t.sessions.Question(in.SessionID, *in.QuestionID)
	}
	if err != nil {
		return nil, QuestionOutput{}, err
	}
	return nil, questionOutput(q), nil
}

func (t tools) current(id string) (model.Question, error) {
	s, err := t.sessions.Get(id)
	if err != nil {
		return model.Question{}, err
	}
	if q, ok := s.Current(); ok {
		return q, nil
	}
	return s.Engine().Question(0)
}

func (t tools) submitAnswer(ctx context.Context, _ *mcp.CallToolRequest, in AnswerInput) (*mcp.CallToolResult, AnswerOutput, error) {
	qid, err := assess.ParseQuestionID(in.QuestionID)
	if err != nil {
		return nil, AnswerOutput{}, err
	}
	raw, err := json.Marshal(in.Answer)
	if err != nil {
		return nil, AnswerOutput{}, eris.Wrap(assess.ErrInvalid, "answer is not encodable")
	}

	p, err := t.sessions.Submit(ctx, in.SessionID, qid, raw)
	if err != nil {
		zap.L().Debug("mcp: answer rejected", zap.String("question_id", strconv.Itoa(qid)), zap.Error(err))
		return nil, AnswerOutput{}, err
	}
	out := AnswerOutput{
		QuestionID:     p.QuestionID,
		NextQuestionID: p.NextQuestionID,
		Complete:       p.Complete,
		Eliminated:     p.Outcome.Eliminated,
	}
	if out.Eliminated == nil {
		out.Eliminated = []string{}
	}
	if p.Result != nil {
		res := resultOutput(*p.Result)
		out.Result = &res
	}
	return nil, out, nil
}

func (t tools) getResult(_ context.Context, _ *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, ResultOutput, error) {
	res, err := t.sessions.Result(in.SessionID)
	if err != nil {
		return nil, ResultOutput{}, err
	}
	return nil, resultOutput(res), nil
}

func (t tools) reset(ctx context.Context, _ *mcp.CallToolRequest, in SessionInput) (*mcp.CallToolResult, ResetOutput, error) {
	if err := t.sessions.Reset(ctx, in.SessionID); err != nil {
		return nil, ResetOutput{}, err
	}
	st, err := t.sessions.State(in.SessionID)
	if err != nil {
		return nil, ResetOutput{}, err
	}
	return nil, ResetOutput{Remaining: st.Remaining, Total: st.Total}, nil
}

func (t tools) listRoles(_ context.Context, _ *mcp.CallToolRequest, in RolesInput) (*mcp.CallToolResult, RolesOutput, error) {
	roles, err := t.sessions.Roles()
	if err != nil {
		return nil, RolesOutput{}, err
	}
	if in.Where != "" {
		if roles, err = dataset.Filter(roles, in.Where); err != nil {
			return nil, RolesOutput{}, err
		}
	}
	out := RolesOutput{Roles: make([]RoleOutput, len(roles))}
	for i, r := range roles {
		out.Roles[i] = RoleOutput{Name: r.Name, WorkPref: string(r.WorkPref), LeadershipPref: r.LeadershipPref}
	}
	return nil, out, nil
}

func questionOutput(q model.Question) QuestionOutput {
	return QuestionOutput{ID: q.ID, Key: q.Key, Question: q.Text, Type: string(q.Type), Options: q.Options}
}

func resultOutput(r assess.Result) ResultOutput {
	best, next := r.Best, r.Next
	if best == nil {
		best = []string{}
	}
	if next == nil {
		next = []string{}
	}
	return ResultOutput{BestFit: r.BestFit(), NextBest: r.NextBest(), Best: best, Next: next}
}
