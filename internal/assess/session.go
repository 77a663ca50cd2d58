package assess

import (
	"encoding/json"
	"sync"

	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/model"
)

// RoleScore is one scoreboard entry.
type RoleScore struct {
	Role  string `json:"role"`
	Score int    `json:"score"`
}

// Scoreboard holds a score per role and iterates in dataset order.
type Scoreboard struct {
	order  []string
	scores map[string]int
}

// NewScoreboard starts every role at zero.
func NewScoreboard(order []string) Scoreboard {
	sb := Scoreboard{order: append([]string(nil), order...), scores: make(map[string]int, len(order))}
	for _, name := range order {
		sb.scores[name] = 0
	}
	return sb
}

// Get returns the score of role.
func (sb Scoreboard) Get(role string) int { return sb.scores[role] }

// Entries returns the scores in dataset order.
func (sb Scoreboard) Entries() []RoleScore {
	out := make([]RoleScore, len(sb.order))
	for i, name := range sb.order {
		out[i] = RoleScore{Role: name, Score: sb.scores[name]}
	}
	return out
}

// MarshalJSON keeps dataset order.
func (sb Scoreboard) MarshalJSON() ([]byte, error) {
	return json.Marshal(sb.Entries())
}

// State is a point-in-time copy of a session.
type State struct {
	Scores     []RoleScore `json:"scores"`
	Eliminated []string    `json:"eliminated"`
	Remaining  int         `json:"remaining"`
	Cursor     int         `json:"cursor"`
	Total      int         `json:"total"`
	Complete   bool        `json:"complete"`
	Student    bool        `json:"student"`
}

// Progress is the reply to an accepted answer.
type Progress struct {
	QuestionID     int     `json:"question_id"`
	NextQuestionID int     `json:"next_question_id"`
	Complete       bool    `json:"complete"`
	Outcome        Outcome `json:"outcome"`
	Result         *Result `json:"result,omitempty"`
}

// Session is one respondent's run through the questionnaire. It is safe for
// concurrent use; each answer is applied under the session lock.
type Session struct {
	mu         sync.Mutex
	engine     *Engine
	scores     Scoreboard
	eliminated map[string]struct{}
	cursor     int
	complete   bool
	student    bool
	initial    bool
}

// NewSession starts a fresh session. student is the respondent's status
// until an age answer says otherwise.
func (e *Engine) NewSession(student bool) *Session {
	s := &Session{initial: student}
	s.reset(e)
	return s
}

func (s *Session) reset(e *Engine) {
	s.engine = e
	s.scores = NewScoreboard(model.RoleNames(e.roles))
	s.eliminated = make(map[string]struct{})
	s.cursor = 0
	s.complete = false
	s.student = s.initial
}

// Reset discards all progress and rebinds the session to e, which may hold
// a freshly loaded dataset.
func (s *Session) Reset(e *Engine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(e)
}

// Engine returns the engine the session runs on.
func (s *Session) Engine() *Engine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine
}

// Current returns the next question to answer.
func (s *Session) Current() (model.Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.complete {
		return model.Question{}, false
	}
	return s.engine.questions[s.cursor], true
}

// Submit answers question id, which must be the current question.
func (s *Session) Submit(id int, raw json.RawMessage) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.complete {
		return Progress{}, eris.Wrapf(ErrComplete, "question %d", id)
	}
	if id != s.cursor {
		return Progress{}, eris.Wrapf(ErrOutOfOrder, "question %d answered, question %d expected", id, s.cursor)
	}
	cmd, err := s.engine.Command(id, raw)
	if err != nil {
		return Progress{}, err
	}
	out, err := s.apply(cmd)
	if err != nil {
		return Progress{}, eris.Wrapf(err, "question %d", id)
	}

	s.cursor++
	p := Progress{QuestionID: id, NextQuestionID: s.cursor, Outcome: out}
	if s.cursor >= len(s.engine.questions) {
		s.complete = true
		p.Complete = true
		p.NextQuestionID = -1
		res := s.result()
		p.Result = &res
	}
	return p, nil
}

// Apply evaluates cmd and commits its outcome without moving the cursor.
// Nothing is committed when the rule fails.
func (s *Session) Apply(cmd Command) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(cmd)
}

func (s *Session) apply(cmd Command) (Outcome, error) {
	out, err := Evaluate(s.scope(), cmd, s.student)
	if err != nil {
		return Outcome{}, err
	}
	if c, ok := cmd.(AgeCommand); ok && c.Age.Student != nil {
		s.student = *c.Age.Student
	}

	for role, d := range out.Deltas {
		s.scores.scores[role] += d
	}
	fresh := make([]string, 0, len(out.Eliminated))
	for _, role := range out.Eliminated {
		if _, gone := s.eliminated[role]; gone {
			continue
		}
		s.eliminated[role] = struct{}{}
		fresh = append(fresh, role)
	}
	out.Eliminated = fresh
	return out, nil
}

func (s *Session) scope() []model.Role {
	if s.engine.opts.Scope != ScopeActive {
		return s.engine.roles
	}
	active := make([]model.Role, 0, len(s.engine.roles))
	for _, r := range s.engine.roles {
		if _, gone := s.eliminated[r.Name]; !gone {
			active = append(active, r)
		}
	}
	return active
}

// Result ranks the current standings. It may be called at any point.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result()
}

func (s *Session) result() Result {
	return Rank(s.scores.order, s.scores.scores, s.eliminated, s.engine.opts.ResultCount)
}

// Remaining counts roles not yet eliminated.
func (s *Session) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scores.order) - len(s.eliminated)
}

// Eliminated lists eliminated roles in dataset order.
func (s *Session) Eliminated() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eliminatedNames()
}

func (s *Session) eliminatedNames() []string {
	out := []string{}
	for _, name := range s.scores.order {
		if _, gone := s.eliminated[name]; gone {
			out = append(out, name)
		}
	}
	return out
}

// State snapshots the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Scores:     s.scores.Entries(),
		Eliminated: s.eliminatedNames(),
		Remaining:  len(s.scores.order) - len(s.eliminated),
		Cursor:     s.cursor,
		Total:      len(s.engine.questions),
		Complete:   s.complete,
		Student:    s.student,
	}
}
