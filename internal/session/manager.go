// Package session owns the assessment sessions served over HTTP and MCP: a
// default session for single-respondent clients plus any number of
// uuid-keyed sessions.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/metrics"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/store"
	"github.com/sells-group/volunteer-match/pkg/notion"
)

// DefaultID addresses the default session.
const DefaultID = "default"

// ErrNotFound marks an unknown session id.
var ErrNotFound = eris.New("session not found")

// Loader builds an engine from freshly loaded roles and questions.
type Loader func(ctx context.Context) (*assess.Engine, error)

// Publisher receives completed results. *notion.Publisher satisfies it.
type Publisher interface {
	Publish(ctx context.Context, r notion.ResultPage) (string, error)
}

// Options configures a Manager.
type Options struct {
	// Student is the status given to sessions created without one.
	Student   bool
	Store     store.Store
	Publisher Publisher
}

// Manager maps session ids to sessions.
type Manager struct {
	loader    Loader
	student   bool
	store     store.Store
	publisher Publisher

	mu          sync.RWMutex
	engine      *assess.Engine
	initialized bool
	def         *assess.Session
	sessions    map[string]*assess.Session
}

// NewManager loads the first engine. A load failure is returned, not
// deferred, so callers can fail fast at startup.
func NewManager(ctx context.Context, loader Loader, opts Options) (*Manager, error) {
	if loader == nil {
		return nil, eris.New("session: nil loader")
	}
	st := opts.Store
	if st == nil {
		st = store.Nop{}
	}
	m := &Manager{
		loader:    loader,
		student:   opts.Student,
		store:     st,
		publisher: opts.Publisher,
		sessions:  make(map[string]*assess.Session),
	}

	e, err := loader(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "session: initial load")
	}
	m.engine = e
	m.initialized = true
	m.def = e.NewSession(m.student)
	m.gauge()
	return m, nil
}

// Initialized reports whether the last load succeeded.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Engine returns the current engine.
func (m *Manager) Engine() (*assess.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return nil, assess.ErrNotInitialized
	}
	return m.engine, nil
}

// Create starts a new session. A nil student uses the configured default.
func (m *Manager) Create(student *bool) (string, *assess.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return "", nil, assess.ErrNotInitialized
	}
	st := m.student
	if student != nil {
		st = *student
	}
	id := uuid.New().String()
	s := m.engine.NewSession(st)
	m.sessions[id] = s
	m.gaugeLocked()

	zap.L().Info("session: created", zap.String("session_id", id), zap.Bool("student", st))
	return id, s, nil
}

// Get returns the session for id. An empty id or DefaultID is the default
// session.
func (m *Manager) Get(id string) (*assess.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.initialized {
		return nil, assess.ErrNotInitialized
	}
	if id == "" || id == DefaultID {
		return m.def, nil
	}
	s, ok := m.sessions[id]
	if !ok {
		return nil, eris.Wrapf(ErrNotFound, "session %s", id)
	}
	return s, nil
}

// Delete drops session id. The default session cannot be deleted.
func (m *Manager) Delete(id string) error {
	if id == "" || id == DefaultID {
		return eris.Wrap(assess.ErrInvalid, "the default session cannot be deleted")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return eris.Wrapf(ErrNotFound, "session %s", id)
	}
	delete(m.sessions, id)
	m.gaugeLocked()
	zap.L().Info("session: deleted", zap.String("session_id", id))
	return nil
}

// IDs lists the explicit sessions.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Question returns question i of the engine session id runs on.
func (m *Manager) Question(id string, i int) (model.Question, error) {
	s, err := m.Get(id)
	if err != nil {
		return model.Question{}, err
	}
	return s.Engine().Question(i)
}

// answerRecord is the audit payload of an accepted answer.
type answerRecord struct {
	Key        string          `json:"key"`
	Rule       string          `json:"rule"`
	Answer     json.RawMessage `json:"answer"`
	Deltas     map[string]int  `json:"deltas,omitempty"`
	Eliminated []string        `json:"eliminated,omitempty"`
}

// resultRecord is the audit payload of a completed session.
type resultRecord struct {
	Result   assess.Result      `json:"result"`
	Scores   []assess.RoleScore `json:"scores"`
	Answered int                `json:"answered"`
}

// Submit applies an answer to session id. Audit and publishing failures are
// logged and never undo an accepted answer.
func (m *Manager) Submit(ctx context.Context, id string, questionID int, raw json.RawMessage) (assess.Progress, error) {
	s, err := m.Get(id)
	if err != nil {
		return assess.Progress{}, err
	}
	if id == "" {
		id = DefaultID
	}

	p, err := s.Submit(questionID, raw)
	if err != nil {
		metrics.AnswersRejected.WithLabelValues(reason(err)).Inc()
		zap.L().Debug("session: answer rejected",
			zap.String("session_id", id),
			zap.Int("question_id", questionID),
			zap.Error(err),
		)
		return assess.Progress{}, err
	}

	q, _ := s.Engine().Question(questionID)
	metrics.AnswersAccepted.WithLabelValues(q.Rule).Inc()
	metrics.RolesEliminated.WithLabelValues(q.Rule).Add(float64(len(p.Outcome.Eliminated)))
	zap.L().Info("session: answer accepted",
		zap.String("session_id", id),
		zap.Int("question_id", questionID),
		zap.String("rule", q.Rule),
		zap.Strings("eliminated", p.Outcome.Eliminated),
	)

	if err := m.store.RecordAnswer(ctx, id, questionID, answerRecord{
		Key:        q.Key,
		Rule:       q.Rule,
		Answer:     raw,
		Deltas:     p.Outcome.Deltas,
		Eliminated: p.Outcome.Eliminated,
	}); err != nil {
		zap.L().Warn("session: audit answer failed", zap.String("session_id", id), zap.Error(err))
	}

	if p.Complete && p.Result != nil {
		m.complete(ctx, id, s, *p.Result)
	}
	return p, nil
}

func (m *Manager) complete(ctx context.Context, id string, s *assess.Session, res assess.Result) {
	metrics.ObserveResult(true)
	st := s.State()
	if err := m.store.RecordResult(ctx, id, resultRecord{Result: res, Scores: st.Scores, Answered: st.Cursor}); err != nil {
		zap.L().Warn("session: audit result failed", zap.String("session_id", id), zap.Error(err))
	}
	if m.publisher == nil {
		return
	}
	pageID, err := m.publisher.Publish(ctx, notion.ResultPage{
		SessionID:   id,
		BestFit:     res.BestFit(),
		NextBest:    res.NextBest(),
		Answered:    st.Cursor,
		CompletedAt: time.Now().UTC(),
	})
	if err != nil {
		zap.L().Warn("session: publish result failed", zap.String("session_id", id), zap.Error(err))
		return
	}
	zap.L().Info("session: result published", zap.String("session_id", id), zap.String("page_id", pageID))
}

// Result ranks the current standings of session id.
func (m *Manager) Result(id string) (assess.Result, error) {
	s, err := m.Get(id)
	if err != nil {
		return assess.Result{}, err
	}
	res := s.Result()
	metrics.ObserveResult(s.State().Complete)
	return res, nil
}

// State snapshots session id.
func (m *Manager) State(id string) (assess.State, error) {
	s, err := m.Get(id)
	if err != nil {
		return assess.State{}, err
	}
	return s.State(), nil
}

// Roles lists the loaded roles.
func (m *Manager) Roles() ([]model.Role, error) {
	e, err := m.Engine()
	if err != nil {
		return nil, err
	}
	return e.Roles(), nil
}

// Reload rebuilds the engine from its sources. On failure the manager is
// marked uninitialized until a later reload succeeds.
func (m *Manager) Reload(ctx context.Context) (*assess.Engine, error) {
	e, err := m.loader(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.initialized = false
		metrics.Reloads.WithLabelValues("failed").Inc()
		zap.L().Error("session: reload failed", zap.Error(err))
		return nil, eris.Wrapf(assess.ErrNotInitialized, "reload: %v", err)
	}
	m.engine = e
	if !m.initialized || m.def == nil {
		m.def = e.NewSession(m.student)
	}
	m.initialized = true
	metrics.Reloads.WithLabelValues("ok").Inc()
	metrics.DatasetRoles.Set(float64(len(e.Roles())))
	return e, nil
}

// Reset reloads the dataset and restarts session id on it. Other sessions
// keep running on the engine they started with.
func (m *Manager) Reset(ctx context.Context, id string) error {
	if id != "" && id != DefaultID {
		// fail on unknown ids before paying for a reload
		m.mu.RLock()
		_, ok := m.sessions[id]
		m.mu.RUnlock()
		if !ok {
			return eris.Wrapf(ErrNotFound, "session %s", id)
		}
	}

	e, err := m.Reload(ctx)
	if err != nil {
		return err
	}
	s, err := m.Get(id)
	if err != nil {
		return err
	}
	s.Reset(e)
	zap.L().Info("session: reset", zap.String("session_id", nonEmpty(id)), zap.Int("roles", len(e.Roles())))
	return nil
}

func (m *Manager) gauge() {
	m.mu.RLock()
	defer m.mu.RUnlock()
	m.gaugeLocked()
}

func (m *Manager) gaugeLocked() {
	metrics.SessionsActive.Set(float64(len(m.sessions) + 1))
	if m.engine != nil {
		metrics.DatasetRoles.Set(float64(len(m.engine.Roles())))
	}
}

func reason(err error) string {
	switch {
	case eris.Is(err, assess.ErrComplete):
		return "complete"
	case eris.Is(err, assess.ErrOutOfOrder):
		return "out_of_order"
	case assess.IsDataQuality(err):
		return "data_quality"
	case assess.IsValidation(err):
		return "invalid"
	}
	return "other"
}

func nonEmpty(id string) string {
	if id == "" {
		return DefaultID
	}
	return id
}
