// Package server exposes the questionnaire over HTTP.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/dataset"
	"github.com/sells-group/volunteer-match/internal/model"
	"github.com/sells-group/volunteer-match/internal/session"
	"github.com/sells-group/volunteer-match/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	// Store backs the history endpoints. Nil disables them.
	Store store.Store
}

// Server routes requests to a session manager.
type Server struct {
	sessions *session.Manager
	store    store.Store
	router   chi.Router
}

// New builds the router.
func New(m *session.Manager, opts Options) *Server {
	s := &Server{sessions: m, store: opts.Store}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(withRequestID)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		s.sessionRoutes(r)
		r.Get("/roles", s.roles)

		r.Post("/sessions", s.createSession)
		r.Get("/sessions", s.listSessions)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Delete("/", s.deleteSession)
			s.sessionRoutes(r)
		})
	})

	s.router = r
	return s
}

// sessionRoutes mounts the per-session operations. Under /api they act on
// the default session; under /api/sessions/{id} on that session.
func (s *Server) sessionRoutes(r chi.Router) {
	r.Get("/get-question", s.getQuestion)
	r.Post("/submit-answer", s.submitAnswer)
	r.Get("/get-result", s.getResult)
	r.Post("/reset", s.reset)
	r.Get("/state", s.state)
	r.Get("/history", s.history)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "id")
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	if !s.sessions.Initialized() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_initialized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getQuestion(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	raw := r.URL.Query().Get("question_id")
	if raw == "" {
		sess, err := s.sessions.Get(id)
		if err != nil {
			writeError(w, r, err)
			return
		}
		q, ok := sess.Current()
		if !ok {
			// a finished session starts over at the first descriptor
			q, err = sess.Engine().Question(0)
			if err != nil {
				writeError(w, r, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, q)
		return
	}

	qid, err := assess.ParseQuestionID(raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := s.sessions.Question(id, qid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type submitRequest struct {
	QuestionID json.RawMessage `json:"question_id"`
	Answer     json.RawMessage `json:"answer"`
}

type submitResponse struct {
	Status         string         `json:"status"`
	QuestionID     int            `json:"question_id"`
	NextQuestionID int            `json:"next_question_id"`
	Complete       bool           `json:"complete"`
	Eliminated     []string       `json:"eliminated"`
	Result         *assess.Result `json:"result,omitempty"`
}

// parseQuestionID accepts "3" or 3.
func parseQuestionID(raw json.RawMessage) (int, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return assess.ParseQuestionID(str)
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, assess.ErrInvalid
	}
	return n, nil
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		badRequest(w, r, "invalid request body: %v", err)
		return
	}
	if len(req.QuestionID) == 0 || string(req.QuestionID) == "null" {
		badRequest(w, r, "question_id is required")
		return
	}
	if len(req.Answer) == 0 {
		badRequest(w, r, "answer is required")
		return
	}
	qid, err := parseQuestionID(req.QuestionID)
	if err != nil {
		badRequest(w, r, "question_id %s is not an integer", string(req.QuestionID))
		return
	}

	p, err := s.sessions.Submit(r.Context(), sessionID(r), qid, req.Answer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	eliminated := p.Outcome.Eliminated
	if eliminated == nil {
		eliminated = []string{}
	}
	writeJSON(w, http.StatusOK, submitResponse{
		Status:         "accepted",
		QuestionID:     p.QuestionID,
		NextQuestionID: p.NextQuestionID,
		Complete:       p.Complete,
		Eliminated:     eliminated,
		Result:         p.Result,
	})
}

func (s *Server) getResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.sessions.Result(sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := s.sessions.Reset(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	st, err := s.sessions.State(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset", "state": st})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	st, err := s.sessions.State(sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, r, session.ErrNotFound)
		return
	}
	id := sessionID(r)
	if id == "" {
		id = session.DefaultID
	}
	filter := store.HistoryFilter{SessionID: id, Kind: store.Kind(r.URL.Query().Get("kind"))}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			badRequest(w, r, "limit %q is not a non-negative integer", raw)
			return
		}
		filter.Limit = n
	}
	entries, err := s.store.ListHistory(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []store.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) roles(w http.ResponseWriter, r *http.Request) {
	roles, err := s.sessions.Roles()
	if err != nil {
		writeError(w, r, err)
		return
	}
	if where := strings.TrimSpace(r.URL.Query().Get("where")); where != "" {
		roles, err = dataset.Filter(roles, where)
		if err != nil {
			badRequest(w, r, "%v", err)
			return
		}
	}
	if roles == nil {
		roles = []model.Role{}
	}
	writeJSON(w, http.StatusOK, roles)
}

type createRequest struct {
	Student *bool `json:"student"`
}

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
			badRequest(w, r, "invalid request body: %v", err)
			return
		}
	}
	id, sess, err := s.sessions.Create(req.Student)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, _ := sess.Current()
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": id,
		"question":   q,
		"state":      sess.State(),
	})
}

func (s *Server) listSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.sessions.IDs()})
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(sessionID(r)); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
