package server

import (
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/volunteer-match/internal/assess"
	"github.com/sells-group/volunteer-match/internal/session"
)

// Error codes carried in the envelope.
const (
	CodeInvalid        = "invalid_request"
	CodeComplete       = "assessment_complete"
	CodeDataQuality    = "data_quality"
	CodeNotInitialized = "not_initialized"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps an error to its HTTP status and envelope code.
func classify(err error) (int, string) {
	switch {
	case eris.Is(err, assess.ErrNotInitialized):
		return http.StatusServiceUnavailable, CodeNotInitialized
	case eris.Is(err, session.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case eris.Is(err, assess.ErrComplete):
		return http.StatusConflict, CodeComplete
	case assess.IsDataQuality(err):
		return http.StatusUnprocessableEntity, CodeDataQuality
	case assess.IsValidation(err):
		return http.StatusBadRequest, CodeInvalid
	}
	return http.StatusInternalServerError, CodeInternal
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		zap.L().Error("server: request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID(r.Context())),
			zap.Error(err),
		)
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: msg}})
}

func badRequest(w http.ResponseWriter, r *http.Request, format string, args ...any) {
	writeError(w, r, eris.Wrapf(assess.ErrInvalid, format, args...))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Debug("server: write response", zap.Error(err))
	}
}
