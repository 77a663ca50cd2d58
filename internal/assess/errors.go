package assess

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/volunteer-match/internal/categorize"
	"github.com/sells-group/volunteer-match/internal/response"
)

// Error kinds. Callers classify with eris.Is or the Is* helpers.
var (
	// ErrInvalid marks a rejected request: bad question id, malformed
	// answer or answer outside the question's options.
	ErrInvalid = eris.New("invalid request")
	// ErrOutOfOrder marks an answer to a question other than the current one.
	ErrOutOfOrder = eris.New("answer out of order")
	// ErrComplete marks an answer submitted after the last question.
	ErrComplete = eris.New("assessment already complete")
	// ErrDataQuality marks role data too ambiguous to score.
	ErrDataQuality = eris.New("role data quality fault")
	// ErrNotInitialized marks use of an engine that failed to load.
	ErrNotInitialized = eris.New("system not initialized")
	// ErrPlan marks a question sequence the engine cannot run.
	ErrPlan = eris.New("invalid question plan")
)

// IsValidation reports whether err is a locally recoverable rejection.
func IsValidation(err error) bool {
	return eris.Is(err, ErrInvalid) || eris.Is(err, response.ErrInvalid) ||
		eris.Is(err, ErrOutOfOrder) || eris.Is(err, ErrComplete)
}

// IsDataQuality reports whether err stems from ambiguous role data.
func IsDataQuality(err error) bool {
	return eris.Is(err, ErrDataQuality) || eris.Is(err, categorize.ErrAmbiguous)
}
