package assess

import (
	"encoding/json"
	"sort"
	"strings"
)

// NoRoles is printed when a result list is empty.
const NoRoles = "None"

// Result is a recommendation: the roles that survived, and eliminated roles
// worth a second look when too few survived.
type Result struct {
	Best []string
	Next []string
}

// BestFit renders the best fit roles for display.
func (r Result) BestFit() string { return joinRoles(r.Best) }

// NextBest renders the fallback roles for display.
func (r Result) NextBest() string { return joinRoles(r.Next) }

func joinRoles(names []string) string {
	if len(names) == 0 {
		return NoRoles
	}
	return strings.Join(names, ", ")
}

// MarshalJSON renders the result the way respondents see it.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{
		"Best fit roles":  r.BestFit(),
		"Next best roles": r.NextBest(),
	})
}

// Rank picks up to n roles. When more than n roles survive, the first n in
// dataset order win and there is no fallback. Otherwise every survivor is a
// best fit and the highest scoring eliminated roles fill the gap, ties kept
// in dataset order.
func Rank(order []string, scores map[string]int, eliminated map[string]struct{}, n int) Result {
	if n <= 0 {
		n = DefaultResultCount
	}
	var remaining, out []string
	for _, name := range order {
		if _, gone := eliminated[name]; gone {
			out = append(out, name)
		} else {
			remaining = append(remaining, name)
		}
	}

	if len(remaining) > n {
		return Result{Best: remaining[:n]}
	}

	res := Result{Best: remaining}
	fill := n - len(remaining)
	if fill == 0 {
		return res
	}
	sort.SliceStable(out, func(i, j int) bool {
		return scores[out[i]] > scores[out[j]]
	})
	if len(out) > fill {
		out = out[:fill]
	}
	res.Next = out
	return res
}
