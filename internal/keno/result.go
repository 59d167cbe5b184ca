package keno

import (
	"encoding/json"
	"slices"
)

// MatchResult is the outcome of one drawing. It is immutable: accessors
// hand out copies.
type MatchResult struct {
	round  int
	hits   []int
	payout int
}

// NewMatchResult builds a result; the hit count is derived from hits.
func NewMatchResult(round int, hits []int, payout int) MatchResult {
	h := make([]int, len(hits))
	copy(h, hits)
	slices.Sort(h)
	return MatchResult{round: round, hits: h, payout: payout}
}

// Round is the 1-based drawing number within its round.
func (r MatchResult) Round() int { return r.round }

// Hits returns the matched numbers in ascending order.
func (r MatchResult) Hits() []int { return slices.Clone(r.hits) }

// HitCount is the number of matched numbers.
func (r MatchResult) HitCount() int { return len(r.hits) }

// Payout is the table payout in dollars for a $1 play.
func (r MatchResult) Payout() int { return r.payout }

// Won reports whether the drawing paid anything.
func (r MatchResult) Won() bool { return r.payout > 0 }

type matchResultJSON struct {
	Round    int   `json:"round"`
	Hits     []int `json:"hits"`
	HitCount int   `json:"hit_count"`
	Payout   int   `json:"payout"`
}

func (r MatchResult) MarshalJSON() ([]byte, error) {
	hits := r.hits
	if hits == nil {
		hits = []int{}
	}
	return json.Marshal(matchResultJSON{
		Round:    r.round,
		Hits:     hits,
		HitCount: len(r.hits),
		Payout:   r.payout,
	})
}
