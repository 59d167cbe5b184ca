package keno

import "slices"

// StatsTracker keeps every result of a session in the order it was
// recorded, along with the running total.
type StatsTracker struct {
	total   int
	history []MatchResult
}

// NewStatsTracker returns an empty tracker.
func NewStatsTracker() *StatsTracker {
	return &StatsTracker{}
}

// Record appends r and adds its payout to the total.
func (s *StatsTracker) Record(r MatchResult) {
	s.history = append(s.history, r)
	s.total += r.Payout()
}

// TotalWinnings is the sum of every recorded payout.
func (s *StatsTracker) TotalWinnings() int { return s.total }

// History returns a copy of the recorded results, oldest first.
func (s *StatsTracker) History() []MatchResult {
	return slices.Clone(s.history)
}

// Summary aggregates the history.
type Summary struct {
	Drawings        int         `json:"drawings"`
	WinningDrawings int         `json:"winning_drawings"`
	TotalWinnings   int         `json:"total_winnings"`
	BestPayout      int         `json:"best_payout"`
	HitFrequency    map[int]int `json:"hit_frequency"`
}

// Summary computes the aggregate over every recorded drawing.
func (s *StatsTracker) Summary() Summary {
	sum := Summary{
		Drawings:      len(s.history),
		TotalWinnings: s.total,
		HitFrequency:  make(map[int]int),
	}
	for _, r := range s.history {
		if r.Won() {
			sum.WinningDrawings++
		}
		sum.BestPayout = max(sum.BestPayout, r.Payout())
		sum.HitFrequency[r.HitCount()]++
	}
	return sum
}
