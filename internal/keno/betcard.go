package keno

import (
	"slices"

	"github.com/MJE43/keno-sim/internal/engine"
)

// Board limits.
const (
	MinNumber   = 1
	MaxNumber   = 80
	DrawSize    = 20
	MaxDrawings = 4
)

// PickOutcome is the result of toggling a number on a card.
type PickOutcome int

const (
	// PickRejected means the card was already full and nothing changed.
	PickRejected PickOutcome = iota
	PickAdded
	PickRemoved
)

func (o PickOutcome) String() string {
	switch o {
	case PickAdded:
		return "added"
	case PickRemoved:
		return "removed"
	default:
		return "rejected"
	}
}

// BetCard holds the player's spot count and picked numbers. A zero spot
// count means the card is unconfigured.
type BetCard struct {
	spots int
	picks map[int]struct{}
	rng   engine.Source
}

// NewBetCard returns an unconfigured card. src drives QuickFill; nil means a
// randomly seeded source.
func NewBetCard(src engine.Source) *BetCard {
	if src == nil {
		src = engine.NewRandomSource()
	}
	return &BetCard{
		picks: make(map[int]struct{}, 10),
		rng:   src,
	}
}

// SetSpotCount sets how many numbers the card takes and clears any picks.
// On error the card is left untouched.
func (c *BetCard) SetSpotCount(n int) error {
	if !IsValidSpotCount(n) {
		return invalidConfig("spot count", n, "one of 1, 4, 8, 10")
	}
	c.spots = n
	clear(c.picks)
	return nil
}

// TogglePick removes n if it is picked, otherwise adds it when the card has
// room. A full card yields PickRejected, which is not an error.
func (c *BetCard) TogglePick(n int) (PickOutcome, error) {
	if n < MinNumber || n > MaxNumber {
		return PickRejected, &ValueError{Kind: ErrOutOfRange, Field: "pick", Value: n, Constraint: "1..80"}
	}
	if _, ok := c.picks[n]; ok {
		delete(c.picks, n)
		return PickRemoved, nil
	}
	if len(c.picks) >= c.spots {
		return PickRejected, nil
	}
	c.picks[n] = struct{}{}
	return PickAdded, nil
}

// QuickFill tops the card up with random numbers until it is complete.
// Existing picks are kept. It does nothing on an unconfigured card.
func (c *BetCard) QuickFill() {
	for len(c.picks) < c.spots {
		c.picks[MinNumber+c.rng.IntN(MaxNumber)] = struct{}{}
	}
}

// IsComplete reports whether every spot has been picked.
func (c *BetCard) IsComplete() bool {
	return c.spots > 0 && len(c.picks) == c.spots
}

// Clear empties the card and returns it to the unconfigured state.
func (c *BetCard) Clear() {
	clear(c.picks)
	c.spots = 0
}

// SpotCount is the configured number of spots, 0 when unconfigured.
func (c *BetCard) SpotCount() int { return c.spots }

// Picks returns the picked numbers in ascending order. The slice is a copy.
func (c *BetCard) Picks() []int {
	out := make([]int, 0, len(c.picks))
	for n := range c.picks {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Contains reports whether n is picked.
func (c *BetCard) Contains(n int) bool {
	_, ok := c.picks[n]
	return ok
}
