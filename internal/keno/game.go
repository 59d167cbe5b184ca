package keno

import "fmt"

// Game runs one bet through 1..MaxDrawings drawings.
//
// It moves from unconfigured to configured on Configure, to running on
// Start, and back to idle once the last planned drawing is computed. A new
// Configure or Start begins the next round.
type Game struct {
	spots   int
	planned int
	current int
	running bool
}

// NewGame returns an unconfigured game.
func NewGame() *Game {
	return &Game{}
}

// Configure sets the spot count and number of drawings for the next round.
// Both values are checked before anything changes.
func (g *Game) Configure(spots, drawings int) error {
	if !IsValidSpotCount(spots) {
		return invalidConfig("spot count", spots, "one of 1, 4, 8, 10")
	}
	if drawings < 1 || drawings > MaxDrawings {
		return invalidConfig("drawings", drawings, fmt.Sprintf("1..%d", MaxDrawings))
	}
	g.spots = spots
	g.planned = drawings
	g.current = 0
	g.running = false
	return nil
}

// Start begins the configured round from drawing zero.
func (g *Game) Start() error {
	if !g.configured() {
		return precondition("drawings planned", 0, "configure before start")
	}
	g.running = true
	g.current = 0
	return nil
}

// ComputeResult scores one drawing: it advances the drawing index, matches
// picks against drawn and looks up the payout. It fails when the game is
// unconfigured or every planned drawing has already been computed.
func (g *Game) ComputeResult(picks, drawn []int) (MatchResult, error) {
	if !g.configured() {
		return MatchResult{}, precondition("drawings planned", 0, "configure before computing a result")
	}
	if g.current >= g.planned {
		return MatchResult{}, precondition("drawing", g.current+1, fmt.Sprintf("at most %d planned", g.planned))
	}

	g.current++

	inDraw := make(map[int]struct{}, len(drawn))
	for _, n := range drawn {
		inDraw[n] = struct{}{}
	}
	hits := make([]int, 0, len(picks))
	for _, p := range picks {
		if _, ok := inDraw[p]; ok {
			hits = append(hits, p)
			delete(inDraw, p) // count duplicate picks once
		}
	}

	if g.current >= g.planned {
		g.running = false
	}
	return NewMatchResult(g.current, hits, Payout(g.spots, len(hits))), nil
}

// HasNext reports whether the running round has drawings left.
func (g *Game) HasNext() bool {
	return g.running && g.current < g.planned
}

// IsRunning reports whether a round is in progress.
func (g *Game) IsRunning() bool { return g.running }

// CurrentDrawing is the number of drawings computed so far this round.
func (g *Game) CurrentDrawing() int { return g.current }

// DrawingsPlanned is the number of drawings in the configured round.
func (g *Game) DrawingsPlanned() int { return g.planned }

func (g *Game) configured() bool { return g.planned > 0 }
