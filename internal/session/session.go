// Package session drives one player's bet card through rounds of drawings.
// It is the call surface the views use: it sequences the keno core the same
// way for the terminal and the HTTP bridge and keeps the running statistics.
package session

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MJE43/keno-sim/internal/engine"
	"github.com/MJE43/keno-sim/internal/keno"
)

var (
	ErrCardIncomplete  = errors.New("bet card incomplete")
	ErrRoundInProgress = errors.New("round in progress")
)

// Options configures a session. A nil Source falls back to a randomly seeded
// one. When Seeds is set, drawings come from the provably-fair stream with
// the drawing's sequence number as nonce.
type Options struct {
	Source engine.Source
	Seeds  *engine.Seeds
	Wager  decimal.Decimal
}

// Drawing is one completed drawing as shown to a view.
type Drawing struct {
	Result      keno.MatchResult `json:"result"`
	Drawn       []int            `json:"drawn"`
	RevealOrder []int            `json:"reveal_order"`
	Nonce       uint64           `json:"nonce"`
}

func (d Drawing) clone() Drawing {
	d.Drawn = slices.Clone(d.Drawn)
	d.RevealOrder = slices.Clone(d.RevealOrder)
	return d
}

// Session is safe for concurrent use; every method holds the session lock.
type Session struct {
	mu        sync.Mutex
	id        uuid.UUID
	createdAt time.Time

	card   *keno.BetCard
	game   *keno.Game
	drawer *keno.DrawingEngine
	stats  *keno.StatsTracker

	seeds *engine.Seeds
	nonce uint64
	wager decimal.Decimal
	last  *Drawing
}

// New creates a session with an unconfigured card.
func New(opts Options) *Session {
	src := opts.Source
	if src == nil {
		src = engine.NewRandomSource()
	}
	wager := opts.Wager
	if wager.IsZero() {
		wager = decimal.NewFromInt(1)
	}
	var seeds *engine.Seeds
	if opts.Seeds != nil {
		cp := *opts.Seeds
		seeds = &cp
	}
	return &Session{
		id:        uuid.New(),
		createdAt: time.Now().UTC(),
		card:      keno.NewBetCard(src),
		game:      keno.NewGame(),
		drawer:    keno.NewDrawingEngine(src),
		stats:     keno.NewStatsTracker(),
		seeds:     seeds,
		wager:     wager,
	}
}

// ID identifies the session in logs and API responses.
func (s *Session) ID() uuid.UUID { return s.id }

// Configure sets the spot count and drawings for the next round. The card's
// picks are cleared. Nothing changes if either value is illegal.
func (s *Session) Configure(spots, drawings int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsRunning() {
		return ErrRoundInProgress
	}
	if err := s.game.Configure(spots, drawings); err != nil {
		return err
	}
	return s.card.SetSpotCount(spots)
}

// TogglePick flips n on the card.
func (s *Session) TogglePick(n int) (keno.PickOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsRunning() {
		return keno.PickRejected, ErrRoundInProgress
	}
	return s.card.TogglePick(n)
}

// IsPicked reports whether n is on the card.
func (s *Session) IsPicked(n int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.card.Contains(n)
}

// QuickPick completes the card with random numbers and returns the picks.
func (s *Session) QuickPick() ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsRunning() {
		return nil, ErrRoundInProgress
	}
	s.card.QuickFill()
	return s.card.Picks(), nil
}

// Start begins the configured round and performs its first drawing.
func (s *Session) Start() (Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.game.IsRunning() {
		return Drawing{}, ErrRoundInProgress
	}
	if !s.card.IsComplete() {
		return Drawing{}, fmt.Errorf("%w: pick exactly %d numbers", ErrCardIncomplete, s.card.SpotCount())
	}
	if err := s.game.Start(); err != nil {
		return Drawing{}, err
	}
	return s.drawLocked()
}

// Continue performs the next drawing of the running round.
func (s *Session) Continue() (Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.game.HasNext() {
		return Drawing{}, fmt.Errorf("%w: no drawing left in this round", keno.ErrPreconditionViolation)
	}
	return s.drawLocked()
}

func (s *Session) drawLocked() (Drawing, error) {
	nonce := s.nonce + 1
	var order []int
	if s.seeds != nil {
		order = keno.ReplayDraw(*s.seeds, nonce)
	} else {
		order = s.drawer.Draw()
	}

	res, err := s.game.ComputeResult(s.card.Picks(), order)
	if err != nil {
		return Drawing{}, err
	}
	s.nonce = nonce
	s.stats.Record(res)

	d := Drawing{
		Result:      res,
		Drawn:       keno.Sorted(order),
		RevealOrder: order,
		Nonce:       nonce,
	}
	s.last = &d
	return d.clone(), nil
}

// Reset abandons any round in progress and clears the card back to the
// unconfigured state. Statistics are kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.card.Clear()
	s.game = keno.NewGame()
	s.last = nil
}

// State is a read-only view of the session for rendering.
type State struct {
	ID              string   `json:"id"`
	Spots           int      `json:"spots"`
	Picks           []int    `json:"picks"`
	Complete        bool     `json:"complete"`
	DrawingsPlanned int      `json:"drawings_planned"`
	CurrentDrawing  int      `json:"current_drawing"`
	Running         bool     `json:"running"`
	HasNext         bool     `json:"has_next"`
	TotalWinnings   int      `json:"total_winnings"`
	LastDrawing     *Drawing `json:"last_drawing,omitempty"`
	ServerSeedHash  string   `json:"server_seed_hash,omitempty"`
}

// Snapshot returns the current state. Slices in it are copies.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		ID:              s.id.String(),
		Spots:           s.card.SpotCount(),
		Picks:           s.card.Picks(),
		Complete:        s.card.IsComplete(),
		DrawingsPlanned: s.game.DrawingsPlanned(),
		CurrentDrawing:  s.game.CurrentDrawing(),
		Running:         s.game.IsRunning(),
		HasNext:         s.game.HasNext(),
		TotalWinnings:   s.stats.TotalWinnings(),
	}
	if s.last != nil {
		d := s.last.clone()
		st.LastDrawing = &d
	}
	if s.seeds != nil {
		st.ServerSeedHash = engine.HashServerSeed(s.seeds.Server)
	}
	return st
}

// History returns every drawing result of the session, oldest first.
func (s *Session) History() []keno.MatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.History()
}

// Summary extends the tracker's aggregate with money figures. Table payouts
// are for a $1 play and scale with the wager.
type Summary struct {
	keno.Summary
	SessionID      string          `json:"session_id"`
	Since          time.Time       `json:"since"`
	Wager          decimal.Decimal `json:"wager"`
	Wagered        decimal.Decimal `json:"wagered"`
	Won            decimal.Decimal `json:"won"`
	Net            decimal.Decimal `json:"net"`
	ReturnToPlayer decimal.Decimal `json:"return_to_player"`
}

// Summary returns the session's statistics with money totals.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.stats.Summary()
	wagered := s.wager.Mul(decimal.NewFromInt(int64(base.Drawings)))
	won := s.wager.Mul(decimal.NewFromInt(int64(base.TotalWinnings)))
	rtp := decimal.Zero
	if !wagered.IsZero() {
		rtp = won.DivRound(wagered, 4)
	}
	return Summary{
		Summary:        base,
		SessionID:      s.id.String(),
		Since:          s.createdAt,
		Wager:          s.wager,
		Wagered:        wagered,
		Won:            won,
		Net:            won.Sub(wagered),
		ReturnToPlayer: rtp,
	}
}
