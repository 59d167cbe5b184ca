package api

import (
	"github.com/MJE43/keno-sim/internal/keno"
	"github.com/MJE43/keno-sim/internal/session"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

const (
	ErrTypeInvalidConfiguration = "invalid_configuration"
	ErrTypeOutOfRange           = "out_of_range"
	ErrTypeValidation           = "validation_error"

	ErrTypePrecondition    = "precondition_violation"
	ErrTypeCardIncomplete  = "card_incomplete"
	ErrTypeRoundInProgress = "round_in_progress"

	ErrTypeInternal = "internal_error"
)

// ErrorCategory groups error types for logging.
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryGame       ErrorCategory = "game"
	CategorySystem     ErrorCategory = "system"
)

// GetErrorCategory returns the category an error type belongs to.
func GetErrorCategory(errType string) ErrorCategory {
	switch errType {
	case ErrTypeInvalidConfiguration, ErrTypeOutOfRange, ErrTypeValidation:
		return CategoryValidation
	case ErrTypePrecondition, ErrTypeCardIncomplete, ErrTypeRoundInProgress:
		return CategoryGame
	default:
		return CategorySystem
	}
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string      `json:"status"`
	SessionID string      `json:"session_id"`
	Uptime    string      `json:"uptime"`
	Version   VersionInfo `json:"version"`
}

// ConfigureRequest is the body of POST /api/v1/session/configure.
type ConfigureRequest struct {
	Spots    int `json:"spots"`
	Drawings int `json:"drawings"`
}

// PickResponse reports the outcome of a pick toggle.
type PickResponse struct {
	Number  int           `json:"number"`
	Outcome string        `json:"outcome"`
	State   session.State `json:"state"`
}

// DrawingResponse carries one drawing and the state after it.
type DrawingResponse struct {
	Drawing session.Drawing `json:"drawing"`
	State   session.State   `json:"state"`
}

// PayoutRow lists the paying tiers for one spot count.
type PayoutRow struct {
	Spots int         `json:"spots"`
	Tiers []keno.Tier `json:"tiers"`
}

// PayoutsResponse is the full payout table.
type PayoutsResponse struct {
	Table []PayoutRow `json:"table"`
	Text  string      `json:"text"`
}

// OddsRow is the probability and payout of one hit count.
type OddsRow struct {
	Hits        int     `json:"hits"`
	Payout      int     `json:"payout"`
	Probability float64 `json:"probability"`
}

// OddsResponse is the odds table for one spot count.
type OddsResponse struct {
	Spots          int       `json:"spots"`
	ExpectedReturn float64   `json:"expected_return"`
	Rows           []OddsRow `json:"rows"`
}

// RulesResponse carries the rules and odds texts.
type RulesResponse struct {
	Rules string `json:"rules"`
	Odds  string `json:"odds"`
}

// HistoryResponse lists every drawing result of the session.
type HistoryResponse struct {
	Results       []keno.MatchResult `json:"results"`
	TotalWinnings int                `json:"total_winnings"`
}

// VerifyResponse is a replayed provably-fair drawing.
type VerifyResponse struct {
	ServerSeedHash string `json:"server_seed_hash"`
	ClientSeed     string `json:"client_seed"`
	Nonce          uint64 `json:"nonce"`
	RevealOrder    []int  `json:"reveal_order"`
	Drawn          []int  `json:"drawn"`
}
