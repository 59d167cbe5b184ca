package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MJE43/keno-sim/internal/engine"
	"github.com/MJE43/keno-sim/internal/keno"
	"github.com/MJE43/keno-sim/internal/logging"
	"github.com/MJE43/keno-sim/internal/session"
)

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		SessionID: s.sess.ID().String(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Version:   GetVersionInfo(),
	})
}

// GET /api/v1/payouts
func (s *Server) handlePayouts(w http.ResponseWriter, r *http.Request) {
	spots := keno.SpotCounts()
	rows := make([]PayoutRow, 0, len(spots))
	for _, n := range spots {
		rows = append(rows, PayoutRow{Spots: n, Tiers: keno.Tiers(n)})
	}
	s.writeJSON(w, http.StatusOK, PayoutsResponse{Table: rows, Text: keno.PayoutTableText()})
}

// GET /api/v1/rules
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, RulesResponse{Rules: keno.RulesText(), Odds: keno.OddsTableText()})
}

// GET /api/v1/odds/{spots}
func (s *Server) handleOdds(w http.ResponseWriter, r *http.Request) {
	spots, err := strconv.Atoi(chi.URLParam(r, "spots"))
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "spots", "spots must be an integer")
		return
	}
	if !keno.IsValidSpotCount(spots) {
		s.errorHandler.HandleValidationError(w, r, "spots", "spots must be one of 1, 4, 8, 10")
		return
	}

	resp := OddsResponse{Spots: spots, ExpectedReturn: keno.ExpectedReturn(spots)}
	for hits := 0; hits <= spots; hits++ {
		resp.Rows = append(resp.Rows, OddsRow{
			Hits:        hits,
			Payout:      keno.Payout(spots, hits),
			Probability: keno.Odds(spots, hits),
		})
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// GET /api/v1/verify?server_seed=&client_seed=&nonce=
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	seeds := engine.Seeds{Server: q.Get("server_seed"), Client: q.Get("client_seed")}
	if seeds.Server == "" || seeds.Client == "" {
		s.errorHandler.HandleValidationError(w, r, "seeds", "server_seed and client_seed are required")
		return
	}
	nonce, err := strconv.ParseUint(q.Get("nonce"), 10, 64)
	if err != nil || nonce == 0 {
		s.errorHandler.HandleValidationError(w, r, "nonce", "nonce must be a positive integer")
		return
	}

	order := keno.ReplayDraw(seeds, nonce)
	s.writeJSON(w, http.StatusOK, VerifyResponse{
		ServerSeedHash: engine.HashServerSeed(seeds.Server),
		ClientSeed:     seeds.Client,
		Nonce:          nonce,
		RevealOrder:    order,
		Drawn:          keno.Sorted(order),
	})
}

// GET /api/v1/session
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/v1/session/configure
func (s *Server) handleConfigure(w http.ResponseWriter, r *http.Request) {
	var req ConfigureRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.errorHandler.HandleValidationError(w, r, "body", "invalid JSON")
		return
	}
	if err := s.sess.Configure(req.Spots, req.Drawings); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/v1/session/picks/{n}
func (s *Server) handleTogglePick(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		s.errorHandler.HandleValidationError(w, r, "n", "number must be an integer")
		return
	}
	out, err := s.sess.TogglePick(n)
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, PickResponse{Number: n, Outcome: out.String(), State: s.sess.Snapshot()})
}

// POST /api/v1/session/quickpick
func (s *Server) handleQuickPick(w http.ResponseWriter, r *http.Request) {
	if _, err := s.sess.QuickPick(); err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// POST /api/v1/session/start
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	d, err := s.sess.Start()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	logDrawing(r, d)
	s.writeJSON(w, http.StatusOK, DrawingResponse{Drawing: d, State: s.sess.Snapshot()})
}

// POST /api/v1/session/continue
func (s *Server) handleContinue(w http.ResponseWriter, r *http.Request) {
	d, err := s.sess.Continue()
	if err != nil {
		s.errorHandler.HandleError(w, r, err)
		return
	}
	logDrawing(r, d)
	s.writeJSON(w, http.StatusOK, DrawingResponse{Drawing: d, State: s.sess.Snapshot()})
}

// POST /api/v1/session/reset
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.sess.Reset()
	s.writeJSON(w, http.StatusOK, s.sess.Snapshot())
}

// GET /api/v1/session/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	results := s.sess.History()
	total := 0
	for _, res := range results {
		total += res.Payout()
	}
	if results == nil {
		results = []keno.MatchResult{}
	}
	s.writeJSON(w, http.StatusOK, HistoryResponse{Results: results, TotalWinnings: total})
}

// GET /api/v1/session/summary
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.sess.Summary())
}

func logDrawing(r *http.Request, d session.Drawing) {
	logging.FromContext(r.Context()).Info().
		Int("drawing", d.Result.Round()).
		Int("hits", d.Result.HitCount()).
		Int("payout", d.Result.Payout()).
		Uint64("nonce", d.Nonce).
		Msg("drawing completed")
}
