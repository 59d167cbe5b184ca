package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/MJE43/keno-sim/internal/engine"
	"github.com/MJE43/keno-sim/internal/keno"
	"github.com/MJE43/keno-sim/internal/session"
)

type drawingBody struct {
	Drawing struct {
		Result struct {
			Round    int   `json:"round"`
			Hits     []int `json:"hits"`
			HitCount int   `json:"hit_count"`
			Payout   int   `json:"payout"`
		} `json:"result"`
		Drawn       []int  `json:"drawn"`
		RevealOrder []int  `json:"reveal_order"`
		Nonce       uint64 `json:"nonce"`
	} `json:"drawing"`
	State session.State `json:"state"`
}

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	sess := session.New(session.Options{Source: engine.NewSeededSource(21)})
	srv := NewServer(sess, zerolog.New(io.Discard), Options{Addr: "127.0.0.1:0"})
	return srv, srv.Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealthEndpoint(t *testing.T) {
	srv, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[HealthResponse](t, w)
	if resp.Status != "ok" || resp.SessionID != srv.sess.ID().String() || resp.Version.Version == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestPayoutsEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/v1/payouts", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[PayoutsResponse](t, w)
	if len(resp.Table) != 4 || resp.Table[3].Spots != 10 {
		t.Fatalf("table = %+v", resp.Table)
	}
	last := resp.Table[3].Tiers[len(resp.Table[3].Tiers)-1]
	if last.Hits != 10 || last.Payout != 100000 {
		t.Errorf("top tier = %+v", last)
	}
	if !strings.Contains(resp.Text, "Spot 10") {
		t.Error("text table missing")
	}
}

func TestRulesEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	resp := decode[RulesResponse](t, do(t, h, http.MethodGet, "/api/v1/rules", nil))
	if !strings.Contains(resp.Rules, "1, 4, 8, or 10 spots") || !strings.Contains(resp.Odds, "Odds of Winning") {
		t.Errorf("rules = %+v", resp)
	}
}

func TestOddsEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/v1/odds/4", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[OddsResponse](t, w)
	if resp.Spots != 4 || len(resp.Rows) != 5 || resp.Rows[4].Payout != 75 {
		t.Errorf("odds = %+v", resp)
	}

	for _, path := range []string{"/api/v1/odds/3", "/api/v1/odds/abc"} {
		if w := do(t, h, http.MethodGet, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, w.Code)
		}
	}
}

func TestVerifyEndpoint(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodGet, "/api/v1/verify?server_seed=abc&client_seed=def&nonce=3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	resp := decode[VerifyResponse](t, w)
	want := keno.ReplayDraw(engine.Seeds{Server: "abc", Client: "def"}, 3)
	if len(resp.RevealOrder) != keno.DrawSize || resp.RevealOrder[0] != want[0] {
		t.Errorf("reveal order = %v, want %v", resp.RevealOrder, want)
	}
	if resp.ServerSeedHash != engine.HashServerSeed("abc") {
		t.Errorf("hash = %s", resp.ServerSeedHash)
	}

	for _, path := range []string{
		"/api/v1/verify?client_seed=def&nonce=1",
		"/api/v1/verify?server_seed=abc&client_seed=def&nonce=0",
		"/api/v1/verify?server_seed=abc&client_seed=def&nonce=x",
	} {
		if w := do(t, h, http.MethodGet, path, nil); w.Code != http.StatusBadRequest {
			t.Errorf("%s status = %d, want 400", path, w.Code)
		}
	}
}

func TestRoundOverHTTP(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/session/configure", ConfigureRequest{Spots: 4, Drawings: 2})
	if w.Code != http.StatusOK {
		t.Fatalf("configure status = %d: %s", w.Code, w.Body.String())
	}

	w = do(t, h, http.MethodPost, "/api/v1/session/picks/12", nil)
	pick := decode[PickResponse](t, w)
	if pick.Outcome != "added" || len(pick.State.Picks) != 1 {
		t.Fatalf("pick = %+v", pick)
	}

	w = do(t, h, http.MethodPost, "/api/v1/session/quickpick", nil)
	if st := decode[session.State](t, w); !st.Complete || len(st.Picks) != 4 {
		t.Fatalf("quickpick state = %+v", st)
	}

	w = do(t, h, http.MethodPost, "/api/v1/session/start", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}
	first := decode[drawingBody](t, w)
	if first.Drawing.Result.Round != 1 || len(first.Drawing.Drawn) != keno.DrawSize || !first.State.HasNext {
		t.Fatalf("first drawing = %+v", first)
	}

	// Mid-round edits are refused.
	if w := do(t, h, http.MethodPost, "/api/v1/session/picks/1", nil); w.Code != http.StatusConflict {
		t.Errorf("pick mid-round status = %d, want 409", w.Code)
	}

	w = do(t, h, http.MethodPost, "/api/v1/session/continue", nil)
	second := decode[drawingBody](t, w)
	if second.Drawing.Result.Round != 2 || second.State.Running || second.State.HasNext {
		t.Fatalf("second drawing = %+v", second)
	}

	w = do(t, h, http.MethodPost, "/api/v1/session/continue", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("continue after round status = %d, want 409", w.Code)
	}
	if apiErr := decode[APIError](t, w); apiErr.Type != ErrTypePrecondition {
		t.Errorf("error type = %s", apiErr.Type)
	}

	hist := decode[struct {
		Results       []json.RawMessage `json:"results"`
		TotalWinnings int               `json:"total_winnings"`
	}](t, do(t, h, http.MethodGet, "/api/v1/session/history", nil))
	if len(hist.Results) != 2 || hist.TotalWinnings != first.Drawing.Result.Payout+second.Drawing.Result.Payout {
		t.Errorf("history = %+v", hist)
	}

	sum := decode[map[string]any](t, do(t, h, http.MethodGet, "/api/v1/session/summary", nil))
	if sum["drawings"] != float64(2) || sum["wagered"] != "2" {
		t.Errorf("summary = %v", sum)
	}

	w = do(t, h, http.MethodPost, "/api/v1/session/reset", nil)
	if st := decode[session.State](t, w); st.Spots != 0 || len(st.Picks) != 0 {
		t.Errorf("state after reset = %+v", st)
	}
}

func TestConfigureErrors(t *testing.T) {
	_, h := newTestServer(t)

	w := do(t, h, http.MethodPost, "/api/v1/session/configure", ConfigureRequest{Spots: 5, Drawings: 1})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	apiErr := decode[APIError](t, w)
	if apiErr.Type != ErrTypeInvalidConfiguration || apiErr.Context["value"] != float64(5) {
		t.Errorf("error = %+v", apiErr)
	}
	if w.Header().Get("X-Error-Category") != string(CategoryValidation) {
		t.Errorf("category header = %q", w.Header().Get("X-Error-Category"))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session/configure", strings.NewReader(`{"spots":`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rec.Code)
	}
}

func TestPickErrors(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/v1/session/configure", ConfigureRequest{Spots: 1, Drawings: 1})

	if w := do(t, h, http.MethodPost, "/api/v1/session/picks/81", nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("out of range status = %d, want 422", w.Code)
	}
	if w := do(t, h, http.MethodPost, "/api/v1/session/picks/x", nil); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric status = %d, want 400", w.Code)
	}

	do(t, h, http.MethodPost, "/api/v1/session/picks/5", nil)
	pick := decode[PickResponse](t, do(t, h, http.MethodPost, "/api/v1/session/picks/6", nil))
	if pick.Outcome != "rejected" {
		t.Errorf("full-card pick outcome = %s", pick.Outcome)
	}
}

func TestStartIncompleteCard(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodPost, "/api/v1/session/configure", ConfigureRequest{Spots: 8, Drawings: 1})

	w := do(t, h, http.MethodPost, "/api/v1/session/start", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
	if apiErr := decode[APIError](t, w); apiErr.Type != ErrTypeCardIncomplete {
		t.Errorf("error type = %s", apiErr.Type)
	}
}

func TestRecoveryHandler(t *testing.T) {
	eh := NewErrorHandler(zerolog.New(io.Discard))
	h := eh.RecoveryHandler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if apiErr := decode[APIError](t, w); apiErr.Type != ErrTypeInternal {
		t.Errorf("type = %s", apiErr.Type)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t)
	w := do(t, h, http.MethodOptions, "/api/v1/session/start", nil)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("preflight status=%d headers=%v", w.Code, w.Header())
	}
}

func TestRequestScopedLogging(t *testing.T) {
	var buf bytes.Buffer
	sess := session.New(session.Options{Source: engine.NewSeededSource(3)})
	h := NewServer(sess, zerolog.New(&buf), Options{}).Routes()

	do(t, h, http.MethodPost, "/api/v1/session/configure", ConfigureRequest{Spots: 1, Drawings: 1})
	do(t, h, http.MethodPost, "/api/v1/session/quickpick", nil)
	do(t, h, http.MethodPost, "/api/v1/session/start", nil)
	do(t, h, http.MethodPost, "/api/v1/session/configure", ConfigureRequest{Spots: 3, Drawings: 1})

	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		if id, _ := entry["request_id"].(string); id == "" {
			t.Errorf("log line without request_id: %s", line)
		}
		msg, _ := entry["message"].(string)
		if entry["type"] == ErrTypeInvalidConfiguration {
			msg = "invalid configuration"
			if entry["level"] != "warn" {
				t.Errorf("client error logged at %v", entry["level"])
			}
		}
		seen[msg] = true
	}
	for _, want := range []string{"request completed", "drawing completed", "invalid configuration"} {
		if !seen[want] {
			t.Errorf("no %q log line in:\n%s", want, buf.String())
		}
	}
}
