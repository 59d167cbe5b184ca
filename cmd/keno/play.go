package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/MJE43/keno-sim/internal/config"
	"github.com/MJE43/keno-sim/internal/keno"
	"github.com/MJE43/keno-sim/internal/session"
)

const helpText = `Commands:
  config <spots> <drawings>  choose 1, 4, 8 or 10 spots and 1..4 drawings
  pick <n> [n...]            toggle numbers on the card
  quick                      fill the rest of the card randomly
  start                      play the first drawing of the round
  next                       play the next drawing
  reset                      clear the card and configuration
  card                       show the board
  payouts | odds | rules     reference tables
  stats | history            session results
  help | quit`

var errQuit = errors.New("quit")

// terminal is the line-oriented view over one session.
type terminal struct {
	sess   *session.Session
	out    io.Writer
	delay  time.Duration
	wager  decimal.Decimal
	logger zerolog.Logger
}

func runPlay(ctx context.Context, cfg config.Config, sess *session.Session, logger zerolog.Logger) error {
	t := &terminal{
		sess:   sess,
		out:    os.Stdout,
		delay:  cfg.Game.RevealDelay,
		wager:  cfg.WagerAmount(),
		logger: logger,
	}
	return t.loop(ctx, os.Stdin)
}

// loop reads commands until quit, end of input, or ctx is done.
func (t *terminal) loop(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Fprintln(t.out, "North Carolina Keno simulator. Type \"help\" for commands.")
	if st := t.sess.Snapshot(); st.ServerSeedHash != "" {
		fmt.Fprintf(t.out, "Provably fair mode. Server seed hash: %s\n", st.ServerSeedHash)
	}
	for {
		fmt.Fprint(t.out, "keno> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(t.out)
				return nil
			}
			line = l
		}

		err := t.exec(ctx, line)
		if errors.Is(err, errQuit) || ctx.Err() != nil {
			return nil
		}
		if err != nil {
			t.logger.Debug().Err(err).Str("command", line).Msg("command failed")
			fmt.Fprintf(t.out, "error: %v\n", err)
		}
	}
}

func (t *terminal) exec(ctx context.Context, line string) error {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil
	}
	args := fields[1:]

	switch fields[0] {
	case "config", "configure":
		if len(args) != 2 {
			return errors.New("usage: config <spots> <drawings>")
		}
		nums, err := atois(args)
		if err != nil {
			return err
		}
		if err := t.sess.Configure(nums[0], nums[1]); err != nil {
			return err
		}
		fmt.Fprintf(t.out, "Card set to %d spots for %d drawing(s).\n", nums[0], nums[1])
	case "pick", "p":
		if len(args) == 0 {
			return errors.New("usage: pick <n> [n...]")
		}
		nums, err := atois(args)
		if err != nil {
			return err
		}
		// Reject the whole line before touching the card.
		for _, n := range nums {
			if n < keno.MinNumber || n > keno.MaxNumber {
				return &keno.ValueError{Kind: keno.ErrOutOfRange, Field: "pick", Value: n, Constraint: "1..80"}
			}
		}
		for _, n := range nums {
			out, err := t.sess.TogglePick(n)
			if err != nil {
				return err
			}
			if out == keno.PickRejected {
				fmt.Fprintf(t.out, "%d not added: the card is full.\n", n)
			}
		}
		t.printCard(t.sess.Snapshot())
	case "quick", "q":
		if _, err := t.sess.QuickPick(); err != nil {
			return err
		}
		t.printCard(t.sess.Snapshot())
	case "start", "s":
		d, err := t.sess.Start()
		if err != nil {
			return err
		}
		return t.reveal(ctx, d)
	case "next", "continue", "n":
		d, err := t.sess.Continue()
		if err != nil {
			return err
		}
		return t.reveal(ctx, d)
	case "reset":
		t.sess.Reset()
		fmt.Fprintln(t.out, "Card cleared.")
	case "card", "board":
		t.printCard(t.sess.Snapshot())
	case "payouts":
		fmt.Fprintln(t.out, keno.PayoutTableText())
	case "odds":
		fmt.Fprintln(t.out, keno.OddsTableText())
	case "rules":
		fmt.Fprintln(t.out, keno.RulesText())
	case "stats":
		t.printStats()
	case "history":
		for _, res := range t.sess.History() {
			fmt.Fprintf(t.out, "  drawing %d: %d hit(s) %v pays %s\n",
				res.Round(), res.HitCount(), res.Hits(), t.money(res.Payout()))
		}
	case "help", "?":
		fmt.Fprintln(t.out, helpText)
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", fields[0])
	}
	return nil
}

// reveal prints the drawn numbers one at a time in draw order, then the result.
func (t *terminal) reveal(ctx context.Context, d session.Drawing) error {
	st := t.sess.Snapshot()

	fmt.Fprintf(t.out, "Drawing %d of %d:", d.Result.Round(), st.DrawingsPlanned)
	for _, n := range d.RevealOrder {
		if t.sess.IsPicked(n) {
			fmt.Fprintf(t.out, " *%d*", n)
		} else {
			fmt.Fprintf(t.out, " %d", n)
		}
		if err := sleep(ctx, t.delay); err != nil {
			fmt.Fprintln(t.out)
			return err
		}
	}
	fmt.Fprintln(t.out)

	res := d.Result
	if res.Won() {
		fmt.Fprintf(t.out, "%d of %d matched %v. You win %s!\n", res.HitCount(), st.Spots, res.Hits(), t.money(res.Payout()))
	} else {
		fmt.Fprintf(t.out, "%d of %d matched. No win this time.\n", res.HitCount(), st.Spots)
	}
	if st.ServerSeedHash != "" {
		fmt.Fprintf(t.out, "nonce %d\n", d.Nonce)
	}
	if st.HasNext {
		fmt.Fprintln(t.out, "Type \"next\" for the next drawing.")
	} else {
		fmt.Fprintf(t.out, "Round over. Session winnings: %s\n", t.money(st.TotalWinnings))
	}
	return nil
}

// printCard draws the 80-number board, 10 per row. Picks are bracketed and
// numbers of the last drawing are marked, hits with asterisks.
func (t *terminal) printCard(st session.State) {
	drawn := make(map[int]bool)
	if st.LastDrawing != nil {
		for _, n := range st.LastDrawing.Drawn {
			drawn[n] = true
		}
	}

	var b strings.Builder
	for n := keno.MinNumber; n <= keno.MaxNumber; n++ {
		picked := t.sess.IsPicked(n)
		switch {
		case picked && drawn[n]:
			fmt.Fprintf(&b, "*%02d*", n)
		case picked:
			fmt.Fprintf(&b, "[%02d]", n)
		case drawn[n]:
			fmt.Fprintf(&b, "(%02d)", n)
		default:
			fmt.Fprintf(&b, " %02d ", n)
		}
		if n%10 == 0 {
			b.WriteByte('\n')
		}
	}
	fmt.Fprint(t.out, b.String())
	if st.Spots == 0 {
		fmt.Fprintln(t.out, "No spot count chosen. Use config <spots> <drawings>.")
		return
	}
	fmt.Fprintf(t.out, "%d/%d picked, %d drawing(s).\n", len(st.Picks), st.Spots, st.DrawingsPlanned)
}

func (t *terminal) printStats() {
	sum := t.sess.Summary()
	fmt.Fprintf(t.out, "Drawings played: %s (%d winning)\n", humanize.Comma(int64(sum.Drawings)), sum.WinningDrawings)
	fmt.Fprintf(t.out, "Wagered %s, won %s, net %s\n",
		formatMoney(sum.Wagered), formatMoney(sum.Won), formatMoney(sum.Net))
	if sum.Drawings > 0 {
		fmt.Fprintf(t.out, "Return to player: %s%%\n", sum.ReturnToPlayer.Shift(2).StringFixed(2))
		fmt.Fprintf(t.out, "Best payout: %s\n", t.money(sum.BestPayout))
	}
}

// money scales a $1 table payout by the session wager.
func (t *terminal) money(payout int) string {
	return formatMoney(t.wager.Mul(decimal.NewFromInt(int64(payout))))
}

func formatMoney(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "$" + humanize.FormatFloat("#,###.##", d.InexactFloat64())
}

func atois(args []string) ([]int, error) {
	out := make([]int, 0, len(args))
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", a)
		}
		out = append(out, n)
	}
	return out, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
