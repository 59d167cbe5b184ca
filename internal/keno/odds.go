package keno

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
)

// Odds returns the exact probability of matching hits numbers on a card of
// spots spots: C(spots,hits)·C(80-spots,20-hits) / C(80,20).
func Odds(spots, hits int) float64 {
	if spots < 0 || spots > MaxNumber || hits < 0 || hits > spots || hits > DrawSize {
		return 0
	}
	if DrawSize-hits > MaxNumber-spots {
		return 0
	}
	num := new(big.Int).Binomial(int64(spots), int64(hits))
	num.Mul(num, new(big.Int).Binomial(int64(MaxNumber-spots), int64(DrawSize-hits)))
	den := new(big.Int).Binomial(MaxNumber, DrawSize)
	f, _ := new(big.Rat).SetFrac(num, den).Float64()
	return f
}

// ExpectedReturn is the average payout of a $1 play on a card of spots
// spots.
func ExpectedReturn(spots int) float64 {
	er := 0.0
	for _, t := range Tiers(spots) {
		er += Odds(spots, t.Hits) * float64(t.Payout)
	}
	return er
}

// OddsTableText renders the chance of each paying tier as "1 in N".
func OddsTableText() string {
	var sb strings.Builder
	sb.WriteString("Odds of Winning ($1 play)\n\n")
	for _, spots := range SpotCounts() {
		fmt.Fprintf(&sb, "Spot %d (expected return $%.2f)\n", spots, ExpectedReturn(spots))
		for _, t := range Tiers(spots) {
			p := Odds(spots, t.Hits)
			fmt.Fprintf(&sb, " %d of %d → 1 in %s\n", t.Hits, spots, humanize.CommafWithDigits(1/p, 2))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
