package keno

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
)

// North Carolina Keno payouts for a $1 play, keyed spots -> hits -> dollars.
// Pairs that are absent pay nothing.
var payouts = map[int]map[int]int{
	1:  {1: 2},
	4:  {2: 1, 3: 5, 4: 75},
	8:  {4: 2, 5: 12, 6: 50, 7: 500, 8: 10000},
	10: {5: 5, 6: 15, 7: 40, 8: 450, 9: 4250, 10: 100000},
}

// Tier is one paying row of the table.
type Tier struct {
	Hits   int `json:"hits"`
	Payout int `json:"payout"`
}

// Payout returns the dollar payout for hits matches on a card of spots
// spots, or 0 when the table has no entry.
func Payout(spots, hits int) int {
	return payouts[spots][hits]
}

// SpotCounts returns the legal spot counts in ascending order.
func SpotCounts() []int {
	return []int{1, 4, 8, 10}
}

// IsValidSpotCount reports whether n is a legal spot count.
func IsValidSpotCount(n int) bool {
	return slices.Contains(SpotCounts(), n)
}

// Tiers returns the paying rows for spots, ordered by hit count.
func Tiers(spots int) []Tier {
	row := payouts[spots]
	tiers := make([]Tier, 0, len(row))
	for hits, pay := range row {
		tiers = append(tiers, Tier{Hits: hits, Payout: pay})
	}
	slices.SortFunc(tiers, func(a, b Tier) int { return a.Hits - b.Hits })
	return tiers
}

// PayoutTableText renders the whole table for display.
func PayoutTableText() string {
	var sb strings.Builder
	sb.WriteString("Official North Carolina Keno Payouts\n\n")
	for _, spots := range SpotCounts() {
		fmt.Fprintf(&sb, "Spot %d\n", spots)
		for _, t := range Tiers(spots) {
			suffix := "es"
			if t.Hits == 1 {
				suffix = ""
			}
			fmt.Fprintf(&sb, " %d match%s → $%s\n", t.Hits, suffix, humanize.Comma(int64(t.Payout)))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Source: North Carolina Education Lottery (nclottery.com)")
	return sb.String()
}
