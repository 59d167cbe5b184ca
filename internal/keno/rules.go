package keno

// RulesText explains how a round is played.
func RulesText() string {
	return "Choose 1, 4, 8, or 10 spots (numbers 1–80).\n" +
		"Choose how many consecutive drawings to play (1–4).\n" +
		"Pick your numbers by hand or use Quick Pick.\n" +
		"Each drawing selects 20 numbers at random; every pick that is drawn is a match.\n" +
		"Your winnings for a drawing depend on how many of your spots matched.\n" +
		"Winnings accumulate across drawings and across rounds."
}
