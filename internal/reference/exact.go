package reference

import "github.com/lox/handbits/poker"

// TotalHands is the number of distinct five card hands in a 52 card deck.
const TotalHands = 2598960

// ExactCounts holds how many of the TotalHands fall in each category, indexed
// by poker.Category.
var ExactCounts = func() [poker.NumCategories]int {
	var c [poker.NumCategories]int
	c[poker.RoyalFlush] = 4
	c[poker.StraightFlush] = 36
	c[poker.FourOfAKind] = 624
	c[poker.FullHouse] = 3744
	c[poker.Flush] = 5108
	c[poker.Straight] = 10200
	c[poker.ThreeOfAKind] = 54912
	c[poker.TwoPair] = 123552
	c[poker.OnePair] = 1098240
	c[poker.HighCard] = 1302540
	return c
}()

// ExactFrequency returns the probability that a random hand is in c.
func ExactFrequency(c poker.Category) float64 {
	if !c.Valid() {
		return 0
	}
	return float64(ExactCounts[c]) / TotalHands
}
