// Package reference holds straightforward hand categorisers used to check the
// bit-encoded classifier in package poker. Nothing here is on the
// classification path; callers use it for tests and verification runs.
package reference

import (
	"fmt"
	"slices"

	"github.com/lox/handbits/poker"
)

// Oracle assigns a category to a five card hand independently of poker.Classify.
type Oracle interface {
	Name() string
	Category(hand []poker.Card) (poker.Category, error)
}

// New returns the oracle registered under name ("histogram" or "library").
func New(name string) (Oracle, error) {
	switch name {
	case "", "histogram":
		return Histogram{}, nil
	case "library":
		return Library{}, nil
	default:
		return nil, fmt.Errorf("unknown oracle %q", name)
	}
}

// Histogram categorises a hand by sorting it, counting ranks and matching the
// count shape together with straight and flush flags.
type Histogram struct{}

func (Histogram) Name() string { return "histogram" }

func (Histogram) Category(hand []poker.Card) (poker.Category, error) {
	if err := poker.ValidateHand(hand); err != nil {
		return 0, err
	}

	var counts [poker.Ace + 1]int
	flush := true
	for _, c := range hand {
		counts[c.Rank]++
		if c.Suit != hand[0].Suit {
			flush = false
		}
	}

	var shape []int
	var distinct []poker.Rank
	for r := poker.Ace; r >= poker.Two; r-- {
		if counts[r] > 0 {
			shape = append(shape, counts[r])
			distinct = append(distinct, r)
		}
	}
	slices.SortFunc(shape, func(a, b int) int { return b - a })

	straight := false
	if len(distinct) == 5 {
		// distinct is descending
		straight = distinct[0]-distinct[4] == 4 ||
			slices.Equal(distinct, []poker.Rank{poker.Ace, poker.Five, poker.Four, poker.Three, poker.Two})
	}

	switch {
	case straight && flush && distinct[0] == poker.Ace && distinct[4] == poker.Ten:
		return poker.RoyalFlush, nil
	case straight && flush:
		return poker.StraightFlush, nil
	case shape[0] >= 4:
		return poker.FourOfAKind, nil
	case shape[0] == 3 && shape[1] == 2:
		return poker.FullHouse, nil
	case flush:
		return poker.Flush, nil
	case straight:
		return poker.Straight, nil
	case shape[0] == 3:
		return poker.ThreeOfAKind, nil
	case shape[0] == 2 && shape[1] == 2:
		return poker.TwoPair, nil
	case shape[0] == 2:
		return poker.OnePair, nil
	default:
		return poker.HighCard, nil
	}
}
