package reference

import (
	"fmt"

	cheh "github.com/chehsunliu/poker"

	"github.com/lox/handbits/poker"
)

// Library categorises hands with the chehsunliu/poker lookup-table evaluator.
// It has no royal flush class, so an ace-high straight flush is promoted here.
type Library struct{}

func (Library) Name() string { return "library" }

func (Library) Category(hand []poker.Card) (poker.Category, error) {
	if err := poker.ValidateHand(hand); err != nil {
		return 0, err
	}

	cards := make([]cheh.Card, len(hand))
	for i, c := range hand {
		cards[i] = cheh.NewCard(c.Notation())
	}
	rank := cheh.Evaluate(cards)

	switch name := cheh.RankString(rank); name {
	case "Straight Flush":
		if poker.RankField(hand) == poker.RoyalMask {
			return poker.RoyalFlush, nil
		}
		return poker.StraightFlush, nil
	case "Four of a Kind":
		return poker.FourOfAKind, nil
	case "Full House":
		return poker.FullHouse, nil
	case "Flush":
		return poker.Flush, nil
	case "Straight":
		return poker.Straight, nil
	case "Three of a Kind":
		return poker.ThreeOfAKind, nil
	case "Two Pair":
		return poker.TwoPair, nil
	case "Pair":
		return poker.OnePair, nil
	case "High Card":
		return poker.HighCard, nil
	default:
		return 0, fmt.Errorf("library evaluator returned unknown class %q for rank %d", name, rank)
	}
}
