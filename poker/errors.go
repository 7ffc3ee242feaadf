package poker

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandSize is returned when a hand does not hold exactly five cards.
	ErrInvalidHandSize = errors.New("hand must contain exactly 5 cards")
	// ErrInvalidRank is returned for a rank outside [2,14].
	ErrInvalidRank = errors.New("rank must be between 2 and 14")
	// ErrInvalidSuit is returned for a suit that is not one of 1, 2, 4 or 8.
	ErrInvalidSuit = errors.New("suit must be one of 1, 2, 4, 8")
	// ErrNotEnoughCards is returned when a deal asks for more cards than remain.
	ErrNotEnoughCards = errors.New("not enough cards remaining")
)

// HandError describes why a hand was rejected. Index is the offending card
// position, or -1 when the hand as a whole is malformed.
type HandError struct {
	Index int
	Card  Card
	Size  int
	Err   error
}

func (e *HandError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid hand: got %d cards: %v", e.Size, e.Err)
	}
	return fmt.Sprintf("invalid hand: card %d (rank=%d suit=%d): %v", e.Index, e.Card.Rank, e.Card.Suit, e.Err)
}

func (e *HandError) Unwrap() error {
	return e.Err
}

// ValidateHand checks the classifier's input contract: five cards, each with
// a legal rank and suit. Duplicate cards are allowed.
func ValidateHand(hand []Card) error {
	if len(hand) != HandSize {
		return &HandError{Index: -1, Size: len(hand), Err: ErrInvalidHandSize}
	}
	for i, c := range hand {
		if !c.Rank.Valid() {
			return &HandError{Index: i, Card: c, Size: len(hand), Err: ErrInvalidRank}
		}
		if !c.Suit.Valid() {
			return &HandError{Index: i, Card: c, Size: len(hand), Err: ErrInvalidSuit}
		}
	}
	return nil
}
