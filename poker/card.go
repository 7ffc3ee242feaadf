package poker

import (
	"fmt"
	"strings"
)

// Suit is a one-hot suit flag. Exactly one bit is set for a valid suit, which
// is what lets the flush test compare the first suit against the OR of the rest.
type Suit uint8

const (
	Spades   Suit = 1
	Clubs    Suit = 2
	Hearts   Suit = 4
	Diamonds Suit = 8
)

// Suits lists the four suit flags in deck order.
var Suits = [4]Suit{Spades, Clubs, Hearts, Diamonds}

// Valid reports whether s is one of the four suit flags.
func (s Suit) Valid() bool {
	return s == Spades || s == Clubs || s == Hearts || s == Diamonds
}

// String returns the suit symbol
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	default:
		return "?"
	}
}

// Letter returns the single letter notation (s, c, h, d)
func (s Suit) Letter() byte {
	switch s {
	case Spades:
		return 's'
	case Clubs:
		return 'c'
	case Hearts:
		return 'h'
	case Diamonds:
		return 'd'
	default:
		return '?'
	}
}

// IsRed returns true for hearts and diamonds
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank is a card rank in [2,14], ace high.
type Rank uint8

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// Ranks lists the thirteen ranks from deuce to ace.
var Ranks = [13]Rank{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}

const rankSymbols = "23456789TJQKA"

// Valid reports whether r is within [2,14].
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// String returns the rank symbol (2-9, T, J, Q, K, A)
func (r Rank) String() string {
	if !r.Valid() {
		return "?"
	}
	return string(rankSymbols[r-Two])
}

// Card is an immutable (rank, suit) pair.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a new card
func NewCard(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// Valid reports whether both rank and suit are in their legal domains.
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// String returns the card with its suit symbol (e.g. "A♠")
func (c Card) String() string {
	return c.Rank.String() + c.Suit.String()
}

// Notation returns the ASCII form accepted by ParseCard (e.g. "As")
func (c Card) Notation() string {
	return c.Rank.String() + string(c.Suit.Letter())
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

// ParseCard parses a two character card such as "As", "Td" or "9c".
// Rank and suit letters are case insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want 2 characters", s)
	}

	idx := strings.IndexByte(rankSymbols, upper(s[0]))
	if idx < 0 {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, ErrInvalidRank)
	}

	suit, ok := suitFromLetter(s[1])
	if !ok {
		return Card{}, fmt.Errorf("invalid card %q: %w", s, ErrInvalidSuit)
	}

	return NewCard(Two+Rank(idx), suit), nil
}

// ParseSuit parses a single suit letter (s, c, h, d) in either case.
func ParseSuit(s string) (Suit, error) {
	if len(s) == 1 {
		if suit, ok := suitFromLetter(s[0]); ok {
			return suit, nil
		}
	}
	return 0, fmt.Errorf("invalid suit %q: %w", s, ErrInvalidSuit)
}

func suitFromLetter(b byte) (Suit, bool) {
	switch upper(b) {
	case 'S':
		return Spades, true
	case 'C':
		return Clubs, true
	case 'H':
		return Hearts, true
	case 'D':
		return Diamonds, true
	}
	return 0, false
}

// ParseCards parses a run of cards like "AsKsQsJsTs". Whitespace and commas
// between cards are ignored.
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "", "\t", "").Replace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string %q: odd length", s)
	}

	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		card, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on error. Intended for tests
// and fixed tables.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
