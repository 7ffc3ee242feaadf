package poker

import (
	"fmt"
	rand "math/rand/v2"
)

// DeckSize is the number of cards in a standard deck.
const DeckSize = 52

// GenerateDeck returns the 52 distinct cards, suit by suit (♠ ♣ ♥ ♦), ranks
// ascending within each suit.
func GenerateDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range Suits {
		for _, rank := range Ranks {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}

// Shuffle permutes cards in place using Fisher-Yates. A nil rng uses the
// global math/rand/v2 source.
func Shuffle(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		var j int
		if rng != nil {
			j = rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// Deal returns a copy of the first n cards.
func Deal(cards []Card, n int) ([]Card, error) {
	if n < 0 || n > len(cards) {
		return nil, fmt.Errorf("deal %d of %d: %w", n, len(cards), ErrNotEnoughCards)
	}
	out := make([]Card, n)
	copy(out, cards[:n])
	return out, nil
}

// Deck is a shuffled 52-card deck that deals from the top. A Deck is not
// safe for concurrent use; give each goroutine its own Deck and rng.
type Deck struct {
	cards [DeckSize]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	copy(d.cards[:], GenerateDeck())
	d.Shuffle()
	return d
}

// Shuffle gathers every card back and reshuffles.
func (d *Deck) Shuffle() {
	d.next = 0
	Shuffle(d.cards[:], d.rng)
}

// Deal deals n cards from the deck
func (d *Deck) Deal(n int) ([]Card, error) {
	hand, err := Deal(d.cards[d.next:], n)
	if err != nil {
		return nil, err
	}
	d.next += n
	return hand, nil
}

// DealHand deals five cards, reshuffling first when the deck runs short.
func (d *Deck) DealHand() []Card {
	if d.CardsRemaining() < HandSize {
		d.Shuffle()
	}
	hand, _ := d.Deal(HandSize)
	return hand
}

// DealOne deals a single card from the deck
func (d *Deck) DealOne() (Card, bool) {
	if d.next >= len(d.cards) {
		return Card{}, false
	}
	card := d.cards[d.next]
	d.next++
	return card, true
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}
