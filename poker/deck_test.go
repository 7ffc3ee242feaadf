package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handbits/internal/randutil"
)

func TestGenerateDeck(t *testing.T) {
	t.Parallel()
	deck := GenerateDeck()
	require.Len(t, deck, DeckSize)

	seen := make(map[Card]bool, DeckSize)
	for _, c := range deck {
		assert.True(t, c.Valid(), "card %v", c)
		assert.False(t, seen[c], "duplicate card %v", c)
		seen[c] = true
	}

	assert.Equal(t, NewCard(Two, Spades), deck[0])
	assert.Equal(t, NewCard(Ace, Spades), deck[12])
	assert.Equal(t, NewCard(Two, Clubs), deck[13])
	assert.Equal(t, NewCard(Ace, Diamonds), deck[51])
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()
	deck := GenerateDeck()
	Shuffle(deck, randutil.New(1))
	assert.ElementsMatch(t, GenerateDeck(), deck)
	assert.NotEqual(t, GenerateDeck(), deck)

	// nil rng falls back to the global source
	other := GenerateDeck()
	Shuffle(other, nil)
	assert.ElementsMatch(t, GenerateDeck(), other)
}

func TestShuffleDeterministic(t *testing.T) {
	t.Parallel()
	a := GenerateDeck()
	b := GenerateDeck()
	Shuffle(a, randutil.New(99))
	Shuffle(b, randutil.New(99))
	assert.Equal(t, a, b)
}

func TestShuffleUniformFirstPosition(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("skipping distribution test in short mode")
	}

	const trials = 52 * 2000
	rng := randutil.New(12345)
	counts := make(map[Card]int, DeckSize)
	deck := GenerateDeck()
	for i := 0; i < trials; i++ {
		Shuffle(deck, rng)
		counts[deck[0]]++
	}

	// Expected 2000 per card; allow a generous band.
	require.Len(t, counts, DeckSize)
	for c, n := range counts {
		assert.InDelta(t, 2000, n, 300, "card %v", c)
	}
}

func TestDeal(t *testing.T) {
	t.Parallel()
	deck := GenerateDeck()

	hand, err := Deal(deck, 5)
	require.NoError(t, err)
	assert.Equal(t, deck[:5], hand)

	hand[0] = NewCard(Ace, Hearts)
	assert.Equal(t, NewCard(Two, Spades), deck[0], "deal must copy")

	_, err = Deal(deck, 53)
	assert.ErrorIs(t, err, ErrNotEnoughCards)
	_, err = Deal(deck, -1)
	assert.ErrorIs(t, err, ErrNotEnoughCards)
}

func TestDeckDealing(t *testing.T) {
	t.Parallel()
	d := NewDeck(randutil.New(3))
	assert.Equal(t, DeckSize, d.CardsRemaining())

	seen := make(map[Card]bool)
	for i := 0; i < 10; i++ {
		hand, err := d.Deal(5)
		require.NoError(t, err)
		for _, c := range hand {
			assert.False(t, seen[c])
			seen[c] = true
		}
	}
	assert.Equal(t, 2, d.CardsRemaining())

	_, err := d.Deal(5)
	assert.ErrorIs(t, err, ErrNotEnoughCards)

	card, ok := d.DealOne()
	assert.True(t, ok)
	assert.False(t, seen[card])
	_, ok = d.DealOne()
	assert.True(t, ok)
	_, ok = d.DealOne()
	assert.False(t, ok)

	// DealHand reshuffles an exhausted deck
	hand := d.DealHand()
	assert.Len(t, hand, HandSize)
	assert.Equal(t, DeckSize-HandSize, d.CardsRemaining())
}
