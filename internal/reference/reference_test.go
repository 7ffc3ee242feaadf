package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handbits/internal/randutil"
	"github.com/lox/handbits/poker"
)

// forEachHand calls fn with every distinct five card hand. The slice is reused.
func forEachHand(fn func(hand []poker.Card)) {
	deck := poker.GenerateDeck()
	hand := make([]poker.Card, poker.HandSize)
	n := len(deck)
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			for c := b + 1; c < n; c++ {
				for d := c + 1; d < n; d++ {
					for e := d + 1; e < n; e++ {
						hand[0], hand[1], hand[2], hand[3], hand[4] = deck[a], deck[b], deck[c], deck[d], deck[e]
						fn(hand)
					}
				}
			}
		}
	}
}

func TestClassifierMatchesHistogramExhaustively(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping exhaustive enumeration in short mode")
	}

	expected := map[poker.Category]int{
		poker.RoyalFlush:    4,
		poker.StraightFlush: 36,
		poker.FourOfAKind:   624,
		poker.FullHouse:     3744,
		poker.Flush:         5108,
		poker.Straight:      10200,
		poker.ThreeOfAKind:  54912,
		poker.TwoPair:       123552,
		poker.OnePair:       1098240,
		poker.HighCard:      1302540,
	}

	oracle := Histogram{}
	counts := make(map[poker.Category]int, poker.NumCategories)
	mismatches := 0
	total := 0

	forEachHand(func(hand []poker.Card) {
		total++
		got, err := poker.Classify(hand)
		if err != nil {
			t.Fatalf("classify %v: %v", hand, err)
		}
		want, err := oracle.Category(hand)
		if err != nil {
			t.Fatalf("oracle %v: %v", hand, err)
		}
		if got.Category != want {
			mismatches++
			if mismatches <= 10 {
				t.Errorf("hand %v: classifier=%s oracle=%s", hand, got.Category, want)
			}
		}
		counts[got.Category]++
	})

	assert.Equal(t, TotalHands, total)
	assert.Zero(t, mismatches)
	assert.Equal(t, expected, counts)
	for c, n := range expected {
		assert.Equal(t, n, ExactCounts[c], c.String())
	}
}

func TestExactFrequency(t *testing.T) {
	total := 0
	sum := 0.0
	for i, n := range ExactCounts {
		total += n
		sum += ExactFrequency(poker.Category(i))
	}
	assert.Equal(t, TotalHands, total)
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, 0.501177, ExactFrequency(poker.HighCard), 1e-6)
	assert.Zero(t, ExactFrequency(poker.Category(200)))
}

func TestHistogramKnownHands(t *testing.T) {
	tests := []struct {
		cards string
		want  poker.Category
	}{
		{"TsJsQsKsAs", poker.RoyalFlush},
		{"As2s3s4s5s", poker.StraightFlush},
		{"9s9c9h9d2s", poker.FourOfAKind},
		{"9s9c9h2d2s", poker.FullHouse},
		{"2s4s6s8sTs", poker.Flush},
		{"As2c3h4d5s", poker.Straight},
		{"9s9c9h3d2s", poker.ThreeOfAKind},
		{"9s9c3h3d2s", poker.TwoPair},
		{"9s9c4h3d2s", poker.OnePair},
		{"9sJc4h3d2s", poker.HighCard},
	}

	for _, tt := range tests {
		t.Run(tt.cards, func(t *testing.T) {
			got, err := Histogram{}.Category(poker.MustParseCards(tt.cards))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLibraryAgreesWithClassifier(t *testing.T) {
	rng := randutil.New(2024)
	deck := poker.NewDeck(rng)
	oracle := Library{}

	fixed := []string{"TsJsQsKsAs", "As2s3s4s5s", "9s9c9h9d2s", "9s9c9h2d2s", "2s4s6s8sTs", "As2c3h4d5s"}
	for _, s := range fixed {
		hand := poker.MustParseCards(s)
		got, err := poker.Classify(hand)
		require.NoError(t, err)
		want, err := oracle.Category(hand)
		require.NoError(t, err)
		assert.Equal(t, want, got.Category, "hand %s", s)
	}

	for i := 0; i < 20000; i++ {
		hand := deck.DealHand()
		got, err := poker.Classify(hand)
		require.NoError(t, err)
		want, err := oracle.Category(hand)
		require.NoError(t, err)
		require.Equal(t, want, got.Category, "hand %v", hand)
	}
}

func TestOracleRejectsInvalidHands(t *testing.T) {
	for _, o := range []Oracle{Histogram{}, Library{}} {
		_, err := o.Category(poker.MustParseCards("AsKs"))
		assert.ErrorIs(t, err, poker.ErrInvalidHandSize, o.Name())
	}
}

func TestNew(t *testing.T) {
	o, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "histogram", o.Name())

	o, err = New("library")
	require.NoError(t, err)
	assert.Equal(t, "library", o.Name())

	_, err = New("magic")
	assert.Error(t, err)
}
