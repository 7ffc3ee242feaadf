package poker

// HandSize is the number of cards the classifier accepts.
const HandSize = 5

// Fixed bit patterns over the rank bit-field. Bit n is set when rank n is present.
const (
	AceLowStraightMask uint32 = 0x403C // A 5 4 3 2
	RoyalMask          uint32 = 0x7C00 // A K Q J T
	straightRun        uint32 = 31     // five consecutive bits after normalising
)

// Largest value the accumulator can reach: five cards of the top rank push that
// rank's nibble to 31, carrying one bit into the nibble above it. Assigning it
// to a uint64 fails to compile if the accumulator type can no longer hold it.
const maxAccumulator = 31 << (4 * uint(Ace))

var _ uint64 = maxAccumulator

// Result is the outcome of classifying a hand. Only Category is normative; the
// remaining fields expose the intermediate values for step-by-step rendering.
type Result struct {
	Category         Category
	IsAceLowStraight bool

	S          uint32 // rank bit-field
	V          uint64 // nibble accumulator
	Normalized uint32 // S divided by its lowest set bit
	Mod        uint64 // V mod 15
	Index      int    // clamped index into Categories

	Straight bool
	Flush    bool
	Royal    bool
}

// Name returns the category name.
func (r Result) Name() string {
	return r.Category.String()
}

// Nibble returns the accumulator nibble stored for rank.
func (r Result) Nibble(rank Rank) uint8 {
	return uint8((r.V >> (4 * uint(rank))) & 15)
}

// Classify assigns one of the ten hand categories to a five card hand.
//
// The hand is never sorted or counted directly. Ranks are folded into a bit
// field (for straights) and a nibble accumulator whose value mod 15 depends
// only on the shape of the rank multiset; suits are compared through their
// one-hot flags. Cards may repeat; only rank and suit validity is enforced.
func Classify(hand []Card) (Result, error) {
	if err := ValidateHand(hand); err != nil {
		return Result{}, err
	}

	s := RankField(hand)
	v := Accumulate(hand)
	flush := FlushSignal(hand)

	var norm uint32
	if lowest := s & -s; lowest != 0 {
		norm = s / lowest
	}

	straight := norm == straightRun || s == AceLowStraightMask
	royal := s == RoyalMask
	mod := v % 15

	straightPenalty := 1
	if straight {
		straightPenalty = 3
	}
	flushFactor := 1
	if royal {
		flushFactor = -5
	}

	idx := int(mod) - straightPenalty
	idx -= btoi(flush) * flushFactor
	idx = min(max(idx, 0), NumCategories-1)

	return Result{
		Category:         Category(idx),
		IsAceLowStraight: s == AceLowStraightMask,
		S:                s,
		V:                v,
		Normalized:       norm,
		Mod:              mod,
		Index:            idx,
		Straight:         straight,
		Flush:            flush,
		Royal:            royal,
	}, nil
}

// RankField ORs 1<<rank for every card. Repeated ranks collapse to one bit.
func RankField(cards []Card) uint32 {
	var s uint32
	for _, c := range cards {
		s |= 1 << c.Rank
	}
	return s
}

// FlushSignal reports whether the first suit equals the OR of the other four.
// With one-hot suits that holds only when all five suits are the same.
func FlushSignal(cards []Card) bool {
	if len(cards) != HandSize {
		return false
	}
	return cards[0].Suit == cards[1].Suit|cards[2].Suit|cards[3].Suit|cards[4].Suit
}

// Accumulate folds ranks into nibbles at bit offset 4*rank. Each card reads
// the current nibble and adds offset*(nibble+1), so a rank seen n times
// leaves 2^n-1 in its nibble (1, 3, 7, 15).
func Accumulate(cards []Card) uint64 {
	var v uint64
	for _, c := range cards {
		offset := uint64(1) << (4 * uint(c.Rank))
		nibble := (v / offset) & 15
		v += offset * (nibble + 1)
	}
	return v
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
