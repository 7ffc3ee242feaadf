package poker

// Category is an index into Categories. The ordering is produced by the
// classifier arithmetic and must not be rearranged.
type Category uint8

const (
	FourOfAKind Category = iota
	StraightFlush
	Straight
	Flush
	HighCard
	OnePair
	TwoPair
	RoyalFlush
	ThreeOfAKind
	FullHouse
)

// Categories holds the category names in classifier index order.
var Categories = [...]string{
	"4 of a Kind",
	"Straight Flush",
	"Straight",
	"Flush",
	"High Card",
	"1 Pair",
	"2 Pair",
	"Royal Flush",
	"3 of a Kind",
	"Full House",
}

// NumCategories is the number of hand categories.
const NumCategories = len(Categories)

func (c Category) String() string {
	if int(c) >= NumCategories {
		return "Unknown"
	}
	return Categories[c]
}

// Valid reports whether c indexes the category table.
func (c Category) Valid() bool {
	return int(c) < NumCategories
}

// ParseCategory looks up a category by its table name.
func ParseCategory(name string) (Category, bool) {
	for i, n := range Categories {
		if n == name {
			return Category(i), true
		}
	}
	return 0, false
}

// Strength orders categories from weakest (0, High Card) to strongest
// (9, Royal Flush) for display and sorting. It plays no part in classification.
func (c Category) Strength() int {
	switch c {
	case HighCard:
		return 0
	case OnePair:
		return 1
	case TwoPair:
		return 2
	case ThreeOfAKind:
		return 3
	case Straight:
		return 4
	case Flush:
		return 5
	case FullHouse:
		return 6
	case FourOfAKind:
		return 7
	case StraightFlush:
		return 8
	case RoyalFlush:
		return 9
	default:
		return -1
	}
}
