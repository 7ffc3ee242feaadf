// Package trace explains a classification step by step: the bits each card
// sets, the nibble accumulator, the straight and flush checks and the index
// arithmetic that picks the category.
package trace

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/lox/handbits/poker"
)

// FieldWidth is the number of bits shown for the rank bit-field.
const FieldWidth = 32

// AccumulatorWidth is the number of bits shown for the accumulator.
const AccumulatorWidth = 64

// Step is one titled stage of the explanation.
type Step struct {
	Title string
	Lines []string
}

// NibbleRow describes one rank present in the accumulator.
type NibbleRow struct {
	Rank   poker.Rank
	Count  int
	Nibble uint8
	Offset uint64
}

// Trace is the full explanation of one classification.
type Trace struct {
	Hand    []poker.Card
	Result  poker.Result
	Nibbles []NibbleRow
	Steps   []Step
}

// FormatBinary renders the low width bits of v, most significant first, in
// space separated groups of four.
func FormatBinary(v uint64, width int) string {
	var b strings.Builder
	for i := width - 1; i >= 0; i-- {
		if v&(1<<uint(i)) != 0 {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// New builds the trace for a hand and its classification result.
func New(hand []poker.Card, result poker.Result) Trace {
	t := Trace{
		Hand:   append([]poker.Card(nil), hand...),
		Result: result,
	}

	for r := poker.Two; r <= poker.Ace; r++ {
		n := result.Nibble(r)
		if n == 0 {
			continue
		}
		t.Nibbles = append(t.Nibbles, NibbleRow{
			Rank:   r,
			Count:  bits.OnesCount8(n),
			Nibble: n,
			Offset: uint64(1) << (4 * uint(r)),
		})
	}

	t.Steps = []Step{
		t.handStep(),
		t.fieldStep(),
		t.patternStep(),
		t.straightStep(),
		t.flushStep(),
		t.finalStep(),
	}
	return t
}

// Classify validates and classifies hand, returning its trace.
func Classify(hand []poker.Card) (Trace, error) {
	result, err := poker.Classify(hand)
	if err != nil {
		return Trace{}, err
	}
	return New(hand, result), nil
}

func (t Trace) handStep() Step {
	s := Step{Title: "Initial hand"}
	for _, c := range t.Hand {
		s.Lines = append(s.Lines, fmt.Sprintf("%s  bit %2d (1 << %d) = %s",
			c, c.Rank, c.Rank, FormatBinary(1<<uint(c.Rank), FieldWidth)))
	}
	return s
}

func (t Trace) fieldStep() Step {
	r := t.Result
	return Step{
		Title: "Rank bit-field",
		Lines: []string{
			fmt.Sprintf("s = %s", FormatBinary(uint64(r.S), FieldWidth)),
			fmt.Sprintf("s = 0x%X (%d distinct ranks)", r.S, bits.OnesCount32(r.S)),
		},
	}
}

func (t Trace) patternStep() Step {
	r := t.Result
	s := Step{Title: "Rank pattern"}
	s.Lines = append(s.Lines, fmt.Sprintf("normalised s = s / (s & -s) = %s (%d)",
		FormatBinary(uint64(r.Normalized), FieldWidth), r.Normalized))
	for _, n := range t.Nibbles {
		s.Lines = append(s.Lines, fmt.Sprintf("rank %2d (%s) x%d  nibble=%2d  offset=2^%d=%d",
			n.Rank, n.Rank, n.Count, n.Nibble, 4*int(n.Rank), n.Offset))
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("v = %d", r.V),
		fmt.Sprintf("v = %s", FormatBinary(r.V, AccumulatorWidth)),
		fmt.Sprintf("v mod 15 = %d", r.Mod),
	)
	return s
}

func (t Trace) straightStep() Step {
	r := t.Result
	s := Step{Title: "Straight check"}
	switch {
	case r.IsAceLowStraight:
		s.Lines = append(s.Lines, fmt.Sprintf("s == 0x%X: straight (ace low)", poker.AceLowStraightMask))
	case r.Straight:
		s.Lines = append(s.Lines, "normalised s == 31: straight")
	default:
		s.Lines = append(s.Lines, fmt.Sprintf("normalised s == %d, not 31 and s != 0x%X: no straight", r.Normalized, poker.AceLowStraightMask))
	}
	if r.Royal {
		s.Lines = append(s.Lines, fmt.Sprintf("s == 0x%X: ten to ace", poker.RoyalMask))
	}
	return s
}

func (t Trace) flushStep() Step {
	s := Step{Title: "Flush check"}
	if len(t.Hand) != poker.HandSize {
		return s
	}
	first := t.Hand[0].Suit
	var rest poker.Suit
	others := make([]string, 0, poker.HandSize-1)
	for _, c := range t.Hand[1:] {
		rest |= c.Suit
		others = append(others, c.Suit.String())
	}
	s.Lines = append(s.Lines,
		fmt.Sprintf("first suit %s = %04b", first, first),
		fmt.Sprintf("OR of %s = %04b", strings.Join(others, " "), rest),
	)
	if t.Result.Flush {
		s.Lines = append(s.Lines, fmt.Sprintf("equal: flush (%s)", first))
	} else {
		s.Lines = append(s.Lines, "not equal: no flush")
	}
	return s
}

func (t Trace) finalStep() Step {
	r := t.Result
	penalty := 1
	if r.Straight {
		penalty = 3
	}
	idx := int(r.Mod) - penalty
	s := Step{Title: "Final calculation"}
	s.Lines = append(s.Lines, fmt.Sprintf("index = %d - %d = %d", r.Mod, penalty, idx))
	if r.Flush {
		factor := 1
		if r.Royal {
			factor = -5
		}
		s.Lines = append(s.Lines, fmt.Sprintf("index = %d - 1 * (%d) = %d", idx, factor, idx-factor))
		idx -= factor
	}
	if idx != r.Index {
		s.Lines = append(s.Lines, fmt.Sprintf("clamped to [0,%d]: %d", poker.NumCategories-1, r.Index))
	}
	hand := r.Name()
	if r.IsAceLowStraight {
		hand += " (Ace low)"
	}
	s.Lines = append(s.Lines, fmt.Sprintf("Final hand rank: %s", hand))
	return s
}

// String renders the trace as plain text.
func (t Trace) String() string {
	var b strings.Builder
	for i, s := range t.Steps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s.Title)
		for _, l := range s.Lines {
			fmt.Fprintf(&b, "   %s\n", l)
		}
	}
	return b.String()
}
