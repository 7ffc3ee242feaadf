package trace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/lox/handbits/poker"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	LineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			PaddingLeft(3)

	ResultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	RedCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	BlackCardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true)

	HeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true).
			Padding(0, 1)

	CellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// RenderCard styles a card red or black by suit.
func RenderCard(c poker.Card) string {
	if c.IsRed() {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// RenderHand styles each card and joins them with spaces.
func RenderHand(hand []poker.Card) string {
	parts := make([]string, len(hand))
	for i, c := range hand {
		parts[i] = RenderCard(c)
	}
	return strings.Join(parts, " ")
}

// RenderResult formats the one line verdict shown after a deal.
func RenderResult(r poker.Result) string {
	s := "Result: " + r.Name()
	if r.IsAceLowStraight {
		s += " (Ace low)"
	}
	return ResultStyle.Render(s)
}

// Render styles every step of the trace.
func Render(t Trace) string {
	var b strings.Builder
	for i, s := range t.Steps {
		b.WriteString(TitleStyle.Render(fmt.Sprintf("%d. %s", i+1, s.Title)))
		b.WriteByte('\n')
		for _, l := range s.Lines {
			b.WriteString(LineStyle.Render(l))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ReferenceRow is one line of a suit's bit reference table. The suit flag is
// shown in the low four bits of the rank field; this overlay is for display
// only and plays no part in classification.
type ReferenceRow struct {
	Card   poker.Card
	Value  uint64
	Binary string
	Hex    string
}

// Reference lists every rank of suit from ace down to two.
func Reference(suit poker.Suit) []ReferenceRow {
	rows := make([]ReferenceRow, 0, len(poker.Ranks))
	for i := len(poker.Ranks) - 1; i >= 0; i-- {
		c := poker.NewCard(poker.Ranks[i], suit)
		v := uint64(1)<<uint(c.Rank) | uint64(suit)
		rows = append(rows, ReferenceRow{
			Card:   c,
			Value:  v,
			Binary: FormatBinary(v, FieldWidth),
			Hex:    fmt.Sprintf("0x%X", v),
		})
	}
	return rows
}

// RenderReference draws the reference table for one suit.
func RenderReference(suit poker.Suit) string {
	refs := Reference(suit)
	rows := make([][]string, len(refs))
	for i, r := range refs {
		rows[i] = []string{RenderCard(r.Card), r.Binary, r.Hex}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Card", "Binary (bits 31-0)", "Hex").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return HeaderStyle
			}
			return CellStyle
		})
	return t.String()
}
