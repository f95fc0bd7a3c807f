package catalog

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Resource is one of the three resources printed on cards.
type Resource int

const (
	Animal Resource = iota
	Mineral
	Food
)

// Resources lists every resource in the order used by the resource group bonus.
var Resources = []Resource{Mineral, Animal, Food}

func (r Resource) String() string {
	switch r {
	case Animal:
		return "animal"
	case Mineral:
		return "mineral"
	case Food:
		return "food"
	default:
		return fmt.Sprintf("resource(%d)", int(r))
	}
}

// CardColor is the biome colour of a card.
type CardColor int

const (
	Gray CardColor = iota
	Red
	Green
	Blue
	Yellow
)

// Colors lists every colour. Gray is first and is the only colour left out of
// the colour group bonus.
var Colors = []CardColor{Gray, Red, Green, Blue, Yellow}

// groupColors are the colours counted by the colour group bonus.
var groupColors = []CardColor{Red, Green, Blue, Yellow}

// swatches are the display colours used when reporting a card to a client.
var swatches = map[CardColor]string{
	Gray:   "#8c8c8c",
	Red:    "#c0392b",
	Green:  "#2e8b57",
	Blue:   "#2f6fb5",
	Yellow: "#e1b12c",
}

func (c CardColor) String() string {
	switch c {
	case Gray:
		return "gray"
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Yellow:
		return "yellow"
	default:
		return fmt.Sprintf("color(%d)", int(c))
	}
}

// colorFromIndex maps the table's colour index to a CardColor. Any index past
// blue is yellow.
func colorFromIndex(i int) CardColor {
	switch i {
	case 0:
		return Gray
	case 1:
		return Red
	case 2:
		return Green
	case 3:
		return Blue
	default:
		return Yellow
	}
}

// Swatch returns the display colour for c. Unknown colours render as black.
func (c CardColor) Swatch() colorful.Color {
	hex, ok := swatches[c]
	if !ok {
		return colorful.Color{}
	}
	col, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}
	}
	return col
}

// Hex returns the display colour for c as "#rrggbb".
func (c CardColor) Hex() string {
	return c.Swatch().Hex()
}

// CardState accumulates what the cards of a tableau provide.
//
// The zero value is ready to use.
type CardState struct {
	Colors    map[CardColor]int
	Resources map[Resource]int
	Clues     int
	Nights    int
}

// Add merges the effect of card into s. Addition is per field, so the order
// cards are added in never changes the resulting counts.
func (s *CardState) Add(card Card) {
	s.Merge(card.Effect)
}

// Merge adds every counter of other into s.
func (s *CardState) Merge(other CardState) {
	if len(other.Colors) > 0 && s.Colors == nil {
		s.Colors = make(map[CardColor]int, len(other.Colors))
	}
	for color, n := range other.Colors {
		s.Colors[color] += n
	}
	if len(other.Resources) > 0 && s.Resources == nil {
		s.Resources = make(map[Resource]int, len(other.Resources))
	}
	for resource, n := range other.Resources {
		s.Resources[resource] += n
	}
	s.Clues += other.Clues
	s.Nights += other.Nights
}

// Color returns the count for color, zero when absent.
func (s CardState) Color(color CardColor) int {
	return s.Colors[color]
}

// Resource returns the count for r, zero when absent.
func (s CardState) Resource(r Resource) int {
	return s.Resources[r]
}

// Equal reports whether s and other hold the same counts. Missing map entries
// and explicit zeros compare equal.
func (s CardState) Equal(other CardState) bool {
	if s.Clues != other.Clues || s.Nights != other.Nights {
		return false
	}
	for _, c := range Colors {
		if s.Color(c) != other.Color(c) {
			return false
		}
	}
	for _, r := range Resources {
		if s.Resource(r) != other.Resource(r) {
			return false
		}
	}
	return true
}

// CardPoints is the scoring rule printed on a card.
type CardPoints struct {
	Colors        map[CardColor]int
	ColorGroup    int
	Resources     map[Resource]int
	ResourceGroup int
	Clues         int
	Nights        int
	Flat          int
}

// Score evaluates the rule against state.
func (p CardPoints) Score(state CardState) int {
	score := p.Flat
	score += p.Nights * state.Nights
	score += p.Clues * state.Clues

	for _, c := range Colors {
		score += p.Colors[c] * state.Color(c)
	}
	groups := state.Color(groupColors[0])
	for _, c := range groupColors[1:] {
		groups = min(groups, state.Color(c))
	}
	score += p.ColorGroup * groups

	sets := state.Resource(Resources[0])
	for _, r := range Resources {
		score += p.Resources[r] * state.Resource(r)
		sets = min(sets, state.Resource(r))
	}
	score += p.ResourceGroup * sets

	return score
}

// Class tells region cards from sanctuary cards.
type Class int

const (
	Region Class = iota
	Sanctuary
)

func (c Class) String() string {
	switch c {
	case Region:
		return "region"
	case Sanctuary:
		return "sanctuary"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// ParseClass accepts "region" or "sanctuary".
func ParseClass(s string) (Class, error) {
	switch s {
	case "region":
		return Region, nil
	case "sanctuary":
		return Sanctuary, nil
	default:
		return 0, fmt.Errorf("unknown card class %q", s)
	}
}

// Card is the immutable rule record for one card.
type Card struct {
	ID           int
	Class        Class
	Color        CardColor
	Requirements map[Resource]int
	Effect       CardState
	Points       CardPoints
}

// Met reports whether state satisfies every requirement of the card.
func (c Card) Met(state CardState) bool {
	for r, need := range c.Requirements {
		if state.Resource(r) < need {
			return false
		}
	}
	return true
}

// Score returns the card's points for state, or zero when a requirement is
// not met.
func (c Card) Score(state CardState) int {
	if !c.Met(state) {
		return 0
	}
	return c.Points.Score(state)
}
