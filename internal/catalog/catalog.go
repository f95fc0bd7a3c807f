package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownCard is returned when a card id is not in the requested table.
var ErrUnknownCard = errors.New("unknown card")

// columns is the number of cells in a card table row.
const columns = 24

// Catalog is the read-only set of region and sanctuary cards.
type Catalog struct {
	regions     map[int]Card
	sanctuaries map[int]Card
}

// New builds a catalog from already-decoded cards. Cards are split by their
// Class; a repeated id within a class is an error.
func New(cards []Card) (*Catalog, error) {
	c := &Catalog{
		regions:     make(map[int]Card),
		sanctuaries: make(map[int]Card),
	}
	for _, card := range cards {
		table := c.table(card.Class)
		if table == nil {
			return nil, fmt.Errorf("card %d: unknown class %v", card.ID, card.Class)
		}
		if _, dup := table[card.ID]; dup {
			return nil, fmt.Errorf("duplicate %s id %d", card.Class, card.ID)
		}
		table[card.ID] = card
	}
	return c, nil
}

func (c *Catalog) table(class Class) map[int]Card {
	switch class {
	case Region:
		return c.regions
	case Sanctuary:
		return c.sanctuaries
	default:
		return nil
	}
}

// Region returns the region card with the given id.
func (c *Catalog) Region(id int) (Card, bool) {
	card, ok := c.regions[id]
	return card, ok
}

// Sanctuary returns the sanctuary card with the given id.
func (c *Catalog) Sanctuary(id int) (Card, bool) {
	card, ok := c.sanctuaries[id]
	return card, ok
}

// Lookup returns the card of the given class and id, or an error wrapping
// ErrUnknownCard.
func (c *Catalog) Lookup(class Class, id int) (Card, error) {
	card, ok := c.table(class)[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %s %d", ErrUnknownCard, class, id)
	}
	return card, nil
}

// RegionCount returns the number of region cards.
func (c *Catalog) RegionCount() int {
	return len(c.regions)
}

// SanctuaryCount returns the number of sanctuary cards.
func (c *Catalog) SanctuaryCount() int {
	return len(c.sanctuaries)
}

// IDs returns the ids of a class in ascending order.
func (c *Catalog) IDs(class Class) []int {
	table := c.table(class)
	ids := make([]int, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// LoadFile reads a card table from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card table: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Load parses a card table. Rows with at most one cell are skipped, as is a
// leading header row whose first cell is "id".
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var cards []Card
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read card table: %w", err)
		}
		if len(record) <= 1 {
			continue
		}
		if first && strings.EqualFold(strings.TrimSpace(record[0]), "id") {
			continue
		}
		card, err := parseRow(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cards = append(cards, card)
	}
	return New(cards)
}

func parseRow(record []string) (Card, error) {
	if len(record) < columns {
		return Card{}, fmt.Errorf("expected %d columns, got %d", columns, len(record))
	}
	cols := make([]int, columns)
	for i := 0; i < columns; i++ {
		cell := strings.TrimSpace(record[i])
		if cell == "" {
			continue
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			return Card{}, fmt.Errorf("column %d: invalid integer %q", i, cell)
		}
		cols[i] = n
	}

	class := Region
	switch cols[23] {
	case 0:
	case 1:
		class = Sanctuary
	default:
		return Card{}, fmt.Errorf("column 23: invalid class flag %d", cols[23])
	}
	if cols[0] < 0 {
		return Card{}, fmt.Errorf("column 0: negative id %d", cols[0])
	}

	color := colorFromIndex(cols[2])
	return Card{
		ID:    cols[0],
		Class: class,
		Color: color,
		Requirements: map[Resource]int{
			Mineral: cols[7],
			Animal:  cols[8],
			Food:    cols[9],
		},
		Effect: CardState{
			Colors: map[CardColor]int{color: 1},
			Resources: map[Resource]int{
				Mineral: cols[4],
				Animal:  cols[5],
				Food:    cols[6],
			},
			Clues:  cols[3],
			Nights: cols[1],
		},
		Points: CardPoints{
			Colors: map[CardColor]int{
				Gray:   cols[22],
				Red:    cols[15],
				Green:  cols[16],
				Blue:   cols[17],
				Yellow: cols[18],
			},
			ColorGroup: cols[19],
			Resources: map[Resource]int{
				Mineral: cols[10],
				Animal:  cols[11],
				Food:    cols[12],
			},
			ResourceGroup: cols[21],
			Clues:         cols[13],
			Nights:        cols[14],
			Flat:          cols[20],
		},
	}, nil
}
