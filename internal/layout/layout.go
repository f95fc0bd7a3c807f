package layout

import (
	"fmt"
	"maps"
	"slices"
)

const (
	// RegionSlots is the number of region cards in a finished tableau.
	RegionSlots = 8

	// MaxSanctuaries is the most sanctuaries a valid tableau can hold: one per
	// upgrade slot, and each of the eight regions is at most one slot.
	MaxSanctuaries = RegionSlots
)

// Layout is a tableau read from one frame, optionally with its scores.
type Layout struct {
	// Regions are region ids in reading order.
	Regions []int `json:"regions"`

	// Sanctuaries are sanctuary ids in reading order.
	Sanctuaries []int `json:"sanctuaries"`

	// RegionScores maps region id to points. Nil until scored.
	RegionScores map[int]int `json:"region_scores,omitempty"`

	// SanctuaryScores maps sanctuary id to points. Nil until scored.
	SanctuaryScores map[int]int `json:"sanctuary_scores,omitempty"`

	// Total is the sum of all card scores.
	Total int `json:"total"`

	// Scored is set once scores have been attached.
	Scored bool `json:"-"`
}

// Key is the identity of a layout: its region and sanctuary sequences, in
// order. Keys are comparable and can be used as map keys.
type Key struct {
	regions     [RegionSlots]int
	sanctuaries [MaxSanctuaries]int
	nRegions    int
	nSanctuary  int
}

// Key returns the identity of l. It fails when l holds more ids than a valid
// tableau can, which never happens for a layout accepted by Validate.
func (l Layout) Key() (Key, error) {
	var k Key
	if len(l.Regions) > RegionSlots {
		return Key{}, fmt.Errorf("layout has %d regions, key holds at most %d", len(l.Regions), RegionSlots)
	}
	if len(l.Sanctuaries) > MaxSanctuaries {
		return Key{}, fmt.Errorf("layout has %d sanctuaries, key holds at most %d", len(l.Sanctuaries), MaxSanctuaries)
	}
	k.nRegions = copy(k.regions[:], l.Regions)
	k.nSanctuary = copy(k.sanctuaries[:], l.Sanctuaries)
	return k, nil
}

// Regions returns the region sequence held by k.
func (k Key) Regions() []int {
	return slices.Clone(k.regions[:k.nRegions])
}

// Sanctuaries returns the sanctuary sequence held by k.
func (k Key) Sanctuaries() []int {
	return slices.Clone(k.sanctuaries[:k.nSanctuary])
}

// Compare orders keys lexicographically by region sequence, then by
// sanctuary sequence. A shorter sequence sorts before any longer sequence it
// is a prefix of.
func Compare(a, b Key) int {
	if c := slices.Compare(a.regions[:a.nRegions], b.regions[:b.nRegions]); c != 0 {
		return c
	}
	return slices.Compare(a.sanctuaries[:a.nSanctuary], b.sanctuaries[:b.nSanctuary])
}

// Same reports whether a and b have the same identity.
func Same(a, b Layout) bool {
	return slices.Equal(a.Regions, b.Regions) && slices.Equal(a.Sanctuaries, b.Sanctuaries)
}

// String formats the sequences, e.g. "R[5 3 ...] S[2]".
func (l Layout) String() string {
	return fmt.Sprintf("R%v S%v", l.Regions, l.Sanctuaries)
}

// Clone returns a deep copy of l.
func (l Layout) Clone() Layout {
	out := l
	out.Regions = slices.Clone(l.Regions)
	out.Sanctuaries = slices.Clone(l.Sanctuaries)
	out.RegionScores = maps.Clone(l.RegionScores)
	out.SanctuaryScores = maps.Clone(l.SanctuaryScores)
	return out
}
