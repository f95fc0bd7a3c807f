package layout

import (
	"errors"
	"fmt"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
)

// Rule identifies which structural check a layout failed.
type Rule int

const (
	RuleRegionCount Rule = iota + 1
	RuleDistinctRegions
	RuleUpgradeSlots
	RuleDistinctSanctuaries
	RuleKnownCards
)

func (r Rule) String() string {
	switch r {
	case RuleRegionCount:
		return "region_count"
	case RuleDistinctRegions:
		return "distinct_regions"
	case RuleUpgradeSlots:
		return "upgrade_slots"
	case RuleDistinctSanctuaries:
		return "distinct_sanctuaries"
	case RuleKnownCards:
		return "known_cards"
	default:
		return fmt.Sprintf("rule(%d)", int(r))
	}
}

// ErrInvalidLayout is wrapped by every ValidationError.
var ErrInvalidLayout = errors.New("invalid layout")

// ValidationError reports the first rule a layout broke.
type ValidationError struct {
	Rule   Rule
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidLayout, e.Rule, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidLayout
}

func invalid(rule Rule, format string, args ...any) error {
	return &ValidationError{Rule: rule, Detail: fmt.Sprintf(format, args...)}
}

// UpgradeSlots counts the positions in regions whose id is greater than the
// id before it. The first region is compared against baseline.
func UpgradeSlots(regions []int, baseline int) int {
	slots := 0
	last := baseline
	for _, id := range regions {
		if id > last {
			slots++
		}
		last = id
	}
	return slots
}

// Validate checks l against the structural rules of a finished tableau. The
// upgrade slot baseline is the number of region cards in cat.
func Validate(l Layout, cat *catalog.Catalog) error {
	if len(l.Regions) != RegionSlots {
		return invalid(RuleRegionCount, "got %d regions, want %d", len(l.Regions), RegionSlots)
	}
	if id, dup := firstRepeat(l.Regions); dup {
		return invalid(RuleDistinctRegions, "region %d appears more than once", id)
	}
	if slots := UpgradeSlots(l.Regions, cat.RegionCount()); slots != len(l.Sanctuaries) {
		return invalid(RuleUpgradeSlots, "%d upgrade slots but %d sanctuaries", slots, len(l.Sanctuaries))
	}
	if id, dup := firstRepeat(l.Sanctuaries); dup {
		return invalid(RuleDistinctSanctuaries, "sanctuary %d appears more than once", id)
	}
	for _, id := range l.Regions {
		if _, ok := cat.Region(id); !ok {
			return invalid(RuleKnownCards, "region %d is not in the catalog", id)
		}
	}
	for _, id := range l.Sanctuaries {
		if _, ok := cat.Sanctuary(id); !ok {
			return invalid(RuleKnownCards, "sanctuary %d is not in the catalog", id)
		}
	}
	return nil
}

// Valid reports whether Validate accepts l.
func Valid(l Layout, cat *catalog.Catalog) bool {
	return Validate(l, cat) == nil
}

func firstRepeat(ids []int) (int, bool) {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return 0, false
}
