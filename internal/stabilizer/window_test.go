package stabilizer

import (
	"errors"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/detection"
)

// Layouts used throughout. Both have no upgrade slots against a catalog of
// 20 regions, so neither needs sanctuaries.
var (
	layoutA = []int{20, 19, 18, 17, 16, 15, 14, 13}
	layoutB = []int{19, 18, 17, 16, 15, 14, 13, 12}
)

// testCatalog has regions 1..20 worth a flat point each and sanctuaries 1..10.
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	var cards []catalog.Card
	for id := 1; id <= 20; id++ {
		cards = append(cards, catalog.Card{
			ID:     id,
			Class:  catalog.Region,
			Points: catalog.CardPoints{Flat: 1},
		})
	}
	for id := 1; id <= 10; id++ {
		cards = append(cards, catalog.Card{ID: id, Class: catalog.Sanctuary})
	}
	cat, err := catalog.New(cards)
	if err != nil {
		t.Fatalf("build catalog: %v", err)
	}
	return cat
}

func newWindow(t *testing.T, opts ...Option) *Window {
	t.Helper()
	w, err := New(testCatalog(t), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return w
}

// frame lays sanctuaries out on a top row and regions on the row below.
func frame(regions, sanctuaries []int) []detection.Detection {
	var dets []detection.Detection
	for i, id := range sanctuaries {
		dets = append(dets, card("S", id, float64(i)*110, 0))
	}
	for i, id := range regions {
		dets = append(dets, card("R", id, float64(i)*110, 200))
	}
	return dets
}

func card(prefix string, id int, x, y float64) detection.Detection {
	return detection.Detection{
		Bounds:     detection.Bounds{X1: x, Y1: y, X2: x + 100, Y2: y + 150},
		Label:      prefix + strconv.Itoa(id),
		Confidence: 0.9,
	}
}

func pushN(t *testing.T, w *Window, n int, regions []int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if got := w.Push(frame(regions, nil)); got != Accepted {
			t.Fatalf("push %d: outcome %v, want accepted", i, got)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	w := newWindow(t)
	s := w.Stats()
	if s.Capacity != DefaultSize {
		t.Errorf("capacity = %d, want %d", s.Capacity, DefaultSize)
	}
	if s.Threshold != DefaultThreshold {
		t.Errorf("threshold = %v, want %v", s.Threshold, DefaultThreshold)
	}
	if s.State != Collecting {
		t.Errorf("state = %v, want collecting", s.State)
	}
}

func TestNew_RejectsBadOptions(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		name string
		opts []Option
	}{
		{"zero size", []Option{WithSize(0)}},
		{"zero threshold", []Option{WithThreshold(0)}},
		{"threshold above one", []Option{WithThreshold(1.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(cat, tt.opts...); err == nil {
				t.Error("expected an error")
			}
		})
	}
	if _, err := New(nil); err == nil {
		t.Error("expected an error for a nil catalog")
	}
}

func TestQuery_NoData(t *testing.T) {
	w := newWindow(t)
	_, err := w.Query()
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
	var gse *GameStateError
	if !errors.As(err, &gse) || gse.Reason != NoData {
		t.Errorf("expected a GameStateError with reason no_data, got %v", err)
	}
}

func TestQuery_NeedsFullWindow(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 29, layoutA)

	if _, err := w.Query(); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("after 29 frames: err = %v, want ErrNotEnoughData", err)
	}

	pushN(t, w, 1, layoutA)
	got, err := w.Query()
	if err != nil {
		t.Fatalf("after 30 frames: %v", err)
	}
	if !slices.Equal(got.Layout.Regions, layoutA) {
		t.Errorf("regions = %v, want %v", got.Layout.Regions, layoutA)
	}
	if got.Votes != 30 || got.Confidence != 1 {
		t.Errorf("votes = %d confidence = %v, want 30 and 1", got.Votes, got.Confidence)
	}
	if !got.Layout.Scored || got.Layout.Total != 8 {
		t.Errorf("expected a scored layout totalling 8, got scored=%v total=%d", got.Layout.Scored, got.Layout.Total)
	}
	if w.State() != Locked {
		t.Errorf("state = %v, want locked", w.State())
	}
}

func TestQuery_ThresholdIsInclusive(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 9, layoutB)
	pushN(t, w, 21, layoutA)

	got, err := w.Query()
	if err != nil {
		t.Fatalf("21 of 30 should be confident: %v", err)
	}
	if !slices.Equal(got.Layout.Regions, layoutA) {
		t.Errorf("regions = %v, want %v", got.Layout.Regions, layoutA)
	}
	if got.Votes != 21 {
		t.Errorf("votes = %d, want 21", got.Votes)
	}
}

func TestQuery_BelowThreshold(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 10, layoutB)
	pushN(t, w, 20, layoutA)

	if _, err := w.Query(); !errors.Is(err, ErrNotConfident) {
		t.Fatalf("err = %v, want ErrNotConfident", err)
	}
	if w.State() != Evaluating {
		t.Errorf("state = %v, want evaluating", w.State())
	}

	// One more A frame evicts the oldest B and tips the balance.
	pushN(t, w, 1, layoutA)
	if _, err := w.Query(); err != nil {
		t.Fatalf("21 of 30 should be confident: %v", err)
	}
}

func TestPush_WindowIsBounded(t *testing.T) {
	w := newWindow(t)
	for i := 0; i < 100; i++ {
		regions := layoutA
		if i%3 == 0 {
			regions = layoutB
		}
		w.Push(frame(regions, nil))

		s := w.Stats()
		want := min(i+1, DefaultSize)
		if s.Length != want {
			t.Fatalf("after %d pushes length = %d, want %d", i+1, s.Length, want)
		}
		if v := w.votes(); v != s.Length {
			t.Fatalf("after %d pushes votes sum to %d, want %d", i+1, v, s.Length)
		}
	}
}

func TestPush_EvictsOldest(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 30, layoutB)
	pushN(t, w, 30, layoutA)

	s := w.Stats()
	if s.Distinct != 1 || s.TopVotes != 30 {
		t.Errorf("distinct = %d top = %d, want 1 and 30", s.Distinct, s.TopVotes)
	}
	got, err := w.Query()
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !slices.Equal(got.Layout.Regions, layoutA) {
		t.Errorf("regions = %v, want %v", got.Layout.Regions, layoutA)
	}
}

func TestPush_SizeOneKeepsRepeatedLayout(t *testing.T) {
	w := newWindow(t, WithSize(1))
	pushN(t, w, 3, layoutA)

	if v := w.votes(); v != 1 {
		t.Fatalf("votes sum to %d, want 1", v)
	}
	got, err := w.Query()
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if !got.Layout.Scored || got.Layout.Total != 8 {
		t.Errorf("lost the scored layout on eviction: %+v", got.Layout)
	}
}

func TestPush_RejectsBadFrames(t *testing.T) {
	w := newWindow(t)

	tests := []struct {
		name string
		dets []detection.Detection
		want Outcome
	}{
		{"seven regions", frame(layoutA[:7], nil), Invalid},
		{"nine regions", frame(append(slices.Clone(layoutA), 1), nil), Invalid},
		{"repeated region", frame([]int{20, 19, 18, 17, 16, 15, 14, 14}, nil), Invalid},
		{"missing sanctuary", frame([]int{19, 20, 18, 17, 16, 15, 14, 13}, nil), Invalid},
		{"unknown region", frame([]int{99, 19, 18, 17, 16, 15, 14, 13}, nil), Invalid},
		{"bad label", append(frame(layoutA, nil), detection.Detection{Label: "R?"}), Unparsable},
		{"empty frame", nil, Invalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.Push(tt.dets); got != tt.want {
				t.Errorf("outcome = %v, want %v", got, tt.want)
			}
		})
	}
	if n := w.Stats().Length; n != 0 {
		t.Errorf("rejected frames entered the window: length %d", n)
	}
}

func TestPush_UpgradeSlotNeedsSanctuary(t *testing.T) {
	w := newWindow(t)
	regions := []int{19, 20, 18, 17, 16, 15, 14, 13}
	if got := w.Push(frame(regions, []int{3})); got != Accepted {
		t.Errorf("outcome = %v, want accepted", got)
	}
}

func TestPush_IgnoredWhileLocked(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 30, layoutA)
	first, err := w.Query()
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	for i := 0; i < 40; i++ {
		if got := w.Push(frame(layoutB, nil)); got != Ignored {
			t.Fatalf("outcome = %v, want ignored", got)
		}
	}
	again, err := w.Query()
	if err != nil {
		t.Fatalf("second Query failed: %v", err)
	}
	if !slices.Equal(again.Layout.Regions, first.Layout.Regions) || again.Votes != first.Votes {
		t.Errorf("locked result changed: %+v then %+v", first, again)
	}
}

func TestLocked(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 30, layoutA)
	if _, ok := w.Locked(); ok {
		t.Fatal("window should not be locked before Query")
	}
	if w.State() != Evaluating {
		t.Errorf("Locked must not change state, got %v", w.State())
	}

	want, err := w.Query()
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	got, ok := w.Locked()
	if !ok || got.Votes != want.Votes || !slices.Equal(got.Layout.Regions, want.Layout.Regions) {
		t.Errorf("Locked = %+v, %v; want %+v", got, ok, want)
	}
}

func TestQuery_ReturnsCopy(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 30, layoutA)
	got, err := w.Query()
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	got.Layout.Regions[0] = 1
	got.Layout.RegionScores[20] = 99

	again, _ := w.Query()
	if again.Layout.Regions[0] != 20 || again.Layout.RegionScores[20] != 1 {
		t.Error("caller mutation leaked into the window")
	}
}

func TestReset(t *testing.T) {
	w := newWindow(t)
	pushN(t, w, 30, layoutA)
	if _, err := w.Query(); err != nil {
		t.Fatalf("Query failed: %v", err)
	}

	w.Reset()

	if _, err := w.Query(); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v, want ErrNoData", err)
	}
	s := w.Stats()
	if s.State != Collecting || s.Length != 0 || s.Distinct != 0 {
		t.Errorf("unexpected stats after reset: %+v", s)
	}
	if got := w.Push(frame(layoutB, nil)); got != Accepted {
		t.Errorf("outcome after reset = %v, want accepted", got)
	}
}

func TestQuery_TieBreak(t *testing.T) {
	w := newWindow(t, WithSize(4), WithThreshold(0.5))
	pushN(t, w, 2, layoutA)
	pushN(t, w, 2, layoutB)

	got, err := w.Query()
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	// B starts with 19, A with 20.
	if !slices.Equal(got.Layout.Regions, layoutB) {
		t.Errorf("regions = %v, want %v", got.Layout.Regions, layoutB)
	}
}

func TestPush_Viewport(t *testing.T) {
	view := detection.Bounds{X1: 0, Y1: 0, X2: 880, Y2: 400}
	w := newWindow(t, WithViewport(view))

	dets := frame(layoutA, nil)
	// A ninth card hanging off the right edge is not part of the tableau.
	dets = append(dets, card("R", 1, 870, 200))

	if got := w.Push(dets); got != Accepted {
		t.Errorf("outcome = %v, want accepted", got)
	}
}

func TestWindow_Concurrent(t *testing.T) {
	w := newWindow(t)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				switch {
				case g == 0 && i == 25:
					w.Reset()
				case g%2 == 0:
					w.Push(frame(layoutA, nil))
				default:
					_, _ = w.Query()
					_ = w.Stats()
				}
			}
		}(g)
	}
	wg.Wait()

	s := w.Stats()
	if s.Length > s.Capacity {
		t.Errorf("length %d exceeds capacity %d", s.Length, s.Capacity)
	}
	if v := w.votes(); v != s.Length {
		t.Errorf("votes sum to %d, want %d", v, s.Length)
	}
}

func TestReasonStrings(t *testing.T) {
	tests := []struct {
		reason Reason
		want   string
	}{
		{NoData, "no_data"},
		{NotEnoughData, "not_enough_data"},
		{NotConfident, "not_confident"},
		{Reason(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", int(tt.reason), got, tt.want)
		}
	}
}
