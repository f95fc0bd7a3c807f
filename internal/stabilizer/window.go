package stabilizer

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/detection"
	"github.com/ironsheep/faraway-mcp/internal/layout"
	"github.com/ironsheep/faraway-mcp/internal/scoring"
)

const (
	// DefaultSize is the number of layouts voted on.
	DefaultSize = 30

	// DefaultThreshold is the share of the window the winner needs.
	DefaultThreshold = 0.7

	// thresholdSlack absorbs float rounding so that an exact share such as
	// 21/30 meets a threshold of 0.7.
	thresholdSlack = 1e-9
)

// State is the voting phase of a Window.
type State int

const (
	Collecting State = iota
	Evaluating
	Locked
)

func (s State) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Evaluating:
		return "evaluating"
	case Locked:
		return "locked"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome tells what Push did with a frame.
type Outcome int

const (
	// Accepted means the frame's layout entered the window.
	Accepted Outcome = iota
	// Ignored means the window is locked.
	Ignored
	// Unparsable means a label in the frame could not be decoded.
	Unparsable
	// Invalid means the layout broke a structural rule.
	Invalid
	// Unscorable means a validated layout could not be scored, which points
	// at a catalog inconsistency.
	Unscorable
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case Ignored:
		return "ignored"
	case Unparsable:
		return "unparsable"
	case Invalid:
		return "invalid"
	case Unscorable:
		return "unscorable"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Consensus is the layout returned by a successful Query.
type Consensus struct {
	Layout     layout.Layout
	Votes      int
	Confidence float64
}

// Stats is a point-in-time view of a Window.
type Stats struct {
	State     State
	Length    int
	Capacity  int
	Distinct  int
	TopVotes  int
	Threshold float64
}

// Option configures a Window.
type Option func(*Window)

// WithSize sets the window size W.
func WithSize(n int) Option {
	return func(w *Window) { w.size = n }
}

// WithThreshold sets the confidence threshold C.
func WithThreshold(c float64) Option {
	return func(w *Window) { w.threshold = c }
}

// WithLogger sets the logger used for dropped frames.
func WithLogger(l *zap.Logger) Option {
	return func(w *Window) { w.log = l }
}

// WithViewport drops detections not fully inside viewport before parsing.
func WithViewport(b detection.Bounds) Option {
	return func(w *Window) { w.viewport = b }
}

type tally struct {
	votes  int
	layout layout.Layout
}

// Window votes over the most recent validated layouts.
type Window struct {
	cat       *catalog.Catalog
	size      int
	threshold float64
	viewport  detection.Bounds
	log       *zap.Logger

	mu     sync.Mutex
	ring   []layout.Key
	head   int
	length int
	tally  map[layout.Key]*tally
	locked *Consensus
}

// New creates an empty window scoring against cat.
func New(cat *catalog.Catalog, opts ...Option) (*Window, error) {
	if cat == nil {
		return nil, errors.New("stabilizer: nil catalog")
	}
	w := &Window{
		cat:       cat,
		size:      DefaultSize,
		threshold: DefaultThreshold,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.size < 1 {
		return nil, fmt.Errorf("stabilizer: window size must be positive, got %d", w.size)
	}
	if w.threshold <= 0 || w.threshold > 1 {
		return nil, fmt.Errorf("stabilizer: threshold must be in (0, 1], got %v", w.threshold)
	}
	if w.log == nil {
		w.log = zap.NewNop()
	}
	w.ring = make([]layout.Key, w.size)
	w.tally = make(map[layout.Key]*tally)
	return w, nil
}

// Push folds one frame of detections into the window.
//
// Frames that fail to parse, validate or score leave the window untouched.
// Nothing happens while the window is locked.
func (w *Window) Push(dets []detection.Detection) Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.locked != nil {
		return Ignored
	}

	l, err := layout.Parse(detection.WithinViewport(dets, w.viewport))
	if err != nil {
		w.log.Debug("frame dropped", zap.String("outcome", Unparsable.String()), zap.Error(err))
		return Unparsable
	}
	if err := layout.Validate(l, w.cat); err != nil {
		w.log.Debug("frame dropped", zap.String("outcome", Invalid.String()), zap.Error(err))
		return Invalid
	}
	key, err := l.Key()
	if err != nil {
		w.log.Error("validated layout has no key", zap.Stringer("layout", l), zap.Error(err))
		return Unscorable
	}

	var scored layout.Layout
	if t, seen := w.tally[key]; seen {
		scored = t.layout
	} else {
		scored, err = scoring.Score(l, w.cat)
		if err != nil {
			w.log.Error("validated layout could not be scored", zap.Stringer("layout", l), zap.Error(err))
			return Unscorable
		}
	}

	// Evicting may drop the last vote for key, so look the tally up again.
	w.append(key)
	t, ok := w.tally[key]
	if !ok {
		t = &tally{layout: scored}
		w.tally[key] = t
	}
	t.votes++
	return Accepted
}

// append adds key at the tail, evicting the head when the ring is full.
func (w *Window) append(key layout.Key) {
	if w.length == w.size {
		w.evict()
	}
	w.ring[(w.head+w.length)%w.size] = key
	w.length++
}

func (w *Window) evict() {
	old := w.ring[w.head]
	w.ring[w.head] = layout.Key{}
	w.head = (w.head + 1) % w.size
	w.length--

	t := w.tally[old]
	t.votes--
	if t.votes == 0 {
		delete(w.tally, old)
	}
}

// Query returns the winning layout, or a *GameStateError saying why there is
// none yet. A successful Query locks the window.
//
// When two identities share the top vote count the one whose key sorts first
// under layout.Compare wins.
func (w *Window) Query() (Consensus, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.locked != nil {
		return w.copyConsensus(*w.locked), nil
	}
	if w.length == 0 {
		return Consensus{}, ErrNoData
	}
	if w.length < w.size {
		return Consensus{}, ErrNotEnoughData
	}

	best := w.leader()
	confidence := float64(best.votes) / float64(w.size)
	if confidence+thresholdSlack < w.threshold {
		return Consensus{}, ErrNotConfident
	}

	w.locked = &Consensus{Layout: best.layout, Votes: best.votes, Confidence: confidence}
	w.log.Info("layout locked",
		zap.Stringer("layout", best.layout),
		zap.Int("votes", best.votes),
		zap.Float64("confidence", confidence),
		zap.Int("total", best.layout.Total),
		zap.Int("distinct", len(w.tally)),
	)
	return w.copyConsensus(*w.locked), nil
}

// Locked returns the locked consensus without querying. ok is false while
// the window is not locked.
func (w *Window) Locked() (c Consensus, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.locked == nil {
		return Consensus{}, false
	}
	return w.copyConsensus(*w.locked), true
}

func (w *Window) copyConsensus(c Consensus) Consensus {
	c.Layout = c.Layout.Clone()
	return c
}

// leader returns the identity with the most votes. The window must not be
// empty.
func (w *Window) leader() *tally {
	var (
		bestKey layout.Key
		best    *tally
	)
	for key, t := range w.tally {
		if best == nil || t.votes > best.votes ||
			(t.votes == best.votes && layout.Compare(key, bestKey) < 0) {
			bestKey, best = key, t
		}
	}
	return best
}

// Reset empties the window and unlocks it.
func (w *Window) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	clear(w.ring)
	w.head = 0
	w.length = 0
	w.tally = make(map[layout.Key]*tally)
	w.locked = nil
	w.log.Debug("window reset")
}

// State returns the current voting phase.
func (w *Window) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state()
}

func (w *Window) state() State {
	switch {
	case w.locked != nil:
		return Locked
	case w.length < w.size:
		return Collecting
	default:
		return Evaluating
	}
}

// Stats returns a snapshot of the window.
func (w *Window) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Stats{
		State:     w.state(),
		Length:    w.length,
		Capacity:  w.size,
		Distinct:  len(w.tally),
		Threshold: w.threshold,
	}
	if w.length > 0 {
		s.TopVotes = w.leader().votes
	}
	return s
}

// votes returns the sum of all tallies. Tests use it to check that the tally
// always matches the ring.
func (w *Window) votes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for _, t := range w.tally {
		n += t.votes
	}
	return n
}
