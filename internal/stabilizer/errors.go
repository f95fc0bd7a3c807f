package stabilizer

// Reason says why Query has no result yet.
type Reason int

const (
	NoData Reason = iota + 1
	NotEnoughData
	NotConfident
)

func (r Reason) String() string {
	switch r {
	case NoData:
		return "no_data"
	case NotEnoughData:
		return "not_enough_data"
	case NotConfident:
		return "not_confident"
	default:
		return "unknown"
	}
}

// GameStateError is returned by Query while no confident layout exists.
// These are expected conditions; the caller polls again later.
type GameStateError struct {
	Reason Reason
}

func (e *GameStateError) Error() string {
	switch e.Reason {
	case NoData:
		return "no layouts collected"
	case NotEnoughData:
		return "window not full"
	case NotConfident:
		return "no layout reached the confidence threshold"
	default:
		return "game state unavailable"
	}
}

var (
	ErrNoData        = &GameStateError{Reason: NoData}
	ErrNotEnoughData = &GameStateError{Reason: NotEnoughData}
	ErrNotConfident  = &GameStateError{Reason: NotConfident}
)
