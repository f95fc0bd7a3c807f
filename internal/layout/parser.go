package layout

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/ironsheep/faraway-mcp/internal/detection"
)

// ErrMalformedLabel is wrapped by every ParseError.
var ErrMalformedLabel = errors.New("malformed card label")

// regionPrefix marks a region label. Any other leading letter is a sanctuary.
const regionPrefix = 'R'

// ParseError reports the first label in a frame that could not be decoded.
type ParseError struct {
	Index int    // position of the detection in reading order
	Label string // the offending label
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v %q at position %d", ErrMalformedLabel, e.Label, e.Index)
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedLabel
}

// Parse reads the detections of one frame into an unscored layout.
//
// Detections are put in reading order first, so region and sanctuary ids
// keep the order in which they sit on the table. A label is one class letter
// followed by a non-negative decimal id.
func Parse(dets []detection.Detection) (Layout, error) {
	var l Layout
	for i, d := range detection.SortReadingOrder(dets) {
		region, id, ok := decodeLabel(d.Label)
		if !ok {
			return Layout{}, &ParseError{Index: i, Label: d.Label}
		}
		if region {
			l.Regions = append(l.Regions, id)
		} else {
			l.Sanctuaries = append(l.Sanctuaries, id)
		}
	}
	return l, nil
}

func decodeLabel(label string) (region bool, id int, ok bool) {
	if len(label) < 2 {
		return false, 0, false
	}
	digits := label[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false, 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return false, 0, false
	}
	return label[0] == regionPrefix, n, true
}
