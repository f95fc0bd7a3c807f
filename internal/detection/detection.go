package detection

import "sort"

// Bounds is a rectangular bounding box in frame pixel coordinates.
type Bounds struct {
	X1 float64 `json:"x1"` // Left edge
	Y1 float64 `json:"y1"` // Top edge
	X2 float64 `json:"x2"` // Right edge
	Y2 float64 `json:"y2"` // Bottom edge
}

// Width returns X2 - X1.
func (b Bounds) Width() float64 { return b.X2 - b.X1 }

// Height returns Y2 - Y1.
func (b Bounds) Height() float64 { return b.Y2 - b.Y1 }

// MidX returns the horizontal centre.
func (b Bounds) MidX() float64 { return (b.X1 + b.X2) / 2 }

// MidY returns the vertical centre.
func (b Bounds) MidY() float64 { return (b.Y1 + b.Y2) / 2 }

// IsZero reports whether all four edges are zero.
func (b Bounds) IsZero() bool { return b == Bounds{} }

// Contains reports whether other lies entirely inside b, edges included.
func (b Bounds) Contains(other Bounds) bool {
	return other.X1 >= b.X1 && other.Y1 >= b.Y1 && other.X2 <= b.X2 && other.Y2 <= b.Y2
}

// Detection is one labelled box reported by the detector for a frame.
type Detection struct {
	// Bounds is the box around the card.
	Bounds Bounds `json:"bounds"`

	// Label is the detector class, e.g. "R12" for region 12 or "S3" for
	// sanctuary 3.
	Label string `json:"label"`

	// Confidence is the detector's score for Label (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// Before reports whether a is read before b.
//
// a comes first when its bottom edge is above b's midline, b comes first in
// the mirrored case, and otherwise the two share a row and the one further
// left comes first.
func Before(a, b Detection) bool {
	switch {
	case a.Bounds.Y2 < b.Bounds.MidY():
		return true
	case b.Bounds.Y2 < a.Bounds.MidY():
		return false
	default:
		return a.Bounds.MidX() < b.Bounds.MidX()
	}
}

// SortReadingOrder returns a copy of dets in reading order. The input slice
// is not modified.
func SortReadingOrder(dets []Detection) []Detection {
	sorted := make([]Detection, len(dets))
	copy(sorted, dets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return Before(sorted[i], sorted[j])
	})
	return sorted
}

// WithinViewport keeps the detections whose box lies fully inside viewport.
// A zero viewport keeps every detection.
func WithinViewport(dets []Detection, viewport Bounds) []Detection {
	if viewport.IsZero() {
		return dets
	}
	kept := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if viewport.Contains(d.Bounds) {
			kept = append(kept, d)
		}
	}
	return kept
}
