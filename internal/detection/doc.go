// Package detection describes the card detections delivered by the external
// object detector and orders them the way a player reads the table.
//
// The detector itself is not part of this module. Each processed camera frame
// yields a batch of Detection values that have already been mapped into the
// scene's pixel space.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//   - Bounds hold the top-left (X1, Y1) and bottom-right (X2, Y2) corners
//
// # Reading Order
//
// Cards on the table form rows that are rarely perfectly aligned. Two boxes
// belong to the same row when neither one ends above the other's vertical
// midpoint. Rows are read top to bottom and, within a row, left to right by
// horizontal centre.
//
// # Confidence Scores
//
// Each detection carries the detector's confidence (0.0 to 1.0). Scoring does
// not look at it; filtering on confidence is the detector's job.
package detection
