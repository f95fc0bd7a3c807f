// Package layout turns one frame of detections into a candidate tableau and
// decides whether that tableau is structurally possible.
//
// A Layout is the ordered pair of region ids and sanctuary ids read off the
// table. Order matters: the same cards in a different order are a different
// layout, both for scoring and for voting in the stabilizer.
//
// Parsing never partially applies a frame. If any label in the frame cannot
// be decoded the whole frame is rejected with a *ParseError.
//
// Validation checks, in order:
//  1. Exactly eight region ids.
//  2. No region id repeats.
//  3. The number of upgrade slots in the region sequence equals the number of
//     sanctuary ids (see UpgradeSlots).
//  4. No sanctuary id repeats.
//  5. Every id exists in its catalog table.
package layout
