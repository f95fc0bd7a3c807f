// Package stabilizer turns a stream of noisy per-frame layouts into one
// confident final tableau.
//
// The detector reports every frame independently and makes mistakes: a card
// is missed, two labels swap, a hand covers a region. The Window keeps the
// last W layouts that passed validation and votes on them. Once one layout
// identity holds at least a fraction C of the window, Query returns it and
// the window locks until Reset.
//
// # States
//
//	Collecting  fewer than W layouts held
//	Evaluating  W layouts held, no identity reached the threshold
//	Locked      a result was returned; Push is ignored until Reset
//
// # Concurrency
//
// A Window is safe for concurrent use. Push usually runs on the detector's
// goroutine while Query and Reset run on the presentation side; one mutex
// serializes all three. None of them blocks on I/O.
//
// # Defaults
//
// W is 30 and C is 0.7. The threshold is inclusive: 21 votes out of 30 is
// enough.
package stabilizer
