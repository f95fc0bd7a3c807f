// Package imaging draws scored Faraway tableaux as PNG diagrams for MCP
// clients that can show images.
//
// A diagram is a plain board view, not card artwork: every card is a tile
// filled with its biome colour, labelled with its id and the points it
// scored. Cards that scored nothing are drawn desaturated.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward, the same convention the
// detector uses for bounding boxes.
//
// # Board Geometry
//
// At scale 1 a tile is 48x64 pixels with an 8 pixel gap:
//
//	+------------------------------+
//	| S2  S5                       |  sanctuaries, one row, reading order
//	| R9  R14 R3  R40              |  regions 1-4
//	| R7  R22 R1  R60              |  regions 5-8
//	| =57                          |  total
//	+------------------------------+
//
// The sanctuary row is omitted when there are none. Scale multiplies every
// dimension; tiles are scaled with nearest-neighbour sampling so labels stay
// crisp.
//
// # Thread Safety
//
// Rendering is stateless and safe to call concurrently.
package imaging
