// Package server exposes the Faraway score engine as MCP (Model Context
// Protocol) tools.
//
// The server sits between two boundaries. On one side an object detector
// pushes the labelled card boxes it sees in each camera frame. On the other
// a client polls for the final score and shows the player what to do while
// none is available yet.
//
// # Protocol
//
// The server speaks MCP over stdio through the official Go SDK:
//   - Input: JSON-RPC requests on stdin
//   - Output: JSON-RPC responses on stdout
//
// Logs go to stderr so they never corrupt the protocol stream.
//
// # Available Tools
//
// Detector side:
//   - faraway_push_detections: Fold one frame of detections into the window
//
// Presentation side:
//   - faraway_query: Final score, or a localized hint while not ready
//   - faraway_reset: Empty the window and unlock it for a new game
//   - faraway_status: Window fill level and vote counts
//
// Manual helpers:
//   - faraway_score_layout: Validate and score a tableau typed in by hand
//   - faraway_card: Look up one card's rules in the catalog
//   - faraway_render_layout: Draw a scored tableau as a PNG board diagram
//
// # Not Ready Is Not An Error
//
// faraway_query returns ready=false with a status code (no_data,
// not_enough_data or not_confident) and a hint such as "Point the camera at
// the cards". Clients are expected to poll. Tool errors are reserved for bad
// arguments and unknown cards.
//
// # Usage
//
//	srv := server.New(cat, window, guide, server.Options{Version: version})
//	if err := srv.Serve(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
