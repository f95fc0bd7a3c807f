// Package catalog holds the Faraway card rules used for scoring.
//
// A Catalog is built once from the card table at startup and is read-only
// afterwards, so a single *Catalog may be shared by every goroutine in the
// process without locking.
//
// # Card Classes
//
// Cards belong to one of two classes:
//   - Region: the eight cards laid in a row during a game
//   - Sanctuary: the smaller cards collected when a region upgrade is played
//
// Region and sanctuary ids live in separate tables. Id 12 as a region and id
// 12 as a sanctuary are unrelated cards.
//
// # Scoring Model
//
// Each card carries three pieces of rule data:
//   - Requirements: minimum resource counts needed before the card scores at all
//   - Effect: the colours, resources, clues and nights the card adds to a tableau
//   - Points: how the card turns an accumulated CardState into points
//
// Requirements are an all-or-nothing gate. A card whose requirements are not
// met by the accumulated state scores zero.
//
// # Table Format
//
// The loader reads the comma-separated card table with 24 columns per row:
//
//	 0 id
//	 1 nights
//	 2 colour index (0 gray, 1 red, 2 green, 3 blue, 4 yellow)
//	 3 clues
//	 4-6 resource effect (mineral, animal, food)
//	 7-9 requirement (mineral, animal, food)
//	10-12 points per resource (mineral, animal, food)
//	13 points per clue
//	14 points per night
//	15-18 points per colour (red, green, blue, yellow)
//	19 colour group bonus
//	20 flat points
//	21 resource group bonus
//	22 points per gray card
//	23 class flag (0 region, 1 sanctuary)
//
// Empty cells read as zero.
package catalog
