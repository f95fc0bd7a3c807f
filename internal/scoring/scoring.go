// Package scoring computes the points of a Faraway tableau.
//
// Scoring order is part of the rules. Sanctuaries are in play from the start,
// so their effects are added first. Regions are then revealed from the last
// one placed back to the first: each region sees only itself, the regions
// revealed before it and the sanctuaries. Sanctuaries score last against the
// whole tableau.
package scoring

import (
	"fmt"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/layout"
)

// Entry is one card's contribution, in the order the card was scored.
type Entry struct {
	Class    catalog.Class
	ID       int
	Position int // index in the layout's region or sanctuary sequence
	Score    int
}

// Result holds the scores of a tableau.
type Result struct {
	RegionScores    map[int]int
	SanctuaryScores map[int]int
	Total           int

	// Entries lists regions from last placed to first, then sanctuaries in
	// reading order.
	Entries []Entry

	// Final is the state accumulated from every card.
	Final catalog.CardState
}

// Compute scores l against cat. It does not validate l; a card id missing
// from cat is reported as an error wrapping catalog.ErrUnknownCard.
func Compute(l layout.Layout, cat *catalog.Catalog) (Result, error) {
	sanctuaries := make([]catalog.Card, len(l.Sanctuaries))
	var state catalog.CardState
	for i, id := range l.Sanctuaries {
		card, err := cat.Lookup(catalog.Sanctuary, id)
		if err != nil {
			return Result{}, fmt.Errorf("score sanctuary at %d: %w", i, err)
		}
		sanctuaries[i] = card
		state.Add(card)
	}

	res := Result{
		RegionScores:    make(map[int]int, len(l.Regions)),
		SanctuaryScores: make(map[int]int, len(l.Sanctuaries)),
		Entries:         make([]Entry, 0, len(l.Regions)+len(l.Sanctuaries)),
	}

	for i := len(l.Regions) - 1; i >= 0; i-- {
		id := l.Regions[i]
		card, err := cat.Lookup(catalog.Region, id)
		if err != nil {
			return Result{}, fmt.Errorf("score region at %d: %w", i, err)
		}
		state.Add(card)
		score := card.Score(state)
		res.RegionScores[id] = score
		res.Total += score
		res.Entries = append(res.Entries, Entry{Class: catalog.Region, ID: id, Position: i, Score: score})
	}

	for i, card := range sanctuaries {
		score := card.Score(state)
		res.SanctuaryScores[card.ID] = score
		res.Total += score
		res.Entries = append(res.Entries, Entry{Class: catalog.Sanctuary, ID: card.ID, Position: i, Score: score})
	}

	res.Final = state
	return res, nil
}

// Score returns a copy of l with its scores attached.
func Score(l layout.Layout, cat *catalog.Catalog) (layout.Layout, error) {
	res, err := Compute(l, cat)
	if err != nil {
		return layout.Layout{}, err
	}
	scored := l.Clone()
	scored.RegionScores = res.RegionScores
	scored.SanctuaryScores = res.SanctuaryScores
	scored.Total = res.Total
	scored.Scored = true
	return scored, nil
}
