package server

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/ironsheep/faraway-mcp/internal/catalog"
	"github.com/ironsheep/faraway-mcp/internal/detection"
	"github.com/ironsheep/faraway-mcp/internal/imaging"
	"github.com/ironsheep/faraway-mcp/internal/layout"
	"github.com/ironsheep/faraway-mcp/internal/scoring"
	"github.com/ironsheep/faraway-mcp/internal/stabilizer"
	"github.com/ironsheep/faraway-mcp/internal/telemetry"
)

// statusLocked is the query status once a layout has been returned.
const statusLocked = "locked"

// handlePushDetections folds one frame into the window.
//
// A rejected frame is a normal result, not a tool error: the detector sends
// many partial frames while cards are being laid out.
func (s *Server) handlePushDetections(ctx context.Context, _ *mcp.CallToolRequest, in PushDetectionsInput) (*mcp.CallToolResult, PushDetectionsResult, error) {
	_, span := telemetry.Start(ctx, "faraway.push_detections", attribute.Int("detections", len(in.Detections)))

	dets := make([]detection.Detection, len(in.Detections))
	for i, d := range in.Detections {
		dets[i] = detection.Detection{
			Bounds:     detection.Bounds{X1: d.X1, Y1: d.Y1, X2: d.X2, Y2: d.Y2},
			Label:      d.Label,
			Confidence: d.Confidence,
		}
	}

	outcome := s.window.Push(dets)
	span.SetAttributes(attribute.String("outcome", outcome.String()))
	telemetry.End(span, nil)

	return nil, PushDetectionsResult{
		Outcome: outcome.String(),
		Window:  windowStats(s.window.Stats()),
	}, nil
}

// handleQuery returns the locked layout or a hint for the player.
func (s *Server) handleQuery(ctx context.Context, _ *mcp.CallToolRequest, in QueryInput) (*mcp.CallToolResult, QueryResult, error) {
	_, span := telemetry.Start(ctx, "faraway.query")

	locale := strings.TrimSpace(in.Locale)
	if locale == "" {
		locale = s.locale
	}

	consensus, err := s.window.Query()
	if err != nil {
		var gse *stabilizer.GameStateError
		if !errors.As(err, &gse) {
			telemetry.End(span, err)
			return nil, QueryResult{}, err
		}
		span.SetAttributes(attribute.String("status", gse.Reason.String()))
		telemetry.End(span, nil)
		return nil, QueryResult{
			Status:  gse.Reason.String(),
			Message: s.guide.Message(err, locale),
		}, nil
	}

	result := layoutResult(consensus.Layout)
	span.SetAttributes(
		attribute.String("status", statusLocked),
		attribute.Int("total", result.Total),
	)
	telemetry.End(span, nil)
	return nil, QueryResult{
		Ready:      true,
		Status:     statusLocked,
		Message:    s.guide.Locked(result.Total, locale),
		Layout:     &result,
		Votes:      consensus.Votes,
		Confidence: consensus.Confidence,
	}, nil
}

// handleReset empties the window.
func (s *Server) handleReset(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, WindowStats, error) {
	_, span := telemetry.Start(ctx, "faraway.reset")
	defer telemetry.End(span, nil)

	s.window.Reset()
	s.log.Info("window reset by client")
	return nil, windowStats(s.window.Stats()), nil
}

// handleStatus reports the window without changing it.
func (s *Server) handleStatus(ctx context.Context, _ *mcp.CallToolRequest, _ EmptyInput) (*mcp.CallToolResult, WindowStats, error) {
	_, span := telemetry.Start(ctx, "faraway.status")
	defer telemetry.End(span, nil)

	return nil, windowStats(s.window.Stats()), nil
}

// handleScoreLayout validates and scores a tableau entered by hand.
func (s *Server) handleScoreLayout(ctx context.Context, _ *mcp.CallToolRequest, in ScoreLayoutInput) (*mcp.CallToolResult, ScoreLayoutResult, error) {
	_, span := telemetry.Start(ctx, "faraway.score_layout")

	l := layout.Layout{
		Regions:     slices.Clone(in.Regions),
		Sanctuaries: slices.Clone(in.Sanctuaries),
	}
	if err := layout.Validate(l, s.cat); err != nil {
		var verr *layout.ValidationError
		if !errors.As(err, &verr) {
			telemetry.End(span, err)
			return nil, ScoreLayoutResult{}, err
		}
		span.SetAttributes(attribute.String("rule", verr.Rule.String()))
		telemetry.End(span, nil)
		return nil, ScoreLayoutResult{Rule: verr.Rule.String(), Detail: verr.Detail}, nil
	}

	res, err := scoring.Compute(l, s.cat)
	if err != nil {
		s.log.Error("validated layout could not be scored", zap.Stringer("layout", l), zap.Error(err))
		telemetry.End(span, err)
		return nil, ScoreLayoutResult{}, fmt.Errorf("score layout: %w", err)
	}

	l.RegionScores = res.RegionScores
	l.SanctuaryScores = res.SanctuaryScores
	l.Total = res.Total
	l.Scored = true
	result := layoutResult(l)

	order := make([]CardScore, len(res.Entries))
	for i, e := range res.Entries {
		order[i] = CardScore{Class: e.Class.String(), ID: e.ID, Position: e.Position, Score: e.Score}
	}
	final := stateResult(res.Final)

	span.SetAttributes(attribute.Int("total", res.Total))
	telemetry.End(span, nil)
	return nil, ScoreLayoutResult{
		Valid:        true,
		Layout:       &result,
		ScoringOrder: order,
		Final:        &final,
	}, nil
}

// handleCard looks up one catalog entry.
func (s *Server) handleCard(ctx context.Context, _ *mcp.CallToolRequest, in CardInput) (*mcp.CallToolResult, CardResult, error) {
	_, span := telemetry.Start(ctx, "faraway.card", attribute.String("class", in.Class), attribute.Int("id", in.ID))

	class, err := catalog.ParseClass(strings.ToLower(strings.TrimSpace(in.Class)))
	if err != nil {
		telemetry.End(span, err)
		return nil, CardResult{}, err
	}
	card, err := s.cat.Lookup(class, in.ID)
	if err != nil {
		telemetry.End(span, err)
		return nil, CardResult{}, err
	}
	telemetry.End(span, nil)

	requirements := make(map[string]int, len(card.Requirements))
	for r, n := range card.Requirements {
		requirements[r.String()] = n
	}
	return nil, CardResult{
		Class:        card.Class.String(),
		ID:           card.ID,
		Color:        card.Color.String(),
		Hex:          card.Color.Hex(),
		Requirements: requirements,
		Effect:       stateResult(card.Effect),
		Points:       pointsResult(card.Points),
	}, nil
}

// handleRenderLayout draws a manual tableau, or the locked one when no
// regions are given.
func (s *Server) handleRenderLayout(ctx context.Context, _ *mcp.CallToolRequest, in RenderLayoutInput) (*mcp.CallToolResult, RenderLayoutResult, error) {
	_, span := telemetry.Start(ctx, "faraway.render_layout")

	source := "manual"
	var l layout.Layout
	if len(in.Regions) == 0 {
		consensus, ok := s.window.Locked()
		if !ok {
			err := errors.New("no locked layout yet: pass regions or wait until faraway_query is ready")
			telemetry.End(span, err)
			return nil, RenderLayoutResult{}, err
		}
		source = statusLocked
		l = consensus.Layout
	} else {
		manual := layout.Layout{Regions: slices.Clone(in.Regions), Sanctuaries: slices.Clone(in.Sanctuaries)}
		if err := layout.Validate(manual, s.cat); err != nil {
			telemetry.End(span, err)
			return nil, RenderLayoutResult{}, err
		}
		scored, err := scoring.Score(manual, s.cat)
		if err != nil {
			telemetry.End(span, err)
			return nil, RenderLayoutResult{}, fmt.Errorf("score layout: %w", err)
		}
		l = scored
	}

	img, err := imaging.Tableau(l, s.cat, imaging.Options{Scale: in.Scale})
	if err != nil {
		telemetry.End(span, err)
		return nil, RenderLayoutResult{}, err
	}
	span.SetAttributes(attribute.String("source", source), attribute.Int("bytes", len(img.PNG)))
	telemetry.End(span, nil)

	result := &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.ImageContent{Data: img.PNG, MIMEType: img.MimeType}},
	}
	return result, RenderLayoutResult{
		Source: source,
		Width:  img.Width,
		Height: img.Height,
		Total:  l.Total,
	}, nil
}

func windowStats(st stabilizer.Stats) WindowStats {
	return WindowStats{
		State:     st.State.String(),
		Length:    st.Length,
		Capacity:  st.Capacity,
		Distinct:  st.Distinct,
		TopVotes:  st.TopVotes,
		Threshold: st.Threshold,
	}
}

func layoutResult(l layout.Layout) LayoutResult {
	out := LayoutResult{
		Regions:     slices.Clone(l.Regions),
		Sanctuaries: slices.Clone(l.Sanctuaries),
		Cards:       make([]CardScore, 0, len(l.Regions)+len(l.Sanctuaries)),
		Total:       l.Total,
	}
	if out.Regions == nil {
		out.Regions = []int{}
	}
	if out.Sanctuaries == nil {
		out.Sanctuaries = []int{}
	}
	for i, id := range l.Regions {
		out.Cards = append(out.Cards, CardScore{Class: catalog.Region.String(), ID: id, Position: i, Score: l.RegionScores[id]})
	}
	for i, id := range l.Sanctuaries {
		out.Cards = append(out.Cards, CardScore{Class: catalog.Sanctuary.String(), ID: id, Position: i, Score: l.SanctuaryScores[id]})
	}
	return out
}

// stateResult lists every colour and resource, zeros included.
func stateResult(st catalog.CardState) StateResult {
	out := StateResult{
		Colors:    make(map[string]int, len(catalog.Colors)),
		Resources: make(map[string]int, len(catalog.Resources)),
		Clues:     st.Clues,
		Nights:    st.Nights,
	}
	for _, c := range catalog.Colors {
		out.Colors[c.String()] = st.Color(c)
	}
	for _, r := range catalog.Resources {
		out.Resources[r.String()] = st.Resource(r)
	}
	return out
}

func pointsResult(p catalog.CardPoints) PointsResult {
	out := PointsResult{
		Colors:        make(map[string]int, len(p.Colors)),
		ColorGroup:    p.ColorGroup,
		Resources:     make(map[string]int, len(p.Resources)),
		ResourceGroup: p.ResourceGroup,
		Clues:         p.Clues,
		Nights:        p.Nights,
		Flat:          p.Flat,
	}
	for c, n := range p.Colors {
		out.Colors[c.String()] = n
	}
	for r, n := range p.Resources {
		out.Resources[r.String()] = n
	}
	return out
}
