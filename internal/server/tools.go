package server

import "github.com/modelcontextprotocol/go-sdk/mcp"

// Tool names.
const (
	ToolPushDetections = "faraway_push_detections"
	ToolQuery          = "faraway_query"
	ToolReset          = "faraway_reset"
	ToolStatus         = "faraway_status"
	ToolScoreLayout    = "faraway_score_layout"
	ToolCard           = "faraway_card"
	ToolRenderLayout   = "faraway_render_layout"
)

// DetectionInput is one box reported by the detector.
type DetectionInput struct {
	Label      string  `json:"label" jsonschema:"detector class: R<id> for a region card or S<id> for a sanctuary card"`
	X1         float64 `json:"x1" jsonschema:"left edge in frame pixels"`
	Y1         float64 `json:"y1" jsonschema:"top edge in frame pixels (y grows downward)"`
	X2         float64 `json:"x2" jsonschema:"right edge in frame pixels"`
	Y2         float64 `json:"y2" jsonschema:"bottom edge in frame pixels"`
	Confidence float64 `json:"confidence,omitempty" jsonschema:"detector score between 0 and 1"`
}

// PushDetectionsInput carries every box of one frame.
type PushDetectionsInput struct {
	Detections []DetectionInput `json:"detections" jsonschema:"all card boxes detected in one camera frame"`
}

// WindowStats describes the stabilization window.
type WindowStats struct {
	State     string  `json:"state"`
	Length    int     `json:"length"`
	Capacity  int     `json:"capacity"`
	Distinct  int     `json:"distinct"`
	TopVotes  int     `json:"top_votes"`
	Threshold float64 `json:"threshold"`
}

// PushDetectionsResult tells what happened to the frame.
type PushDetectionsResult struct {
	Outcome string      `json:"outcome"`
	Window  WindowStats `json:"window"`
}

// QueryInput selects the language of the hint.
type QueryInput struct {
	Locale string `json:"locale,omitempty" jsonschema:"BCP 47 language tag for the hint, e.g. en-US or pt-BR"`
}

// CardScore is one card's points.
type CardScore struct {
	Class    string `json:"class"`
	ID       int    `json:"id"`
	Position int    `json:"position"`
	Score    int    `json:"score"`
}

// LayoutResult is a scored tableau. Cards lists regions then sanctuaries in
// placement order.
type LayoutResult struct {
	Regions     []int       `json:"regions"`
	Sanctuaries []int       `json:"sanctuaries"`
	Cards       []CardScore `json:"cards"`
	Total       int         `json:"total"`
}

// QueryResult is either a locked layout or a hint.
type QueryResult struct {
	Ready      bool          `json:"ready"`
	Status     string        `json:"status"`
	Message    string        `json:"message"`
	Layout     *LayoutResult `json:"layout,omitempty"`
	Votes      int           `json:"votes,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
}

// EmptyInput is the argument of tools that take none.
type EmptyInput struct{}

// ScoreLayoutInput is a tableau typed in by hand.
type ScoreLayoutInput struct {
	Regions     []int `json:"regions" jsonschema:"the eight region ids in the order they were played"`
	Sanctuaries []int `json:"sanctuaries,omitempty" jsonschema:"sanctuary ids in reading order"`
}

// StateResult is an accumulated card state.
type StateResult struct {
	Colors    map[string]int `json:"colors"`
	Resources map[string]int `json:"resources"`
	Clues     int            `json:"clues"`
	Nights    int            `json:"nights"`
}

// ScoreLayoutResult reports the rule a tableau breaks, or its scores.
type ScoreLayoutResult struct {
	Valid  bool          `json:"valid"`
	Rule   string        `json:"rule,omitempty"`
	Detail string        `json:"detail,omitempty"`
	Layout *LayoutResult `json:"layout,omitempty"`

	// ScoringOrder lists cards in the order they were scored: regions from
	// last played to first, then sanctuaries.
	ScoringOrder []CardScore `json:"scoring_order,omitempty"`
	Final        *StateResult `json:"final,omitempty"`
}

// CardInput names one catalog card.
type CardInput struct {
	Class string `json:"class" jsonschema:"region or sanctuary"`
	ID    int    `json:"id" jsonschema:"card number"`
}

// PointsResult is a card's scoring rule.
type PointsResult struct {
	Colors        map[string]int `json:"colors"`
	ColorGroup    int            `json:"color_group"`
	Resources     map[string]int `json:"resources"`
	ResourceGroup int            `json:"resource_group"`
	Clues         int            `json:"clues"`
	Nights        int            `json:"nights"`
	Flat          int            `json:"flat"`
}

// CardResult is one catalog entry.
type CardResult struct {
	Class        string         `json:"class"`
	ID           int            `json:"id"`
	Color        string         `json:"color"`
	Hex          string         `json:"hex"`
	Requirements map[string]int `json:"requirements"`
	Effect       StateResult    `json:"effect"`
	Points       PointsResult   `json:"points"`
}

// RenderLayoutInput selects the tableau to draw.
type RenderLayoutInput struct {
	Regions     []int `json:"regions,omitempty" jsonschema:"region ids in play order; omit to draw the locked layout"`
	Sanctuaries []int `json:"sanctuaries,omitempty" jsonschema:"sanctuary ids in reading order"`
	Scale       int   `json:"scale,omitempty" jsonschema:"integer zoom factor from 1 to 4"`
}

// RenderLayoutResult describes the image returned alongside it.
type RenderLayoutResult struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Total  int    `json:"total"`
}

func pushDetectionsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolPushDetections,
		Description: "Push the labelled card boxes detected in one camera frame. Frames that do not form a valid tableau are dropped; valid ones vote in the stabilization window.",
	}
}

func queryTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolQuery,
		Description: "Get the final tableau and score once the window agrees on one layout. While not ready, returns a status code and a hint to show the player. A successful query locks the window until reset.",
	}
}

func resetTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolReset,
		Description: "Empty the stabilization window and unlock it to score a new game.",
	}
}

func statusTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolStatus,
		Description: "Report the stabilization window's state, fill level and leading vote count.",
	}
}

func scoreLayoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolScoreLayout,
		Description: "Validate and score a tableau entered by hand, with a per-card breakdown. Does not touch the stabilization window.",
	}
}

func cardTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolCard,
		Description: "Look up a region or sanctuary card: color, requirements, effect and scoring rule.",
	}
}

func renderLayoutTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        ToolRenderLayout,
		Description: "Draw a scored tableau as a PNG board diagram: one colour tile per card with its id and points. Draws the locked layout unless regions are given.",
	}
}
