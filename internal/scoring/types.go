package scoring

import (
	"time"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
)

// CueKind distinguishes lexical evidence from (future) prosodic evidence.
type CueKind string

const (
	CueSemantic CueKind = "semantic"
	CueAcoustic CueKind = "acoustic"
)

// Cue is a single piece of evidence contributing to a sub-axis score. Weight is
// signed: positive pushes toward the high pole, negative toward the low pole.
type Cue struct {
	Kind      CueKind `json:"kind"`
	FeatureID string  `json:"featureId"`
	Weight    float64 `json:"weight"`
	Text      string  `json:"text,omitempty"`
	StartChar int     `json:"startChar,omitempty"`
	EndChar   int     `json:"endChar,omitempty"`
}

// SubAxisScore is the per-facet output. Score01 runs from the low pole (0) to
// the high pole (1); both fields are always clamped to [0,1].
type SubAxisScore struct {
	SubAxis      domain.SubAxisID `json:"subAxisId"`
	Score01      float64          `json:"score01"`
	Confidence01 float64          `json:"confidence01"`
	Cues         []Cue            `json:"cues"`
}

// AxisState is the aggregated, client-facing view of one dimension.
type AxisState struct {
	LeansToward string    `json:"leansToward"`
	Strength    float64   `json:"strength"`
	Confidence  float64   `json:"confidence"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DimensionState bundles the four axis states with the derived type guess.
type DimensionState struct {
	Axes           map[domain.DimensionID]AxisState `json:"axes"`
	MBTIGuess      string                           `json:"mbtiGuess"`
	MBTIConfidence float64                          `json:"mbtiConfidence"`
	UpdatedAt      time.Time                        `json:"updatedAt"`
}

// EvidenceRecord is the provenance-tagged, dimension-scoped signal surfaced to
// the client alongside the dimension state.
type EvidenceRecord struct {
	Dimension       domain.DimensionID `json:"dimension"`
	LeansToward     string             `json:"leansToward"`
	Confidence      float64            `json:"confidence"`
	Excerpt         string             `json:"excerpt,omitempty"`
	SourceType      string             `json:"sourceType,omitempty"`
	SourceSessionID string             `json:"sourceSessionID,omitempty"`
	AgentType       string             `json:"agentType,omitempty"`
	Timestamp       time.Time          `json:"timestamp"`
}

// Debug carries the raw sub-axis detail; only populated on request.
// SubAxisMatrix holds every sub-axis entry keyed by dimension then sub-axis.
type SubAxisMatrix = map[domain.DimensionID]map[domain.SubAxisID]SubAxisScore

type Debug struct {
	PromptID string        `json:"promptId,omitempty"`
	SubAxes  SubAxisMatrix `json:"subAxes"`
}

// Result is the stable evidence contract consumed by the client app.
type Result struct {
	DimensionState DimensionState   `json:"dimensionState"`
	Evidence       []EvidenceRecord `json:"evidence"`
	Debug          *Debug           `json:"debug,omitempty"`
}
