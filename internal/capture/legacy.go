package capture

import (
	"time"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/scoring"
)

// buildLegacyDoneResponse is the fixed demonstration payload served by
// GET /v1/captures/{captureId}. It predates the real pipeline and is kept
// only for clients that still poll the old endpoint; the shape matches the
// analyze response.
func buildLegacyDoneResponse(captureID string, now time.Time) analyzeResponse {
	return analyzeResponse{
		DimensionState: scoring.DimensionState{
			Axes: map[domain.DimensionID]scoring.AxisState{
				domain.DimensionIE: {LeansToward: "E", Strength: 0.22, Confidence: 0.58, UpdatedAt: now},
				domain.DimensionNS: {LeansToward: "N", Strength: 0.18, Confidence: 0.54, UpdatedAt: now},
				domain.DimensionTF: {LeansToward: "F", Strength: 0.12, Confidence: 0.52, UpdatedAt: now},
				domain.DimensionJP: {LeansToward: "P", Strength: 0.08, Confidence: 0.51, UpdatedAt: now},
			},
			MBTIGuess:      "ENFP",
			MBTIConfidence: 0.44,
			UpdatedAt:      now,
		},
		Evidence: []scoring.EvidenceRecord{
			{
				Dimension:       domain.DimensionIE,
				LeansToward:     "E",
				Confidence:      0.62,
				Excerpt:         "…connecting with people…",
				SourceType:      "audio",
				SourceSessionID: captureID,
				AgentType:       "hybrid.v1",
				Timestamp:       now,
			},
			{
				Dimension:       domain.DimensionNS,
				LeansToward:     "N",
				Confidence:      0.58,
				Excerpt:         "…exploring ideas…",
				SourceType:      "audio",
				SourceSessionID: captureID,
				AgentType:       "hybrid.v1",
				Timestamp:       now,
			},
		},
	}
}
