package scoring

import (
	"regexp"
	"strings"
	"time"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
)

const (
	neutralScore      = 0.5
	neutralConfidence = 0.25

	// Per-hit delta for pole terms; directionality is capped at +-3 hits so a
	// single answer can move a sub-axis at most ~0.24 from neutral.
	termDelta   = 0.08
	maxDirHits  = 3
	choiceScale = 1.15

	agentType     = "hybrid.v1"
	excerptMaxLen = 140
	defaultSource = "audio"
)

var (
	certaintyRe = regexp.MustCompile(`(always|definitely|for sure|no doubt)`)
	hedgingRe   = regexp.MustCompile(`(maybe|might|kind of|sort of|i guess|not sure)`)
)

// Request carries the scorer inputs. Now is the only non-deterministic input
// and may be supplied by the caller; when zero the current UTC time is used.
type Request struct {
	Transcript      string
	Prompt          *domain.PromptSpec
	SourceType      string
	SourceSessionID string
	IncludeDebug    bool
	Now             time.Time
}

// Score maps a transcript (plus the prompt that elicited it, when known) to a
// confidence-weighted dimension state. It is pure and never fails: with no
// recognizable signal it returns neutral scores at low confidence.
func Score(req Request) Result {
	now := req.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	subAxes := make(SubAxisMatrix, len(domain.DimensionOrder))
	for _, dim := range domain.DimensionOrder {
		entries := make(map[domain.SubAxisID]SubAxisScore, len(domain.SubAxisOrder[dim]))
		for _, sub := range domain.SubAxisOrder[dim] {
			entries[sub] = SubAxisScore{SubAxis: sub, Score01: neutralScore, Confidence01: neutralConfidence, Cues: []Cue{}}
		}
		subAxes[dim] = entries
	}

	// With a known prompt, overwrite the single targeted sub-axis. Unknown
	// (dimension, sub-axis) pairs take the generic fallback, never an error.
	if req.Prompt != nil {
		dim, sub := req.Prompt.Dimension, req.Prompt.SubAxis
		entry := subAxes[dim][sub]
		if lex, ok := lexiconFor(dim, sub); ok {
			entry.Score01, entry.Confidence01, entry.Cues = scoreWithLexicon(req.Transcript, lex)
		} else {
			entry = scoreFallback(req.Transcript, entry)
		}
		subAxes[dim][sub] = entry
	}

	axes := make(map[domain.DimensionID]AxisState, len(domain.DimensionOrder))
	var guess strings.Builder
	var confSum float64
	for _, dim := range domain.DimensionOrder {
		axis := aggregate(dim, subAxes[dim], now)
		axes[dim] = axis
		guess.WriteString(axis.LeansToward)
		confSum += axis.Confidence
	}

	result := Result{
		DimensionState: DimensionState{
			Axes:           axes,
			MBTIGuess:      guess.String(),
			MBTIConfidence: clamp01(confSum / float64(len(domain.DimensionOrder))),
			UpdatedAt:      now,
		},
		Evidence: []EvidenceRecord{},
	}

	if req.Prompt != nil {
		axis := axes[req.Prompt.Dimension]
		sourceType := req.SourceType
		if sourceType == "" {
			sourceType = defaultSource
		}
		result.Evidence = append(result.Evidence, EvidenceRecord{
			Dimension:       req.Prompt.Dimension,
			LeansToward:     axis.LeansToward,
			Confidence:      clamp01(axis.Confidence),
			Excerpt:         excerpt(req.Transcript),
			SourceType:      sourceType,
			SourceSessionID: req.SourceSessionID,
			AgentType:       agentType,
			Timestamp:       now,
		})
	}

	if req.IncludeDebug {
		dbg := &Debug{SubAxes: subAxes}
		if req.Prompt != nil {
			dbg.PromptID = req.Prompt.ID
		}
		result.Debug = dbg
	}

	return result
}

// scoreWithLexicon runs the keyword scorer for a sub-axis with dedicated
// pole-term lists.
func scoreWithLexicon(transcript string, lex lexicon) (float64, float64, []Cue) {
	t := strings.ToLower(transcript)

	highHits := countHits(t, lex.highTerms)
	lowHits := countHits(t, lex.lowTerms)
	choiceHits := countHits(t, lex.choiceTerms)
	posHits := countHits(t, lex.positive)
	negHits := countHits(t, lex.negative)
	riskHits := countHits(t, lex.riskTerms)

	rawDir := highHits - lowHits
	dirStrength := rawDir
	if dirStrength > maxDirHits {
		dirStrength = maxDirHits
	}
	if dirStrength < -maxDirHits {
		dirStrength = -maxDirHits
	}
	delta := float64(dirStrength) * termDelta

	hasChoice := choiceHits > 0
	if hasChoice {
		delta *= choiceScale
	}
	score := clamp01(neutralScore + delta)

	poleCueCount := highHits + lowHits
	directional := rawDir
	if directional < 0 {
		directional = -directional
	}

	confidence := 0.20
	confidence += minFloat(0.35, float64(poleCueCount)*0.08)
	confidence += minFloat(0.25, float64(directional)*0.08)
	if hasChoice {
		confidence += 0.10
	}
	if len(lex.riskTerms) > 0 {
		confidence += minFloat(0.08, float64(riskHits)*0.04)
	}
	// Strongly negative answers may be stress talk rather than preference.
	if len(lex.negative) > 0 && negHits >= 2 && posHits == 0 {
		confidence -= 0.05
	}
	confidence = clamp01(confidence)

	cues := []Cue{}
	if highHits > 0 {
		cues = append(cues, Cue{Kind: CueSemantic, FeatureID: lex.highFeature, Weight: termDelta * float64(highHits), Text: lex.highLabel})
	}
	if lowHits > 0 {
		cues = append(cues, Cue{Kind: CueSemantic, FeatureID: lex.lowFeature, Weight: -termDelta * float64(lowHits), Text: lex.lowLabel})
	}
	if hasChoice {
		cues = append(cues, Cue{Kind: CueSemantic, FeatureID: "stance.choice_language", Weight: 0, Text: "choice/preference markers"})
	}
	if riskHits > 0 && lex.riskFeature != "" {
		cues = append(cues, Cue{Kind: CueSemantic, FeatureID: lex.riskFeature, Weight: 0, Text: lex.riskLabel})
	}

	return score, confidence, cues
}

// scoreFallback applies the generic certainty/hedging stance markers to
// sub-axes without a dedicated lexicon. Confidence moves to 0.35 only when a
// marker actually fired; an unmarked transcript leaves the entry untouched.
func scoreFallback(transcript string, entry SubAxisScore) SubAxisScore {
	t := strings.ToLower(transcript)

	var delta float64
	certain := certaintyRe.MatchString(t)
	hedged := hedgingRe.MatchString(t)
	if certain {
		delta += termDelta
	}
	if hedged {
		delta -= termDelta
	}
	if !certain && !hedged {
		return entry
	}

	entry.Score01 = clamp01(entry.Score01 + delta)
	entry.Confidence01 = 0.35
	if delta > 0 {
		entry.Cues = []Cue{{Kind: CueSemantic, FeatureID: "stance.certainty", Weight: delta, Text: "certainty marker"}}
	} else if delta < 0 {
		entry.Cues = []Cue{{Kind: CueSemantic, FeatureID: "stance.hedging", Weight: delta, Text: "hedging marker"}}
	} else {
		entry.Cues = []Cue{}
	}
	return entry
}

// aggregate averages the five sub-axis entries of a dimension. Ties on the
// 0.5 mean resolve to the high pole; callers should treat a zero-strength lean
// as neutral rather than a real preference.
func aggregate(dim domain.DimensionID, entries map[domain.SubAxisID]SubAxisScore, now time.Time) AxisState {
	order := domain.SubAxisOrder[dim]
	var scoreSum, confSum float64
	for _, sub := range order {
		scoreSum += entries[sub].Score01
		confSum += entries[sub].Confidence01
	}
	mean := scoreSum / float64(len(order))
	conf := confSum / float64(len(order))

	poles := domain.PoleLetters[dim]
	leansToward := poles[0]
	if mean >= neutralScore {
		leansToward = poles[1]
	}
	strength := mean - neutralScore
	if strength < 0 {
		strength = -strength
	}

	return AxisState{
		LeansToward: leansToward,
		Strength:    strength * 2,
		Confidence:  clamp01(conf),
		UpdatedAt:   now,
	}
}

func countHits(lowered string, terms []string) int {
	hits := 0
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			hits++
		}
	}
	return hits
}

func excerpt(transcript string) string {
	if transcript == "" {
		return ""
	}
	runes := []rune(transcript)
	if len(runes) > excerptMaxLen {
		runes = runes[:excerptMaxLen]
	}
	return string(runes)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
