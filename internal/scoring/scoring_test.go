package scoring

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/prompts"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func promptSpec(t *testing.T, id string) *domain.PromptSpec {
	t.Helper()
	spec, err := prompts.Get(id)
	if err != nil {
		t.Fatalf("prompt %s: %v", id, err)
	}
	return &spec
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNeutralWithoutPrompt(t *testing.T) {
	res := Score(Request{Transcript: "whatever comes to mind", Now: testNow})

	if len(res.Evidence) != 0 {
		t.Fatalf("expected no evidence without a prompt, got %d", len(res.Evidence))
	}
	if res.Debug != nil {
		t.Fatal("debug should be nil unless requested")
	}
	for _, dim := range domain.DimensionOrder {
		axis := res.DimensionState.Axes[dim]
		if !approx(axis.Strength, 0) {
			t.Fatalf("dimension %s should be neutral, strength=%v", dim, axis.Strength)
		}
		if !approx(axis.Confidence, 0.25) {
			t.Fatalf("dimension %s confidence should stay at baseline, got %v", dim, axis.Confidence)
		}
	}
}

func TestTypeGuessUsesFixedDimensionOrder(t *testing.T) {
	res := Score(Request{Transcript: "", Now: testNow})

	// All means tie at 0.5, so every axis resolves to its high pole.
	if res.DimensionState.MBTIGuess != "ESFP" {
		t.Fatalf("expected ESFP from all-neutral ties, got %s", res.DimensionState.MBTIGuess)
	}
	want := res.DimensionState.Axes[domain.DimensionIE].LeansToward +
		res.DimensionState.Axes[domain.DimensionNS].LeansToward +
		res.DimensionState.Axes[domain.DimensionTF].LeansToward +
		res.DimensionState.Axes[domain.DimensionJP].LeansToward
	if res.DimensionState.MBTIGuess != want {
		t.Fatalf("type guess %s does not match axis order concatenation %s", res.DimensionState.MBTIGuess, want)
	}
}

func TestGroupSizeThreeHighPoleTerms(t *testing.T) {
	// Three distinct crowd terms, no intimacy terms, no choice markers.
	transcript := "A crowd at the party, everyone around me."
	res := Score(Request{
		Transcript:   transcript,
		Prompt:       promptSpec(t, "VK.IE.1A.v1"),
		IncludeDebug: true,
		Now:          testNow,
	})

	entry := res.Debug.SubAxes[domain.DimensionIE][domain.SubAxisGroupSizePreference]
	if !approx(entry.Score01, 0.74) {
		t.Fatalf("expected score 0.74 for three high-pole hits, got %v", entry.Score01)
	}
	if len(entry.Cues) != 1 {
		t.Fatalf("expected a single crowd-terms cue, got %d", len(entry.Cues))
	}
	if !approx(entry.Cues[0].Weight, 0.24) {
		t.Fatalf("expected cue weight 0.24, got %v", entry.Cues[0].Weight)
	}
}

func TestChoiceMarkerScalesDeltaAndConfidence(t *testing.T) {
	base := "A crowd at the party, everyone around me."
	withChoice := base + " I would prefer that."

	resBase := Score(Request{Transcript: base, Prompt: promptSpec(t, "VK.IE.1A.v1"), IncludeDebug: true, Now: testNow})
	resChoice := Score(Request{Transcript: withChoice, Prompt: promptSpec(t, "VK.IE.1A.v1"), IncludeDebug: true, Now: testNow})

	entryBase := resBase.Debug.SubAxes[domain.DimensionIE][domain.SubAxisGroupSizePreference]
	entryChoice := resChoice.Debug.SubAxes[domain.DimensionIE][domain.SubAxisGroupSizePreference]

	if !approx(entryChoice.Confidence01-entryBase.Confidence01, 0.10) {
		t.Fatalf("choice marker should add exactly 0.10 confidence, base=%v choice=%v",
			entryBase.Confidence01, entryChoice.Confidence01)
	}
	if !approx(entryChoice.Score01, clamp01(0.5+3*termDelta*choiceScale)) {
		t.Fatalf("choice marker should scale delta by 1.15, got score %v", entryChoice.Score01)
	}
}

func TestScoresStayInBoundsUnderRepetition(t *testing.T) {
	spam := strings.Repeat("crowd party everyone strangers conference mixer network communal ", 50)
	res := Score(Request{Transcript: spam, Prompt: promptSpec(t, "VK.IE.1A.v1"), IncludeDebug: true, Now: testNow})

	for dim, subs := range res.Debug.SubAxes {
		for sub, entry := range subs {
			if entry.Score01 < 0 || entry.Score01 > 1 {
				t.Fatalf("%s/%s score out of bounds: %v", dim, sub, entry.Score01)
			}
			if entry.Confidence01 < 0 || entry.Confidence01 > 1 {
				t.Fatalf("%s/%s confidence out of bounds: %v", dim, sub, entry.Confidence01)
			}
		}
	}
}

func TestNoRecognizedTermsStaysNeutral(t *testing.T) {
	res := Score(Request{
		Transcript:   "the weather report mentioned rain on thursday",
		Prompt:       promptSpec(t, "VK.IE.1A.v1"),
		IncludeDebug: true,
		Now:          testNow,
	})
	entry := res.Debug.SubAxes[domain.DimensionIE][domain.SubAxisGroupSizePreference]
	if !approx(entry.Score01, 0.5) {
		t.Fatalf("expected neutral score, got %v", entry.Score01)
	}
	if len(entry.Cues) != 0 {
		t.Fatalf("expected no cues, got %d", len(entry.Cues))
	}
}

func TestInitiatingConversationRiskBonus(t *testing.T) {
	base := "I would walk up and say hi."
	withRisk := base + " Even if it feels awkward and I get nervous."

	resBase := Score(Request{Transcript: base, Prompt: promptSpec(t, "VK.IE.2A.v1"), IncludeDebug: true, Now: testNow})
	resRisk := Score(Request{Transcript: withRisk, Prompt: promptSpec(t, "VK.IE.2A.v1"), IncludeDebug: true, Now: testNow})

	entryBase := resBase.Debug.SubAxes[domain.DimensionIE][domain.SubAxisInitiatingConversation]
	entryRisk := resRisk.Debug.SubAxes[domain.DimensionIE][domain.SubAxisInitiatingConversation]

	if !approx(entryRisk.Confidence01-entryBase.Confidence01, 0.08) {
		t.Fatalf("two risk markers should add 0.08 confidence, base=%v risk=%v",
			entryBase.Confidence01, entryRisk.Confidence01)
	}
	found := false
	for _, cue := range entryRisk.Cues {
		if cue.FeatureID == "social_risk.appraisal" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a social risk cue")
	}
}

func TestFallbackCertaintyAndHedging(t *testing.T) {
	// VK.NS.1A.v1 targets informationSource, which has no dedicated lexicon.
	spec := promptSpec(t, "VK.NS.1A.v1")

	certain := Score(Request{Transcript: "Definitely the tracks.", Prompt: spec, IncludeDebug: true, Now: testNow})
	entry := certain.Debug.SubAxes[domain.DimensionNS][domain.SubAxisInformationSource]
	if !approx(entry.Score01, 0.58) || !approx(entry.Confidence01, 0.35) {
		t.Fatalf("certainty marker: got score=%v conf=%v", entry.Score01, entry.Confidence01)
	}

	hedged := Score(Request{Transcript: "Maybe the pattern, I guess.", Prompt: spec, IncludeDebug: true, Now: testNow})
	entry = hedged.Debug.SubAxes[domain.DimensionNS][domain.SubAxisInformationSource]
	if !approx(entry.Score01, 0.42) || !approx(entry.Confidence01, 0.35) {
		t.Fatalf("hedging marker: got score=%v conf=%v", entry.Score01, entry.Confidence01)
	}

	unmarked := Score(Request{Transcript: "The tracks.", Prompt: spec, IncludeDebug: true, Now: testNow})
	entry = unmarked.Debug.SubAxes[domain.DimensionNS][domain.SubAxisInformationSource]
	if !approx(entry.Score01, 0.5) || !approx(entry.Confidence01, 0.25) {
		t.Fatalf("unmarked transcript should stay neutral: score=%v conf=%v", entry.Score01, entry.Confidence01)
	}
}

func TestEvidenceLengthAndProvenance(t *testing.T) {
	transcript := strings.Repeat("a quiet corner with one trusted person ", 10)
	res := Score(Request{
		Transcript:      transcript,
		Prompt:          promptSpec(t, "VK.IE.1B.v1"),
		SourceSessionID: "capture-42",
		Now:             testNow,
	})

	if len(res.Evidence) != 1 {
		t.Fatalf("expected exactly one evidence record, got %d", len(res.Evidence))
	}
	ev := res.Evidence[0]
	if ev.Dimension != domain.DimensionIE {
		t.Fatalf("evidence dimension: got %s", ev.Dimension)
	}
	if ev.LeansToward != "I" {
		t.Fatalf("intimacy-heavy answer should lean I, got %s", ev.LeansToward)
	}
	if len([]rune(ev.Excerpt)) != 140 {
		t.Fatalf("excerpt should be capped at 140 chars, got %d", len([]rune(ev.Excerpt)))
	}
	if ev.SourceType != "audio" || ev.AgentType != "hybrid.v1" || ev.SourceSessionID != "capture-42" {
		t.Fatalf("unexpected provenance: %+v", ev)
	}
	if !ev.Timestamp.Equal(testNow) {
		t.Fatalf("evidence timestamp should be the supplied now, got %v", ev.Timestamp)
	}
}

func TestDeterministicForFixedNow(t *testing.T) {
	req := Request{
		Transcript:      "I'd go with the crowd, definitely.",
		Prompt:          promptSpec(t, "VK.IE.1A.v1"),
		SourceSessionID: "capture-7",
		IncludeDebug:    true,
		Now:             testNow,
	}
	a := Score(req)
	b := Score(req)

	if a.DimensionState.MBTIGuess != b.DimensionState.MBTIGuess ||
		!approx(a.DimensionState.MBTIConfidence, b.DimensionState.MBTIConfidence) {
		t.Fatal("scoring must be deterministic for identical inputs")
	}
	for _, dim := range domain.DimensionOrder {
		if a.DimensionState.Axes[dim] != b.DimensionState.Axes[dim] {
			t.Fatalf("axis %s differs between runs", dim)
		}
	}
}
