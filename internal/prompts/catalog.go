package prompts

import (
	"fmt"

	"github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"
)

// The catalog is static and read-only: prompt ids are the canonical identifier
// stored on each capture and must never change meaning across releases.
var catalog = []domain.PromptSpec{
	// IE — social energy
	{ID: "VK.IE.1A.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisGroupSizePreference, Variant: domain.VariantA, Version: "v1",
		Text: "Bad night. You can wait it out in a packed room full of strangers, or in a quiet corner with one trusted person. Where do you go?"},
	{ID: "VK.IE.1B.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisGroupSizePreference, Variant: domain.VariantB, Version: "v1",
		Text: "Your life is ending soon. Do you want a crowded room around you, or one person and silence?"},
	{ID: "VK.IE.1C.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisGroupSizePreference, Variant: domain.VariantC, Version: "v1",
		Text: "At a party, do you work the room meeting many, or stay deep with one person you’re drawn to?"},
	{ID: "VK.IE.2A.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisInitiatingConversation, Variant: domain.VariantA, Version: "v1",
		Text: "You’re the outsider at a new camp. Do you speak first to earn a place, or wait to be invited?"},
	{ID: "VK.IE.2B.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisInitiatingConversation, Variant: domain.VariantB, Version: "v1",
		Text: "You feel invisible. Do you start a hard conversation today—or keep it inside and let time pass?"},
	{ID: "VK.IE.2C.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisInitiatingConversation, Variant: domain.VariantC, Version: "v1",
		Text: "You spot someone attractive. Do you approach immediately, or wait for a clear opening?"},
	{ID: "VK.IE.3A.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisFamiliarityVsNovelty, Variant: domain.VariantA, Version: "v1",
		Text: "Scarcity hits. Do you stay loyal to your band, or travel to a new group for allies and options?"},
	{ID: "VK.IE.3B.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisFamiliarityVsNovelty, Variant: domain.VariantB, Version: "v1",
		Text: "Your current life is safe but small. Do you protect it—or risk everything for a new circle and a new self?"},
	{ID: "VK.IE.3C.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisFamiliarityVsNovelty, Variant: domain.VariantC, Version: "v1",
		Text: "Do you invest in one promising connection, or keep meeting new prospects to maximize your odds?"},
	{ID: "VK.IE.4A.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisSpeakingPace, Variant: domain.VariantA, Version: "v1",
		Text: "Someone screams in the dark. Do you give orders immediately as you think—or go quiet and decide first?"},
	{ID: "VK.IE.4B.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisSpeakingPace, Variant: domain.VariantB, Version: "v1",
		Text: "A friend asks what you truly believe about death. Do you answer as thoughts arrive—or pause until it’s clean?"},
	{ID: "VK.IE.4C.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisSpeakingPace, Variant: domain.VariantC, Version: "v1",
		Text: "On a first date, do you think out loud and riff—or choose words carefully and reveal yourself slowly?"},
	{ID: "VK.IE.5A.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisSpotlightVsBackground, Variant: domain.VariantA, Version: "v1",
		Text: "After the hunt, credit is being assigned. Do you step forward and claim it—or let others take the story?"},
	{ID: "VK.IE.5B.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisSpotlightVsBackground, Variant: domain.VariantB, Version: "v1",
		Text: "You get one chance to be known for something real. Do you take the stage—or stay private and unseen?"},
	{ID: "VK.IE.5C.v1", Dimension: domain.DimensionIE, SubAxis: domain.SubAxisSpotlightVsBackground, Variant: domain.VariantC, Version: "v1",
		Text: "In a mixed group, do you lead the energy and be noticed—or stay subtle and let one person discover you?"},

	// NS — knowledge approach (low pole is N)
	{ID: "VK.NS.1A.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisInformationSource, Variant: domain.VariantA, Version: "v1",
		Text: "Fresh tracks—do you trust what you saw, or what the pattern suggests is ahead?"},
	{ID: "VK.NS.1B.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisInformationSource, Variant: domain.VariantB, Version: "v1",
		Text: "A sign in your life: do you trust what you can prove, or what the pattern implies?"},
	{ID: "VK.NS.1C.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisInformationSource, Variant: domain.VariantC, Version: "v1",
		Text: "Dating: do you trust what they do in front of you, or what you infer about who they are?"},
	{ID: "VK.NS.2A.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisTimeOrientation, Variant: domain.VariantA, Version: "v1",
		Text: "Food today vs scouting tomorrow—what do you prioritize?"},
	{ID: "VK.NS.2B.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisTimeOrientation, Variant: domain.VariantB, Version: "v1",
		Text: "Do you live for the moment, or for what your life could become?"},
	{ID: "VK.NS.2C.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisTimeOrientation, Variant: domain.VariantC, Version: "v1",
		Text: "Do you pick the best partner now, or the one with the best long-term potential?"},
	{ID: "VK.NS.3A.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisCognitiveFocus, Variant: domain.VariantA, Version: "v1",
		Text: "After a raid: do you remember the exact details, or the ‘what it meant’?"},
	{ID: "VK.NS.3B.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisCognitiveFocus, Variant: domain.VariantB, Version: "v1",
		Text: "When something breaks, do you focus on the facts—or on what it says about your life?"},
	{ID: "VK.NS.3C.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisCognitiveFocus, Variant: domain.VariantC, Version: "v1",
		Text: "On a date: are you tracking specifics, or the vibe and the story underneath it?"},
	{ID: "VK.NS.4A.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisDecisionConfidence, Variant: domain.VariantA, Version: "v1",
		Text: "Storm coming. Do you use the old rule that’s kept you alive, or a new theory you trust?"},
	{ID: "VK.NS.4B.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisDecisionConfidence, Variant: domain.VariantB, Version: "v1",
		Text: "Do you build your life on what’s worked before—or on a vision that feels truer?"},
	{ID: "VK.NS.4C.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisDecisionConfidence, Variant: domain.VariantC, Version: "v1",
		Text: "Do you follow dating ‘rules that work,’ or a personal philosophy about love you won’t betray?"},
	{ID: "VK.NS.5A.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisRiskAssessmentFrame, Variant: domain.VariantA, Version: "v1",
		Text: "Unknown valley vs known route—do you take the sure thing or the uncertain chance?"},
	{ID: "VK.NS.5B.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisRiskAssessmentFrame, Variant: domain.VariantB, Version: "v1",
		Text: "Do you choose security even if it’s small, or uncertainty even if it’s meaningful?"},
	{ID: "VK.NS.5C.v1", Dimension: domain.DimensionNS, SubAxis: domain.SubAxisRiskAssessmentFrame, Variant: domain.VariantC, Version: "v1",
		Text: "Do you date the ‘safe bet,’ or the wild card with higher upside and unknown risk?"},

	// TF — decision style
	{ID: "VK.TF.1A.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisFeedbackAim, Variant: domain.VariantA, Version: "v1",
		Text: "Someone cheated the share. Do you enforce the rule—or protect the bond?"},
	{ID: "VK.TF.1B.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisFeedbackAim, Variant: domain.VariantB, Version: "v1",
		Text: "A friend betrays you. Do you demand what’s fair—or rebuild trust first?"},
	{ID: "VK.TF.1C.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisFeedbackAim, Variant: domain.VariantC, Version: "v1",
		Text: "A partner crosses a line. Do you set a fair boundary—or focus on repairing trust?"},
	{ID: "VK.TF.2A.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisFairnessFrame, Variant: domain.VariantA, Version: "v1",
		Text: "Same ration for all—or more for the weak and needed? Choose."},
	{ID: "VK.TF.2B.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisFairnessFrame, Variant: domain.VariantB, Version: "v1",
		Text: "Same rule for everyone—or exceptions for context and history?"},
	{ID: "VK.TF.2C.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisFairnessFrame, Variant: domain.VariantC, Version: "v1",
		Text: "In dating: do you hold everyone to one standard—or tailor expectations to the person?"},
	{ID: "VK.TF.3A.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisConflictPosture, Variant: domain.VariantA, Version: "v1",
		Text: "Camp argument. Do you confront it openly—or quiet it before it spreads?"},
	{ID: "VK.TF.3B.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisConflictPosture, Variant: domain.VariantB, Version: "v1",
		Text: "Do you risk rupture to say what’s true—or keep peace and carry it?"},
	{ID: "VK.TF.3C.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisConflictPosture, Variant: domain.VariantC, Version: "v1",
		Text: "You disagree with your date. Do you debate it—or smooth it over to keep momentum?"},
	{ID: "VK.TF.4A.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisDecisionDriver, Variant: domain.VariantA, Version: "v1",
		Text: "To lead the group: do you persuade with logic—or with loyalty and connection?"},
	{ID: "VK.TF.4B.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisDecisionDriver, Variant: domain.VariantB, Version: "v1",
		Text: "When people resist you: do you convince them—or bond with them?"},
	{ID: "VK.TF.4C.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisDecisionDriver, Variant: domain.VariantC, Version: "v1",
		Text: "Attraction: do you win them with reasons—or with emotional attunement?"},
	{ID: "VK.TF.5A.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisSocialEvaluationFocus, Variant: domain.VariantA, Version: "v1",
		Text: "New recruit. Do you scan for weaknesses—or for what they’re good for?"},
	{ID: "VK.TF.5B.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisSocialEvaluationFocus, Variant: domain.VariantB, Version: "v1",
		Text: "When you meet someone, do you see the cracks—or the promise?"},
	{ID: "VK.TF.5C.v1", Dimension: domain.DimensionTF, SubAxis: domain.SubAxisSocialEvaluationFocus, Variant: domain.VariantC, Version: "v1",
		Text: "Dating: do you screen fast for red flags—or look first for green flags?"},

	// JP — action strategy
	{ID: "VK.JP.1A.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisCommitmentStyle, Variant: domain.VariantA, Version: "v1",
		Text: "Winter’s coming: pick one camp now—or keep moving until you’re forced?"},
	{ID: "VK.JP.1B.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisCommitmentStyle, Variant: domain.VariantB, Version: "v1",
		Text: "Do you choose one life path and commit—or keep doors open as long as possible?"},
	{ID: "VK.JP.1C.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisCommitmentStyle, Variant: domain.VariantC, Version: "v1",
		Text: "Dating: exclusive now—or keep options open until you’re sure?"},
	{ID: "VK.JP.2A.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisPlanningStyle, Variant: domain.VariantA, Version: "v1",
		Text: "Raid plan: map it carefully—or move fast and adapt?"},
	{ID: "VK.JP.2B.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisPlanningStyle, Variant: domain.VariantB, Version: "v1",
		Text: "In crisis: do you plan, or act fast?"},
	{ID: "VK.JP.2C.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisPlanningStyle, Variant: domain.VariantC, Version: "v1",
		Text: "First date changes suddenly—do you stick to a plan, or pivot instantly?"},
	{ID: "VK.JP.3A.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisDecisionTiming, Variant: domain.VariantA, Version: "v1",
		Text: "Before the hunt: choose the route now—or decide at the last safe moment?"},
	{ID: "VK.JP.3B.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisDecisionTiming, Variant: domain.VariantB, Version: "v1",
		Text: "Do you decide early to stop the anxiety—or wait until the truth forces you?"},
	{ID: "VK.JP.3C.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisDecisionTiming, Variant: domain.VariantC, Version: "v1",
		Text: "Do you define the relationship early—or let it stay undefined until it has to be defined?"},
	{ID: "VK.JP.4A.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisClosurePreference, Variant: domain.VariantA, Version: "v1",
		Text: "Missing person: do you need an answer—or can you live with ‘unknown’?"},
	{ID: "VK.JP.4B.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisClosurePreference, Variant: domain.VariantB, Version: "v1",
		Text: "Do you need closure to move on—or can you carry ambiguity?"},
	{ID: "VK.JP.4C.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisClosurePreference, Variant: domain.VariantC, Version: "v1",
		Text: "Ghosted: do you demand an explanation—or accept silence and continue?"},
	{ID: "VK.JP.5A.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisApproachToConstraints, Variant: domain.VariantA, Version: "v1",
		Text: "Strict camp rules: follow them—or bend them when survival demands it?"},
	{ID: "VK.JP.5B.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisApproachToConstraints, Variant: domain.VariantB, Version: "v1",
		Text: "Do rules protect you—or trap you?"},
	{ID: "VK.JP.5C.v1", Dimension: domain.DimensionJP, SubAxis: domain.SubAxisApproachToConstraints, Variant: domain.VariantC, Version: "v1",
		Text: "Dating norms: follow the script—or improvise and risk it?"},
}

var byID = func() map[string]domain.PromptSpec {
	m := make(map[string]domain.PromptSpec, len(catalog))
	for _, spec := range catalog {
		m[spec.ID] = spec
	}
	return m
}()

// Get returns the prompt spec for id or an error if the id is unknown.
func Get(id string) (domain.PromptSpec, error) {
	spec, ok := byID[id]
	if !ok {
		return domain.PromptSpec{}, fmt.Errorf("unknown promptId: %s", id)
	}
	return spec, nil
}

// List returns all prompts, optionally filtered by dimension. The returned
// slice preserves catalog order.
func List(dimension domain.DimensionID) []domain.PromptSpec {
	if dimension == "" {
		return append([]domain.PromptSpec(nil), catalog...)
	}
	var out []domain.PromptSpec
	for _, spec := range catalog {
		if spec.Dimension == dimension {
			out = append(out, spec)
		}
	}
	return out
}
