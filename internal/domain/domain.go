package domain

// DimensionID identifies one of the four bipolar personality dimensions.
type DimensionID string

const (
	DimensionIE DimensionID = "IE"
	DimensionNS DimensionID = "NS"
	DimensionTF DimensionID = "TF"
	DimensionJP DimensionID = "JP"
)

// DimensionOrder is the fixed aggregation order used for the four-letter type guess.
var DimensionOrder = []DimensionID{DimensionIE, DimensionNS, DimensionTF, DimensionJP}

// SubAxisID identifies one of the five facets composing a dimension.
type SubAxisID string

const (
	SubAxisGroupSizePreference     SubAxisID = "groupSizePreference"
	SubAxisInitiatingConversation  SubAxisID = "initiatingConversation"
	SubAxisFamiliarityVsNovelty    SubAxisID = "familiarityVsNovelty"
	SubAxisSpeakingPace            SubAxisID = "speakingPace"
	SubAxisSpotlightVsBackground   SubAxisID = "spotlightVsBackground"
	SubAxisInformationSource       SubAxisID = "informationSource"
	SubAxisTimeOrientation         SubAxisID = "timeOrientation"
	SubAxisCognitiveFocus          SubAxisID = "cognitiveFocus"
	SubAxisDecisionConfidence      SubAxisID = "decisionConfidenceDriver"
	SubAxisRiskAssessmentFrame     SubAxisID = "riskAssessmentFrame"
	SubAxisFeedbackAim             SubAxisID = "feedbackAim"
	SubAxisFairnessFrame           SubAxisID = "fairnessFrame"
	SubAxisConflictPosture         SubAxisID = "conflictPosture"
	SubAxisDecisionDriver          SubAxisID = "decisionDriver"
	SubAxisSocialEvaluationFocus   SubAxisID = "socialEvaluationFocus"
	SubAxisCommitmentStyle         SubAxisID = "commitmentStyle"
	SubAxisPlanningStyle           SubAxisID = "planningStyle"
	SubAxisDecisionTiming          SubAxisID = "decisionTiming"
	SubAxisClosurePreference       SubAxisID = "closurePreference"
	SubAxisApproachToConstraints   SubAxisID = "approachToConstraints"
)

// SubAxisOrder gives the stable per-dimension ordering of sub-axes. Every
// dimension has exactly five entries by construction; the scorer relies on that
// when averaging.
var SubAxisOrder = map[DimensionID][]SubAxisID{
	DimensionIE: {
		SubAxisGroupSizePreference,
		SubAxisInitiatingConversation,
		SubAxisFamiliarityVsNovelty,
		SubAxisSpeakingPace,
		SubAxisSpotlightVsBackground,
	},
	DimensionNS: {
		SubAxisInformationSource,
		SubAxisTimeOrientation,
		SubAxisCognitiveFocus,
		SubAxisDecisionConfidence,
		SubAxisRiskAssessmentFrame,
	},
	DimensionTF: {
		SubAxisFeedbackAim,
		SubAxisFairnessFrame,
		SubAxisConflictPosture,
		SubAxisDecisionDriver,
		SubAxisSocialEvaluationFocus,
	},
	DimensionJP: {
		SubAxisCommitmentStyle,
		SubAxisPlanningStyle,
		SubAxisDecisionTiming,
		SubAxisClosurePreference,
		SubAxisApproachToConstraints,
	},
}

// PoleLetters maps a dimension to its (low, high) pole letters. score01=0 means
// the low pole, score01=1 the high pole. NS is inverted on purpose: the low
// pole is N.
var PoleLetters = map[DimensionID][2]string{
	DimensionIE: {"I", "E"},
	DimensionNS: {"N", "S"},
	DimensionTF: {"T", "F"},
	DimensionJP: {"J", "P"},
}

// PromptVariant is the A/B/C phrasing variant of a prompt.
type PromptVariant string

const (
	VariantA PromptVariant = "A"
	VariantB PromptVariant = "B"
	VariantC PromptVariant = "C"
)

// PromptSpec describes one elicitation question from the static catalog.
// Prompt ids follow VK.<Dimension>.<slot><variant>.<version> and are immutable.
type PromptSpec struct {
	ID        string        `json:"id"`
	Dimension DimensionID   `json:"dimensionId"`
	SubAxis   SubAxisID     `json:"subAxisId"`
	Variant   PromptVariant `json:"variant"`
	Version   string        `json:"version"`
	Text      string        `json:"text"`
}
