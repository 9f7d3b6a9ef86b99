package scoring

import "github.com/mdwillman/avalogica-capture-analysis-mcp/internal/domain"

// lexicon holds the fixed pole-term lists for one sub-axis keyword scorer.
// High terms push score01 toward 1, low terms toward 0. Choice terms signal a
// committed preference: they scale the delta and raise confidence without
// carrying direction themselves. Positive/negative valence terms, when
// present, dampen confidence on strongly negative answers. Risk terms add a
// small confidence bonus when the speaker is reasoning about social risk.
type lexicon struct {
	highFeature string
	lowFeature  string
	highLabel   string
	lowLabel    string
	highTerms   []string
	lowTerms    []string
	choiceTerms []string
	positive    []string
	negative    []string
	riskTerms   []string
	riskFeature string
	riskLabel   string
}

// lexicons maps the (dimension, sub-axis) pairs that have a dedicated keyword
// scorer. All other pairs take the generic certainty/hedging fallback.
var lexicons = map[domain.DimensionID]map[domain.SubAxisID]lexicon{
	domain.DimensionIE: {
		domain.SubAxisGroupSizePreference: {
			highFeature: "IE.groupSizePreference.crowd_terms",
			lowFeature:  "IE.groupSizePreference.intimate_terms",
			highLabel:   "crowd terms",
			lowLabel:    "intimacy terms",
			highTerms: []string{
				"crowd", "crowds", "packed", "party", "room full", "everyone", "big group", "large group",
				"strangers", "communal", "group", "conference", "network", "mixer",
			},
			lowTerms: []string{
				"quiet", "corner", "one-on-one", "1:1", "one on one", "two", "trusted", "close", "intimate",
				"small group", "few people", "private", "alone", "one person",
			},
			choiceTerms: []string{
				"prefer", "rather", "choose", "pick", "go with", "would go", "i'd go", "i would go", "i want", "i'd pick",
			},
			positive: []string{"love", "like", "enjoy", "thrives", "energ", "excited"},
			negative: []string{"hate", "dread", "avoid", "overwhelm", "too much", "drain", "anxious", "stress", "uncomfortable"},
		},
		domain.SubAxisInitiatingConversation: {
			highFeature: "IE.initiatingConversation.initiate_terms",
			lowFeature:  "IE.initiatingConversation.wait_watch_terms",
			highLabel:   "initiation terms",
			lowLabel:    "wait/watch terms",
			highTerms: []string{
				"walk up", "go up", "introduce myself", "introduce", "say hi", "say hello", "start a conversation",
				"break the ice", "jump in", "talk to people", "chat", "make small talk", "ask their name",
				"start talking", "strike up", "approach",
			},
			lowTerms: []string{
				"wait", "hang back", "stay quiet", "observe", "watch", "listen", "feel it out", "read the room",
				"warm up", "take my time", "ease in", "until invited", "let them come to me",
				"see how it feels", "get a sense first",
			},
			choiceTerms: []string{
				"i would", "i'd", "i will", "i'll", "i tend to", "usually", "most of the time",
				"prefer", "rather", "choose", "pick",
			},
			riskTerms: []string{
				"awkward", "rejection", "judge", "judged", "embarrass", "bother", "intrude", "anxious", "nervous",
			},
			riskFeature: "social_risk.appraisal",
			riskLabel:   "social risk markers",
		},
	},
}

func lexiconFor(dim domain.DimensionID, sub domain.SubAxisID) (lexicon, bool) {
	subs, ok := lexicons[dim]
	if !ok {
		return lexicon{}, false
	}
	lex, ok := subs[sub]
	return lex, ok
}
