package stage

// Recommendation describes what a rep should try to achieve in a stage.
type Recommendation struct {
	Objectives      []string
	KeyQuestions    []string
	SuccessCriteria []string
}

var stageRecommendations = map[string]Recommendation{
	"discovery_surface": {
		Objectives: []string{"Build rapport", "Understand current state", "Identify initial pain points"},
		KeyQuestions: []string{
			"Can you walk me through your current process?",
			"What challenges are you facing?",
			"How are you handling this today?",
		},
		SuccessCriteria: []string{"Prospect is engaged", "Initial pain identified", "Trust established"},
	},
	"discovery_deep": {
		Objectives: []string{"Quantify pain", "Understand impact", "Identify decision makers"},
		KeyQuestions: []string{
			"How much is this costing you?",
			"What happens if you don't fix this?",
			"Who else is affected by this problem?",
		},
		SuccessCriteria: []string{"Pain quantified", "Impact understood", "Urgency established"},
	},
	"qualification": {
		Objectives: []string{"Confirm budget", "Identify decision process", "Establish timeline"},
		KeyQuestions: []string{
			"What's your budget for solving this?",
			"How do decisions like this get made?",
			"What's your timeline for implementation?",
		},
		SuccessCriteria: []string{"Budget confirmed", "Decision process clear", "Timeline established"},
	},
	"presentation": {
		Objectives: []string{"Present solution", "Connect features to benefits", "Address concerns"},
		KeyQuestions: []string{
			"How does this address your specific needs?",
			"What questions do you have?",
			"How do you see this fitting into your workflow?",
		},
		SuccessCriteria: []string{"Solution understood", "Value demonstrated", "Concerns addressed"},
	},
	"objection_handling": {
		Objectives: []string{"Address concerns", "Provide reassurance", "Maintain momentum"},
		KeyQuestions: []string{
			"What specific concerns do you have?",
			"What would need to happen for you to move forward?",
			"How can I address that concern?",
		},
		SuccessCriteria: []string{"Objections resolved", "Confidence restored", "Path forward clear"},
	},
	"closing": {
		Objectives: []string{"Secure commitment", "Define next steps", "Set expectations"},
		KeyQuestions: []string{
			"Are you ready to move forward?",
			"What are the next steps?",
			"When can we get started?",
		},
		SuccessCriteria: []string{"Commitment secured", "Next steps defined", "Timeline agreed"},
	},
}

// Recommendations returns the coaching objectives for a stage. Unknown
// stage ids get the generic fallback rather than an error.
func Recommendations(stageID string) Recommendation {
	if rec, ok := stageRecommendations[stageID]; ok {
		return rec
	}
	return Recommendation{
		Objectives:      []string{"Continue conversation"},
		KeyQuestions:    []string{"What questions do you have?"},
		SuccessCriteria: []string{"Engagement maintained"},
	}
}
