package playbook

import (
	"fmt"

	"github.com/tetraminz/sales_coach/internal/model"
)

// objectionRebuttals holds three canned responses per objection subtype.
var objectionRebuttals = map[string][]string{
	"budget": {
		"I understand budget is a concern. Can you help me understand what you're comparing this investment to?",
		"What would need to happen for this to fit within your budget?",
		"Let's explore the cost of not solving this problem.",
	},
	"timing": {
		"I appreciate you being upfront about timing. What would need to change for this to become a priority?",
		"Help me understand what's driving the current timeline.",
		"What happens if you wait to address this?",
	},
	"authority": {
		"That makes sense. Who else would be involved in a decision like this?",
		"What information would be helpful for that conversation?",
		"How do decisions like this typically get made at your company?",
	},
	"trust": {
		"I can understand that concern. What would help you feel more confident?",
		"What questions can I answer to address that hesitation?",
		"Would it be helpful to speak with some of our current clients?",
	},
	"need": {
		"It sounds like your current solution is working well. What would make you consider a change?",
		"Help me understand what's working about your current approach.",
		"What would an ideal solution look like for you?",
	},
}

// ObjectionResponses returns exactly three rebuttal suggestions for a
// detected objection. Unrecognized subtypes deliberately fall back to the
// trust set rather than failing.
func ObjectionResponses(objection model.DetectedPattern) []model.PlaybookSuggestion {
	context := objection.Context
	if context == "" {
		context = "general"
	}

	rebuttals, ok := objectionRebuttals[context]
	if !ok {
		rebuttals = objectionRebuttals["trust"]
	}

	out := make([]model.PlaybookSuggestion, 0, len(rebuttals))
	for i, rebuttal := range rebuttals {
		out = append(out, model.PlaybookSuggestion{
			ID:         fmt.Sprintf("objection-%s-%d", context, i),
			Framework:  "Sandler",
			Type:       model.SuggestionObjectionHandler,
			Content:    rebuttal,
			Confidence: 0.8,
			Context:    fmt.Sprintf("Handling %s objection", context),
			Stage:      model.StageObjectionHandling,
			Reasoning:  "Response to " + objection.Description,
		})
	}
	return out
}

// UsageOutcome is caller-supplied feedback about one surfaced suggestion.
type UsageOutcome struct {
	SuggestionID string
	Used         bool
	Outcome      string // "positive", "negative" or "neutral"
}

// Effectiveness folds usage feedback into a per-framework score.
func Effectiveness(suggestions []model.PlaybookSuggestion, usage []UsageOutcome) map[string]float64 {
	byID := make(map[string]UsageOutcome, len(usage))
	for _, u := range usage {
		byID[u.SuggestionID] = u
	}

	scores := make(map[string]float64)
	for _, suggestion := range suggestions {
		u, ok := byID[suggestion.ID]
		if !ok {
			continue
		}
		switch u.Outcome {
		case "positive":
			scores[suggestion.Framework] += 1
		case "negative":
			scores[suggestion.Framework] -= 0.5
		case "neutral":
			scores[suggestion.Framework] += 0.1
		}
	}
	return scores
}
