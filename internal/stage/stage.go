// Package stage maintains the six-stage conversation model and infers the
// current stage from accumulated transcript evidence. Inference is a
// re-evaluated snapshot: every call recomputes from the full history, so
// identical histories always produce identical output.
package stage

import (
	"strings"

	"github.com/tetraminz/sales_coach/internal/model"
)

// Order is the canonical stage sequence.
var Order = []string{
	model.StageDiscoverySurface,
	model.StageDiscoveryDeep,
	model.StageQualification,
	model.StagePresentation,
	model.StageObjectionHandling,
	model.StageClosing,
}

var successor = map[string]string{
	model.StageDiscoverySurface:  model.StageDiscoveryDeep,
	model.StageDiscoveryDeep:     model.StageQualification,
	model.StageQualification:     model.StagePresentation,
	model.StagePresentation:      model.StageObjectionHandling,
	model.StageObjectionHandling: model.StageClosing,
	model.StageClosing:           model.StageFollowUp,
}

// relevance lists raise stage confidence when matching pattern types or
// contexts are present.
var relevance = map[string][]string{
	model.StageDiscoverySurface:  {"greeting", "question"},
	model.StageDiscoveryDeep:     {"pain_point"},
	model.StageQualification:     {"budget", "authority", "timeline"},
	model.StagePresentation:      {"interest", "feature_request"},
	model.StageObjectionHandling: {"objection", "concern"},
	model.StageClosing:           {"buying_signal", "urgency"},
}

// Stages returns a fresh snapshot of the six-stage model with the given
// stage marked current, earlier stages completed, and the current stage
// carrying the supplied progress.
func Stages(currentID string, progress float64) []model.Stage {
	defs := []struct{ id, name, description string }{
		{model.StageDiscoverySurface, "Discovery - Surface", "Initial discovery and rapport building"},
		{model.StageDiscoveryDeep, "Discovery - Deep", "Deep pain discovery and qualification"},
		{model.StageQualification, "Qualification", "Budget, authority, need, timeline qualification"},
		{model.StagePresentation, "Presentation", "Solution presentation and demonstration"},
		{model.StageObjectionHandling, "Objection Handling", "Address concerns and objections"},
		{model.StageClosing, "Closing", "Secure commitment and next steps"},
	}

	out := make([]model.Stage, 0, len(defs))
	reached := false
	for _, def := range defs {
		s := model.Stage{ID: def.id, Name: def.name, Description: def.description}
		switch {
		case def.id == currentID:
			s.Current = true
			s.Progress = clampPct(progress)
			reached = true
		case !reached:
			s.Completed = true
			s.Progress = 100
		}
		out = append(out, s)
	}
	return out
}

// Infer derives the stage progression snapshot from the full message
// history. It never fails; an empty history is surface discovery at zero
// progress.
func Infer(messages []model.Message) model.StageProgression {
	patterns := collectPatterns(messages)
	current := currentStage(messages, patterns)

	return model.StageProgression{
		CurrentStage:    current,
		ProgressPct:     progress(messages, patterns),
		NextStage:       NextStage(current, patterns),
		StageConfidence: confidence(current, patterns),
	}
}

// currentStage is a priority cascade over cumulative evidence, not a state
// machine: later calls can land earlier in the sequence if the evidence
// says so.
func currentStage(messages []model.Message, patterns []model.DetectedPattern) string {
	transcript := joinedTranscript(messages)

	if containsAny(transcript, "next steps", "move forward", "when can we start") {
		return model.StageClosing
	}
	if countType(patterns, model.PatternObjection) > 0 {
		return model.StageObjectionHandling
	}
	if containsAny(transcript, "demo", "show you", "solution", "features") {
		return model.StagePresentation
	}
	if containsAny(transcript, "budget", "timeline", "decision", "authority") {
		return model.StageQualification
	}
	if countType(patterns, model.PatternPainPoint) > 2 || containsAny(transcript, "impact", "cost", "affect") {
		return model.StageDiscoveryDeep
	}
	return model.StageDiscoverySurface
}

// NextStage picks the canonical successor, with two overrides: any
// objection forces objection handling, and more than two buying signals
// during surface discovery skip straight to qualification.
func NextStage(current string, patterns []model.DetectedPattern) string {
	if countType(patterns, model.PatternObjection) > 0 {
		return model.StageObjectionHandling
	}
	if countType(patterns, model.PatternBuyingSignal) > 2 && current == model.StageDiscoverySurface {
		return model.StageQualification
	}
	if next, ok := successor[current]; ok {
		return next
	}
	return current
}

// progress blends conversation length and evidentiary density; it is not a
// stage-specific completion measure.
func progress(messages []model.Message, patterns []model.DetectedPattern) float64 {
	base := float64(len(messages)) / 10 * 100
	if base > 80 {
		base = 80
	}
	bonus := float64(len(patterns)) * 5
	if bonus > 20 {
		bonus = 20
	}
	return clampPct(base + bonus)
}

func confidence(current string, patterns []model.DetectedPattern) float64 {
	conf := 0.6
	relevant := relevance[current]
	for _, p := range patterns {
		if matchesRelevance(p, relevant) {
			conf += 0.1 * p.Confidence
		}
	}
	if conf > 0.95 {
		return 0.95
	}
	return conf
}

func matchesRelevance(p model.DetectedPattern, relevant []string) bool {
	for _, r := range relevant {
		if string(p.Type) == r || strings.Contains(p.Context, r) {
			return true
		}
	}
	return false
}

func collectPatterns(messages []model.Message) []model.DetectedPattern {
	var out []model.DetectedPattern
	for _, m := range messages {
		out = append(out, m.Patterns...)
	}
	return out
}

func joinedTranscript(messages []model.Message) string {
	parts := make([]string, 0, len(messages))
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func countType(patterns []model.DetectedPattern, t model.PatternType) int {
	n := 0
	for _, p := range patterns {
		if p.Type == t {
			n++
		}
	}
	return n
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
