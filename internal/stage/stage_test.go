package stage

import (
	"reflect"
	"testing"

	"github.com/tetraminz/sales_coach/internal/model"
)

func msg(content string, patterns ...model.DetectedPattern) model.Message {
	return model.Message{Content: content, Speaker: model.RoleProspect, Patterns: patterns}
}

func TestInfer_EmptyHistory(t *testing.T) {
	got := Infer(nil)
	if got.CurrentStage != model.StageDiscoverySurface {
		t.Fatalf("stage=%q want discovery_surface", got.CurrentStage)
	}
	if got.ProgressPct != 0 {
		t.Fatalf("progress=%v want 0", got.ProgressPct)
	}
	if got.NextStage != model.StageDiscoveryDeep {
		t.Fatalf("next=%q want discovery_deep", got.NextStage)
	}
	if got.StageConfidence != 0.6 {
		t.Fatalf("confidence=%v want 0.6", got.StageConfidence)
	}
}

func TestInfer_ClosingPhrasesWin(t *testing.T) {
	messages := []model.Message{
		msg("We have budget approved", model.DetectedPattern{Type: model.PatternObjection, Context: "budget"}),
		msg("Great, what are the next steps?"),
	}
	got := Infer(messages)
	// Closing language outranks the objection in the cascade.
	if got.CurrentStage != model.StageClosing {
		t.Fatalf("stage=%q want closing", got.CurrentStage)
	}
	// But any objection still forces the next stage.
	if got.NextStage != model.StageObjectionHandling {
		t.Fatalf("next=%q want objection_handling", got.NextStage)
	}
}

func TestInfer_ObjectionBeforePresentation(t *testing.T) {
	messages := []model.Message{
		msg("Let me show you a demo of the solution"),
		msg("That's too expensive", model.DetectedPattern{Type: model.PatternObjection, Context: "budget"}),
	}
	got := Infer(messages)
	if got.CurrentStage != model.StageObjectionHandling {
		t.Fatalf("stage=%q want objection_handling", got.CurrentStage)
	}
}

func TestInfer_DeepDiscoveryFromPainDensity(t *testing.T) {
	messages := []model.Message{
		msg("Things are going badly",
			model.DetectedPattern{Type: model.PatternPainPoint, Context: "operational"},
			model.DetectedPattern{Type: model.PatternPainPoint, Context: "efficiency"},
			model.DetectedPattern{Type: model.PatternPainPoint, Context: "quality"},
		),
	}
	got := Infer(messages)
	if got.CurrentStage != model.StageDiscoveryDeep {
		t.Fatalf("stage=%q want discovery_deep", got.CurrentStage)
	}
	if got.NextStage != model.StageQualification {
		t.Fatalf("next=%q want qualification", got.NextStage)
	}
}

func TestInfer_Deterministic(t *testing.T) {
	messages := []model.Message{
		msg("We're struggling with our process", model.DetectedPattern{Type: model.PatternPainPoint, Context: "operational", Confidence: 0.8}),
		msg("What's the impact on revenue?"),
	}
	first := Infer(messages)
	second := Infer(messages)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("inference not deterministic: %+v vs %+v", first, second)
	}
}

func TestNextStage_BuyingSignalSkip(t *testing.T) {
	patterns := []model.DetectedPattern{
		{Type: model.PatternBuyingSignal},
		{Type: model.PatternBuyingSignal},
		{Type: model.PatternBuyingSignal},
	}
	if got := NextStage(model.StageDiscoverySurface, patterns); got != model.StageQualification {
		t.Fatalf("next=%q want qualification skip", got)
	}
	// The skip only applies during surface discovery.
	if got := NextStage(model.StagePresentation, patterns); got != model.StageObjectionHandling {
		t.Fatalf("next=%q want canonical successor", got)
	}
}

func TestNextStage_ClosingSuccessorIsFollowUp(t *testing.T) {
	if got := NextStage(model.StageClosing, nil); got != model.StageFollowUp {
		t.Fatalf("next=%q want follow_up", got)
	}
}

func TestNextStage_UnknownStageReturnsItself(t *testing.T) {
	if got := NextStage("bogus", nil); got != "bogus" {
		t.Fatalf("next=%q want input echoed", got)
	}
}

func TestProgress_Bounds(t *testing.T) {
	messages := make([]model.Message, 30)
	for i := range messages {
		messages[i] = msg("filler text about the workflow")
	}
	got := Infer(messages)
	if got.ProgressPct > 100 {
		t.Fatalf("progress=%v exceeds 100", got.ProgressPct)
	}
	if got.ProgressPct != 80 {
		t.Fatalf("progress=%v want 80 (length capped, no patterns)", got.ProgressPct)
	}
}

func TestConfidence_RelevantPatternsRaiseIt(t *testing.T) {
	messages := []model.Message{
		msg("That's too expensive", model.DetectedPattern{Type: model.PatternObjection, Context: "budget", Confidence: 1.0}),
	}
	got := Infer(messages)
	if got.CurrentStage != model.StageObjectionHandling {
		t.Fatalf("stage=%q want objection_handling", got.CurrentStage)
	}
	if got.StageConfidence < 0.69 || got.StageConfidence > 0.71 {
		t.Fatalf("confidence=%v want 0.7", got.StageConfidence)
	}
}

func TestStages_Snapshot(t *testing.T) {
	stages := Stages(model.StageQualification, 45)
	if len(stages) != 6 {
		t.Fatalf("stages=%d want 6", len(stages))
	}
	for i, s := range stages {
		switch s.ID {
		case model.StageDiscoverySurface, model.StageDiscoveryDeep:
			if !s.Completed || s.Progress != 100 {
				t.Fatalf("stage %d not completed: %+v", i, s)
			}
		case model.StageQualification:
			if !s.Current || s.Progress != 45 {
				t.Fatalf("current stage wrong: %+v", s)
			}
		default:
			if s.Completed || s.Current || s.Progress != 0 {
				t.Fatalf("future stage touched: %+v", s)
			}
		}
	}
}

func TestRecommendations_KnownAndFallback(t *testing.T) {
	rec := Recommendations(model.StageObjectionHandling)
	if len(rec.Objectives) == 0 || len(rec.KeyQuestions) == 0 || len(rec.SuccessCriteria) == 0 {
		t.Fatalf("empty recommendations for objection_handling: %+v", rec)
	}

	fallback := Recommendations("unknown_stage")
	if len(fallback.Objectives) != 1 || fallback.Objectives[0] != "Continue conversation" {
		t.Fatalf("unexpected fallback: %+v", fallback)
	}
}
