package detect

import (
	"testing"

	"github.com/tetraminz/sales_coach/internal/model"
)

func TestHistory_RecordReplacesWithoutReordering(t *testing.T) {
	h := NewHistory()
	h.Record("m1", []model.DetectedPattern{{Type: model.PatternObjection, Context: "budget"}})
	h.Record("m2", nil)
	h.Record("m1", []model.DetectedPattern{{Type: model.PatternPainPoint, Context: "operational"}})

	if h.Len() != 2 {
		t.Fatalf("len=%d want 2", h.Len())
	}
	patterns := h.Patterns("m1")
	if len(patterns) != 1 || patterns[0].Type != model.PatternPainPoint {
		t.Fatalf("unexpected patterns after replace: %+v", patterns)
	}
}

func TestHistory_TrendsNeedThreeMessages(t *testing.T) {
	h := NewHistory()
	h.Record("m1", []model.DetectedPattern{{Type: model.PatternObjection, Context: "budget"}})
	h.Record("m2", []model.DetectedPattern{{Type: model.PatternObjection, Context: "budget"}})

	trends := h.Trends()
	if len(trends.Increasing) != 0 || len(trends.Decreasing) != 0 {
		t.Fatalf("trends on two messages: %+v", trends)
	}
}

func TestHistory_TrendsRisingAndFalling(t *testing.T) {
	h := NewHistory()
	// Older window holds two pain points; the recent window keeps one and
	// adds a budget objection.
	h.Record("m1", []model.DetectedPattern{
		{Type: model.PatternPainPoint, Context: "operational"},
		{Type: model.PatternPainPoint, Context: "operational"},
	})
	h.Record("m2", []model.DetectedPattern{{Type: model.PatternPainPoint, Context: "operational"}})
	h.Record("m3", nil)
	h.Record("m4", nil)
	h.Record("m5", nil)
	h.Record("m6", []model.DetectedPattern{{Type: model.PatternObjection, Context: "budget"}})

	trends := h.Trends()
	if len(trends.Increasing) != 1 || trends.Increasing[0] != "objection-budget" {
		t.Fatalf("increasing=%v want [objection-budget]", trends.Increasing)
	}
	if len(trends.Decreasing) != 1 || trends.Decreasing[0] != "pain_point-operational" {
		t.Fatalf("decreasing=%v want [pain_point-operational]", trends.Decreasing)
	}
}

func TestSummarize_Counts(t *testing.T) {
	patterns := []model.DetectedPattern{
		{Type: model.PatternObjection, Confidence: 0.9},
		{Type: model.PatternBuyingSignal, Confidence: 0.7},
		{Type: model.PatternPainPoint, Confidence: 0.8},
		{Type: model.PatternPainPoint, Confidence: 0.6},
	}

	s := Summarize(patterns)
	if s.TotalPatterns != 4 || s.Objections != 1 || s.BuyingSignals != 1 || s.PainPoints != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if s.Confidence < 0.74 || s.Confidence > 0.76 {
		t.Fatalf("avg confidence=%v want 0.75", s.Confidence)
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalPatterns != 0 || s.Confidence != 0 {
		t.Fatalf("unexpected empty summary: %+v", s)
	}
}
