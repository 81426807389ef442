package analyzer

import (
	"testing"

	"github.com/tetraminz/sales_coach/internal/model"
)

func repMsg(content string, patterns ...model.DetectedPattern) model.Message {
	return model.Message{Content: content, Speaker: model.RoleRep, Patterns: patterns}
}

func prospectMsg(content string, patterns ...model.DetectedPattern) model.Message {
	return model.Message{Content: content, Speaker: model.RoleProspect, Patterns: patterns}
}

func withAnalysis(m model.Message, sentiment string, engagement float64) model.Message {
	m.Analysis = &model.AIAnalysis{Sentiment: sentiment, EngagementScore: engagement, UrgencyLevel: model.UrgencyLow}
	return m
}

func TestAnalyze_EmptyHistory(t *testing.T) {
	report := Analyze(nil)

	if report.OverallSentiment != model.SentimentNeutral {
		t.Fatalf("sentiment=%q want neutral", report.OverallSentiment)
	}
	if report.EngagementScore != 0 {
		t.Fatalf("engagement=%v want 0", report.EngagementScore)
	}
	if report.StageProgression.CurrentStage != model.StageDiscoverySurface {
		t.Fatalf("stage=%q", report.StageProgression.CurrentStage)
	}
	if report.PatternSummary.DominantPattern != "none" {
		t.Fatalf("dominant=%q want none", report.PatternSummary.DominantPattern)
	}
	if report.Health.Score != 0.5 {
		t.Fatalf("health=%v want 0.5", report.Health.Score)
	}
	if len(report.Recommendations.ImmediateActions) == 0 {
		t.Fatalf("empty report should still carry starter actions")
	}
}

func TestOverallSentiment_MajorityVote(t *testing.T) {
	messages := []model.Message{
		withAnalysis(repMsg("a"), model.SentimentPositive, 0.5),
		withAnalysis(prospectMsg("b"), model.SentimentPositive, 0.5),
		withAnalysis(prospectMsg("c"), model.SentimentPositive, 0.5),
		withAnalysis(repMsg("d"), model.SentimentNeutral, 0.5),
	}
	if got := Analyze(messages).OverallSentiment; got != model.SentimentPositive {
		t.Fatalf("sentiment=%q want positive", got)
	}

	// Negative wins at a lower share than positive.
	messages = []model.Message{
		withAnalysis(repMsg("a"), model.SentimentNegative, 0.5),
		withAnalysis(prospectMsg("b"), model.SentimentNegative, 0.5),
		withAnalysis(prospectMsg("c"), model.SentimentNeutral, 0.5),
		withAnalysis(repMsg("d"), model.SentimentNeutral, 0.5),
	}
	if got := Analyze(messages).OverallSentiment; got != model.SentimentNegative {
		t.Fatalf("sentiment=%q want negative", got)
	}
}

func TestEngagementScore_AveragesAnalyses(t *testing.T) {
	messages := []model.Message{
		withAnalysis(repMsg("a"), model.SentimentNeutral, 0.4),
		withAnalysis(prospectMsg("b"), model.SentimentNeutral, 0.8),
	}
	got := Analyze(messages).EngagementScore
	if got < 0.59 || got > 0.61 {
		t.Fatalf("engagement=%v want 0.6", got)
	}
}

func TestEngagementScore_FallbackWithoutAnalyses(t *testing.T) {
	messages := []model.Message{
		repMsg("How is the current process working for you?"),
		prospectMsg("It works"),
	}
	// 0.5 base + one question * 0.1; short messages, no patterns.
	got := Analyze(messages).EngagementScore
	if got < 0.59 || got > 0.61 {
		t.Fatalf("fallback engagement=%v want 0.6", got)
	}
}

func TestPatternSummary_DominantTieBreaksLexicographically(t *testing.T) {
	messages := []model.Message{
		prospectMsg("a",
			model.DetectedPattern{Type: model.PatternPainPoint},
			model.DetectedPattern{Type: model.PatternBuyingSignal},
		),
	}
	summary := Analyze(messages).PatternSummary
	if summary.TotalPatterns != 2 {
		t.Fatalf("total=%d want 2", summary.TotalPatterns)
	}
	if summary.DominantPattern != string(model.PatternBuyingSignal) {
		t.Fatalf("dominant=%q want buying_signal (lexicographic tie-break)", summary.DominantPattern)
	}
}

func TestRecommendations_ObjectionDominant(t *testing.T) {
	messages := []model.Message{
		prospectMsg("too expensive", model.DetectedPattern{Type: model.PatternObjection, Context: "budget"}),
		repMsg("I hear you"),
	}
	rec := Analyze(messages).Recommendations
	if len(rec.ImmediateActions) == 0 {
		t.Fatalf("no immediate actions")
	}
	if rec.ImmediateActions[0] != "Address the primary objection with empathy" {
		t.Fatalf("first action=%q", rec.ImmediateActions[0])
	}
	if len(rec.RiskFactors) == 0 {
		t.Fatalf("objection-dominant conversation should carry a risk factor")
	}
	found := false
	for _, s := range rec.StrategicSuggestions {
		if s == "Extend the conversation to gather more insights" {
			found = true
		}
	}
	if !found {
		t.Fatalf("short conversation should suggest extending it: %v", rec.StrategicSuggestions)
	}
}

func TestRecommendations_LowProspectShare(t *testing.T) {
	messages := []model.Message{
		repMsg("a"), repMsg("b"), repMsg("c"), repMsg("d"),
		prospectMsg("e"),
	}
	rec := Analyze(messages).Recommendations
	found := false
	for _, r := range rec.RiskFactors {
		if r == "Low prospect engagement - mostly one-sided conversation" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing low-engagement risk: %v", rec.RiskFactors)
	}
}

func TestHealth_BalancedWithBuyingSignals(t *testing.T) {
	messages := []model.Message{
		repMsg("a"),
		prospectMsg("b", model.DetectedPattern{Type: model.PatternBuyingSignal}),
	}
	h := Analyze(messages).Health
	// 0.5 base + 0.2 balance + 0.2 buying signals.
	if h.Score < 0.89 || h.Score > 0.91 {
		t.Fatalf("health=%v want 0.9", h.Score)
	}
	impacts := map[string]bool{}
	for _, f := range h.Factors {
		impacts[f.Factor] = true
	}
	if !impacts["Message Balance"] || !impacts["Buying Signals"] {
		t.Fatalf("missing factors: %+v", h.Factors)
	}
}

func TestHealth_ObjectionPenalty(t *testing.T) {
	messages := []model.Message{
		repMsg("a"),
		prospectMsg("b",
			model.DetectedPattern{Type: model.PatternObjection},
			model.DetectedPattern{Type: model.PatternObjection},
			model.DetectedPattern{Type: model.PatternObjection},
		),
	}
	h := Analyze(messages).Health
	// 0.5 + 0.2 balance - 0.15 objections.
	if h.Score < 0.54 || h.Score > 0.56 {
		t.Fatalf("health=%v want 0.55", h.Score)
	}
}

func TestHealth_SingleObjectionIsNeutralFactor(t *testing.T) {
	messages := []model.Message{
		repMsg("a"),
		prospectMsg("b", model.DetectedPattern{Type: model.PatternObjection}),
	}
	h := Analyze(messages).Health
	for _, f := range h.Factors {
		if f.Factor == "Single Objection" {
			if f.Impact != "neutral" {
				t.Fatalf("impact=%q want neutral", f.Impact)
			}
			return
		}
	}
	t.Fatalf("missing single-objection factor: %+v", h.Factors)
}
