// Package analyzer aggregates per-message signals into one conversation
// report: sentiment, engagement, stage progression, pattern summary,
// recommendations and a health score.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/tetraminz/sales_coach/internal/model"
	"github.com/tetraminz/sales_coach/internal/stage"
)

// Analyze builds the full report for one conversation snapshot. A nil or
// empty history returns the fixed empty report, never an error.
func Analyze(messages []model.Message) model.AnalysisReport {
	if len(messages) == 0 {
		return emptyReport()
	}

	summary := patternSummary(messages)

	return model.AnalysisReport{
		OverallSentiment: overallSentiment(messages),
		EngagementScore:  engagementScore(messages),
		StageProgression: stage.Infer(messages),
		PatternSummary:   summary,
		Recommendations:  recommendations(messages, summary),
		Health:           health(messages, summary),
	}
}

// overallSentiment is a majority vote over per-message sentiment labels.
// The thresholds are asymmetric on purpose: neutral is the default.
func overallSentiment(messages []model.Message) string {
	positive, negative, scored := 0, 0, 0
	for _, m := range messages {
		if m.Analysis == nil {
			continue
		}
		scored++
		switch m.Analysis.Sentiment {
		case model.SentimentPositive:
			positive++
		case model.SentimentNegative:
			negative++
		}
	}
	if scored == 0 {
		return model.SentimentNeutral
	}
	if float64(positive)/float64(scored) > 0.6 {
		return model.SentimentPositive
	}
	if float64(negative)/float64(scored) > 0.4 {
		return model.SentimentNegative
	}
	return model.SentimentNeutral
}

func engagementScore(messages []model.Message) float64 {
	total, scored := 0.0, 0
	for _, m := range messages {
		if m.Analysis == nil {
			continue
		}
		total += m.Analysis.EngagementScore
		scored++
	}
	if scored == 0 {
		return fallbackEngagement(messages)
	}
	return total / float64(scored)
}

// fallbackEngagement estimates engagement from message characteristics
// when no per-message scores exist.
func fallbackEngagement(messages []model.Message) float64 {
	score := 0.5

	questions := 0
	totalLen := 0
	types := make(map[model.PatternType]bool)
	for _, m := range messages {
		if strings.Contains(m.Content, "?") {
			questions++
		}
		totalLen += len(m.Content)
		for _, p := range m.Patterns {
			types[p.Type] = true
		}
	}

	questionBonus := float64(questions) * 0.1
	if questionBonus > 0.3 {
		questionBonus = 0.3
	}
	score += questionBonus

	avgLen := float64(totalLen) / float64(len(messages))
	if avgLen > 100 {
		score += 0.1
	}
	if avgLen > 200 {
		score += 0.1
	}

	diversityBonus := float64(len(types)) * 0.05
	if diversityBonus > 0.2 {
		diversityBonus = 0.2
	}
	score += diversityBonus

	return model.Clamp01(score)
}

func patternSummary(messages []model.Message) model.PatternSummary {
	distribution := make(map[model.PatternType]int)
	total := 0
	for _, m := range messages {
		for _, p := range m.Patterns {
			distribution[p.Type]++
			total++
		}
	}
	if total == 0 {
		return model.PatternSummary{DominantPattern: "none", Distribution: map[model.PatternType]int{}}
	}

	dominant := ""
	best := -1
	for t, count := range distribution {
		if count > best || (count == best && string(t) < dominant) {
			dominant = string(t)
			best = count
		}
	}

	return model.PatternSummary{
		TotalPatterns:   total,
		DominantPattern: dominant,
		Distribution:    distribution,
	}
}

func recommendations(messages []model.Message, summary model.PatternSummary) model.Recommendations {
	rec := model.Recommendations{
		ImmediateActions:     []string{},
		StrategicSuggestions: []string{},
		RiskFactors:          []string{},
	}

	switch summary.DominantPattern {
	case string(model.PatternObjection):
		rec.ImmediateActions = append(rec.ImmediateActions,
			"Address the primary objection with empathy",
			"Ask clarifying questions to understand the concern")
		rec.StrategicSuggestions = append(rec.StrategicSuggestions, "Prepare objection handling materials")
		rec.RiskFactors = append(rec.RiskFactors, "Multiple unaddressed objections may stall the deal")
	case string(model.PatternPainPoint):
		rec.ImmediateActions = append(rec.ImmediateActions,
			"Dig deeper into the pain with follow-up questions",
			"Quantify the impact of the pain")
		rec.StrategicSuggestions = append(rec.StrategicSuggestions, "Position your solution as the remedy")
	case string(model.PatternBuyingSignal):
		rec.ImmediateActions = append(rec.ImmediateActions,
			"Capitalize on interest with next steps",
			"Provide detailed information or demo")
		rec.StrategicSuggestions = append(rec.StrategicSuggestions, "Move toward closing the conversation")
	default:
		rec.ImmediateActions = append(rec.ImmediateActions, "Continue discovery with open-ended questions")
		rec.StrategicSuggestions = append(rec.StrategicSuggestions, "Build rapport and trust")
	}

	if len(messages) < 5 {
		rec.StrategicSuggestions = append(rec.StrategicSuggestions, "Extend the conversation to gather more insights")
	}
	if len(messages) > 20 {
		rec.RiskFactors = append(rec.RiskFactors, "Long conversation may indicate lack of clear direction")
		rec.ImmediateActions = append(rec.ImmediateActions, "Summarize key points and suggest next steps")
	}

	prospectMessages := 0
	for _, m := range messages {
		if m.Speaker == model.RoleProspect {
			prospectMessages++
		}
	}
	if float64(prospectMessages) < float64(len(messages))*0.3 {
		rec.RiskFactors = append(rec.RiskFactors, "Low prospect engagement - mostly one-sided conversation")
		rec.ImmediateActions = append(rec.ImmediateActions, "Ask more engaging questions to encourage participation")
	}

	return rec
}

// health starts at 0.5 and nudges the score per factor, recording each
// contribution so the caller can show why.
func health(messages []model.Message, summary model.PatternSummary) model.ConversationHealth {
	factors := []model.HealthFactor{}
	score := 0.5

	rep, prospect := 0, 0
	for _, m := range messages {
		if m.Speaker == model.RoleRep {
			rep++
		} else {
			prospect++
		}
	}
	balance := float64(prospect) / float64(rep+prospect)
	if balance > 0.3 && balance < 0.7 {
		score += 0.2
		factors = append(factors, model.HealthFactor{
			Factor:      "Message Balance",
			Impact:      "positive",
			Description: "Good balance between rep and prospect participation",
		})
	} else if balance < 0.2 {
		score -= 0.2
		factors = append(factors, model.HealthFactor{
			Factor:      "Message Balance",
			Impact:      "negative",
			Description: "Conversation is too one-sided - prospect not engaged enough",
		})
	}

	if len(summary.Distribution) > 2 {
		score += 0.15
		factors = append(factors, model.HealthFactor{
			Factor:      "Pattern Diversity",
			Impact:      "positive",
			Description: "Multiple types of patterns detected - rich conversation",
		})
	}

	if buying := summary.Distribution[model.PatternBuyingSignal]; buying > 0 {
		score += 0.2
		factors = append(factors, model.HealthFactor{
			Factor:      "Buying Signals",
			Impact:      "positive",
			Description: fmt.Sprintf("%d buying signals detected", buying),
		})
	}

	objections := summary.Distribution[model.PatternObjection]
	if objections > 2 {
		score -= 0.15
		factors = append(factors, model.HealthFactor{
			Factor:      "Multiple Objections",
			Impact:      "negative",
			Description: fmt.Sprintf("%d objections need to be addressed", objections),
		})
	} else if objections == 1 {
		factors = append(factors, model.HealthFactor{
			Factor:      "Single Objection",
			Impact:      "neutral",
			Description: "One objection identified - normal part of sales process",
		})
	}

	if len(messages) > 15 {
		score += 0.1
		factors = append(factors, model.HealthFactor{
			Factor:      "Conversation Length",
			Impact:      "positive",
			Description: "Substantial conversation with good depth",
		})
	}

	return model.ConversationHealth{Score: model.Clamp01(score), Factors: factors}
}

func emptyReport() model.AnalysisReport {
	return model.AnalysisReport{
		OverallSentiment: model.SentimentNeutral,
		EngagementScore:  0,
		StageProgression: model.StageProgression{
			CurrentStage:    model.StageDiscoverySurface,
			ProgressPct:     0,
			NextStage:       model.StageDiscoveryDeep,
			StageConfidence: 0.6,
		},
		PatternSummary: model.PatternSummary{
			TotalPatterns:   0,
			DominantPattern: "none",
			Distribution:    map[model.PatternType]int{},
		},
		Recommendations: model.Recommendations{
			ImmediateActions:     []string{"Start the conversation with an engaging question"},
			StrategicSuggestions: []string{"Build rapport and establish trust"},
			RiskFactors:          []string{},
		},
		Health: model.ConversationHealth{Score: 0.5, Factors: []model.HealthFactor{}},
	}
}
