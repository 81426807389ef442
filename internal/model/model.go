// Package model holds the shared value types of the coaching engine.
package model

import (
	"strings"
	"time"
)

// Role identifies which side of the conversation spoke an utterance.
type Role string

const (
	RoleRep      Role = "rep"
	RoleProspect Role = "prospect"
)

// PatternType is the closed set of linguistic signal categories.
type PatternType string

const (
	PatternObjection    PatternType = "objection"
	PatternBuyingSignal PatternType = "buying_signal"
	PatternPainPoint    PatternType = "pain_point"
	PatternQuestion     PatternType = "question"
	PatternInterest     PatternType = "interest"
	PatternConcern      PatternType = "concern"
)

// Sentiment labels used by per-message and conversation-level analysis.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Urgency levels for per-message AI analysis.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Stage ids of the six-stage conversation model, in canonical order.
const (
	StageDiscoverySurface  = "discovery_surface"
	StageDiscoveryDeep     = "discovery_deep"
	StageQualification     = "qualification"
	StagePresentation      = "presentation"
	StageObjectionHandling = "objection_handling"
	StageClosing           = "closing"

	// StageFollowUp is only ever a successor label after closing; it is
	// never a current stage.
	StageFollowUp = "follow_up"
)

// DetectedPattern is a classified linguistic signal extracted from an utterance.
type DetectedPattern struct {
	Type        PatternType
	Confidence  float64
	Description string
	Keywords    []string
	Context     string
}

// FirstKeyword returns the leading keyword, or "" for keyword-less
// contextual patterns. Used as part of the dedup key.
func (p DetectedPattern) FirstKeyword() string {
	if len(p.Keywords) == 0 {
		return ""
	}
	return p.Keywords[0]
}

// AIAnalysis is the lightweight per-message heuristic annotation.
type AIAnalysis struct {
	Sentiment       string
	EngagementScore float64
	UrgencyLevel    string
	BuyingIntent    float64
}

// Message is a processed utterance with its attached analysis.
type Message struct {
	ID        string
	Content   string
	Speaker   Role
	Timestamp time.Time
	Patterns  []DetectedPattern
	Analysis  *AIAnalysis
}

// Stage is one of the six fixed phases of a sales conversation.
type Stage struct {
	ID          string
	Name        string
	Description string
	Completed   bool
	Current     bool
	Progress    float64
}

// StageProgression is a re-derived snapshot of where the conversation stands.
type StageProgression struct {
	CurrentStage    string
	ProgressPct     float64
	NextStage       string
	StageConfidence float64
}

// SuggestionType distinguishes the kinds of playbook output.
type SuggestionType string

const (
	SuggestionQuestion         SuggestionType = "question"
	SuggestionResponse         SuggestionType = "response"
	SuggestionTechnique        SuggestionType = "technique"
	SuggestionObjectionHandler SuggestionType = "objection_handler"
)

// PlaybookSuggestion is one ranked coaching recommendation.
type PlaybookSuggestion struct {
	ID         string
	Framework  string
	Type       SuggestionType
	Content    string
	Confidence float64
	Context    string
	Stage      string
	Reasoning  string
	FollowUps  []string
}

// HealthFactor records one contribution to the conversation health score.
type HealthFactor struct {
	Factor      string
	Impact      string
	Description string
}

// ConversationHealth is the bounded health score plus its factor trail.
type ConversationHealth struct {
	Score   float64
	Factors []HealthFactor
}

// PatternSummary aggregates detected patterns across a conversation.
type PatternSummary struct {
	TotalPatterns   int
	DominantPattern string
	Distribution    map[PatternType]int
}

// Recommendations are the free-text coaching outputs of the analyzer.
type Recommendations struct {
	ImmediateActions     []string
	StrategicSuggestions []string
	RiskFactors          []string
}

// AnalysisReport is the full per-snapshot conversation analysis.
type AnalysisReport struct {
	OverallSentiment string
	EngagementScore  float64
	StageProgression StageProgression
	PatternSummary   PatternSummary
	Recommendations  Recommendations
	Health           ConversationHealth
}

// ConversationMetrics are rough talk-time estimates over a message history.
type ConversationMetrics struct {
	DurationEstimateMin float64
	MessageFrequency    float64
	RepTalkTimePct      float64
	ProspectTalkTimePct float64
	QuestionRatio       float64
}

// CanonicalRole normalizes free-form speaker labels from transcript files.
// Unrecognized labels return "" so callers can fall back to classification.
func CanonicalRole(raw string) Role {
	s := strings.ToLower(strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "*")))
	switch {
	case s == string(RoleRep), strings.Contains(s, "sales rep"), strings.Contains(s, "representative"):
		return RoleRep
	case s == string(RoleProspect), strings.Contains(s, "customer"), strings.Contains(s, "client"), strings.Contains(s, "buyer"):
		return RoleProspect
	default:
		return ""
	}
}

// Clamp01 bounds a score to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
