package analyzer

import (
	"strings"

	"github.com/tetraminz/sales_coach/internal/model"
)

var (
	positiveWords = []string{"good", "great", "excellent", "perfect", "love", "like", "interested", "helpful"}
	negativeWords = []string{"bad", "terrible", "hate", "dislike", "problem", "issue", "concerned", "worried"}
	urgencyWords  = []string{"urgent", "asap", "immediately", "rush", "deadline"}
	buyingWords   = []string{"buy", "purchase", "invest", "budget", "price", "cost", "when", "timeline"}
)

// AnalyzeMessage produces the lightweight per-message heuristic
// annotation: word-list sentiment, engagement, urgency and buying intent.
func AnalyzeMessage(m model.Message) model.AIAnalysis {
	content := strings.ToLower(m.Content)

	positive := countContained(content, positiveWords)
	negative := countContained(content, negativeWords)
	sentiment := model.SentimentNeutral
	if positive > negative {
		sentiment = model.SentimentPositive
	} else if negative > positive {
		sentiment = model.SentimentNegative
	}

	engagement := 0.5
	if len(m.Content) > 50 {
		engagement += 0.2
	}
	if strings.Contains(m.Content, "?") {
		engagement += 0.1
	}
	if m.Speaker == model.RoleProspect {
		engagement += 0.2
	}

	urgency := model.UrgencyLow
	if countContained(content, urgencyWords) > 0 {
		urgency = model.UrgencyHigh
	}

	buyingIntent := float64(countContained(content, buyingWords)) * 0.2
	if buyingIntent > 1 {
		buyingIntent = 1
	}

	return model.AIAnalysis{
		Sentiment:       sentiment,
		EngagementScore: model.Clamp01(engagement),
		UrgencyLevel:    urgency,
		BuyingIntent:    buyingIntent,
	}
}

// Metrics derives rough talk-time estimates from a message history.
func Metrics(messages []model.Message) model.ConversationMetrics {
	if len(messages) == 0 {
		return model.ConversationMetrics{}
	}

	// Rough duration estimate: half a minute per message, five minimum.
	duration := float64(len(messages)) * 0.5
	if duration < 5 {
		duration = 5
	}

	rep, questions := 0, 0
	for _, m := range messages {
		if m.Speaker == model.RoleRep {
			rep++
		}
		if strings.Contains(m.Content, "?") {
			questions++
		}
	}
	total := float64(len(messages))

	return model.ConversationMetrics{
		DurationEstimateMin: duration,
		MessageFrequency:    total / duration,
		RepTalkTimePct:      float64(rep) / total * 100,
		ProspectTalkTimePct: float64(len(messages)-rep) / total * 100,
		QuestionRatio:       float64(questions) / total,
	}
}

func countContained(text string, words []string) int {
	n := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			n++
		}
	}
	return n
}
