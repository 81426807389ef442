// Package report aggregates persisted analysis into plain-text and
// markdown summaries.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tetraminz/sales_coach/internal/store"
)

const atRiskHealthThreshold = 0.4
const maxAtRiskItems = 10

// Metrics is the aggregate view over every analyzed conversation.
type Metrics struct {
	TotalConversations int
	TotalMessages      int
	TotalPatterns      int

	AvgEngagement float64
	AvgHealth     float64

	SentimentDistribution map[string]int

	StageCounts     []store.TypeCount
	PatternCounts   []store.TypeCount
	FrameworkCounts []store.TypeCount

	AtRiskConversations []AtRiskItem
}

// AtRiskItem flags a conversation whose health score fell below the
// at-risk threshold.
type AtRiskItem struct {
	ConversationID  string
	HealthScore     float64
	CurrentStage    string
	DominantPattern string
}

// Build reads every summary row and aggregation bucket from the store.
func Build(s *store.Store) (Metrics, error) {
	records, err := s.ListConversations()
	if err != nil {
		return Metrics{}, err
	}

	metrics := Metrics{
		SentimentDistribution: map[string]int{},
	}
	for _, rec := range records {
		metrics.TotalConversations++
		metrics.TotalMessages += rec.MessageCount
		metrics.TotalPatterns += rec.TotalPatterns
		metrics.AvgEngagement += rec.EngagementScore
		metrics.AvgHealth += rec.HealthScore
		metrics.SentimentDistribution[rec.OverallSentiment]++

		if rec.HealthScore < atRiskHealthThreshold {
			metrics.AtRiskConversations = append(metrics.AtRiskConversations, AtRiskItem{
				ConversationID:  rec.ConversationID,
				HealthScore:     rec.HealthScore,
				CurrentStage:    rec.CurrentStage,
				DominantPattern: rec.DominantPattern,
			})
		}
	}
	if metrics.TotalConversations > 0 {
		metrics.AvgEngagement /= float64(metrics.TotalConversations)
		metrics.AvgHealth /= float64(metrics.TotalConversations)
	}

	sort.Slice(metrics.AtRiskConversations, func(i, j int) bool {
		if metrics.AtRiskConversations[i].HealthScore == metrics.AtRiskConversations[j].HealthScore {
			return metrics.AtRiskConversations[i].ConversationID < metrics.AtRiskConversations[j].ConversationID
		}
		return metrics.AtRiskConversations[i].HealthScore < metrics.AtRiskConversations[j].HealthScore
	})
	if len(metrics.AtRiskConversations) > maxAtRiskItems {
		metrics.AtRiskConversations = metrics.AtRiskConversations[:maxAtRiskItems]
	}

	if metrics.StageCounts, err = s.StageCounts(); err != nil {
		return Metrics{}, err
	}
	if metrics.PatternCounts, err = s.PatternCounts(); err != nil {
		return Metrics{}, err
	}
	if metrics.FrameworkCounts, err = s.FrameworkCounts(); err != nil {
		return Metrics{}, err
	}
	return metrics, nil
}

// BuildMarkdown renders the full analytics report as markdown.
func BuildMarkdown(s *store.Store) (string, error) {
	metrics, err := Build(s)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("# Coaching Analytics\n\n")
	b.WriteString("## Totals\n")
	b.WriteString(fmt.Sprintf("- conversations: `%d`\n", metrics.TotalConversations))
	b.WriteString(fmt.Sprintf("- messages: `%d`\n", metrics.TotalMessages))
	b.WriteString(fmt.Sprintf("- patterns: `%d`\n", metrics.TotalPatterns))
	b.WriteString(fmt.Sprintf("- avg_engagement: `%.4f`\n", metrics.AvgEngagement))
	b.WriteString(fmt.Sprintf("- avg_health: `%.4f`\n\n", metrics.AvgHealth))

	b.WriteString("## Sentiment\n")
	writeDistribution(&b, metrics.SentimentDistribution)
	b.WriteString("\n")

	b.WriteString("## Stages\n")
	writeCounts(&b, metrics.StageCounts, "avg_confidence")
	b.WriteString("\n")

	b.WriteString("## Patterns\n")
	writeCounts(&b, metrics.PatternCounts, "avg_confidence")
	b.WriteString("\n")

	b.WriteString("## Suggested Frameworks\n")
	writeCounts(&b, metrics.FrameworkCounts, "avg_confidence")
	b.WriteString("\n")

	b.WriteString("## At-Risk Conversations\n")
	if len(metrics.AtRiskConversations) == 0 {
		b.WriteString("- none\n")
	} else {
		b.WriteString("| conversation_id | health | stage | dominant_pattern |\n")
		b.WriteString("| --- | ---: | --- | --- |\n")
		for _, item := range metrics.AtRiskConversations {
			b.WriteString(fmt.Sprintf("| `%s` | `%.2f` | `%s` | `%s` |\n",
				item.ConversationID,
				item.HealthScore,
				item.CurrentStage,
				item.DominantPattern,
			))
		}
	}
	return b.String(), nil
}

// Format renders the report as key=value lines for terminal output.
func Format(metrics Metrics) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("conversations=%d\n", metrics.TotalConversations))
	b.WriteString(fmt.Sprintf("messages=%d\n", metrics.TotalMessages))
	b.WriteString(fmt.Sprintf("patterns=%d\n", metrics.TotalPatterns))
	b.WriteString(fmt.Sprintf("avg_engagement=%.4f\n", metrics.AvgEngagement))
	b.WriteString(fmt.Sprintf("avg_health=%.4f\n", metrics.AvgHealth))
	for _, c := range metrics.StageCounts {
		b.WriteString(fmt.Sprintf("stage_%s=%d\n", c.Key, c.Count))
	}
	for _, c := range metrics.PatternCounts {
		b.WriteString(fmt.Sprintf("pattern_%s=%d\n", c.Key, c.Count))
	}
	b.WriteString(fmt.Sprintf("at_risk_conversations=%d\n", len(metrics.AtRiskConversations)))
	return b.String()
}

func writeDistribution(b *strings.Builder, distribution map[string]int) {
	if len(distribution) == 0 {
		b.WriteString("- none\n")
		return
	}
	keys := make([]string, 0, len(distribution))
	for key := range distribution {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		b.WriteString(fmt.Sprintf("- %s: `%d`\n", key, distribution[key]))
	}
}

func writeCounts(b *strings.Builder, counts []store.TypeCount, metricName string) {
	if len(counts) == 0 {
		b.WriteString("- none\n")
		return
	}
	for _, c := range counts {
		b.WriteString(fmt.Sprintf("- %s: `%d` (%s `%.4f`)\n", c.Key, c.Count, metricName, c.AvgConfidence))
	}
}
