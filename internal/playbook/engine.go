package playbook

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/tetraminz/sales_coach/internal/model"
)

const (
	// maxSuggestions bounds coaching-panel noise. Fixed design constant.
	maxSuggestions = 6

	// relevanceCutoff excludes techniques with too weak a signal.
	relevanceCutoff = 0.3

	// responseDiscount trusts response templates slightly less than
	// questions, since responses presume more context.
	responseDiscount = 0.9
)

// GenerateSuggestions scores every technique of every framework against
// the detected patterns and recent context text, and returns the top
// suggestions sorted by descending confidence (at most six).
func GenerateSuggestions(patterns []model.DetectedPattern, currentStage string, contextTexts []string) []model.PlaybookSuggestion {
	suggestions := make([]model.PlaybookSuggestion, 0, 16)
	reasoning := patternReasoning(patterns)

	for _, framework := range Frameworks() {
		for _, technique := range framework.Techniques {
			score := relevanceScore(technique, patterns, contextTexts)
			if score <= relevanceCutoff {
				continue
			}

			for _, question := range technique.Questions {
				suggestions = append(suggestions, model.PlaybookSuggestion{
					ID:         newSuggestionID(framework.ID, technique.Name, "q"),
					Framework:  framework.Name,
					Type:       model.SuggestionQuestion,
					Content:    question,
					Confidence: score,
					Context:    technique.Description,
					Stage:      technique.Stage,
					Reasoning:  reasoning,
				})
			}
			for _, response := range technique.Responses {
				suggestions = append(suggestions, model.PlaybookSuggestion{
					ID:         newSuggestionID(framework.ID, technique.Name, "r"),
					Framework:  framework.Name,
					Type:       model.SuggestionResponse,
					Content:    response,
					Confidence: score * responseDiscount,
					Context:    technique.Description,
					Stage:      technique.Stage,
					Reasoning:  "Appropriate response for " + technique.Name,
				})
			}
		}
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}

// relevanceScore estimates how applicable one technique is right now.
func relevanceScore(technique Technique, patterns []model.DetectedPattern, contextTexts []string) float64 {
	relevance := 0.1

	contextText := strings.ToLower(strings.Join(contextTexts, " "))
	for _, trigger := range technique.Triggers {
		if strings.Contains(contextText, trigger) {
			relevance += 0.2
		}
	}

	for _, pattern := range patterns {
		if patternMatchesTriggers(pattern, technique.Triggers) {
			relevance += 0.3 * pattern.Confidence
		}
	}

	for _, pattern := range patterns {
		if pattern.Confidence > 0.8 {
			relevance += 0.2
			break
		}
	}

	return model.Clamp01(relevance)
}

func patternMatchesTriggers(pattern model.DetectedPattern, triggers []string) bool {
	description := strings.ToLower(pattern.Description)
	for _, trigger := range triggers {
		if strings.Contains(description, trigger) {
			return true
		}
		for _, keyword := range pattern.Keywords {
			if strings.Contains(strings.ToLower(keyword), trigger) {
				return true
			}
		}
	}
	return false
}

func patternReasoning(patterns []model.DetectedPattern) string {
	if len(patterns) == 0 {
		return "Based on conversation context"
	}
	seen := make(map[model.PatternType]bool, len(patterns))
	types := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if seen[p.Type] {
			continue
		}
		seen[p.Type] = true
		types = append(types, string(p.Type))
	}
	return "Based on detected " + strings.Join(types, ", ") + " patterns"
}

func newSuggestionID(frameworkID, techniqueName, kind string) string {
	return fmt.Sprintf("%s-%s-%s-%s", frameworkID, slug(techniqueName), kind, uuid.NewString())
}

func slug(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}
