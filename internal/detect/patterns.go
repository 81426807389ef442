package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tetraminz/sales_coach/internal/lexicon"
	"github.com/tetraminz/sales_coach/internal/model"
)

const maxPatternConfidence = 0.95

// Patterns scans an utterance against the full lexicon plus the contextual
// rules and returns deduplicated patterns sorted by descending confidence.
// Empty input yields an empty list; the function never fails.
func Patterns(text string, speaker model.Role) []model.DetectedPattern {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	patterns := make([]model.DetectedPattern, 0, 8)
	for _, rule := range lexicon.Rules() {
		matches := rule.Pattern.FindStringSubmatch(text)
		if matches == nil {
			continue
		}
		patterns = append(patterns, model.DetectedPattern{
			Type:        rule.Category,
			Confidence:  patternConfidence(matches, text, speaker, rule.Category),
			Description: fmt.Sprintf("%s %s: %q", rule.Subtype, rule.Label(), matches[0]),
			Keywords:    matches,
			Context:     rule.Subtype,
		})
	}

	patterns = appendContextual(text, speaker, patterns)
	patterns = dedupe(patterns)
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Confidence > patterns[j].Confidence
	})
	return patterns
}

// appendContextual adds the non-table patterns: prospect questions,
// emotional indicators and comparison language.
func appendContextual(text string, speaker model.Role, patterns []model.DetectedPattern) []model.DetectedPattern {
	clean := strings.ToLower(text)

	if strings.Contains(text, "?") && speaker == model.RoleProspect {
		patterns = append(patterns, model.DetectedPattern{
			Type:        model.PatternBuyingSignal,
			Confidence:  0.7,
			Description: "Prospect asking questions (engagement)",
			Context:     "engagement",
		})
	}

	for _, emotion := range lexicon.EmotionalWords {
		if !strings.Contains(clean, emotion) {
			continue
		}
		patternType := model.PatternBuyingSignal
		if lexicon.NegativeEmotions[emotion] {
			patternType = model.PatternPainPoint
		}
		patterns = append(patterns, model.DetectedPattern{
			Type:        patternType,
			Confidence:  0.6,
			Description: "Emotional indicator: " + emotion,
			Context:     "emotional",
		})
	}

	if strings.Contains(clean, "compared to") || strings.Contains(clean, "versus") || strings.Contains(clean, "vs") {
		patterns = append(patterns, model.DetectedPattern{
			Type:        model.PatternBuyingSignal,
			Confidence:  0.8,
			Description: "Comparison language (evaluation stage)",
			Context:     "comparison",
		})
	}

	return patterns
}

// patternConfidence scores one table match. matches holds the full match
// plus capture groups, mirroring how the rule tables are written (one
// alternation group per rule).
func patternConfidence(matches []string, text string, speaker model.Role, category model.PatternType) float64 {
	confidence := 0.6

	if len(text) > 100 {
		confidence += 0.1
	}
	if len(text) > 200 {
		confidence += 0.1
	}
	if len(matches) > 1 {
		confidence += 0.1
	}

	if speaker == model.RoleProspect &&
		(category == model.PatternObjection || category == model.PatternPainPoint) {
		confidence += 0.2
	}

	clean := strings.ToLower(text)
	for _, indicator := range lexicon.StrongIndicators {
		if strings.Contains(clean, indicator) {
			confidence += 0.15
			break
		}
	}

	if confidence > maxPatternConfidence {
		return maxPatternConfidence
	}
	return confidence
}

// dedupe keeps the first pattern per (type, context, first keyword) triple.
func dedupe(patterns []model.DetectedPattern) []model.DetectedPattern {
	seen := make(map[string]bool, len(patterns))
	out := patterns[:0]
	for _, p := range patterns {
		key := string(p.Type) + "\x00" + p.Context + "\x00" + p.FirstKeyword()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
