package detect

import (
	"sort"

	"github.com/tetraminz/sales_coach/internal/model"
)

// History is a conversation-scoped accumulator of detected patterns, used
// for trend analysis over recent vs. older message windows. Each
// conversation owns its own History; sharing one across conversations
// leaks patterns between them.
type History struct {
	byMessage map[string][]model.DetectedPattern
	order     []string
}

// NewHistory returns an empty accumulator.
func NewHistory() *History {
	return &History{byMessage: make(map[string][]model.DetectedPattern)}
}

// Record stores the patterns detected for one message. Recording the same
// message id again replaces its patterns without changing its position.
func (h *History) Record(messageID string, patterns []model.DetectedPattern) {
	if _, ok := h.byMessage[messageID]; !ok {
		h.order = append(h.order, messageID)
	}
	h.byMessage[messageID] = patterns
}

// Patterns returns the recorded patterns for a message id.
func (h *History) Patterns(messageID string) []model.DetectedPattern {
	return h.byMessage[messageID]
}

// Len is the number of recorded messages.
func (h *History) Len() int {
	return len(h.order)
}

// Trends compares pattern counts in the last five messages against the
// five before them and reports which (type, context) keys are rising or
// falling. Fewer than three recorded messages yields empty trends.
type Trends struct {
	Increasing []string
	Decreasing []string
}

func (h *History) Trends() Trends {
	if len(h.order) < 3 {
		return Trends{Increasing: []string{}, Decreasing: []string{}}
	}

	recentStart := len(h.order) - 5
	if recentStart < 0 {
		recentStart = 0
	}
	olderStart := len(h.order) - 10
	if olderStart < 0 {
		olderStart = 0
	}

	recent := h.countWindow(h.order[recentStart:])
	older := h.countWindow(h.order[olderStart:recentStart])

	trends := Trends{Increasing: []string{}, Decreasing: []string{}}
	for key, recentCount := range recent {
		olderCount := older[key]
		switch {
		case recentCount > olderCount:
			trends.Increasing = append(trends.Increasing, key)
		case recentCount < olderCount:
			trends.Decreasing = append(trends.Decreasing, key)
		}
	}
	sort.Strings(trends.Increasing)
	sort.Strings(trends.Decreasing)
	return trends
}

func (h *History) countWindow(ids []string) map[string]int {
	counts := make(map[string]int)
	for _, id := range ids {
		for _, p := range h.byMessage[id] {
			counts[string(p.Type)+"-"+p.Context]++
		}
	}
	return counts
}

// Summary totals one message's patterns by category and averages their
// confidence.
type Summary struct {
	TotalPatterns int
	Objections    int
	BuyingSignals int
	PainPoints    int
	Confidence    float64
}

// Summarize aggregates a pattern list into per-category counts.
func Summarize(patterns []model.DetectedPattern) Summary {
	s := Summary{TotalPatterns: len(patterns)}
	sum := 0.0
	for _, p := range patterns {
		sum += p.Confidence
		switch p.Type {
		case model.PatternObjection:
			s.Objections++
		case model.PatternBuyingSignal:
			s.BuyingSignals++
		case model.PatternPainPoint:
			s.PainPoints++
		}
	}
	if len(patterns) > 0 {
		s.Confidence = sum / float64(len(patterns))
	}
	return s
}
