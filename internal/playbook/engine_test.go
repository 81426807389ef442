package playbook

import (
	"strings"
	"testing"

	"github.com/tetraminz/sales_coach/internal/model"
)

func budgetObjection() model.DetectedPattern {
	return model.DetectedPattern{
		Type:        model.PatternObjection,
		Confidence:  0.9,
		Description: "budget objection: \"too expensive\"",
		Keywords:    []string{"too expensive", "too expensive"},
		Context:     "budget",
	}
}

func TestGenerateSuggestions_CapsAtSix(t *testing.T) {
	patterns := []model.DetectedPattern{
		budgetObjection(),
		{
			Type:        model.PatternPainPoint,
			Confidence:  0.85,
			Description: "operational pain: \"struggling\"",
			Keywords:    []string{"struggling"},
			Context:     "operational",
		},
	}
	contextTexts := []string{
		"We're struggling with our process and it's too expensive to fix",
		"The problem keeps costing us money",
	}

	suggestions := GenerateSuggestions(patterns, model.StageObjectionHandling, contextTexts)
	if len(suggestions) == 0 {
		t.Fatalf("expected suggestions")
	}
	if len(suggestions) > 6 {
		t.Fatalf("suggestions=%d want <= 6", len(suggestions))
	}
}

func TestGenerateSuggestions_SortedByConfidenceDesc(t *testing.T) {
	patterns := []model.DetectedPattern{budgetObjection()}
	contextTexts := []string{"That's too expensive, it costs too much for our budget"}

	suggestions := GenerateSuggestions(patterns, model.StageObjectionHandling, contextTexts)
	for i := 1; i < len(suggestions); i++ {
		if suggestions[i].Confidence > suggestions[i-1].Confidence {
			t.Fatalf("not sorted at %d: %v then %v", i, suggestions[i-1].Confidence, suggestions[i].Confidence)
		}
	}
}

func TestGenerateSuggestions_WeakSignalYieldsNothing(t *testing.T) {
	suggestions := GenerateSuggestions(nil, model.StageDiscoverySurface, []string{"hello there"})
	if len(suggestions) != 0 {
		t.Fatalf("suggestions=%d want 0 below relevance cutoff", len(suggestions))
	}
}

func TestGenerateSuggestions_ReasoningNamesPatternTypes(t *testing.T) {
	patterns := []model.DetectedPattern{budgetObjection()}
	contextTexts := []string{"That's too expensive, it costs too much for our budget"}

	suggestions := GenerateSuggestions(patterns, model.StageObjectionHandling, contextTexts)
	if len(suggestions) == 0 {
		t.Fatalf("expected suggestions")
	}

	foundQuestion := false
	for _, s := range suggestions {
		if s.Type == model.SuggestionQuestion {
			foundQuestion = true
			if s.Reasoning != "Based on detected objection patterns" {
				t.Fatalf("reasoning=%q", s.Reasoning)
			}
		}
		if s.Type == model.SuggestionResponse && !strings.HasPrefix(s.Reasoning, "Appropriate response for ") {
			t.Fatalf("response reasoning=%q", s.Reasoning)
		}
	}
	if !foundQuestion {
		t.Fatalf("no question suggestions in %+v", suggestions)
	}
}

func TestGenerateSuggestions_ResponseDiscount(t *testing.T) {
	patterns := []model.DetectedPattern{budgetObjection()}
	contextTexts := []string{"That's too expensive, it costs too much for our budget"}

	suggestions := GenerateSuggestions(patterns, model.StageObjectionHandling, contextTexts)

	byTechnique := map[string][]model.PlaybookSuggestion{}
	for _, s := range suggestions {
		byTechnique[s.Context] = append(byTechnique[s.Context], s)
	}
	for _, group := range byTechnique {
		var question, response *model.PlaybookSuggestion
		for i := range group {
			switch group[i].Type {
			case model.SuggestionQuestion:
				question = &group[i]
			case model.SuggestionResponse:
				response = &group[i]
			}
		}
		if question != nil && response != nil {
			want := question.Confidence * 0.9
			if diff := response.Confidence - want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("response confidence=%v want %v", response.Confidence, want)
			}
		}
	}
}

func TestGenerateSuggestions_IDFormat(t *testing.T) {
	patterns := []model.DetectedPattern{budgetObjection()}
	contextTexts := []string{"That's too expensive, it costs too much for our budget"}

	suggestions := GenerateSuggestions(patterns, model.StageObjectionHandling, contextTexts)
	seen := map[string]bool{}
	for _, s := range suggestions {
		if s.ID == "" {
			t.Fatalf("empty suggestion id")
		}
		if seen[s.ID] {
			t.Fatalf("duplicate suggestion id %q", s.ID)
		}
		seen[s.ID] = true
		if parts := strings.SplitN(s.ID, "-", 3); len(parts) != 3 {
			t.Fatalf("id %q lacks framework-technique-kind segments", s.ID)
		}
	}
}

func TestFrameworks_CatalogComplete(t *testing.T) {
	names := map[string]bool{}
	for _, f := range Frameworks() {
		names[f.Name] = true
		if len(f.Techniques) == 0 {
			t.Fatalf("framework %q has no techniques", f.Name)
		}
		for _, technique := range f.Techniques {
			if len(technique.Triggers) == 0 {
				t.Fatalf("technique %q has no triggers", technique.Name)
			}
		}
	}
	for _, want := range []string{"Sandler", "SPIN", "MEDDIC", "Challenger"} {
		if !names[want] {
			t.Fatalf("missing framework %q (have %v)", want, names)
		}
	}
}

func TestFrameworkByName(t *testing.T) {
	if _, ok := FrameworkByName("SPIN"); !ok {
		t.Fatalf("SPIN not found")
	}
	if _, ok := FrameworkByName("nonexistent"); ok {
		t.Fatalf("unexpected framework match")
	}
}
