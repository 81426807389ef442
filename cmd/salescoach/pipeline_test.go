package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tetraminz/sales_coach/internal/dataset"
	"github.com/tetraminz/sales_coach/internal/model"
	"github.com/tetraminz/sales_coach/internal/store"
)

func testConversation() dataset.Conversation {
	return dataset.Conversation{
		ConversationID: "acme__0_transcript",
		CompanyKey:     "acme",
		SourceFile:     "data/acme__0_transcript.csv",
		Turns: []dataset.Turn{
			{TurnID: 0, Speaker: "Sales Rep", Text: "Thanks for taking the time today. What challenges are you facing with your current process?"},
			{TurnID: 1, Speaker: "Customer", Text: "We're struggling with manual data entry and it's a major bottleneck for our team."},
			{TurnID: 2, Speaker: "Sales Rep", Text: "I appreciate you sharing that. How does this affect your revenue?"},
			{TurnID: 3, Speaker: "Customer", Text: "Honestly it's too expensive to keep hiring people. We don't have the budget for more headcount."},
			{TurnID: 4, Speaker: "Customer", Text: ""},
		},
	}
}

func TestAnalyzeConversation_PersistsRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "coach.db")
	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	runLog := store.NewRunLogger(s)
	if err := analyzeConversation(testConversation(), s, runLog, zerolog.Nop(), false); err != nil {
		t.Fatalf("analyze conversation: %v", err)
	}
	if err := runLog.Flush(); err != nil {
		t.Fatalf("flush run log: %v", err)
	}

	records, err := s.ListConversations()
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records=%d want 1", len(records))
	}

	rec := records[0]
	if rec.ConversationID != "acme__0_transcript" {
		t.Fatalf("conversation id=%q", rec.ConversationID)
	}
	if rec.MessageCount != 4 {
		t.Fatalf("message_count=%d want 4 (empty turn skipped)", rec.MessageCount)
	}
	if rec.TotalPatterns == 0 {
		t.Fatalf("expected detected patterns, got none")
	}
	if rec.CurrentStage == "" {
		t.Fatalf("expected inferred stage")
	}
	if rec.HealthScore < 0 || rec.HealthScore > 1 {
		t.Fatalf("health score out of range: %v", rec.HealthScore)
	}
	if rec.RawTranscript != testConversation().Transcript() {
		t.Fatalf("raw transcript mismatch: got %q", rec.RawTranscript)
	}

	counts, err := s.PatternCounts()
	if err != nil {
		t.Fatalf("pattern counts: %v", err)
	}
	if len(counts) == 0 {
		t.Fatalf("expected pattern rows")
	}
}

func TestBuildSuggestions_AppendsObjectionRebuttals(t *testing.T) {
	messages := []model.Message{
		{
			Content: "That's too expensive for our budget",
			Speaker: model.RoleProspect,
			Patterns: []model.DetectedPattern{
				{
					Type:        model.PatternObjection,
					Confidence:  0.9,
					Description: "budget objection: \"too expensive\"",
					Keywords:    []string{"too expensive"},
					Context:     "budget",
				},
			},
		},
	}
	analysis := model.AnalysisReport{
		StageProgression: model.StageProgression{CurrentStage: model.StageObjectionHandling},
	}

	suggestions := buildSuggestions(messages, analysis)
	if len(suggestions) == 0 {
		t.Fatalf("expected suggestions")
	}

	rebuttals := 0
	for _, suggestion := range suggestions {
		if suggestion.Type == model.SuggestionObjectionHandler {
			rebuttals++
		}
	}
	if rebuttals != 3 {
		t.Fatalf("objection rebuttals=%d want 3", rebuttals)
	}
}

func TestRunAnalyze_EndToEnd(t *testing.T) {
	tempDir := t.TempDir()
	inputDir := filepath.Join(tempDir, "in")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	content := "" +
		"Conversation,Chunk_id,Speaker,Text\n" +
		"acme__0,0,Sales Rep,What challenges are you facing with your current workflow?\n" +
		"acme__0,1,Customer,We're frustrated with how time consuming our reporting is.\n" +
		"acme__0,2,Sales Rep,Let me show you how our solution handles that.\n" +
		"acme__0,3,Customer,When can we start? What's the price?\n"
	if err := os.WriteFile(filepath.Join(inputDir, "acme__0.csv"), []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	dbPath := filepath.Join(tempDir, "coach.db")
	cfg := AnalyzeConfig{InputDir: inputDir, DBPath: dbPath}
	if err := runAnalyze(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("run analyze: %v", err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer s.Close()

	records, err := s.ListConversations()
	if err != nil {
		t.Fatalf("list conversations: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records=%d want 1", len(records))
	}
}
