package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tetraminz/sales_coach/internal/analyzer"
	"github.com/tetraminz/sales_coach/internal/dataset"
	"github.com/tetraminz/sales_coach/internal/detect"
	"github.com/tetraminz/sales_coach/internal/model"
	"github.com/tetraminz/sales_coach/internal/playbook"
	"github.com/tetraminz/sales_coach/internal/store"
)

// AnalyzeConfig drives one analyze run over a directory of transcripts.
type AnalyzeConfig struct {
	InputDir     string
	DBPath       string
	FilterPrefix string
	Limit        int
	TrustSpeaker bool
}

func runAnalyze(ctx context.Context, cfg AnalyzeConfig, logger zerolog.Logger) error {
	conversations, err := dataset.LoadConversations(cfg.InputDir, cfg.FilterPrefix, cfg.Limit)
	if err != nil {
		return err
	}
	if len(conversations) == 0 {
		return fmt.Errorf("no CSV conversations matched the current filters")
	}

	s, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	runLog := store.NewRunLogger(s)
	defer runLog.Flush()

	logger.Info().
		Int("conversations", len(conversations)).
		Str("db", cfg.DBPath).
		Msg("analyze_start")
	runLog.Write("", "pipeline", "info", fmt.Sprintf("analyze_start conversations=%d", len(conversations)))

	for _, conversation := range conversations {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := analyzeConversation(conversation, s, runLog, logger, cfg.TrustSpeaker); err != nil {
			runLog.Write(conversation.ConversationID, "pipeline", "error", fmt.Sprintf("conversation_failed reason=%v", err))
			return fmt.Errorf("analyze %s: %w", conversation.ConversationID, err)
		}
	}

	logger.Info().Int("conversations", len(conversations)).Msg("analyze_done")
	runLog.Write("", "pipeline", "info", fmt.Sprintf("analyze_done conversations=%d", len(conversations)))
	return nil
}

func analyzeConversation(conversation dataset.Conversation, s *store.Store, runLog *store.RunLogger, logger zerolog.Logger, trustSpeaker bool) error {
	blocks := conversation.Blocks()

	messages := make([]model.Message, 0, len(blocks))
	history := detect.NewHistory()
	previous := model.Role("")
	hintMatches := 0
	hintTotal := 0

	for _, block := range blocks {
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}

		speaker := detect.ClassifySpeaker(text, previous)
		if block.SpeakerHint != "" {
			hintTotal++
			if speaker == block.SpeakerHint {
				hintMatches++
			}
			if trustSpeaker {
				speaker = block.SpeakerHint
			}
		}
		previous = speaker

		msg := model.Message{
			ID:        uuid.NewString(),
			Content:   text,
			Speaker:   speaker,
			Timestamp: time.Now().UTC(),
			Patterns:  detect.Patterns(text, speaker),
		}
		analysis := analyzer.AnalyzeMessage(msg)
		msg.Analysis = &analysis
		history.Record(msg.ID, msg.Patterns)
		messages = append(messages, msg)
	}

	analysis := analyzer.Analyze(messages)
	suggestions := buildSuggestions(messages, analysis)

	rec := store.ConversationRecord{
		ConversationID:   conversation.ConversationID,
		CompanyKey:       conversation.CompanyKey,
		SourceFile:       conversation.SourceFile,
		MessageCount:     len(messages),
		OverallSentiment: analysis.OverallSentiment,
		EngagementScore:  analysis.EngagementScore,
		HealthScore:      analysis.Health.Score,
		CurrentStage:     analysis.StageProgression.CurrentStage,
		StageConfidence:  analysis.StageProgression.StageConfidence,
		DominantPattern:  analysis.PatternSummary.DominantPattern,
		TotalPatterns:    analysis.PatternSummary.TotalPatterns,
		RawTranscript:    conversation.Transcript(),
	}
	if err := s.SaveConversation(rec, messages, suggestions); err != nil {
		return err
	}

	trends := history.Trends()
	metrics := analyzer.Metrics(messages)
	logger.Info().
		Str("conversation", conversation.ConversationID).
		Int("messages", len(messages)).
		Int("patterns", analysis.PatternSummary.TotalPatterns).
		Str("stage", analysis.StageProgression.CurrentStage).
		Float64("health", analysis.Health.Score).
		Float64("rep_talk_pct", metrics.RepTalkTimePct).
		Int("hint_matches", hintMatches).
		Int("hint_total", hintTotal).
		Strs("rising_patterns", trends.Increasing).
		Msg("conversation_done")
	runLog.Write(
		conversation.ConversationID,
		"pipeline",
		"info",
		fmt.Sprintf(
			"conversation_done messages=%d patterns=%d stage=%s health=%.2f hint_match=%d/%d",
			len(messages),
			analysis.PatternSummary.TotalPatterns,
			analysis.StageProgression.CurrentStage,
			analysis.Health.Score,
			hintMatches,
			hintTotal,
		),
	)
	return nil
}

// buildSuggestions runs the playbook engine over every detected pattern,
// then appends targeted rebuttals for the strongest objection if one was
// found.
func buildSuggestions(messages []model.Message, analysis model.AnalysisReport) []model.PlaybookSuggestion {
	var patterns []model.DetectedPattern
	contextTexts := make([]string, 0, len(messages))
	var topObjection *model.DetectedPattern

	for _, msg := range messages {
		contextTexts = append(contextTexts, msg.Content)
		for _, p := range msg.Patterns {
			patterns = append(patterns, p)
			if p.Type == model.PatternObjection && (topObjection == nil || p.Confidence > topObjection.Confidence) {
				objection := p
				topObjection = &objection
			}
		}
	}

	suggestions := playbook.GenerateSuggestions(patterns, analysis.StageProgression.CurrentStage, contextTexts)
	if topObjection != nil {
		suggestions = append(suggestions, playbook.ObjectionResponses(*topObjection)...)
	}
	return suggestions
}
