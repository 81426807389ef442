// Package store persists analyzed conversations to SQLite.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tetraminz/sales_coach/internal/model"
)

const insertConversationSQL = `
INSERT INTO conversations (
	conversation_id,
	company_key,
	source_file,
	message_count,
	overall_sentiment,
	engagement_score,
	health_score,
	current_stage,
	stage_confidence,
	dominant_pattern,
	total_patterns,
	raw_transcript,
	analyzed_at_utc
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertMessageSQL = `
INSERT INTO messages (
	conversation_id,
	block_id,
	speaker,
	text,
	sentiment,
	engagement_score,
	urgency_level,
	buying_intent
) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

const insertPatternSQL = `
INSERT INTO patterns (
	conversation_id,
	block_id,
	pattern_type,
	context,
	confidence,
	description,
	keywords_json
) VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertSuggestionSQL = `
INSERT INTO suggestions (
	conversation_id,
	suggestion_id,
	framework,
	suggestion_type,
	content,
	confidence,
	stage,
	context,
	reasoning
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Store wraps the SQLite handle used by the analyze and report commands.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and verifies
// the schema.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := openSQLite(dbPath)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ConversationRecord is the per-conversation summary row.
type ConversationRecord struct {
	ConversationID   string
	CompanyKey       string
	SourceFile       string
	MessageCount     int
	OverallSentiment string
	EngagementScore  float64
	HealthScore      float64
	CurrentStage     string
	StageConfidence  float64
	DominantPattern  string
	TotalPatterns    int
	RawTranscript    string
	AnalyzedAtUTC    string
}

// SaveConversation replaces all persisted rows for one conversation in a
// single transaction: the summary row, every message with its analysis,
// every detected pattern, and the suggestions produced for it.
func (s *Store) SaveConversation(rec ConversationRecord, messages []model.Message, suggestions []model.PlaybookSuggestion) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"conversations", "messages", "patterns", "suggestions"} {
		if _, err := tx.Exec(fmt.Sprintf(`DELETE FROM %s WHERE conversation_id = ?`, table), rec.ConversationID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if rec.AnalyzedAtUTC == "" {
		rec.AnalyzedAtUTC = time.Now().UTC().Format(time.RFC3339)
	}
	if _, err := tx.Exec(
		insertConversationSQL,
		rec.ConversationID,
		rec.CompanyKey,
		rec.SourceFile,
		rec.MessageCount,
		rec.OverallSentiment,
		rec.EngagementScore,
		rec.HealthScore,
		rec.CurrentStage,
		rec.StageConfidence,
		rec.DominantPattern,
		rec.TotalPatterns,
		rec.RawTranscript,
		rec.AnalyzedAtUTC,
	); err != nil {
		return fmt.Errorf("insert conversation: %w", err)
	}

	msgStmt, err := tx.Prepare(insertMessageSQL)
	if err != nil {
		return fmt.Errorf("prepare insert message: %w", err)
	}
	defer msgStmt.Close()
	patternStmt, err := tx.Prepare(insertPatternSQL)
	if err != nil {
		return fmt.Errorf("prepare insert pattern: %w", err)
	}
	defer patternStmt.Close()

	for i, msg := range messages {
		blockID := i + 1
		analysis := msg.Analysis
		if analysis == nil {
			analysis = &model.AIAnalysis{Sentiment: model.SentimentNeutral, UrgencyLevel: model.UrgencyLow}
		}
		if _, err := msgStmt.Exec(
			rec.ConversationID,
			blockID,
			string(msg.Speaker),
			msg.Content,
			analysis.Sentiment,
			analysis.EngagementScore,
			analysis.UrgencyLevel,
			analysis.BuyingIntent,
		); err != nil {
			return fmt.Errorf("insert message: %w", err)
		}

		for _, pattern := range msg.Patterns {
			keywordsJSON := "[]"
			if payload, err := json.Marshal(pattern.Keywords); err == nil {
				keywordsJSON = string(payload)
			}
			if _, err := patternStmt.Exec(
				rec.ConversationID,
				blockID,
				string(pattern.Type),
				pattern.Context,
				pattern.Confidence,
				pattern.Description,
				keywordsJSON,
			); err != nil {
				return fmt.Errorf("insert pattern: %w", err)
			}
		}
	}

	suggestionStmt, err := tx.Prepare(insertSuggestionSQL)
	if err != nil {
		return fmt.Errorf("prepare insert suggestion: %w", err)
	}
	defer suggestionStmt.Close()

	for _, suggestion := range suggestions {
		if _, err := suggestionStmt.Exec(
			rec.ConversationID,
			suggestion.ID,
			suggestion.Framework,
			string(suggestion.Type),
			suggestion.Content,
			suggestion.Confidence,
			suggestion.Stage,
			suggestion.Context,
			suggestion.Reasoning,
		); err != nil {
			return fmt.Errorf("insert suggestion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit conversation: %w", err)
	}
	return nil
}

// ListConversations returns all summary rows ordered by conversation id.
func (s *Store) ListConversations() ([]ConversationRecord, error) {
	rows, err := s.db.Query(`
		SELECT conversation_id, company_key, source_file, message_count,
			overall_sentiment, engagement_score, health_score,
			current_stage, stage_confidence, dominant_pattern,
			total_patterns, raw_transcript, analyzed_at_utc
		FROM conversations
		ORDER BY conversation_id`)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var records []ConversationRecord
	for rows.Next() {
		var rec ConversationRecord
		if err := rows.Scan(
			&rec.ConversationID,
			&rec.CompanyKey,
			&rec.SourceFile,
			&rec.MessageCount,
			&rec.OverallSentiment,
			&rec.EngagementScore,
			&rec.HealthScore,
			&rec.CurrentStage,
			&rec.StageConfidence,
			&rec.DominantPattern,
			&rec.TotalPatterns,
			&rec.RawTranscript,
			&rec.AnalyzedAtUTC,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}
	return records, nil
}

// TypeCount is one aggregation bucket keyed by a text column.
type TypeCount struct {
	Key           string
	Count         int
	AvgConfidence float64
}

// PatternCounts aggregates stored patterns by type, most frequent first.
func (s *Store) PatternCounts() ([]TypeCount, error) {
	return s.typeCounts(`
		SELECT pattern_type, COUNT(*), AVG(confidence)
		FROM patterns
		GROUP BY pattern_type
		ORDER BY COUNT(*) DESC, pattern_type`)
}

// FrameworkCounts aggregates stored suggestions by framework.
func (s *Store) FrameworkCounts() ([]TypeCount, error) {
	return s.typeCounts(`
		SELECT framework, COUNT(*), AVG(confidence)
		FROM suggestions
		GROUP BY framework
		ORDER BY COUNT(*) DESC, framework`)
}

// StageCounts aggregates conversations by their inferred current stage.
func (s *Store) StageCounts() ([]TypeCount, error) {
	return s.typeCounts(`
		SELECT current_stage, COUNT(*), AVG(stage_confidence)
		FROM conversations
		GROUP BY current_stage
		ORDER BY COUNT(*) DESC, current_stage`)
}

func (s *Store) typeCounts(query string) ([]TypeCount, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	var counts []TypeCount
	for rows.Next() {
		var c TypeCount
		if err := rows.Scan(&c.Key, &c.Count, &c.AvgConfidence); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}
