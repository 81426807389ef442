package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

const createConversationsTableSQL = `
CREATE TABLE IF NOT EXISTS conversations (
	conversation_id TEXT NOT NULL,
	company_key TEXT NOT NULL,
	source_file TEXT NOT NULL,
	message_count INTEGER NOT NULL,
	overall_sentiment TEXT NOT NULL,
	engagement_score REAL NOT NULL,
	health_score REAL NOT NULL,
	current_stage TEXT NOT NULL,
	stage_confidence REAL NOT NULL,
	dominant_pattern TEXT NOT NULL,
	total_patterns INTEGER NOT NULL,
	raw_transcript TEXT NOT NULL,
	analyzed_at_utc TEXT NOT NULL,
	PRIMARY KEY (conversation_id)
)`

const createMessagesTableSQL = `
CREATE TABLE IF NOT EXISTS messages (
	conversation_id TEXT NOT NULL,
	block_id INTEGER NOT NULL,
	speaker TEXT NOT NULL,
	text TEXT NOT NULL,
	sentiment TEXT NOT NULL,
	engagement_score REAL NOT NULL,
	urgency_level TEXT NOT NULL,
	buying_intent REAL NOT NULL,
	PRIMARY KEY (conversation_id, block_id)
)`

const createPatternsTableSQL = `
CREATE TABLE IF NOT EXISTS patterns (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	block_id INTEGER NOT NULL,
	pattern_type TEXT NOT NULL,
	context TEXT NOT NULL,
	confidence REAL NOT NULL,
	description TEXT NOT NULL,
	keywords_json TEXT NOT NULL
)`

const createSuggestionsTableSQL = `
CREATE TABLE IF NOT EXISTS suggestions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	conversation_id TEXT NOT NULL,
	suggestion_id TEXT NOT NULL,
	framework TEXT NOT NULL,
	suggestion_type TEXT NOT NULL,
	content TEXT NOT NULL,
	confidence REAL NOT NULL,
	stage TEXT NOT NULL,
	context TEXT NOT NULL,
	reasoning TEXT NOT NULL
)`

const createRunLogsTableSQL = `
CREATE TABLE IF NOT EXISTS run_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at_utc TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	stage TEXT NOT NULL,
	status TEXT NOT NULL,
	message TEXT NOT NULL
)`

var createIndexesSQL = []string{
	`CREATE INDEX IF NOT EXISTS idx_conversations_company_key ON conversations(company_key)`,
	`CREATE INDEX IF NOT EXISTS idx_conversations_current_stage ON conversations(current_stage)`,
	`CREATE INDEX IF NOT EXISTS idx_patterns_conversation ON patterns(conversation_id, block_id)`,
	`CREATE INDEX IF NOT EXISTS idx_patterns_type ON patterns(pattern_type)`,
	`CREATE INDEX IF NOT EXISTS idx_suggestions_conversation ON suggestions(conversation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_run_logs_conversation ON run_logs(conversation_id)`,
	`CREATE INDEX IF NOT EXISTS idx_run_logs_status ON run_logs(status)`,
}

var dropTablesSQL = []string{
	`DROP TABLE IF EXISTS conversations`,
	`DROP TABLE IF EXISTS messages`,
	`DROP TABLE IF EXISTS patterns`,
	`DROP TABLE IF EXISTS suggestions`,
	`DROP TABLE IF EXISTS run_logs`,
}

var requiredColumns = map[string][]string{
	"conversations": {
		"conversation_id",
		"company_key",
		"source_file",
		"message_count",
		"overall_sentiment",
		"engagement_score",
		"health_score",
		"current_stage",
		"stage_confidence",
		"dominant_pattern",
		"total_patterns",
		"raw_transcript",
		"analyzed_at_utc",
	},
	"messages": {
		"conversation_id",
		"block_id",
		"speaker",
		"text",
		"sentiment",
		"engagement_score",
		"urgency_level",
		"buying_intent",
	},
	"patterns": {
		"id",
		"conversation_id",
		"block_id",
		"pattern_type",
		"context",
		"confidence",
		"description",
		"keywords_json",
	},
	"suggestions": {
		"id",
		"conversation_id",
		"suggestion_id",
		"framework",
		"suggestion_type",
		"content",
		"confidence",
		"stage",
		"context",
		"reasoning",
	},
	"run_logs": {
		"id",
		"created_at_utc",
		"conversation_id",
		"stage",
		"status",
		"message",
	},
}

var createTablesSQL = map[string]string{
	"conversations": createConversationsTableSQL,
	"messages":      createMessagesTableSQL,
	"patterns":      createPatternsTableSQL,
	"suggestions":   createSuggestionsTableSQL,
	"run_logs":      createRunLogsTableSQL,
}

func openSQLite(dbPath string) (*sql.DB, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("db path is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

func ensureSchema(db *sql.DB) error {
	tables := make([]string, 0, len(createTablesSQL))
	for table := range createTablesSQL {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		if _, err := db.Exec(createTablesSQL[table]); err != nil {
			return fmt.Errorf("create %s table: %w", table, err)
		}
		missing, err := missingColumns(db, table, requiredColumns[table])
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return fmt.Errorf(
				"incompatible %s schema, missing columns: %s; run `salescoach setup --db <path>`",
				table,
				strings.Join(missing, ", "),
			)
		}
	}
	for _, stmt := range createIndexesSQL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

func missingColumns(db *sql.DB, table string, required []string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return nil, fmt.Errorf("inspect %s schema: %w", table, err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var cid int
		var name string
		var colType string
		var notNull int
		var defaultValue sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, fmt.Errorf("scan %s schema: %w", table, err)
		}
		existing[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s schema: %w", table, err)
	}

	var missing []string
	for _, col := range required {
		if _, ok := existing[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing, nil
}

// Setup drops any existing tables and recreates the schema from scratch.
func Setup(dbPath string) error {
	if strings.TrimSpace(dbPath) == "" {
		return fmt.Errorf("db path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}

	db, err := openSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, stmt := range dropTablesSQL {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return ensureSchema(db)
}
