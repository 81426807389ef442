package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/tetraminz/sales_coach/internal/dataset"
	"github.com/tetraminz/sales_coach/internal/store"
)

// debounce window: chunked CSV files are written in several bursts, so a
// freshly changed file is analyzed only after it has been quiet for this
// long.
const watchSettleDelay = 500 * time.Millisecond

// runWatch analyzes CSV files as they appear or change in inputDir, until
// the context is cancelled.
func runWatch(ctx context.Context, inputDir, dbPath string, logger zerolog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inputDir); err != nil {
		return fmt.Errorf("watch %q: %w", inputDir, err)
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info().Str("input_dir", inputDir).Str("db", dbPath).Msg("watch_start")

	pending := map[string]time.Time{}
	ticker := time.NewTicker(watchSettleDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("watch_stopped")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".csv") {
				continue
			}
			pending[event.Name] = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch_error")
		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < watchSettleDelay {
					continue
				}
				delete(pending, path)
				if err := analyzeWatchedFile(path, s, logger); err != nil {
					logger.Error().Err(err).Str("path", path).Msg("file_failed")
				}
			}
		}
	}
}

func analyzeWatchedFile(path string, s *store.Store, logger zerolog.Logger) error {
	conversation, err := dataset.LoadConversationFile(path)
	if err != nil {
		return err
	}

	runLog := store.NewRunLogger(s)
	defer runLog.Flush()

	if err := analyzeConversation(conversation, s, runLog, logger, false); err != nil {
		runLog.Write(conversation.ConversationID, "watch", "error", fmt.Sprintf("conversation_failed reason=%v", err))
		return err
	}
	return nil
}
