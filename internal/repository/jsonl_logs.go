package repository

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"StockPulse/internal/domain/models"
)

// appendLine writes one JSON document plus newline with O_APPEND, so
// concurrent appenders interleave whole lines.
func appendLine(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// JSONLDecisionLog is the append-only prediction log, one JSON document
// per line. Never read back by the service; it exists for audit.
type JSONLDecisionLog struct {
	mu   sync.Mutex
	path string
}

// NewJSONLDecisionLog creates the log under dataDir/logs.
func NewJSONLDecisionLog(dataDir string) (*JSONLDecisionLog, error) {
	dir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	return &JSONLDecisionLog{path: filepath.Join(dir, "predictions.jsonl")}, nil
}

// Append writes one decision to the log.
func (l *JSONLDecisionLog) Append(_ context.Context, d *models.Decision) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := appendLine(l.path, d); err != nil {
		return fmt.Errorf("%w: decision log: %v", models.ErrPersistence, err)
	}
	return nil
}

// JSONLFeedbackLog is the append-only feedback ledger.
type JSONLFeedbackLog struct {
	mu   sync.Mutex
	path string
}

// NewJSONLFeedbackLog creates the ledger under dataDir/logs.
func NewJSONLFeedbackLog(dataDir string) (*JSONLFeedbackLog, error) {
	dir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create logs dir: %w", err)
	}
	return &JSONLFeedbackLog{path: filepath.Join(dir, "feedback.jsonl")}, nil
}

// Append writes one feedback record to the ledger.
func (l *JSONLFeedbackLog) Append(_ context.Context, rec *models.FeedbackRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := appendLine(l.path, rec); err != nil {
		return fmt.Errorf("%w: feedback log: %v", models.ErrPersistence, err)
	}
	return nil
}

// All reads every record in insertion order. Malformed lines are skipped
// rather than failing the whole read.
func (l *JSONLFeedbackLog) All(_ context.Context) ([]models.FeedbackRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open feedback log: %w", err)
	}
	defer f.Close()

	var out []models.FeedbackRecord
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec models.FeedbackRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan feedback log: %w", err)
	}
	return out, nil
}
