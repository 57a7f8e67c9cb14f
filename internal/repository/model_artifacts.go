package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
)

// artifactNames are the files a trained model set consists of, per symbol
// and horizon. Training here only reserves the slots; the files stay empty
// until a real trainer fills them.
var artifactNames = []string{
	"random_forest.pkl",
	"lightgbm.pkl",
	"xgboost.pkl",
	"dqn_agent.pt",
	"features.pkl",
	"scaler.pkl",
	"dqn_features.pkl",
}

// FSModelStore manages placeholder model artifacts on disk.
type FSModelStore struct {
	dir    string
	logger *applogger.Logger
}

// NewFSModelStore creates the store and its directory.
func NewFSModelStore(dataDir string, logger *applogger.Logger) (*FSModelStore, error) {
	dir := filepath.Join(filepath.Dir(strings.TrimRight(dataDir, "/")), "models")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create models dir: %w", err)
	}
	return &FSModelStore{dir: dir, logger: logger}, nil
}

func (s *FSModelStore) artifactPath(symbol string, horizon models.Horizon, name string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_%s", sanitizeSymbol(symbol), horizon, name))
}

// CreatePlaceholders creates any missing artifact files for the pair and
// returns how many were created.
func (s *FSModelStore) CreatePlaceholders(symbol string, horizon models.Horizon) (int, error) {
	created := 0
	for _, name := range artifactNames {
		path := s.artifactPath(symbol, horizon, name)
		if _, err := os.Stat(path); err == nil {
			continue
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return created, fmt.Errorf("%w: model artifact %s: %v", models.ErrPersistence, path, err)
		}
		f.Close()
		created++
	}
	s.logger.Debug("model placeholders ensured",
		applogger.String("symbol", symbol),
		applogger.String("horizon", string(horizon)),
		applogger.Int("created", created),
	)
	return created, nil
}

// Count returns the number of artifact files present.
func (s *FSModelStore) Count() int {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}

// Exists reports whether one named artifact is present for the pair.
func (s *FSModelStore) Exists(symbol string, horizon models.Horizon, name string) bool {
	_, err := os.Stat(s.artifactPath(symbol, horizon, name))
	return err == nil
}
