package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// panelFile mirrors the snapshot layout: column-major data over a Date
// index, plus the column order so the frame rebuilds deterministically.
type panelFile struct {
	Symbol        string               `json:"symbol"`
	CalculatedAt  time.Time            `json:"calculated_at"`
	Rows          int                  `json:"rows"`
	TotalFeatures int                  `json:"total_features"`
	Columns       []string             `json:"columns"`
	Dates         []string             `json:"Date"`
	Data          map[string][]float64 `json:"features"`
}

// FSPanelStore keeps one indicator panel file per symbol. Overwrites on
// every save; panels are derived data and carry no history.
type FSPanelStore struct {
	dir    string
	logger *applogger.Logger
}

// NewFSPanelStore creates the store and its directory.
func NewFSPanelStore(dataDir string, logger *applogger.Logger) (*FSPanelStore, error) {
	dir := filepath.Join(dataDir, "features")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create features dir: %w", err)
	}
	return &FSPanelStore{dir: dir, logger: logger}, nil
}

func (s *FSPanelStore) path(symbol string) string {
	return filepath.Join(s.dir, sanitizeSymbol(symbol)+"_features.json")
}

// Save replaces the persisted panel for the symbol.
func (s *FSPanelStore) Save(_ context.Context, panel *models.IndicatorPanel) error {
	frame := panel.Frame
	file := panelFile{
		Symbol:        panel.Symbol,
		CalculatedAt:  panel.CalculatedAt,
		Rows:          frame.Len(),
		TotalFeatures: len(frame.Names()),
		Columns:       frame.Names(),
		Dates:         make([]string, frame.Len()),
		Data:          make(map[string][]float64, len(frame.Names())),
	}
	for i, d := range frame.Dates() {
		file.Dates[i] = util.DayString(d)
	}
	for _, name := range frame.Names() {
		col, _ := frame.Column(name)
		file.Data[name] = col
	}

	if err := writeFileAtomic(s.path(panel.Symbol), &file); err != nil {
		return fmt.Errorf("%w: panel %s: %v", models.ErrPersistence, panel.Symbol, err)
	}
	s.logger.Debug("panel saved",
		applogger.String("symbol", panel.Symbol),
		applogger.Int("rows", frame.Len()),
		applogger.Int("columns", len(frame.Names())),
	)
	return nil
}

// Load reads the persisted panel for a symbol.
func (s *FSPanelStore) Load(_ context.Context, symbol string) (*models.IndicatorPanel, error) {
	raw, err := os.ReadFile(s.path(symbol))
	if err != nil {
		return nil, fmt.Errorf("read panel %s: %w", symbol, err)
	}

	var file panelFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode panel %s: %w", symbol, err)
	}

	dates := make([]time.Time, len(file.Dates))
	for i, day := range file.Dates {
		d, ok := util.ParseDay(day)
		if !ok {
			return nil, fmt.Errorf("decode panel %s: bad date %q", symbol, day)
		}
		dates[i] = d
	}

	frame := models.NewFrame(dates)
	for _, name := range file.Columns {
		col, ok := file.Data[name]
		if !ok {
			return nil, fmt.Errorf("decode panel %s: missing column %q", symbol, name)
		}
		if err := frame.SetColumn(name, col); err != nil {
			return nil, fmt.Errorf("decode panel %s: %w", symbol, err)
		}
	}

	return &models.IndicatorPanel{
		Symbol:       file.Symbol,
		CalculatedAt: file.CalculatedAt,
		Frame:        frame,
	}, nil
}
