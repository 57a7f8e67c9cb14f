package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/util"
)

// snapshotFile is the on-disk shape of a price history snapshot. Bars are
// stored column-major, one array per field, sharing the Date index.
type snapshotFile struct {
	Symbol    string            `json:"symbol"`
	Source    models.DataSource `json:"data_source"`
	FetchedAt time.Time         `json:"fetched_at"`
	Rows      int               `json:"rows"`
	Data      snapshotColumns   `json:"data"`
}

type snapshotColumns struct {
	Date      []string  `json:"Date"`
	Open      []float64 `json:"Open"`
	High      []float64 `json:"High"`
	Low       []float64 `json:"Low"`
	Close     []float64 `json:"Close"`
	Volume    []int64   `json:"Volume"`
	Dividends []float64 `json:"Dividends"`
	Splits    []float64 `json:"Stock Splits"`
}

// FSSnapshotStore keeps one history file per symbol under a cache
// directory. Writes stage a temp file in the same directory and rename it
// over the previous entry, so readers never see a partial snapshot.
type FSSnapshotStore struct {
	dir    string
	logger *applogger.Logger
}

// NewFSSnapshotStore creates the store and its directory.
func NewFSSnapshotStore(dataDir string, logger *applogger.Logger) (*FSSnapshotStore, error) {
	dir := filepath.Join(dataDir, "cache")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FSSnapshotStore{dir: dir, logger: logger}, nil
}

func (s *FSSnapshotStore) path(symbol string) string {
	return filepath.Join(s.dir, sanitizeSymbol(symbol)+"_history.json")
}

// Save replaces the cached history for the snapshot's symbol.
func (s *FSSnapshotStore) Save(_ context.Context, snap *models.PriceHistorySnapshot) error {
	file := snapshotFile{
		Symbol:    snap.Symbol,
		Source:    snap.Source,
		FetchedAt: snap.FetchedAt,
		Rows:      len(snap.Bars),
		Data: snapshotColumns{
			Date:      make([]string, len(snap.Bars)),
			Open:      make([]float64, len(snap.Bars)),
			High:      make([]float64, len(snap.Bars)),
			Low:       make([]float64, len(snap.Bars)),
			Close:     make([]float64, len(snap.Bars)),
			Volume:    make([]int64, len(snap.Bars)),
			Dividends: make([]float64, len(snap.Bars)),
			Splits:    make([]float64, len(snap.Bars)),
		},
	}
	for i, b := range snap.Bars {
		file.Data.Date[i] = util.DayString(b.Date)
		file.Data.Open[i] = b.Open
		file.Data.High[i] = b.High
		file.Data.Low[i] = b.Low
		file.Data.Close[i] = b.Close
		file.Data.Volume[i] = b.Volume
		file.Data.Dividends[i] = b.Dividends
		file.Data.Splits[i] = b.Splits
	}

	if err := writeFileAtomic(s.path(snap.Symbol), &file); err != nil {
		return fmt.Errorf("%w: snapshot %s: %v", models.ErrPersistence, snap.Symbol, err)
	}
	s.logger.Debug("snapshot saved",
		applogger.String("symbol", snap.Symbol),
		applogger.Int("bars", len(snap.Bars)),
	)
	return nil
}

// Load reads the cached history for a symbol. Missing files surface as a
// wrapped os.ErrNotExist.
func (s *FSSnapshotStore) Load(_ context.Context, symbol string) (*models.PriceHistorySnapshot, error) {
	raw, err := os.ReadFile(s.path(symbol))
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", symbol, err)
	}

	var file snapshotFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", symbol, err)
	}

	snap := &models.PriceHistorySnapshot{
		Symbol:    file.Symbol,
		Source:    models.SourceCached,
		FetchedAt: file.FetchedAt,
		Bars:      make([]models.PriceBar, len(file.Data.Date)),
	}
	for i, day := range file.Data.Date {
		d, ok := util.ParseDay(day)
		if !ok {
			return nil, fmt.Errorf("decode snapshot %s: bad date %q", symbol, day)
		}
		snap.Bars[i] = models.PriceBar{
			Date:      d,
			Open:      file.Data.Open[i],
			High:      file.Data.High[i],
			Low:       file.Data.Low[i],
			Close:     file.Data.Close[i],
			Volume:    file.Data.Volume[i],
			Dividends: file.Data.Dividends[i],
			Splits:    file.Data.Splits[i],
		}
	}
	return snap, nil
}

func sanitizeSymbol(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '.', ' ':
			return '_'
		}
		return r
	}, s)
	return s
}

// writeFileAtomic marshals v and renames a same-directory temp file over
// the target path.
func writeFileAtomic(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
