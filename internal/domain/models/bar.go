package models

import "time"

// DataSource identifies where a price history snapshot came from.
type DataSource string

const (
	SourcePrimary DataSource = "primary"
	SourceCached  DataSource = "cached"
)

// PriceBar is one OHLCV record for a trading session.
type PriceBar struct {
	Date      time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Dividends float64
	Splits    float64
}

// PriceHistorySnapshot is a full, timestamped replacement of the cached
// price history for one symbol. Immutable once written; a later successful
// fetch supersedes it rather than mutating it.
type PriceHistorySnapshot struct {
	Symbol    string
	Source    DataSource
	FetchedAt time.Time
	Bars      []PriceBar
}

// Rows returns the number of bars in the snapshot.
func (s *PriceHistorySnapshot) Rows() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// LastClose returns the most recent close, or 0 when the snapshot is empty.
func (s *PriceHistorySnapshot) LastClose() float64 {
	if s == nil || len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}
