package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

const chartBody = `{
  "chart": {
    "result": [
      {
        "timestamp": [1704153600, 1704240000, 1704326400],
        "indicators": {
          "quote": [
            {
              "open":   [100.0, null, 102.0],
              "high":   [101.0, null, 103.5],
              "low":    [99.0,  null, 101.5],
              "close":  [100.5, null, 103.0],
              "volume": [1000000, null, 1200000]
            }
          ]
        },
        "events": {
          "dividends": {
            "1704326400": {"amount": 0.24, "date": 1704326400}
          },
          "splits": {
            "1704153600": {"date": 1704153600, "numerator": 4, "denominator": 1}
          }
        }
      }
    ],
    "error": null
  }
}`

func TestHistoryParsesAndSkipsNullBars(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/AAPL", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "2y", r.URL.Query().Get("range"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}))
	defer srv.Close()

	c := NewWithBase(srv.URL, "Mozilla/5.0", 5*time.Second)
	bars, err := c.History(context.Background(), "AAPL", domrepo.Period2Y)
	require.NoError(t, err)
	require.Len(t, bars, 2)

	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close)
	assert.Equal(t, int64(1200000), bars[1].Volume)
	assert.True(t, bars[0].Date.Before(bars[1].Date))

	// Events ride inside chart.result[0] and land on the matching day.
	assert.Equal(t, 4.0, bars[0].Splits)
	assert.Equal(t, 0.0, bars[0].Dividends)
	assert.Equal(t, 0.24, bars[1].Dividends)
	assert.Equal(t, 0.0, bars[1].Splits)
}

func TestHistoryAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	c := NewWithBase(srv.URL, "Mozilla/5.0", 5*time.Second)
	_, err := c.History(context.Background(), "NOPE", domrepo.Period1Y)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestHistoryTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	srv.Close()

	c := NewWithBase(srv.URL, "Mozilla/5.0", time.Second)
	_, err := c.History(context.Background(), "AAPL", domrepo.Period2Y)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}
