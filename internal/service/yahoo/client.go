package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
)

// Client fetches daily price history from the Yahoo Finance v8 chart API.
type Client struct {
	baseURL   string
	userAgent string
	http      *xhttp.Client
}

// New creates a Yahoo chart API client.
func New(cfg *config.Config) *Client {
	return &Client{
		baseURL:   cfg.Quote.BaseURL,
		userAgent: cfg.Quote.UserAgent,
		http:      xhttp.NewClient(xhttp.WithTimeout(cfg.Quote.Timeout)),
	}
}

// NewWithBase creates a client against an explicit base URL. Used in tests.
func NewWithBase(baseURL, userAgent string, timeout time.Duration) *Client {
	return &Client{
		baseURL:   baseURL,
		userAgent: userAgent,
		http:      xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

func (c *Client) Name() string { return "yahoo" }

// chartResponse is the wire shape of the v8 chart endpoint.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
			Events chartEvents `json:"events"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// chartEvents sits inside each chart result element.
type chartEvents struct {
	Dividends map[string]struct {
		Amount float64 `json:"amount"`
		Date   int64   `json:"date"`
	} `json:"dividends"`
	Splits map[string]struct {
		Date        int64   `json:"date"`
		Numerator   float64 `json:"numerator"`
		Denominator float64 `json:"denominator"`
	} `json:"splits"`
}

// History fetches daily bars for symbol over the given period, sorted
// ascending by date. Null bars (holidays, halts) are dropped.
func (c *Client) History(ctx context.Context, symbol string, period domrepo.Period) ([]models.PriceBar, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))

	var chart chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    endpoint,
		Headers: map[string]string{
			"User-Agent": c.userAgent,
		},
		QueryParams: map[string][]string{
			"interval": {"1d"},
			"range":    {string(period)},
			"events":   {"div,splits"},
		},
	}, &chart)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDataUnavailable, symbol, err)
	}

	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s: %s", models.ErrDataUnavailable, symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %s: empty chart result", models.ErrDataUnavailable, symbol)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = int64(*quote.Volume[i])
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: %s: no usable bars", models.ErrDataUnavailable, symbol)
	}

	c.applyEvents(result.Events, bars)

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// applyEvents maps dividend and split events onto the bar of the same day.
func (c *Client) applyEvents(events chartEvents, bars []models.PriceBar) {
	if len(events.Dividends) == 0 && len(events.Splits) == 0 {
		return
	}
	byDay := make(map[string]int, len(bars))
	for i := range bars {
		byDay[bars[i].Date.Format("2006-01-02")] = i
	}
	for _, d := range events.Dividends {
		day := time.Unix(d.Date, 0).UTC().Format("2006-01-02")
		if i, ok := byDay[day]; ok {
			bars[i].Dividends = d.Amount
		}
	}
	for _, s := range events.Splits {
		day := time.Unix(s.Date, 0).UTC().Format("2006-01-02")
		if i, ok := byDay[day]; ok && s.Denominator != 0 {
			bars[i].Splits = s.Numerator / s.Denominator
		}
	}
}
