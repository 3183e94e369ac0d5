package coingecko

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"cryptoadvisor/internal/adapters/config"
	"cryptoadvisor/internal/adapters/ratelimit"
	"cryptoadvisor/internal/domain/market_data"
	"cryptoadvisor/internal/metrics"
	"cryptoadvisor/pkg/errors"
	"cryptoadvisor/pkg/logger"
)

// Cache is an optional TTL cache for market chart responses.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// Client talks to the CoinGecko public API.
type Client struct {
	http          *resty.Client
	limiter       *ratelimit.Limiter
	cache         Cache
	priceTimeout  time.Duration
	chartTimeout  time.Duration
	chartCacheTTL time.Duration
	log           *logger.Logger
}

// NewClient creates a CoinGecko client. cache may be nil.
func NewClient(cfg config.CoinGeckoConfig, cache Cache) *Client {
	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.ChartTimeout)

	return &Client{
		http:          http,
		limiter:       ratelimit.NewLimiter("coingecko", cfg.RequestsPerMinute),
		cache:         cache,
		priceTimeout:  cfg.PriceTimeout,
		chartTimeout:  cfg.ChartTimeout,
		chartCacheTTL: cfg.ChartCacheTTL,
		log:           logger.Get().With("component", "coingecko"),
	}
}

// SimplePrice fetches the current price of an asset in the given currency.
// Unknown asset ids return ErrSymbolNotSupported.
func (c *Client) SimplePrice(ctx context.Context, id string, currency string) (float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.priceTimeout)
	defer cancel()

	var out map[string]map[string]float64
	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":           id,
			"vs_currencies": currency,
		}).
		SetResult(&out).
		Get("/simple/price")
	metrics.RecordExternalAPICall("coingecko", "simple_price", time.Since(start), err)
	if err != nil {
		return 0, errors.Wrap(err, "coingecko simple price request")
	}
	if resp.IsError() {
		return 0, errors.Wrapf(errors.ErrExternal, "coingecko simple price: status %d", resp.StatusCode())
	}

	price, ok := out[id][currency]
	if !ok {
		return 0, errors.Wrapf(errors.ErrSymbolNotSupported, "asset %q", id)
	}
	return price, nil
}

// marketChartResponse mirrors the /coins/{id}/market_chart payload:
// arrays of [unix_ms, value] pairs.
type marketChartResponse struct {
	Prices       [][]float64 `json:"prices"`
	TotalVolumes [][]float64 `json:"total_volumes"`
	MarketCaps   [][]float64 `json:"market_caps"`
}

// MarketChart fetches historical prices, volumes and market caps for an
// asset over the last `days` days and returns them as a PriceSeries.
func (c *Client) MarketChart(ctx context.Context, id string, days int, currency string) (market_data.PriceSeries, error) {
	cacheKey := fmt.Sprintf("coingecko:chart:%s:%d:%s", id, days, currency)

	var chart marketChartResponse
	if c.cache != nil {
		if err := c.cache.Get(ctx, cacheKey, &chart); err == nil && len(chart.Prices) > 0 {
			c.log.Debugw("Market chart cache hit", "asset", id, "days", days)
			return chart.toSeries(), nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return market_data.PriceSeries{}, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.chartTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.http.R().
		SetContext(reqCtx).
		SetQueryParams(map[string]string{
			"vs_currency": currency,
			"days":        fmt.Sprintf("%d", days),
		}).
		SetResult(&chart).
		Get("/coins/" + id + "/market_chart")
	metrics.RecordExternalAPICall("coingecko", "market_chart", time.Since(start), err)
	if err != nil {
		return market_data.PriceSeries{}, errors.Wrap(err, "coingecko market chart request")
	}
	if resp.IsError() {
		return market_data.PriceSeries{}, errors.Wrapf(errors.ErrExternal, "coingecko market chart: status %d", resp.StatusCode())
	}

	if c.cache != nil && len(chart.Prices) > 0 {
		if err := c.cache.Set(ctx, cacheKey, chart, c.chartCacheTTL); err != nil {
			c.log.Warnw("Failed to cache market chart", "asset", id, "error", err)
		}
	}

	return chart.toSeries(), nil
}

func (r marketChartResponse) toSeries() market_data.PriceSeries {
	series := market_data.PriceSeries{
		Timestamps: make([]time.Time, 0, len(r.Prices)),
		Prices:     make([]float64, 0, len(r.Prices)),
	}

	for _, pair := range r.Prices {
		if len(pair) != 2 {
			continue
		}
		series.Timestamps = append(series.Timestamps, time.UnixMilli(int64(pair[0])).UTC())
		series.Prices = append(series.Prices, pair[1])
	}

	// Volume and market cap arrays are index-aligned with prices
	if len(r.TotalVolumes) == len(series.Prices) {
		series.Volumes = make([]float64, 0, len(r.TotalVolumes))
		for _, pair := range r.TotalVolumes {
			if len(pair) == 2 {
				series.Volumes = append(series.Volumes, pair[1])
			}
		}
		if len(series.Volumes) != len(series.Prices) {
			series.Volumes = nil
		}
	}
	if len(r.MarketCaps) == len(series.Prices) {
		series.MarketCaps = make([]float64, 0, len(r.MarketCaps))
		for _, pair := range r.MarketCaps {
			if len(pair) == 2 {
				series.MarketCaps = append(series.MarketCaps, pair[1])
			}
		}
		if len(series.MarketCaps) != len(series.Prices) {
			series.MarketCaps = nil
		}
	}

	return series
}
