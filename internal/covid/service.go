package covid

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/metrics"
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Cache stores serialized results. storage.Service satisfies it.
type Cache interface {
	GetCached(ctx context.Context, key string) ([]byte, bool, error)
	SetCached(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Service serves statistics, reusing a result until it is staleTime old.
type Service struct {
	client    *Client
	cache     Cache
	staleTime time.Duration
	log       *zap.Logger
}

// NewService wraps client. cache may be nil to always fetch.
func NewService(client *Client, cache Cache, staleTime time.Duration, log *zap.Logger) *Service {
	return &Service{client: client, cache: cache, staleTime: staleTime, log: log}
}

func (s *Service) GlobalStats(ctx context.Context) (*GlobalStats, error) {
	return cached(ctx, s, "global", "covid:global", s.client.GlobalStats)
}

func (s *Service) CountryStats(ctx context.Context, code string) (*CountrySummary, error) {
	code = normalizeCode(code)
	return cached(ctx, s, "country", "covid:country:"+code, func(ctx context.Context) (*CountrySummary, error) {
		return s.client.CountryStats(ctx, code)
	})
}

// TimeSeries returns the last days of a country's history; days <= 0
// falls back to the default lookback.
func (s *Service) TimeSeries(ctx context.Context, code string, days int) ([]TimeSeriesPoint, error) {
	code, days = normalizeCode(code), lookback(days)
	key := "covid:timeseries:" + code + ":" + strconv.Itoa(days)
	return cached(ctx, s, "timeseries", key, func(ctx context.Context) ([]TimeSeriesPoint, error) {
		return s.client.TimeSeries(ctx, code, days)
	})
}

// Vaccination returns a country's coverage timeline with rates against the
// cached country population.
func (s *Service) Vaccination(ctx context.Context, code string, days int) ([]VaccinationPoint, error) {
	country, err := s.CountryStats(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.vaccination(ctx, code, days, country)
}

func (s *Service) vaccination(ctx context.Context, code string, days int, country *CountrySummary) ([]VaccinationPoint, error) {
	code, days = normalizeCode(code), lookback(days)
	key := "covid:vaccination:" + code + ":" + strconv.Itoa(days)
	return cached(ctx, s, "vaccination", key, func(ctx context.Context) ([]VaccinationPoint, error) {
		points, err := s.client.Vaccination(ctx, code, days, country.Population)
		if err != nil {
			return nil, err
		}
		for i := range points {
			if points[i].Country == "" {
				points[i].Country = country.Country
			}
		}
		return points, nil
	})
}

func (s *Service) AllCountries(ctx context.Context) ([]CountrySummary, error) {
	return cached(ctx, s, "countries", "covid:countries", s.client.AllCountries)
}

// SearchCountries filters all countries by name.
func (s *Service) SearchCountries(ctx context.Context, term string) ([]CountrySummary, error) {
	all, err := s.AllCountries(ctx)
	if err != nil {
		return nil, err
	}
	return FilterCountries(all, term), nil
}

// Compare ranks all countries by metric. limit <= 0 uses the default.
func (s *Service) Compare(ctx context.Context, metric Metric, limit int) ([]CountrySummary, error) {
	if _, err := metric.value(CountrySummary{}); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = config.DefaultCompareLimit
	}
	all, err := s.AllCountries(ctx)
	if err != nil {
		return nil, err
	}
	return TopCountries(all, metric, limit)
}

// Dashboard loads every view of one country concurrently. The first failing
// fetch cancels the others and is returned.
func (s *Service) Dashboard(ctx context.Context, code string, days int) (*Dashboard, error) {
	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Global, err = s.GlobalStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		if d.Country, err = s.CountryStats(gctx, code); err != nil {
			return err
		}
		d.Vaccination, err = s.vaccination(gctx, code, days, d.Country)
		return err
	})
	g.Go(func() (err error) {
		d.TimeSeries, err = s.TimeSeries(gctx, code, days)
		return err
	})
	g.Go(func() (err error) {
		d.Countries, err = s.AllCountries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// cached returns the cached value for key or fetches and stores it.
// Cache failures only cost a refetch.
func cached[T any](ctx context.Context, s *Service, endpoint, key string, fetch func(context.Context) (T, error)) (T, error) {
	if s.cache != nil {
		raw, ok, err := s.cache.GetCached(ctx, key)
		if err != nil {
			s.log.Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}
		if ok {
			var v T
			if err := json.Unmarshal(raw, &v); err == nil {
				metrics.StatsCacheHitsTotal.WithLabelValues(endpoint).Inc()
				return v, nil
			}
			s.log.Warn("stats cache entry unreadable", zap.String("key", key))
		}
	}

	v, err := fetch(ctx)
	if err != nil {
		s.log.Warn("stats fetch failed", zap.String("endpoint", endpoint), zap.Error(err))
		return v, err
	}

	if s.cache != nil {
		raw, err := json.Marshal(v)
		if err == nil {
			err = s.cache.SetCached(ctx, key, raw, s.staleTime)
		}
		if err != nil {
			s.log.Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return v, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func lookback(days int) int {
	if days <= 0 {
		return config.DefaultLookbackDays
	}
	return days
}
