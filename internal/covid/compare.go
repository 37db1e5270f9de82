package covid

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownMetric = errors.New("covid: unknown metric")

// Metric names a CountrySummary field countries can be ranked by.
type Metric string

const (
	MetricTotalCases      Metric = "totalCases"
	MetricTotalDeaths     Metric = "totalDeaths"
	MetricTotalRecovered  Metric = "totalRecovered"
	MetricActiveCases     Metric = "activeCases"
	MetricVaccinationRate Metric = "vaccinationRate"
)

func (m Metric) value(c CountrySummary) (float64, error) {
	switch m {
	case MetricTotalCases:
		return float64(c.TotalCases), nil
	case MetricTotalDeaths:
		return float64(c.TotalDeaths), nil
	case MetricTotalRecovered:
		return float64(c.TotalRecovered), nil
	case MetricActiveCases:
		return float64(c.ActiveCases), nil
	case MetricVaccinationRate:
		return c.VaccinationRate, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMetric, string(m))
}

// TopCountries returns at most limit countries ordered by metric, highest
// first. Ties keep their input order. The input is not modified.
func TopCountries(countries []CountrySummary, metric Metric, limit int) ([]CountrySummary, error) {
	if _, err := metric.value(CountrySummary{}); err != nil {
		return nil, err
	}
	out := make([]CountrySummary, len(countries))
	copy(out, countries)
	sort.SliceStable(out, func(i, j int) bool {
		a, _ := metric.value(out[i])
		b, _ := metric.value(out[j])
		return a > b
	})
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// FilterCountries keeps countries whose name contains term, ignoring case.
// An empty term keeps everything.
func FilterCountries(countries []CountrySummary, term string) []CountrySummary {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return countries
	}
	out := make([]CountrySummary, 0)
	for _, c := range countries {
		if strings.Contains(strings.ToLower(c.Country), term) {
			out = append(out, c)
		}
	}
	return out
}
