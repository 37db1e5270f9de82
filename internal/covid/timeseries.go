package covid

import (
	"fmt"
	"sort"
	"time"
)

// timelineLayout is the M/D/YY key format of disease.sh timelines.
const timelineLayout = "1/2/06"

type datedKey struct {
	key  string
	date time.Time
}

// sortedKeys parses every timeline key and orders them chronologically.
func sortedKeys(timeline map[string]int64) ([]datedKey, error) {
	keys := make([]datedKey, 0, len(timeline))
	for k := range timeline {
		d, err := time.Parse(timelineLayout, k)
		if err != nil {
			return nil, fmt.Errorf("%w: timeline date %q: %w", ErrUpstream, k, err)
		}
		keys = append(keys, datedKey{key: k, date: d})
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].date.Before(keys[j].date) })
	return keys, nil
}

// buildTimeSeries turns the historical timeline into daily points. New
// counts are the difference to the previous day; the first day has none
// and reports 0.
func buildTimeSeries(h remoteHistorical) ([]TimeSeriesPoint, error) {
	keys, err := sortedKeys(h.Timeline.Cases)
	if err != nil {
		return nil, err
	}

	points := make([]TimeSeriesPoint, len(keys))
	for i, k := range keys {
		p := TimeSeriesPoint{
			Date:      k.date,
			Cases:     h.Timeline.Cases[k.key],
			Deaths:    h.Timeline.Deaths[k.key],
			Recovered: h.Timeline.Recovered[k.key],
		}
		if i > 0 {
			prev := points[i-1]
			p.NewCases = p.Cases - prev.Cases
			p.NewDeaths = p.Deaths - prev.Deaths
		}
		points[i] = p
	}
	return points, nil
}

// buildVaccination converts coverage totals into points. The rate is
// relative to population and 0 when the population is unknown.
func buildVaccination(cov remoteCoverage, population int64) ([]VaccinationPoint, error) {
	keys, err := sortedKeys(cov.Timeline)
	if err != nil {
		return nil, err
	}

	points := make([]VaccinationPoint, len(keys))
	for i, k := range keys {
		total := cov.Timeline[k.key]
		p := VaccinationPoint{
			Date:              k.date,
			Country:           cov.Country,
			TotalVaccinations: total,
		}
		if population > 0 {
			p.VaccinationRate = float64(total) / float64(population) * 100
		}
		points[i] = p
	}
	return points, nil
}
