package covid_test

import (
	"complaintdesk/backend/internal/covid"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var countries = []covid.CountrySummary{
	{Country: "Ukraine", TotalCases: 500, TotalDeaths: 10, VaccinationRate: 35},
	{Country: "United Kingdom", TotalCases: 900, TotalDeaths: 30, VaccinationRate: 75},
	{Country: "Uganda", TotalCases: 100, TotalDeaths: 30, VaccinationRate: 20},
	{Country: "Poland", TotalCases: 700, TotalDeaths: 20, VaccinationRate: 60},
}

func names(cs []covid.CountrySummary) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Country
	}
	return out
}

func TestTopCountries(t *testing.T) {
	top, err := covid.TopCountries(countries, covid.MetricTotalCases, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"United Kingdom", "Poland"}, names(top))

	top, err = covid.TopCountries(countries, covid.MetricTotalDeaths, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"United Kingdom", "Uganda", "Poland", "Ukraine"}, names(top), "ties keep input order")

	top, err = covid.TopCountries(countries, covid.MetricVaccinationRate, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"United Kingdom"}, names(top))

	assert.Equal(t, "Ukraine", countries[0].Country, "input is not reordered")
}

func TestTopCountries_UnknownMetric(t *testing.T) {
	_, err := covid.TopCountries(countries, covid.Metric("population"), 3)
	assert.ErrorIs(t, err, covid.ErrUnknownMetric)
}

func TestFilterCountries(t *testing.T) {
	assert.Equal(t, []string{"Ukraine", "United Kingdom", "Uganda"}, names(covid.FilterCountries(countries, "u")))
	assert.Equal(t, []string{"United Kingdom"}, names(covid.FilterCountries(countries, " KING ")))
	assert.Empty(t, covid.FilterCountries(countries, "france"))
	assert.Len(t, covid.FilterCountries(countries, ""), 4)
}
