package covid

import "time"

// GlobalStats are the worldwide totals.
type GlobalStats struct {
	TotalCases            int64     `json:"totalCases"`
	TotalDeaths           int64     `json:"totalDeaths"`
	TotalRecovered        int64     `json:"totalRecovered"`
	ActiveCases           int64     `json:"activeCases"`
	TotalVaccinations     int64     `json:"totalVaccinations"`
	GlobalVaccinationRate float64   `json:"globalVaccinationRate"`
	LastUpdated           time.Time `json:"lastUpdated"`
}

// CountrySummary is one country's current totals.
type CountrySummary struct {
	Country         string    `json:"country"`
	CountryCode     string    `json:"countryCode"`
	TotalCases      int64     `json:"totalCases"`
	TotalDeaths     int64     `json:"totalDeaths"`
	TotalRecovered  int64     `json:"totalRecovered"`
	ActiveCases     int64     `json:"activeCases"`
	Population      int64     `json:"population"`
	LastUpdated     time.Time `json:"lastUpdated"`
	VaccinationRate float64   `json:"vaccinationRate"`
}

// TimeSeriesPoint is one day of cumulative counts plus the change from the
// previous day.
type TimeSeriesPoint struct {
	Date      time.Time `json:"date"`
	Cases     int64     `json:"cases"`
	Deaths    int64     `json:"deaths"`
	Recovered int64     `json:"recovered"`
	NewCases  int64     `json:"newCases"`
	NewDeaths int64     `json:"newDeaths"`
}

// VaccinationPoint is one day of cumulative vaccine doses. The coverage
// endpoint only reports totals, so the breakdown fields stay 0.
type VaccinationPoint struct {
	Date                time.Time `json:"date"`
	Country             string    `json:"country"`
	TotalVaccinations   int64     `json:"totalVaccinations"`
	FullyVaccinated     int64     `json:"fullyVaccinated"`
	PartiallyVaccinated int64     `json:"partiallyVaccinated"`
	BoosterDoses        int64     `json:"boosterDoses"`
	VaccinationRate     float64   `json:"vaccinationRate"`
}

// Dashboard bundles everything the statistics page shows for one country.
type Dashboard struct {
	Global      *GlobalStats       `json:"global"`
	Country     *CountrySummary    `json:"country"`
	TimeSeries  []TimeSeriesPoint  `json:"timeSeries"`
	Vaccination []VaccinationPoint `json:"vaccination"`
	Countries   []CountrySummary   `json:"countries"`
}

// Remote shapes of disease.sh responses. Optional fields decode to 0.

type remoteGlobal struct {
	Cases           int64   `json:"cases"`
	Deaths          int64   `json:"deaths"`
	Recovered       int64   `json:"recovered"`
	Active          int64   `json:"active"`
	Vaccinations    int64   `json:"vaccinations"`
	VaccinationRate float64 `json:"vaccinationRate"`
	Updated         int64   `json:"updated"`
}

type remoteCountry struct {
	Country     string `json:"country"`
	CountryInfo struct {
		ISO3 string `json:"iso3"`
	} `json:"countryInfo"`
	Cases           int64   `json:"cases"`
	Deaths          int64   `json:"deaths"`
	Recovered       int64   `json:"recovered"`
	Active          int64   `json:"active"`
	Population      int64   `json:"population"`
	Updated         int64   `json:"updated"`
	VaccinationRate float64 `json:"vaccinationRate"`
}

type remoteHistorical struct {
	Country  string `json:"country"`
	Timeline struct {
		Cases     map[string]int64 `json:"cases"`
		Deaths    map[string]int64 `json:"deaths"`
		Recovered map[string]int64 `json:"recovered"`
	} `json:"timeline"`
}

type remoteCoverage struct {
	Country  string           `json:"country"`
	Timeline map[string]int64 `json:"timeline"`
}

func (r remoteGlobal) toStats() *GlobalStats {
	return &GlobalStats{
		TotalCases:            r.Cases,
		TotalDeaths:           r.Deaths,
		TotalRecovered:        r.Recovered,
		ActiveCases:           r.Active,
		TotalVaccinations:     r.Vaccinations,
		GlobalVaccinationRate: r.VaccinationRate,
		LastUpdated:           time.UnixMilli(r.Updated).UTC(),
	}
}

func (r remoteCountry) toSummary() CountrySummary {
	return CountrySummary{
		Country:         r.Country,
		CountryCode:     r.CountryInfo.ISO3,
		TotalCases:      r.Cases,
		TotalDeaths:     r.Deaths,
		TotalRecovered:  r.Recovered,
		ActiveCases:     r.Active,
		Population:      r.Population,
		LastUpdated:     time.UnixMilli(r.Updated).UTC(),
		VaccinationRate: r.VaccinationRate,
	}
}
