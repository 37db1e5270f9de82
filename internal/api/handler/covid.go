package handler

import (
	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/covid"
	"net/http"

	"github.com/gin-gonic/gin"
)

type daysQuery struct {
	Days int `form:"days" binding:"min=0,max=1500"`
}

type compareQuery struct {
	Metric string `form:"metric"`
	Limit  int    `form:"limit" binding:"min=0,max=250"`
}

func (h *Handler) GlobalStats(c *gin.Context) {
	stats, err := h.Stats.GlobalStats(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListCountries returns every country, optionally filtered by ?search=.
func (h *Handler) ListCountries(c *gin.Context) {
	countries, err := h.Stats.SearchCountries(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, countries)
}

// CompareCountries ranks countries by ?metric= (totalCases by default).
func (h *Handler) CompareCountries(c *gin.Context) {
	var q compareQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	metric := covid.Metric(q.Metric)
	if metric == "" {
		metric = covid.MetricTotalCases
	}
	top, err := h.Stats.Compare(c.Request.Context(), metric, q.Limit)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, top)
}

func (h *Handler) CountryStats(c *gin.Context) {
	summary, err := h.Stats.CountryStats(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) CountryTimeSeries(c *gin.Context) {
	days, ok := bindDays(c)
	if !ok {
		return
	}
	series, err := h.Stats.TimeSeries(c.Request.Context(), c.Param("code"), days)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *Handler) CountryVaccination(c *gin.Context) {
	days, ok := bindDays(c)
	if !ok {
		return
	}
	points, err := h.Stats.Vaccination(c.Request.Context(), c.Param("code"), days)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

func (h *Handler) StatsDashboard(c *gin.Context) {
	days, ok := bindDays(c)
	if !ok {
		return
	}
	d, err := h.Stats.Dashboard(c.Request.Context(), c.Param("code"), days)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func bindDays(c *gin.Context) (int, bool) {
	var q daysQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return 0, false
	}
	if q.Days == 0 {
		q.Days = config.DefaultLookbackDays
	}
	return q.Days, true
}
