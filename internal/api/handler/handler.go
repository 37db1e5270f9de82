// Package handler exposes the complaint desk over HTTP with gin.
package handler

import (
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/covid"
	"complaintdesk/backend/internal/feed"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler holds the services every route handler needs.
type Handler struct {
	Storage    storage.Storage
	Complaints *complaint.Service
	Stats      *covid.Service
	Tokens     *auth.TokenIssuer
	Hub        *feed.Hub
	Log        *zap.Logger
}

func NewHandler(s storage.Storage, complaints *complaint.Service, stats *covid.Service, tokens *auth.TokenIssuer, hub *feed.Hub, log *zap.Logger) *Handler {
	return &Handler{
		Storage:    s,
		Complaints: complaints,
		Stats:      stats,
		Tokens:     tokens,
		Hub:        hub,
		Log:        log,
	}
}

// Router builds the gin engine with every route mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(h.Log), Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", h.ServeWebSocket)

	a := r.Group("/auth")
	a.POST("/signup", h.Signup)
	a.POST("/login", h.Login)

	api := r.Group("/api", h.Authenticate())
	api.GET("/me", h.Me)
	api.GET("/dashboard", h.Dashboard)

	api.GET("/agencies", h.ListAgencies)
	api.POST("/agencies", RequireRole(models.RoleAdmin), h.CreateAgency)
	api.GET("/agencies/:id", h.GetAgency)
	api.GET("/agencies/:id/categories", h.ListAgencyCategories)
	api.POST("/categories", RequireRole(models.RoleAdmin), h.CreateCategory)
	api.GET("/categories/:id", h.GetCategory)

	api.GET("/complaints", h.ListComplaints)
	api.POST("/complaints", RequireRole(models.RoleCitizen, models.RoleAdmin), h.SubmitComplaint)
	api.GET("/complaints/:id", h.GetComplaint)
	api.PATCH("/complaints/:id/status", RequireRole(models.RoleAdmin, models.RoleAgency), h.ChangeComplaintStatus)
	api.PATCH("/complaints/:id/assign", RequireRole(models.RoleAdmin), h.AssignComplaint)
	api.GET("/complaints/:id/responses", h.ListResponses)
	api.POST("/complaints/:id/responses", h.AddResponse)

	stats := api.Group("/covid")
	stats.GET("/global", h.GlobalStats)
	stats.GET("/countries", h.ListCountries)
	stats.GET("/countries/compare", h.CompareCountries)
	stats.GET("/countries/:code", h.CountryStats)
	stats.GET("/countries/:code/timeseries", h.CountryTimeSeries)
	stats.GET("/countries/:code/vaccination", h.CountryVaccination)
	stats.GET("/dashboard/:code", h.StatsDashboard)

	return r
}
