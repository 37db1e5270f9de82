package handler

import (
	"complaintdesk/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type agencyRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type categoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	AgencyID    string `json:"agencyId" binding:"required"`
}

func (h *Handler) ListAgencies(c *gin.Context) {
	agencies, err := h.Storage.GetAllAgencies(c.Request.Context())
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, agencies)
}

func (h *Handler) GetAgency(c *gin.Context) {
	agency, err := h.Storage.GetAgencyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if agency == nil {
		respondNotFound(c, "agency")
		return
	}
	c.JSON(http.StatusOK, agency)
}

// CreateAgency adds an agency. The ID is generated unless given.
func (h *Handler) CreateAgency(c *gin.Context) {
	var req agencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	agency := &models.Agency{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := h.Storage.CreateAgency(c.Request.Context(), agency); err != nil {
		h.respondErr(c, err)
		return
	}
	h.Log.Info("agency created", zap.String("agency_id", agency.ID))
	c.JSON(http.StatusCreated, agency)
}

func (h *Handler) ListAgencyCategories(c *gin.Context) {
	ctx := c.Request.Context()
	agency, err := h.Storage.GetAgencyByID(ctx, c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if agency == nil {
		respondNotFound(c, "agency")
		return
	}
	categories, err := h.Storage.GetCategoriesByAgency(ctx, agency.ID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) GetCategory(c *gin.Context) {
	category, err := h.Storage.GetCategoryByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if category == nil {
		respondNotFound(c, "category")
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory adds a category under an existing agency.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	agency, err := h.Storage.GetAgencyByID(ctx, req.AgencyID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if agency == nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, "unknown agency")
		return
	}

	category := &models.Category{
		ID:          strings.TrimSpace(req.ID),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		AgencyID:    agency.ID,
	}
	if err := h.Storage.CreateCategory(ctx, category); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}
