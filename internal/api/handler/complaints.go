package handler

import (
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"net/http"

	"github.com/gin-gonic/gin"
)

type listComplaintsQuery struct {
	Status string `form:"status"`
	Skip   int    `form:"skip" binding:"min=0"`
	Take   int    `form:"take" binding:"min=0"`
}

type statusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

type assignRequest struct {
	AgencyID string `json:"agencyId" binding:"required"`
}

type responseRequest struct {
	Message string `json:"message" binding:"required"`
}

// ListComplaints returns one page of the complaints the caller can see.
func (h *Handler) ListComplaints(c *gin.Context) {
	var q listComplaintsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	filter := storage.ComplaintFilter{Skip: q.Skip, Take: q.Take}
	if q.Status != "" {
		status, err := models.ParseStatus(q.Status)
		if err != nil {
			h.respondErr(c, err)
			return
		}
		filter.Status = status
	}

	complaints, err := h.Complaints.List(c.Request.Context(), currentViewer(c), filter)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, complaints)
}

func (h *Handler) SubmitComplaint(c *gin.Context) {
	var in complaint.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	created, err := h.Complaints.Submit(c.Request.Context(), currentUser(c), in)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetComplaint(c *gin.Context) {
	found, err := h.Complaints.Get(c.Request.Context(), currentViewer(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handler) ChangeComplaintStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	updated, err := h.Complaints.ChangeStatus(c.Request.Context(), currentViewer(c), c.Param("id"), req.Status)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) AssignComplaint(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	updated, err := h.Complaints.Assign(c.Request.Context(), currentViewer(c), c.Param("id"), req.AgencyID)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) ListResponses(c *gin.Context) {
	responses, err := h.Complaints.Responses(c.Request.Context(), currentViewer(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *Handler) AddResponse(c *gin.Context) {
	var req responseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	r, err := h.Complaints.Respond(c.Request.Context(), currentUser(c), c.Param("id"), req.Message)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Dashboard returns the caller's complaint summary.
func (h *Handler) Dashboard(c *gin.Context) {
	sum, err := h.Complaints.Dashboard(c.Request.Context(), currentViewer(c))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
