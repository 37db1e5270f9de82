package handler

import (
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/models"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// signupEmail validates the address after it has been normalized.
type signupEmail struct {
	Email string `binding:"required,email"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Signup registers a citizen account and returns a token for it.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := binding.Validator.ValidateStruct(signupEmail{Email: email}); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	existing, err := h.Storage.FindUserByEmail(ctx, email)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if existing != nil {
		respondError(c, http.StatusConflict, CodeConflict, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Password: hash,
		Role:     models.RoleCitizen,
	}
	if err := h.Storage.CreateUser(ctx, user); err != nil {
		h.respondErr(c, err)
		return
	}
	h.Log.Info("user signed up", zap.String("user_id", user.ID))

	h.issue(c, http.StatusCreated, user)
}

// Login exchanges email and password for a token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeBadRequest, err.Error())
		return
	}

	user, err := h.Storage.FindUserByEmail(c.Request.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	if user == nil {
		h.respondErr(c, auth.ErrInvalidCredentials)
		return
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		h.respondErr(c, err)
		return
	}

	h.issue(c, http.StatusOK, user)
}

// Me returns the authenticated user.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

func (h *Handler) issue(c *gin.Context, status int, user *models.User) {
	token, err := h.Tokens.Issue(user)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}
