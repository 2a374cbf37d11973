package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dorm-rental-backend/internal/auth"
	"dorm-rental-backend/internal/model"
	"dorm-rental-backend/internal/store"
)

type registerRequest struct {
	Email     string    `json:"email" binding:"required,email"`
	Password  string    `json:"password" binding:"required,min=8,max=72"`
	Role      auth.Role `json:"role" binding:"required,oneof=customer owner"`
	FirstName string    `json:"first_name" binding:"max=128"`
	LastName  string    `json:"last_name" binding:"max=128"`
	Phone     string    `json:"phone" binding:"max=32"`
	LineID    string    `json:"line_id" binding:"max=64"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string        `json:"token"`
	User  store.Profile `json:"user"`
}

// Register creates a customer or owner account and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	lineID := ""
	if req.Role == auth.RoleOwner {
		lineID = strings.TrimSpace(req.LineID)
	}
	profile, err := h.store.CreateAccount(c.Request.Context(), req.Role, model.Account{
		Email:        store.NormalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Phone:        strings.TrimSpace(req.Phone),
	}, lineID)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.tokens.Issue(profile.ID, profile.Email, profile.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tokenResponse{Token: token, User: profile})
}

// Login exchanges credentials for a token. The role comes from the table that
// holds the account.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	principal, err := h.store.FindByEmail(ctx, store.NormalizeEmail(req.Email))
	if errors.Is(err, store.ErrNoAccount) || (err == nil && !h.hasher.Check(req.Password, principal.PasswordHash)) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	profile, err := h.store.GetProfile(ctx, principal.Role, principal.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	token, err := h.tokens.Issue(principal.ID, principal.Email, principal.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Token: token, User: profile})
}

// GetMe returns the caller's profile.
func (h *Handler) GetMe(c *gin.Context) {
	id, role, ok := caller(c)
	if !ok {
		return
	}
	profile, err := h.store.GetProfile(c.Request.Context(), role, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type updateMeRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,max=128"`
	LastName  *string `json:"last_name" binding:"omitempty,max=128"`
	Phone     *string `json:"phone" binding:"omitempty,max=32"`
	LineID    *string `json:"line_id" binding:"omitempty,max=64"`
}

// UpdateMe changes the caller's own profile fields.
func (h *Handler) UpdateMe(c *gin.Context) {
	id, role, ok := caller(c)
	if !ok {
		return
	}
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	fields := map[string]any{}
	for col, v := range map[string]*string{
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"phone":      req.Phone,
		"line_id":    req.LineID,
	} {
		if v != nil {
			fields[col] = strings.TrimSpace(*v)
		}
	}

	profile, err := h.store.UpdateProfile(c.Request.Context(), role, id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
