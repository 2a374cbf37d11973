package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dorm-rental-backend/internal/approval"
)

// AdminListDorms lists dorms for review, optionally filtered by ?status=.
func (h *Handler) AdminListDorms(c *gin.Context) {
	dorms, err := h.store.ListDormsByStatus(c.Request.Context(), approval.Status(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDormResponses(dorms))
}

// AdminGetDorm returns any dorm regardless of status.
func (h *Handler) AdminGetDorm(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	d, err := h.store.GetDorm(c.Request.Context(), 0, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newDormResponse(d))
}

// ApproveDorm publishes a pending dorm.
func (h *Handler) ApproveDorm(c *gin.Context) {
	h.review(c, true, "")
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectDorm declines a pending dorm with a reason shown to the owner.
func (h *Handler) RejectDorm(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.review(c, false, req.Reason)
}

func (h *Handler) review(c *gin.Context, approve bool, reason string) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	d, err := h.store.ReviewDorm(c.Request.Context(), id, approve, reason)
	if err != nil {
		respondError(c, err)
		return
	}
	h.dormsChanged()
	c.JSON(http.StatusOK, newDormResponse(d))
}

// AdminDeleteDorm removes any dorm.
func (h *Handler) AdminDeleteDorm(c *gin.Context) {
	h.deleteDorm(c, 0)
}
