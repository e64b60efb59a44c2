package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/service"
)

type createBudgetRequest struct {
	TotalCents int64      `json:"total_cents"`
	Currency   string     `json:"currency"`
	Notes      string     `json:"notes"`
	SentAt     *time.Time `json:"sent_at"`
	ValidUntil *time.Time `json:"valid_until"`
}

type updateBudgetRequest struct {
	TotalCents *int64     `json:"total_cents"`
	PaidCents  *int64     `json:"paid_cents"`
	Notes      *string    `json:"notes"`
	SentAt     *time.Time `json:"sent_at"`
	ValidUntil *time.Time `json:"valid_until"`
}

func (h *Handler) CreateBudget(c *gin.Context) {
	var req createBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	b, err := h.svc.CreateBudget(c.Request.Context(), actorFrom(c), c.Param("id"), service.CreateBudgetInput{
		TotalCents: req.TotalCents,
		Currency:   req.Currency,
		Notes:      req.Notes,
		SentAt:     req.SentAt,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	var req updateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	b, err := h.svc.UpdateBudget(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateBudgetInput{
		TotalCents: req.TotalCents,
		PaidCents:  req.PaidCents,
		Notes:      req.Notes,
		SentAt:     req.SentAt,
		ValidUntil: req.ValidUntil,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) AcceptBudget(c *gin.Context) {
	b, err := h.svc.AcceptBudget(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	if err := h.svc.DeleteBudget(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
