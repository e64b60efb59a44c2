package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/model"
	"agencydesk/internal/service"
)

type createInvoiceRequest struct {
	PhaseID     *string    `json:"phase_id"`
	Number      string     `json:"number"`
	AmountCents int64      `json:"amount_cents"`
	Currency    string     `json:"currency"`
	Status      *string    `json:"status"`
	IssuedAt    *time.Time `json:"issued_at"`
	DueAt       *time.Time `json:"due_at"`
	Notes       string     `json:"notes"`
}

type updateInvoiceRequest struct {
	Number      *string    `json:"number"`
	AmountCents *int64     `json:"amount_cents"`
	Status      *string    `json:"status"`
	IssuedAt    *time.Time `json:"issued_at"`
	DueAt       *time.Time `json:"due_at"`
	Notes       *string    `json:"notes"`
}

func invoiceStatusPtr(s *string) *model.InvoiceStatus {
	if s == nil {
		return nil
	}
	st := model.InvoiceStatus(*s)
	return &st
}

func (h *Handler) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	inv, err := h.svc.CreateInvoice(c.Request.Context(), actorFrom(c), c.Param("id"), service.CreateInvoiceInput{
		PhaseID:     req.PhaseID,
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
		Status:      invoiceStatusPtr(req.Status),
		IssuedAt:    req.IssuedAt,
		DueAt:       req.DueAt,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}

func (h *Handler) UpdateInvoice(c *gin.Context) {
	var req updateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	inv, err := h.svc.UpdateInvoice(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateInvoiceInput{
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Status:      invoiceStatusPtr(req.Status),
		IssuedAt:    req.IssuedAt,
		DueAt:       req.DueAt,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) MarkInvoicePaid(c *gin.Context) {
	inv, err := h.svc.MarkInvoicePaid(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) DeleteInvoice(c *gin.Context) {
	if err := h.svc.DeleteInvoice(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
