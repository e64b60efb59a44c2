package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/model"
	"agencydesk/internal/service"
)

type createPhaseRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

type updatePhaseRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Order       *int       `json:"order"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	DeliveryURL *string    `json:"delivery_url"`
	DeliveredAt *time.Time `json:"delivered_at"`
}

func phaseStatusPtr(s *string) *model.PhaseStatus {
	if s == nil {
		return nil
	}
	st := model.PhaseStatus(*s)
	return &st
}

func (h *Handler) CreatePhase(c *gin.Context) {
	var req createPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	p, err := h.svc.CreatePhase(c.Request.Context(), actorFrom(c), c.Param("id"), service.CreatePhaseInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		Status:      phaseStatusPtr(req.Status),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePhase(c *gin.Context) {
	var req updatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	p, err := h.svc.UpdatePhase(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdatePhaseInput{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		Status:      phaseStatusPtr(req.Status),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		DeliveryURL: req.DeliveryURL,
		DeliveredAt: req.DeliveredAt,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePhase(c *gin.Context) {
	if err := h.svc.DeletePhase(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
