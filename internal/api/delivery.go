package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/model"
	"agencydesk/internal/service"
)

type createDeliveryRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	FileURL     string  `json:"file_url"`
	Version     *int    `json:"version"`
	Status      *string `json:"status"`
}

type updateDeliveryRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	FileURL     *string `json:"file_url"`
	Version     *int    `json:"version"`
	Status      *string `json:"status"`
}

func deliveryStatusPtr(s *string) *model.DeliveryStatus {
	if s == nil {
		return nil
	}
	st := model.DeliveryStatus(*s)
	return &st
}

func (h *Handler) CreateDelivery(c *gin.Context) {
	var req createDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	d, err := h.svc.CreateDelivery(c.Request.Context(), actorFrom(c), c.Param("id"), service.CreateDeliveryInput{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		Version:     req.Version,
		Status:      deliveryStatusPtr(req.Status),
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) UpdateDelivery(c *gin.Context) {
	var req updateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	d, err := h.svc.UpdateDelivery(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateDeliveryInput{
		Title:       req.Title,
		Description: req.Description,
		FileURL:     req.FileURL,
		Version:     req.Version,
		Status:      deliveryStatusPtr(req.Status),
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDelivery(c *gin.Context) {
	if err := h.svc.DeleteDelivery(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		h.respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
