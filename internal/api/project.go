package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/model"
	"agencydesk/internal/service"
)

type createProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ClientID    string     `json:"client_id"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
}

func projectStatusPtr(s *string) *model.ProjectStatus {
	if s == nil {
		return nil
	}
	st := model.ProjectStatus(*s)
	return &st
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	p, err := h.svc.CreateProject(c.Request.Context(), actorFrom(c), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		ClientID:    req.ClientID,
		Status:      projectStatusPtr(req.Status),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetAggregate(c *gin.Context) {
	agg, err := h.svc.GetAggregate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, agg)
}

func (h *Handler) UpdateProject(c *gin.Context) {
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	p, err := h.svc.UpdateProject(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Status:      projectStatusPtr(req.Status),
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
