package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"agencydesk/internal/service"
)

type createRequirementsRequest struct {
	NeedsLogo        bool     `json:"needs_logo"`
	HasDesign        bool     `json:"has_design"`
	DesignByUs       bool     `json:"design_by_us"`
	NeedsCopy        bool     `json:"needs_copy"`
	HasDomain        bool     `json:"has_domain"`
	HasHosting       bool     `json:"has_hosting"`
	NeedsSEO         bool     `json:"needs_seo"`
	NeedsAnalytics   bool     `json:"needs_analytics"`
	NeedsMaintenance bool     `json:"needs_maintenance"`
	HasBrandManual   bool     `json:"has_brand_manual"`
	Notes            string   `json:"notes"`
	ReferenceSites   []string `json:"reference_sites"`
}

type updateRequirementsRequest struct {
	NeedsLogo        *bool     `json:"needs_logo"`
	HasDesign        *bool     `json:"has_design"`
	DesignByUs       *bool     `json:"design_by_us"`
	NeedsCopy        *bool     `json:"needs_copy"`
	HasDomain        *bool     `json:"has_domain"`
	HasHosting       *bool     `json:"has_hosting"`
	NeedsSEO         *bool     `json:"needs_seo"`
	NeedsAnalytics   *bool     `json:"needs_analytics"`
	NeedsMaintenance *bool     `json:"needs_maintenance"`
	HasBrandManual   *bool     `json:"has_brand_manual"`
	Notes            *string   `json:"notes"`
	ReferenceSites   *[]string `json:"reference_sites"`
}

func (h *Handler) CreateRequirements(c *gin.Context) {
	var req createRequirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	r, err := h.svc.CreateRequirements(c.Request.Context(), actorFrom(c), c.Param("id"), service.CreateRequirementsInput{
		NeedsLogo:        req.NeedsLogo,
		HasDesign:        req.HasDesign,
		DesignByUs:       req.DesignByUs,
		NeedsCopy:        req.NeedsCopy,
		HasDomain:        req.HasDomain,
		HasHosting:       req.HasHosting,
		NeedsSEO:         req.NeedsSEO,
		NeedsAnalytics:   req.NeedsAnalytics,
		NeedsMaintenance: req.NeedsMaintenance,
		HasBrandManual:   req.HasBrandManual,
		Notes:            req.Notes,
		ReferenceSites:   req.ReferenceSites,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *Handler) UpdateRequirements(c *gin.Context) {
	var req updateRequirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindErr(c, err)
		return
	}

	r, err := h.svc.UpdateRequirements(c.Request.Context(), actorFrom(c), c.Param("id"), service.UpdateRequirementsInput{
		NeedsLogo:        req.NeedsLogo,
		HasDesign:        req.HasDesign,
		DesignByUs:       req.DesignByUs,
		NeedsCopy:        req.NeedsCopy,
		HasDomain:        req.HasDomain,
		HasHosting:       req.HasHosting,
		NeedsSEO:         req.NeedsSEO,
		NeedsAnalytics:   req.NeedsAnalytics,
		NeedsMaintenance: req.NeedsMaintenance,
		HasBrandManual:   req.HasBrandManual,
		Notes:            req.Notes,
		ReferenceSites:   req.ReferenceSites,
	})
	if err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}
