package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"agencydesk/internal/api"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(h *api.Handler, jwtSecret string, db *pgxpool.Pool) *Router {
	r := gin.Default()
	r.Use(MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(jwtSecret))
	{
		v1.POST("/projects", h.CreateProject)
		v1.GET("/projects/:id", h.GetAggregate)
		v1.PATCH("/projects/:id", h.UpdateProject)

		v1.POST("/projects/:id/requirements", h.CreateRequirements)
		v1.PATCH("/requirements/:id", h.UpdateRequirements)

		v1.POST("/projects/:id/budget", h.CreateBudget)
		v1.PATCH("/budgets/:id", h.UpdateBudget)
		v1.POST("/budgets/:id/accept", h.AcceptBudget)
		v1.DELETE("/budgets/:id", h.DeleteBudget)

		v1.POST("/projects/:id/phases", h.CreatePhase)
		v1.PATCH("/phases/:id", h.UpdatePhase)
		v1.DELETE("/phases/:id", h.DeletePhase)

		v1.POST("/phases/:id/deliveries", h.CreateDelivery)
		v1.PATCH("/deliveries/:id", h.UpdateDelivery)
		v1.DELETE("/deliveries/:id", h.DeleteDelivery)

		v1.POST("/projects/:id/invoices", h.CreateInvoice)
		v1.PATCH("/invoices/:id", h.UpdateInvoice)
		v1.POST("/invoices/:id/pay", h.MarkInvoicePaid)
		v1.DELETE("/invoices/:id", h.DeleteInvoice)
	}

	return &Router{Engine: r}
}
