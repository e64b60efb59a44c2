// Package api exposes the mutation service over HTTP. Handlers bind the
// request, pull the authenticated actor from the context and translate
// taxonomy errors to status codes.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agencydesk/internal/apperr"
	"agencydesk/internal/model"
	"agencydesk/internal/service"
)

// ActorKey is the gin context key the auth middleware stores the actor
// under.
const ActorKey = "actor"

type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func actorFrom(c *gin.Context) model.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(model.Actor); ok {
			return actor
		}
	}
	return model.Actor{}
}

// respondErr maps the error taxonomy onto HTTP statuses. Rule violations
// carry their code and reason verbatim so the client can show them.
func (h *Handler) respondErr(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
		return
	}

	var rv *apperr.RuleViolation
	if errors.As(err, &rv) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": rv.Reason, "code": rv.Code})
		return
	}

	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var conflict *apperr.ConflictError
	if errors.As(err, &conflict) {
		c.JSON(http.StatusConflict, gin.H{"error": conflict.Reason})
		return
	}

	var timeout *apperr.TimeoutError
	if errors.As(err, &timeout) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": timeout.Error()})
		return
	}

	h.logger.Error("unhandled error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) bindErr(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
}
