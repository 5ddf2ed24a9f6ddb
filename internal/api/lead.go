package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/events"
	"github.com/relato-crm/relato/internal/middleware"
	"github.com/relato-crm/relato/internal/repository"
	"github.com/relato-crm/relato/internal/resolver"
	"go.uber.org/zap"
)

type LeadHandler struct {
	repo     repository.LeadRepository
	resolver *resolver.Resolver
	hub      *events.Hub
	logger   *zap.Logger
}

func NewLeadHandler(repo repository.LeadRepository, res *resolver.Resolver, hub *events.Hub, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{repo: repo, resolver: res, hub: hub, logger: logger}
}

// Create handles POST /v1/leads
//
// Unlike the other entities, a lead create answers with just the new id.
// Lead capture is high volume (form submissions, imports) and the callers
// only ever need the id back.
func (h *LeadHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	lead, err := h.repo.Create(c.Request.Context(), ownerID, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "lead", Action: events.ActionCreated, ID: lead.ID, OwnerID: ownerID})
	c.JSON(http.StatusCreated, gin.H{"id": lead.ID})
}

// List handles GET /v1/leads
func (h *LeadHandler) List(c *gin.Context) {
	leads, err := h.repo.ListByOwner(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// GetByID handles GET /v1/leads/:id
func (h *LeadHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid lead id"))
		return
	}

	lead, err := h.repo.GetByID(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.LeadDetail(c.Request.Context(), lead))
}

// Update handles PATCH /v1/leads/:id
func (h *LeadHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid lead id"))
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	lead, err := h.repo.Update(c.Request.Context(), ownerID, id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "lead", Action: events.ActionUpdated, ID: lead.ID, OwnerID: ownerID})
	c.JSON(http.StatusOK, lead)
}

// Delete handles DELETE /v1/leads/:id
func (h *LeadHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid lead id"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	if err := h.repo.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "lead", Action: events.ActionDeleted, ID: id, OwnerID: ownerID})
	c.Status(http.StatusNoContent)
}
