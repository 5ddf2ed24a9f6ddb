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

type ContactHandler struct {
	repo     repository.ContactRepository
	resolver *resolver.Resolver
	hub      *events.Hub
	logger   *zap.Logger
}

func NewContactHandler(repo repository.ContactRepository, res *resolver.Resolver, hub *events.Hub, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{repo: repo, resolver: res, hub: hub, logger: logger}
}

// Create handles POST /v1/contacts
func (h *ContactHandler) Create(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	contact, err := h.repo.Create(c.Request.Context(), ownerID, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "contact", Action: events.ActionCreated, ID: contact.ID, OwnerID: ownerID})
	c.JSON(http.StatusCreated, contact)
}

// List handles GET /v1/contacts
func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.repo.ListByOwner(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, contacts)
}

// GetByID handles GET /v1/contacts/:id
func (h *ContactHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid contact id"))
		return
	}

	contact, err := h.repo.GetByID(c.Request.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.resolver.ContactDetail(c.Request.Context(), contact))
}

// Update handles PATCH /v1/contacts/:id
func (h *ContactHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid contact id"))
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, h.logger, apperr.Validation("invalid request body"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	contact, err := h.repo.Update(c.Request.Context(), ownerID, id, fields)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "contact", Action: events.ActionUpdated, ID: contact.ID, OwnerID: ownerID})
	c.JSON(http.StatusOK, contact)
}

// Delete handles DELETE /v1/contacts/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, apperr.Validation("invalid contact id"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	if err := h.repo.Delete(c.Request.Context(), ownerID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.hub.Publish(events.Event{Entity: "contact", Action: events.ActionDeleted, ID: id, OwnerID: ownerID})
	c.Status(http.StatusNoContent)
}
