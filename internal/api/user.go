package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/relato-crm/relato/internal/apperr"
	"github.com/relato-crm/relato/internal/middleware"
	"github.com/relato-crm/relato/internal/repository"
	"github.com/relato-crm/relato/internal/resolver"
	"go.uber.org/zap"
)

type UserHandler struct {
	repo     repository.UserRepository
	resolver *resolver.Resolver
	logger   *zap.Logger
}

func NewUserHandler(repo repository.UserRepository, res *resolver.Resolver, logger *zap.Logger) *UserHandler {
	return &UserHandler{repo: repo, resolver: res, logger: logger}
}

// GetMe handles GET /v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.repo.GetByID(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateMeRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateMe handles PUT /v1/users/me
//
// The display name is what the resolver joins onto every owned row, so a
// rename also drops the cached copy — otherwise other fetches would keep
// showing the old name until the cache TTL ran out.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, apperr.Validation("name is required"))
		return
	}
	ownerID := middleware.GetOwnerID(c)

	user, err := h.repo.UpdateName(c.Request.Context(), ownerID, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.resolver.InvalidateOwner(c.Request.Context(), ownerID)
	c.JSON(http.StatusOK, user)
}
