package api

import (
	"github.com/gin-gonic/gin"
	"github.com/relato-crm/relato/internal/apperr"
	"go.uber.org/zap"
)

// respondError is the single choke point between the error taxonomy and the
// wire. Every failure leaves as a structured payload with a machine-readable
// kind; nothing propagates past the boundary unhandled. Store and internal
// faults get logged here so handlers don't repeat it, and the engine's
// message rides along in the payload for diagnosis.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	if status >= 500 {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  apperr.KindOf(err).String(),
	})
}
