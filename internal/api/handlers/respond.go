package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/pkg/errors"
)

// respondError maps the service error taxonomy onto HTTP status codes.
// Anything unrecognized is an internal error and gets logged.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrInvalidState:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error(), "status": e.Status})
	case *errors.ErrExpired:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrAlreadyCancelled:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrInsufficientBalance:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     e.Error(),
			"available": e.Available,
		})
	case *errors.ErrConflict:
		c.JSON(http.StatusConflict, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	default:
		logger.Error("Internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
