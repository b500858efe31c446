package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/invoicebridge/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// getLogger returns the request-scoped logger set by the logging middleware
func getLogger(c *gin.Context) *zap.Logger {
	return logger.GetGinLogger(c)
}
