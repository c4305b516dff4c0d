package handlers

import (
	"net/http"

	"portfolio/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

// respondError renders err with the status of its kind. Internal errors are
// logged and shown as a generic message.
func respondError(c *gin.Context, err error) {
	status := utils.StatusCode(err)
	if status >= http.StatusInternalServerError {
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "message": utils.PublicMessage(err)})
}

// respondBindError reports a malformed request body.
func respondBindError(c *gin.Context, err error) {
	getLogger(c).Debug("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
}
