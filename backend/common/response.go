package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope for list/detail endpoints consumed by the UI.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// RespSuccess responds with the standard success envelope.
func RespSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "",
		Data:    data,
	})
}

// RespOK responds 200 with a raw payload. The drive endpoints expose fixed
// body shapes ({"url": ...}, {"success": true, ...}) rather than the
// envelope, so they bypass it.
func RespOK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// RespError responds with the flat {"error": "..."} body the frontend
// expects from every failure path.
func RespError(c *gin.Context, statusCode int, msg string) {
	c.JSON(statusCode, gin.H{"error": msg})
}
