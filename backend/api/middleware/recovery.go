package middleware

import (
	"fmt"
	"net/http"

	"bookhole/backend/common"

	"github.com/gin-gonic/gin"
)

// Recovery catches panics from handlers, logs the cause, and answers with
// the generic 500 body. Internal detail never reaches the caller.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		common.SysError(fmt.Sprintf("panic handling %s: %v", c.Request.URL.Path, recovered))
		common.RespError(c, http.StatusInternalServerError, "Internal server error")
		c.Abort()
	})
}
