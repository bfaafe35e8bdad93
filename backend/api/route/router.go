package route

import (
	"net/http"
	"strings"

	"bookhole/backend/api/handler"
	"bookhole/backend/common"

	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
)

const frontendDir = "./frontend/dist"

func SetRouter(route *gin.Engine, driveHandler *handler.DriveHandler, fileHandler *handler.FileHandler) {
	SetApiRouter(route, driveHandler, fileHandler)
	setWebRouter(route)
}

// setWebRouter serves the built frontend when it is deployed next to the
// binary. Unmatched non-API paths fall through to the SPA index.
func setWebRouter(route *gin.Engine) {
	route.Use(static.Serve("/", static.LocalFile(frontendDir, false)))
	route.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			common.RespError(c, http.StatusNotFound, "API route not found")
			return
		}
		c.File(frontendDir + "/index.html")
	})
}
