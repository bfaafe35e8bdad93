package route

import (
	"bookhole/backend/api/handler"
	"bookhole/backend/api/middleware"

	"github.com/gin-gonic/gin"
)

func SetApiRouter(route *gin.Engine, driveHandler *handler.DriveHandler, fileHandler *handler.FileHandler) {
	apiRouter := route.Group("/api")
	apiRouter.Use(middleware.GlobalAPIRateLimit())
	{
		// Public routes (no authentication required)
		apiRouter.GET("/status", handler.GetStatus)

		// Drive relay dispatcher: the action is the last path segment
		// (authorize | callback | upload). Every action requires auth.
		driveRoute := apiRouter.Group("/drive")
		driveRoute.Use(middleware.CriticalRateLimit(), middleware.JWTAuth())
		{
			driveRoute.Any("/:action", driveHandler.Dispatch)
		}

		// Book catalog routes
		bookRoute := apiRouter.Group("/books")
		bookRoute.Use(middleware.JWTAuth())
		{
			bookRoute.GET("/", handler.GetAllBooks)
			bookRoute.GET("/search", handler.SearchBooks)
		}

		// Generic file-upload proxy routes
		fileRoute := apiRouter.Group("/files")
		fileRoute.Use(middleware.JWTAuth())
		{
			fileRoute.POST("/upload", middleware.CriticalRateLimit(), fileHandler.UploadFile)
			fileRoute.GET("/", fileHandler.GetMyFiles)
		}
	}
}
