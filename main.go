package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"bookhole/backend/api/handler"
	"bookhole/backend/api/middleware"
	"bookhole/backend/api/route"
	"bookhole/backend/common"
	"bookhole/backend/library/drive"
	"bookhole/backend/library/storage"
	"bookhole/backend/model"
	"bookhole/backend/service"

	"github.com/gin-gonic/gin"
)

func main() {
	flag.Parse()
	if *common.PrintVersion {
		println(common.Version)
		os.Exit(0)
	}
	if *common.PrintHelpFlag {
		common.PrintHelp()
		os.Exit(0)
	}
	if err := common.InitConfig(); err != nil {
		common.FatalLog(err)
	}
	common.SysLog("BookHole " + common.Version + " started")
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	// Initialize Redis
	err := common.InitRedisClient()
	if err != nil {
		common.FatalLog(err)
	}
	// Initialize SQL Database
	err = model.InitDB()
	if err != nil {
		common.FatalLog(err)
	}
	defer func() {
		err := model.CloseDB()
		if err != nil {
			common.FatalLog(err)
		}
	}()

	// Build the drive relay services from environment configuration.
	driveCfg := common.LoadDriveConfig()
	driveAuth := service.NewDriveAuth(driveCfg)
	storeCfg := common.LoadStoreConfig()
	var store service.ObjectStore
	if storeCfg.Endpoint != "" {
		s3Store, err := storage.New(context.Background(), storeCfg)
		if err != nil {
			common.FatalLog(err)
		}
		store = s3Store
	} else {
		common.SysLog("S3_ENDPOINT not set, object store mirror is disabled")
	}
	uploader := &service.Uploader{
		Auth:       driveAuth,
		Drive:      drive.NewClient(),
		Store:      store,
		FolderName: driveCfg.FolderName,
	}
	driveHandler := handler.NewDriveHandler(driveAuth, uploader)
	fileHandler := handler.NewFileHandler(store)

	// Initialize HTTP server
	server := gin.New()
	server.Use(gin.Logger())
	server.Use(middleware.Recovery())
	server.Use(middleware.CORS())

	route.SetRouter(server, driveHandler, fileHandler)

	port := strconv.Itoa(*common.Port)
	common.SysLog("Server listening on port: " + port)

	// Setup graceful shutdown
	setupGracefulShutdown()

	err = server.Run(":" + port)
	if err != nil {
		log.Fatal("failed to start server: " + err.Error())
	}
}

// setupGracefulShutdown registers signal handlers to ensure clean shutdown
func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		common.SysLog("Shutting down...")
		if err := model.CloseDB(); err != nil {
			common.SysError("error closing database: " + err.Error())
		}
		os.Exit(0)
	}()
}
