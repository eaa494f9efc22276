package main

import (
	"log"
	"strings"
	"time"

	"ourphotos/auth"
	"ourphotos/cleanup"
	"ourphotos/config"
	"ourphotos/db"
	"ourphotos/handlers"
	"ourphotos/media"
	"ourphotos/models"
	"ourphotos/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

const cleanupInterval = 5 * time.Minute

func main() {
	auth.Configure(config.JWT_SECRET)

	database, err := db.Connect(config.MYSQL_DSN, config.SQLITE_FILE)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	if err := models.Init(database); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}
	mediaStore, err := media.Init()
	if err != nil {
		log.Fatalf("Media store init failed: %v", err)
	}
	reconciler := cleanup.NewReconciler(mediaStore, cleanupInterval)
	go reconciler.Run()
	defer reconciler.Stop()

	if !config.DEBUG_MODE {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.MaxMultipartMemory = handlers.MaxUploadSize
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	origins := config.AllowedOrigins()
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	router.Use(cors.New(corsConfig))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	api := handlers.NewAPI(database, mediaStore, reconciler)
	handlers.MountRoutes(router, api)

	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
