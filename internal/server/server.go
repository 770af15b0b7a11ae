package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lakebase-connect/internal/config"
	"lakebase-connect/internal/handlers"
	"lakebase-connect/internal/routes"
	"lakebase-connect/internal/services"
)

func NewServer() *http.Server {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Dependency injection
	tokenService := services.NewIdentityTokenService(cfg)
	instanceService := services.NewInstanceService(cfg)
	credentialService := services.NewCredentialService(cfg)
	bootstrapService := services.NewBootstrapService(cfg, tokenService, instanceService, credentialService)
	queryService := services.NewQueryService(bootstrapService)

	connectionHandler := handlers.NewConnectionHandler(bootstrapService)
	queryHandler := handlers.NewQueryHandler(queryService)

	// Initialize Gin router
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	routes.RegisterRoutes(router, cfg.APIToken, connectionHandler, queryHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * cfg.FlowTimeout,
	}

	return server
}
