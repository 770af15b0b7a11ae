package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lakebase-connect/internal/handlers"
	"lakebase-connect/internal/middlewares"
)

func RegisterRoutes(router *gin.Engine, apiToken string, connectionHandler *handlers.ConnectionHandler, queryHandler *handlers.QueryHandler) {
	api := router.Group("/api/v1")
	api.Use(middlewares.RequireAPIToken(apiToken))

	connectionRoutes := NewConnectionRoutes(connectionHandler)
	connectionRoutes.RegisterRoutes(api)

	queryRoutes := NewQueryRoutes(queryHandler)
	queryRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
