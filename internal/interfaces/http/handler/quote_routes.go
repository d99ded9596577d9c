package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gpoi/quoteservice/internal/interfaces/http/router"
)

// QuoteRoutes creates the route group for the quote endpoints. They sit at
// the router's base path, where the sales front end calls them. Nil
// middleware is skipped.
func QuoteRoutes(quotes *QuoteHandler, middleware ...gin.HandlerFunc) *router.DomainGroup {
	group := router.NewDomainGroup("quote", "")
	group.Use(middleware...)

	group.POST("/render", quotes.Render)
	group.POST("/calculate", quotes.Calculate)
	group.POST("/preview", quotes.Preview)
	group.GET("/files/:filename", quotes.ServeFile)

	return group
}

// HealthRoutes creates the probe endpoints, kept apart from rate limiting
func HealthRoutes(health *HealthHandler) *router.DomainGroup {
	group := router.NewDomainGroup("health", "")

	group.GET("/health", health.Health)
	group.GET("/info", health.Info)

	return group
}
