// Package api exposes the query interface (spec.md §6) over HTTP: GET
// /search runs the resolver pipeline against the finalized index, and GET
// /health reports index readiness, modeled on the teacher's gin-based
// routes.go and pkg/middleware.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gilby125/locus/pkg/health"
	"github.com/gilby125/locus/pkg/middleware"
)

// RegisterRoutes wires the search and health endpoints onto router.
func RegisterRoutes(router *gin.Engine, searcher Searcher, healthChecker *health.HealthChecker) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())

	router.GET("/health", func(c *gin.Context) {
		report := healthChecker.CheckHealth(c.Request.Context())
		status := http.StatusOK
		if report.Status == health.StatusDown {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	})

	router.GET("/search", SearchHandler(searcher))
}
