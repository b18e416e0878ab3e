// Package api exposes the optimizer over HTTP.
package api

import (
	"net/http"

	"entry-optimizer/internal/api/handlers"
	"entry-optimizer/internal/api/middleware"
	"entry-optimizer/internal/api/models"
	"entry-optimizer/internal/logger"
	"entry-optimizer/internal/model"
	"entry-optimizer/internal/solver"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps is what the router needs from main.
type Deps struct {
	Solver         solver.Solver
	Options        solver.Options
	Series         []model.Series
	AllowedOrigins []string
	BatchLimit     int
	Log            *logger.Logger
}

// NewRouter wires middleware, handlers and routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(d.AllowedOrigins))
	router.Use(middleware.Logger(d.Log))

	seriesHandler := handlers.NewSeriesHandler(d.Series)
	optimizeHandler := handlers.NewOptimizeHandler(d.Solver, d.Options, d.BatchLimit, seriesHandler, d.Log)
	catalogHandler := handlers.NewCatalogHandler(d.Solver.Name())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "solver": d.Solver.Name()})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/optimize", optimizeHandler.Optimize)
		v1.POST("/optimize/batch", optimizeHandler.OptimizeBatch)

		v1.GET("/rules", catalogHandler.ListRules)
		v1.GET("/solvers", catalogHandler.ListSolvers)

		v1.GET("/series", seriesHandler.ListSeries)
		v1.GET("/series/:symbol", seriesHandler.GetSeries)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found: " + c.Request.URL.Path},
		})
	})

	return router
}
