// Package router wires the calculators and the case workspace into a gin
// engine.
package router

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/riskcalc/internal/dosing"
	"github.com/Skufu/riskcalc/internal/workspace"
)

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Log       *zap.Logger
	Workspace *workspace.Workspace
	Dosing    *dosing.Table
	// DB is nil when no database is configured.
	DB         HealthChecker
	StaticRoot string
}

func Setup(opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		RequestLogger(log),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		securityHeaders(),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	if opts.StaticRoot != "" {
		router.Static("/static", opts.StaticRoot)
		router.StaticFile("/", filepath.Join(opts.StaticRoot, "index.html"))
		router.StaticFile("/styles.css", filepath.Join(opts.StaticRoot, "styles.css"))
		router.StaticFile("/app.js", filepath.Join(opts.StaticRoot, "app.js"))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	var store HealthChecker
	if opts.Workspace != nil {
		store = opts.Workspace
	}
	router.GET("/readyz", readyHandler(opts.DB, store))

	calc := NewCalculatorHandler(log, opts.Workspace, opts.Dosing)
	cases := NewCaseHandler(log, opts.Workspace)

	api := router.Group("/api")
	{
		api.POST("/score2", calc.SCORE2)
		api.POST("/egfr", calc.EGFR)
		api.POST("/scores/:tool", calc.Score)
		api.POST("/bmi", calc.BMI)
		api.POST("/who-hearts", calc.WHOHearts)

		api.GET("/dosing", calc.DosingDrugs)
		api.GET("/dosing/:drug", calc.DosingLookup)
		api.POST("/dosing/review", calc.DosingReview)

		api.GET("/cases", cases.List)
		api.POST("/cases", cases.Create)
		api.GET("/cases/active", cases.Active)
		api.PUT("/cases/active", cases.SetActive)
		api.POST("/cases/active/results", cases.AppendResult)
		api.GET("/cases/:id", cases.Get)
		api.DELETE("/cases/:id", cases.Close)
	}

	return router
}

func readyHandler(db, store HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		body := gin.H{"status": "ok", "db": "disabled", "store": "ok"}
		healthy := true

		if db != nil {
			body["db"] = "ok"
			if err := db.Ping(ctx); err != nil {
				body["db"] = fmt.Sprintf("unhealthy: %v", err)
				healthy = false
			}
		}
		if store != nil {
			if err := store.Ping(ctx); err != nil {
				body["store"] = fmt.Sprintf("unhealthy: %v", err)
				healthy = false
			}
		}

		if !healthy {
			body["status"] = "degraded"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}
