package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"reviewhub/internal/feed"
	"reviewhub/internal/reviews"
	"reviewhub/internal/web"
)

// Check reports whether a dependency is usable; used by /ready.
type Check func(ctx context.Context) error

type Deps struct {
	Store       reviews.Store
	Hub         *feed.Hub
	Logger      *slog.Logger
	Checks      map[string]Check
	CORSOrigins []string
}

// New wires the HTTP surface: API, page, feed and probes.
func New(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Hub == nil {
		d.Hub = feed.NewHub(d.Logger)
	}

	router := gin.New()
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(RequestID(), RequestLogger(d.Logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/ready", readyHandler(d))
	router.GET("/ws", feed.WSHandler(d.Hub))

	reviews.NewHandler(d.Store, d.Hub, d.Logger).RegisterRoutes(router.Group("/api"))
	web.NewHandler(reviews.Publishing(d.Store, d.Hub), d.Logger).Register(router)

	if len(d.CORSOrigins) == 0 {
		return router
	}
	c := cors.New(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(router)
}

func readyHandler(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		ready := true
		checks := make(gin.H, len(d.Checks))
		for name, check := range d.Checks {
			if err := check(ctx); err != nil {
				d.Logger.Warn("readiness check failed", "check", name, "err", err)
				checks[name] = "unavailable"
				ready = false
				continue
			}
			checks[name] = "ok"
		}

		body := gin.H{
			"status":     "ready",
			"checks":     checks,
			"ws_clients": d.Hub.Stats().WSClients,
		}
		if !ready {
			body["status"] = "not_ready"
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
		c.JSON(http.StatusOK, body)
	}
}
