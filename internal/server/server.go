// Package server exposes the quoting engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/enrolla/internal/config"
	"github.com/smallbiznis/enrolla/internal/observability"
	obslogger "github.com/smallbiznis/enrolla/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/enrolla/internal/observability/metrics"
	quotedomain "github.com/smallbiznis/enrolla/internal/quote/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin, NewServer),
	fx.Invoke(registerRoutes, run),
)

// NewEngine builds the gin engine with the standard middleware chain.
func NewEngine(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(log.Named("http")))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, log, httpMetrics)
}

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	log      *zap.Logger
	quoteSvc quotedomain.Service
	products quotedomain.ProductSource
}

type ServerParams struct {
	fx.In

	Gin      *gin.Engine
	Cfg      config.Config
	Log      *zap.Logger
	QuoteSvc quotedomain.Service
	Products quotedomain.ProductSource
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:   p.Gin,
		cfg:      p.Cfg,
		log:      p.Log.Named("server"),
		quoteSvc: p.QuoteSvc,
		products: p.Products,
	}
}

func registerRoutes(s *Server) {
	v1 := s.engine.Group("/v1")
	v1.GET("/products", s.listProducts)
	v1.POST("/quotes", s.createQuote)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
