package server

import (
	"context"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/colombod/amplifier-bundle-tui-tester/internal/config"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/http"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/logging"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/middleware"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/monitoring"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/providers/tui"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/service"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/session"
	"github.com/colombod/amplifier-bundle-tui-tester/internal/ws"
)

// Server wraps the HTTP server and its dependencies.
type Server struct {
	cfg      *config.Config
	log      *logging.Logger
	router   *gin.Engine
	srv      *nethttp.Server
	manager  *session.Manager
	registry *service.Registry
	metrics  *monitoring.Metrics

	sweepStop chan struct{}
}

// New builds a fully wired server from configuration.
func New(cfg *config.Config) (*Server, error) {
	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	manager, err := session.NewManager(session.Options{
		BaseDir:     cfg.Session.BaseDir,
		SettleDelay: cfg.Session.SettleDelay,
		Rows:        cfg.Session.Rows,
		Cols:        cfg.Session.Cols,
		Logger:      log,
	})
	if err != nil {
		return nil, fmt.Errorf("init session manager: %w", err)
	}

	registry := service.NewRegistry()
	if err := registry.Register(tui.NewProvider(manager)); err != nil {
		return nil, fmt.Errorf("register tui provider: %w", err)
	}

	metrics := monitoring.NewMetrics()

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log.Logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := http.NewHandlers(registry, manager, metrics, log.Logger)
	wsHandler := ws.NewHandler(manager, metrics, log.Logger)

	router.GET("/", handlers.Root)
	router.GET("/health", handlers.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.GET("/services", handlers.ListServices)
	router.POST("/services/execute", handlers.ExecuteService)

	router.POST("/sessions", handlers.SpawnSession)
	router.GET("/sessions", handlers.ListSessions)
	router.GET("/sessions/:id", handlers.GetSession)
	router.POST("/sessions/:id/keys", handlers.SendKeys)
	router.POST("/sessions/:id/capture", handlers.CaptureSession)
	router.DELETE("/sessions/:id", handlers.CloseSession)
	router.GET("/sessions/:id/stream", wsHandler.HandleStream)

	s := &Server{
		cfg:       cfg,
		log:       log,
		router:    router,
		manager:   manager,
		registry:  registry,
		metrics:   metrics,
		sweepStop: make(chan struct{}),
	}

	if cfg.Session.SweepEnabled {
		go s.sweepLoop(cfg.Session.SweepInterval)
	}

	return s, nil
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Server.Host, s.cfg.Server.Port)
	s.srv = &nethttp.Server{
		Addr:    addr,
		Handler: s.router,
	}

	s.log.Info("starting server",
		zap.String("addr", addr),
		zap.Bool("sweeper", s.cfg.Session.SweepEnabled),
	)
	if err := s.srv.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and tears down all sessions.
func (s *Server) Shutdown(ctx context.Context) error {
	close(s.sweepStop)

	var err error
	if s.srv != nil {
		err = s.srv.Shutdown(ctx)
	}

	s.manager.Shutdown()
	s.log.Info("server stopped")
	s.log.Sync()
	return err
}

// sweepLoop periodically reaps sessions whose process has exited.
func (s *Server) sweepLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			if n := s.manager.SweepDead(); n > 0 {
				s.metrics.AddSessionsReaped(n)
				s.log.Info("swept dead sessions", zap.Int("count", n))
			}
			s.metrics.SetSessionsActive(len(s.manager.List()))
			s.metrics.UpdateUptime()
		}
	}
}
