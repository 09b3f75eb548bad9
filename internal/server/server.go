// Package server gin 엔진 구성과 HTTP 서버 수명 관리
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kr-EIVEN/hosting-project/internal/api"
	"github.com/Kr-EIVEN/hosting-project/internal/backend"
	"github.com/Kr-EIVEN/hosting-project/internal/config"
	"github.com/Kr-EIVEN/hosting-project/internal/store"
)

// Server HTTP 서버
type Server struct {
	cfg    *config.AppConfig
	router *gin.Engine
	store  *store.Store
	api    *api.Handler
	logger *zap.Logger
	http   *http.Server
}

// NewServer 데이터 디렉터리와 DB 를 준비하고 라우트를 등록한다
func NewServer(cfg *config.AppConfig, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data dir: %w", err)
	}
	st, err := store.New(config.DBPath(cfg, dataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var client *backend.Client
	if cfg.Backend.BaseURL != "" {
		client = backend.NewClient(cfg.Backend.BaseURL, cfg.BackendTimeout(), logger.Named("backend"))
	}

	s := &Server{
		cfg:    cfg,
		router: gin.New(),
		store:  st,
		api:    api.NewHandler(cfg, st, client, logger.Named("api"), filepath.Join(dataDir, "uploads")),
		logger: logger,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(RequestLogger(s.logger.Named("http")), Recovery(s.logger))

	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	s.api.RegisterRoutes(s.router.Group("/api"))

	s.router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}

// Handler 테스트용 http.Handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run addr 에서 서비스. Shutdown 으로 종료되면 nil.
func (s *Server) Run(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 진행 중인 요청을 기다린 뒤 DB 를 닫는다
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if cerr := s.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// GetStore 테스트용
func (s *Server) GetStore() *store.Store {
	return s.store
}
