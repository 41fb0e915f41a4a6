package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"barangayserver/database"
	"barangayserver/internal/config"
	"barangayserver/server/handlers"
	"barangayserver/server/middleware"
	"barangayserver/server/services"
)

// Server wires the record store, external clients, services, and HTTP
// routing together.
type Server struct {
	config *config.Config
	db     *database.DB

	mlClient     *MLClient
	budgetClient *BudgetClient

	residentService       *services.ResidentService
	recommendationService *services.RecommendationService
	budgetReportService   *services.BudgetReportService

	httpServer  *http.Server
	httpHandler http.Handler
	handlerOnce sync.Once
}

// NewServer creates a server over an open database.
func NewServer(cfg *config.Config, db *database.DB) *Server {
	mlClient := NewMLClient(cfg.MLBaseURL, cfg.MLTimeout)
	budgetClient := NewBudgetClient(BudgetClientConfig{
		BaseURL:         cfg.BudgetBaseURL,
		Timeout:         cfg.BudgetTimeout,
		RateLimitPerSec: cfg.BudgetRateLimitPerSec,
		CacheTTL:        cfg.BudgetCacheTTL,
	})

	return &Server{
		config:                cfg,
		db:                    db,
		mlClient:              mlClient,
		budgetClient:          budgetClient,
		residentService:       services.NewResidentService(db),
		recommendationService: services.NewRecommendationService(db, mlClient, budgetClient),
		budgetReportService:   services.NewBudgetReportService(db),
	}
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.ensureHTTPHandler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	slog.Info("starting HTTP server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	slog.Info("shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

// ServeHTTP lets tests drive the full middleware and routing stack
// without a listening socket.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.ensureHTTPHandler().ServeHTTP(w, r)
}

func (s *Server) ensureHTTPHandler() http.Handler {
	s.handlerOnce.Do(func() {
		s.httpHandler = s.buildHTTPHandler()
	})
	return s.httpHandler
}

func (s *Server) buildHTTPHandler() http.Handler {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.GinRequestIDMiddleware())
	router.Use(middleware.GinCORSMiddleware())
	router.Use(middleware.GinGzipMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(gin.Recovery())

	handlers.RegisterSwaggerRoutes(router, "localhost:"+s.config.Port)

	s.registerRoutes(router)

	return router
}

func (s *Server) registerRoutes(router *gin.Engine) {
	healthHandler := handlers.NewHealthHandler(s.db)
	householdHandler := handlers.NewHouseholdHandler(s.db)
	residentHandler := handlers.NewResidentHandler(s.residentService)
	recommendationHandler := handlers.NewRecommendationHandler(s.recommendationService)
	budgetHandler := handlers.NewBudgetHandler(s.budgetReportService)

	api := router.Group("/api")

	api.GET("/health", healthHandler.HandleHealth)

	api.GET("/households/aggregates", householdHandler.HandleGetAggregates)
	api.GET("/households/aggregates/export", householdHandler.HandleExportAggregates)

	api.GET("/residents", residentHandler.HandleList)
	api.POST("/residents", residentHandler.HandleCreate)
	api.PUT("/residents/:id", residentHandler.HandleUpdate)
	api.DELETE("/residents/:id", residentHandler.HandleDelete)
	api.POST("/residents/intake", residentHandler.HandleIntake)

	api.POST("/families/find", residentHandler.HandleFindFamily)
	api.PUT("/families", residentHandler.HandleUpdateFamily)

	api.POST("/recommendations/generate", recommendationHandler.HandleGenerate)
	api.GET("/recommendations", recommendationHandler.HandleGetLatest)

	api.GET("/budget/report", budgetHandler.HandleGetReport)
	api.GET("/budget/total", budgetHandler.HandleGetTotal)
}
