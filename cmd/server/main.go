package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"geneailogy/tree-service/internal/config"
	"geneailogy/tree-service/internal/handler"
	"geneailogy/tree-service/internal/repository"
	"geneailogy/tree-service/internal/service"
	"geneailogy/tree-service/pkg/db"
	"geneailogy/tree-service/pkg/helpers"
	"geneailogy/tree-service/pkg/logger"
	"geneailogy/tree-service/pkg/metrics"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		// Not fatal: the environment may be provided by the host
		os.Stderr.WriteString("warning: .env file not found\n")
	}

	cfg := config.Load()
	log := logger.NewLogger("tree-service")
	m := metrics.NewMetrics("tree_service")

	// Database connection
	conn, err := db.NewConnection(context.Background(), db.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBDatabase,
	}, log)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Failed to connect to database")
	}
	defer conn.Close()
	log.Info("Successfully connected to database")

	// Shared helpers
	validator := helpers.NewCustomValidator()
	ids := helpers.NewIDGenerator()

	// Initialize repositories
	memberRepo := repository.NewMemberRepository(conn.DB)
	notificationRepo := repository.NewNotificationRepository(conn.DB)

	// Initialize services
	treeService := service.NewTreeService(memberRepo)
	relationshipService := service.NewRelationshipService(memberRepo)
	memberService := service.NewMemberService(memberRepo, validator, ids)
	notificationService := service.NewNotificationService(notificationRepo, validator, ids)
	navSessions := service.NewNavigationSessions()

	// Live notification hub
	hub := handler.NewHub(log)

	// Initialize handlers
	treeHandler := handler.NewTreeHandler(treeService, relationshipService, navSessions)
	memberHandler := handler.NewMemberHandler(memberService)
	notificationHandler := handler.NewNotificationHandler(notificationService, hub)
	liveHandler := handler.NewLiveHandler(hub, log, cfg.DisplayTimeout)

	router := handler.NewRouter(treeHandler, memberHandler, notificationHandler, liveHandler, log, m)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	// Record DB pool stats periodically
	poolCtx, poolCancel := context.WithCancel(context.Background())
	defer poolCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				stats := conn.Stats()
				m.RecordDBPoolStats(stats.OpenConnections, stats.InUse, stats.Idle, stats.WaitCount, stats.WaitDuration)
			case <-poolCtx.Done():
				return
			}
		}
	}()

	log.WithField("port", cfg.HTTPPort).Info("Tree service listening")

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithField("error", err.Error()).Fatal("Failed to serve")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithField("error", err.Error()).Error("Forced shutdown")
	}

	log.Info("Server stopped")
}
