package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-chat-demo/backend/internal/models"
	"support-chat-demo/backend/pkg/config"
	"support-chat-demo/backend/pkg/di"
	"support-chat-demo/backend/pkg/logger"
	"support-chat-demo/backend/pkg/observability"
	"support-chat-demo/backend/pkg/router"
	"support-chat-demo/backend/pkg/secrets"
)

func main() {
	cfg := config.New()

	logConfig := logger.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.JSON = cfg.Logging.Format != "text"

	log := logger.New(logConfig)
	logger.SetGlobal(log)

	log.Info("Starting application", "version", os.Getenv("APP_VERSION"))

	// Resolve sensitive configuration through Vault when enabled,
	// falling back to the environment values already in cfg.
	secretsManager, err := secrets.NewVaultManager(log)
	if err != nil {
		log.LogError(err, "Failed to initialize secrets manager")
		os.Exit(1)
	}
	ctx := context.Background()
	cfg.JWT.Secret = secretsManager.GetSecretWithDefault(ctx, "jwt_secret", cfg.JWT.Secret)
	cfg.Generator.APIKey = secretsManager.GetSecretWithDefault(ctx, "openrouter_api_key", cfg.Generator.APIKey)

	shutdownTracing := observability.SetupTracing("support-chat-backend", log)
	defer shutdownTracing()
	observability.SetupPrometheusMetrics(":2112", log)

	db, err := config.NewDB()
	if err != nil {
		log.LogError(err, "Failed to initialize database")
		os.Exit(1)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.Message{}); err != nil {
		log.LogError(err, "Failed to migrate database")
		os.Exit(1)
	}

	// Composite index backing the ordered per-conversation listing
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_messages_conversation_created ON messages(conversation_id, created_at)").Error; err != nil {
		log.LogError(err, "Failed to create message index", "index", "idx_messages_conversation_created")
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_conversations_user_updated ON conversations(user_id, updated_at)").Error; err != nil {
		log.LogError(err, "Failed to create conversation index", "index", "idx_conversations_user_updated")
	}

	container, err := di.New(db, log)
	if err != nil {
		log.LogError(err, "Failed to initialize dependency container")
		os.Exit(1)
	}

	r := router.New(container)
	r.SetupRoutes()

	// Request validation against the published schema, if present
	if schemaPath := os.Getenv("OPENAPI_SCHEMA_PATH"); schemaPath != "" {
		r.AddOpenAPIValidation(schemaPath)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r.Engine,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogError(err, "Server failed to start")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.LogError(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
