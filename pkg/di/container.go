package di

import (
	"support-chat-demo/backend/ai"
	"support-chat-demo/backend/internal/repository"
	"support-chat-demo/backend/internal/service"
	"support-chat-demo/backend/pkg/cache"
	"support-chat-demo/backend/pkg/config"
	"support-chat-demo/backend/pkg/jwt"
	"support-chat-demo/backend/pkg/logger"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB          *gorm.DB
	Logger      *logger.Logger
	JWTService  *jwt.Service
	UserService *service.UserService
	ChatService *service.ChatService
	Responder   ai.Responder
}

// New creates a new dependency injection container from the application
// configuration. db may be nil, in which case the chat stores run
// in-memory (useful for local development without Postgres); auth still
// requires a database.
func New(db *gorm.DB, log *logger.Logger) (*Container, error) {
	cfg := config.Get()

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Expiry)
	userService := service.NewUserService(db, jwtService)

	var conversations repository.ConversationRepository
	var messages repository.MessageRepository
	if db != nil {
		conversations = repository.NewGormConversationRepository(db)
		messages = repository.NewGormMessageRepository(db)
	} else {
		conversations = repository.NewMemoryConversationRepository()
		messages = repository.NewMemoryMessageRepository()
	}

	responder := ai.NewOpenAIResponder(ai.Config{
		APIKey:  cfg.Generator.APIKey,
		BaseURL: cfg.Generator.BaseURL,
		Model:   cfg.Generator.Model,
		Timeout: cfg.Generator.Timeout,
	}, log)

	var listCache cache.Cache
	if cfg.Redis.Enabled {
		listCache = cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.CacheTTL)
	}

	chatService := service.NewChatService(conversations, messages, responder, listCache, log)

	return &Container{
		DB:          db,
		Logger:      log,
		JWTService:  jwtService,
		UserService: userService,
		ChatService: chatService,
		Responder:   responder,
	}, nil
}
