package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/dkovacev/ripple/internal/config"
	"github.com/dkovacev/ripple/internal/database"
	"github.com/dkovacev/ripple/internal/logger"
	postgresrepo "github.com/dkovacev/ripple/internal/repository/postgres"
	"github.com/dkovacev/ripple/internal/service"
	"github.com/dkovacev/ripple/internal/transport/http/handlers"
	"github.com/dkovacev/ripple/internal/transport/http/middleware"
	"github.com/dkovacev/ripple/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New("ripple", cfg.LogLevel)

	// Database
	pool, err := database.Connect(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to database")
	}
	defer pool.Close()
	log.Info().Msg("connected to database")

	// Valkey (rate limiting)
	valkeyClient, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{cfg.ValkeyAddr},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to valkey")
	}
	defer valkeyClient.Close()

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	followRepo := postgresrepo.NewFollowRepo(pool)
	chatRepo := postgresrepo.NewChatRepo(pool)
	postRepo := postgresrepo.NewPostRepo(pool)
	notificationRepo := postgresrepo.NewNotificationRepo(pool)

	// Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret)
	notificationService := service.NewNotificationService(notificationRepo, log)
	userService := service.NewUserService(userRepo, followRepo, notificationService)
	postService := service.NewPostService(postRepo, followRepo, notificationService)
	chatService := service.NewChatService(chatRepo, userRepo, log)

	// WebSocket hub (session gateway + presence registry)
	hub := ws.NewHub(chatService, log)
	go hub.Run()

	notifier := ws.NewHubNotifier(hub)
	chatService.SetNotifier(notifier)
	notificationService.SetNotifier(notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, log)
	userHandler := handlers.NewUserHandler(userService, log)
	postHandler := handlers.NewPostHandler(postService, log)
	chatHandler := handlers.NewChatHandler(chatService, log)
	notificationHandler := handlers.NewNotificationHandler(notificationService, log)

	// Middleware
	auth := middleware.Auth(cfg.JWTSecret)
	rateLimit := middleware.RateLimit(
		valkeyClient,
		cfg.AuthRateLimit,
		time.Duration(cfg.AuthRateWindow)*time.Second,
		log,
	)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.Handle("POST /api/v1/auth/register", rateLimit(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/v1/auth/login", rateLimit(http.HandlerFunc(authHandler.Login)))

	// Protected - Users
	mux.Handle("GET /api/v1/users/me", auth(http.HandlerFunc(userHandler.Me)))
	mux.Handle("PATCH /api/v1/users/me", auth(http.HandlerFunc(userHandler.UpdateProfile)))
	mux.Handle("GET /api/v1/users/search", auth(http.HandlerFunc(userHandler.Search)))
	mux.Handle("GET /api/v1/users/{username}", auth(http.HandlerFunc(userHandler.GetProfile)))
	mux.Handle("POST /api/v1/users/{id}/follow", auth(http.HandlerFunc(userHandler.Follow)))
	mux.Handle("DELETE /api/v1/users/{id}/follow", auth(http.HandlerFunc(userHandler.Unfollow)))
	mux.Handle("GET /api/v1/users/{id}/followers", auth(http.HandlerFunc(userHandler.ListFollowers)))
	mux.Handle("GET /api/v1/users/{id}/following", auth(http.HandlerFunc(userHandler.ListFollowing)))

	// Protected - Posts
	mux.Handle("POST /api/v1/posts", auth(http.HandlerFunc(postHandler.Create)))
	mux.Handle("GET /api/v1/posts", auth(http.HandlerFunc(postHandler.Feed)))
	mux.Handle("GET /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Get)))
	mux.Handle("DELETE /api/v1/posts/{id}", auth(http.HandlerFunc(postHandler.Delete)))
	mux.Handle("POST /api/v1/posts/{id}/like", auth(http.HandlerFunc(postHandler.Like)))
	mux.Handle("DELETE /api/v1/posts/{id}/like", auth(http.HandlerFunc(postHandler.Unlike)))
	mux.Handle("POST /api/v1/posts/{id}/comments", auth(http.HandlerFunc(postHandler.Comment)))
	mux.Handle("GET /api/v1/posts/{id}/comments", auth(http.HandlerFunc(postHandler.ListComments)))

	// Protected - Chat
	mux.Handle("POST /api/v1/chat/conversations", auth(http.HandlerFunc(chatHandler.GetOrCreateConversation)))
	mux.Handle("GET /api/v1/chat/conversations", auth(http.HandlerFunc(chatHandler.ListConversations)))
	mux.Handle("GET /api/v1/chat/conversations/{id}/messages", auth(http.HandlerFunc(chatHandler.ListMessages)))
	mux.Handle("POST /api/v1/chat/conversations/{id}/messages", auth(http.HandlerFunc(chatHandler.SendMessage)))

	// Protected - Notifications
	mux.Handle("GET /api/v1/notifications", auth(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("GET /api/v1/notifications/unread-count", auth(http.HandlerFunc(notificationHandler.UnreadCount)))
	mux.Handle("PUT /api/v1/notifications/{id}/read", auth(http.HandlerFunc(notificationHandler.MarkRead)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, cfg.JWTSecret))

	// Start server with CORS + request logging
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Info().Str("addr", addr).Msg("starting server")

	handler := middleware.CORS(middleware.Logging(log)(mux))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
