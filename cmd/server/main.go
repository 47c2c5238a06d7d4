package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Arpitag110/mindbridge/internal/chat"
	"github.com/Arpitag110/mindbridge/internal/circle"
	"github.com/Arpitag110/mindbridge/internal/config"
	"github.com/Arpitag110/mindbridge/internal/db"
	"github.com/Arpitag110/mindbridge/internal/entry"
	"github.com/Arpitag110/mindbridge/internal/middleware"
	"github.com/Arpitag110/mindbridge/internal/notify"
	"github.com/Arpitag110/mindbridge/internal/policy"
	"github.com/Arpitag110/mindbridge/internal/post"
	"github.com/Arpitag110/mindbridge/internal/question"
	"github.com/Arpitag110/mindbridge/internal/user"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	// Platform layer: Postgres + Redis
	database, err := db.NewDatabase(cfg.DSN)
	if err != nil {
		logger.Fatal("connect to postgres", zap.Error(err))
	}
	defer database.Close()
	logger.Info("connected to postgres")

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("migrate schema", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Fatal("connect to redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	// Features
	userRepo := user.NewRepository(database.Conn)
	userService := user.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL)
	userHandler := user.NewHandler(userService)

	circleRepo := circle.NewRepository(database.Conn)
	pol := policy.NewService(circleRepo)
	circleService := circle.NewService(circleRepo, pol)
	circleHandler := circle.NewHandler(circleService)

	entryRepo := entry.NewRepository(database.Conn)
	entryService := entry.NewService(entryRepo, pol)
	entryHandler := entry.NewHandler(entryService)

	hub := chat.NewHub(redisClient, logger)

	notifyRepo := notify.NewRepository(database.Conn)
	dispatcher := notify.NewDispatcher(notifyRepo, hub, logger)
	notifyHandler := notify.NewHandler(notifyRepo)

	chatRepo := chat.NewRepository(database.Conn)
	chatService := chat.NewService(chatRepo, userRepo, hub)
	chatHandler := chat.NewHandler(hub, chatService)

	postRepo := post.NewRepository(database.Conn)
	postService := post.NewService(postRepo, circleService, dispatcher, pol, logger)
	postHandler := post.NewHandler(postService)

	questionRepo := question.NewRepository(database.Conn)
	questionService := question.NewService(questionRepo, circleService, dispatcher, logger)
	questionHandler := question.NewHandler(questionService)

	// Realtime engines
	subCtx, stopSub := context.WithCancel(context.Background())
	defer stopSub()
	go hub.Run()
	go hub.SubscribeToRedis(subCtx)

	auth := middleware.NewAuth(userService)

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))

	// Public
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(auth.Optional)
		r.Get("/api/users/{id}", userHandler.Get)
		r.Get("/api/moods/user/{userId}", entryHandler.ListMoods)
		r.Get("/api/journals/user/{userId}", entryHandler.ListJournals)
		r.Get("/api/circles", circleHandler.List)
	})

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(auth.Require)

		r.Get("/api/users/search", userHandler.Search)
		r.Put("/api/users/{id}", userHandler.Update)
		r.Delete("/api/users/{id}", userHandler.Delete)

		r.Post("/api/moods", entryHandler.CreateMood)
		r.Delete("/api/moods/{id}", entryHandler.DeleteMood)
		r.Post("/api/journals", entryHandler.CreateJournal)
		r.Delete("/api/journals/{id}", entryHandler.DeleteJournal)

		r.Post("/api/circles", circleHandler.Create)
		r.Get("/api/circles/{id}", circleHandler.Get)
		r.Put("/api/circles/{id}", circleHandler.Update)
		r.Put("/api/circles/{id}/join", circleHandler.Join)
		r.Put("/api/circles/{id}/request", circleHandler.ResolveRequest)
		r.Put("/api/circles/{id}/kick", circleHandler.Kick)
		r.Put("/api/circles/{id}/promote", circleHandler.Promote)

		r.Post("/api/posts", postHandler.Create)
		r.Get("/api/posts/circle/{circleId}", postHandler.ListByCircle)
		r.Put("/api/posts/{id}", postHandler.Update)
		r.Delete("/api/posts/{id}", postHandler.Delete)
		r.Put("/api/posts/{id}/like", postHandler.ToggleLike)
		r.Put("/api/posts/{id}/comment", postHandler.AddComment)
		r.Put("/api/posts/{id}/report", postHandler.Report)

		r.Post("/api/questions", questionHandler.Create)
		r.Get("/api/questions/circle/{circleId}", questionHandler.ListByCircle)
		r.Put("/api/questions/{id}", questionHandler.Update)
		r.Delete("/api/questions/{id}", questionHandler.Delete)
		r.Put("/api/questions/{id}/answer", questionHandler.Answer)
		r.Put("/api/questions/{id}/answer/{ansId}/upvote", questionHandler.ToggleUpvote)
		r.Put("/api/questions/{id}/answer/{ansId}/delete", questionHandler.DeleteAnswer)

		r.Post("/api/messages", chatHandler.Send)
		r.Get("/api/messages/{partnerId}", chatHandler.History)
		r.Get("/api/conversations", chatHandler.Conversations)
		r.Put("/api/conversations/{partnerId}/read", chatHandler.MarkRead)

		r.Get("/api/notifications", notifyHandler.List)
		r.Put("/api/notifications/mark-read", notifyHandler.MarkRead)

		// WebSocket (realtime)
		r.Get("/ws", chatHandler.ServeWs)
	})

	server := &http.Server{Addr: cfg.Addr, Handler: r}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
