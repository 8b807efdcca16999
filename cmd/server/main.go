package main

import (
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"support-desk-backend/internal/api"
	"support-desk-backend/internal/api/router"
	"support-desk-backend/internal/env"
	internaljwt "support-desk-backend/internal/jwt"
	"support-desk-backend/internal/queue"
	"support-desk-backend/internal/service/auth"
	"support-desk-backend/internal/service/conversation"
	"support-desk-backend/internal/service/order"
	"support-desk-backend/internal/service/shipping"
	"support-desk-backend/internal/service/ticket"
	"support-desk-backend/internal/store"
	"support-desk-backend/internal/ticketcache"
	"support-desk-backend/internal/websocket"
	"support-desk-backend/internal/workflow"
)

func main() {
	if err := env.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	authRedis := redis.NewClient(&redis.Options{
		Addr:     env.GetOrDefault(env.AuthRedisURL, "localhost:6379"),
		Password: env.Get(env.AuthRedisPass),
		DB:       0,
	})
	cacheRedis := redis.NewClient(&redis.Options{
		Addr:     env.GetOrDefault(env.CacheRedisURL, "localhost:6379"),
		Password: env.Get(env.CacheRedisPass),
		DB:       1,
	})

	internaljwt.Configure(env.MustGet(env.UserSecretKey), authRedis)

	client := workflow.NewClient(workflow.Config{
		BaseURL:    env.MustGet(env.WorkflowBaseURL),
		APIKey:     env.Get(env.WorkflowAPIKey),
		BusinessID: env.MustGet(env.BusinessID),
		Timeout:    30 * time.Second,
	})

	st := store.New()

	authService, err := auth.New(env.MustGet(env.DashboardUser), env.MustGet(env.DashboardPass))
	if err != nil {
		log.Fatalf("auth init failed: %v", err)
	}

	shippingService := shipping.New(client, st)
	defer shippingService.Close()

	services := api.Services{
		Auth:          authService,
		Conversations: conversation.New(client, st),
		Orders:        order.New(client, st),
		Shipping:      shippingService,
		Tickets:       ticket.New(client, ticketcache.New(cacheRedis, ticketcache.DefaultTTL), st),
	}

	hub := websocket.NewHub()
	go hub.Run()
	handler := websocket.NewHandler(hub, cacheRedis)

	unbind := handler.BindStore(st)
	defer unbind()

	queueManager := queue.NewRequestQueueManager(10, 10)

	server := api.NewAPIServer(
		":8080",
		queueManager,
		services,
		st,
		handler,
		router.UtilsRoutes("/api/v1"),
		router.AuthRoutes("/api/v1"),
		router.ConversationRoutes("/api/v1"),
		router.OrderRoutes("/api/v1"),
		router.ShippingRoutes("/api/v1"),
		router.TicketRoutes("/api/v1"),
		router.StreamRoutes("/api/v1"),
	)

	server.Run()
}
