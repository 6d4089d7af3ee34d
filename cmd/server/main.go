package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agriai-be/internal/config"
	"agriai-be/internal/db"
	"agriai-be/internal/httpapi"
	"agriai-be/internal/logger"
	"agriai-be/internal/order"
	"agriai-be/internal/realtime"
	"agriai-be/internal/redisx"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer database.Close()

	if err := db.InitSchema(database); err != nil {
		log.Fatalf("Failed to init DB schema: %v", err)
	}

	rdb := redisx.New(cfg.RedisAddr)
	if rdb != nil {
		defer rdb.Close()
	}

	hub := realtime.NewHub()

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, hub)

	handler := &httpapi.OrdersHandler{
		Service: orderSvc,
		Dev:     !cfg.IsProduction(),
	}
	if rdb != nil {
		handler.Redis = rdb
	}

	router := httpapi.NewRouter(handler, hub, []byte(cfg.JWTSecret))

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("🚀 API server running at http://localhost%s/", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
