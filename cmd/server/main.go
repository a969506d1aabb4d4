package main

import (
	"log"
	"net/http"

	"mystore-be/internal/cart"
	"mystore-be/internal/checkout"
	"mystore-be/internal/config"
	"mystore-be/internal/db"
	"mystore-be/internal/gateway"
	"mystore-be/internal/handler"
	"mystore-be/internal/logger"
	"mystore-be/internal/middleware"
	"mystore-be/internal/order"
	"mystore-be/internal/payment"
)

func main() {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	carts := cart.NewStore()
	ledger := order.NewRepository(database)
	gw := gateway.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	verifier := payment.NewVerifier(cfg.RazorpayKeySecret)
	orchestrator := checkout.NewOrchestrator(gw, verifier, ledger, carts)

	h := handler.New(carts, gw, verifier, orchestrator, ledger)

	mux := http.NewServeMux()
	h.Register(mux)

	chain := logger.RequestIDMiddleware(
		logger.LoggingMiddleware(
			middleware.AuthMiddleware(
				middleware.RateLimitMiddleware(mux),
			),
		),
	)

	log.Printf("🚀 Checkout server running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(http.ListenAndServe(":"+cfg.AppPort, chain))
}
