package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nfluential/storefront-api/internal/api/handlers"
	"github.com/nfluential/storefront-api/internal/api/middleware"
	"github.com/nfluential/storefront-api/internal/cache"
	"github.com/nfluential/storefront-api/internal/config"
	"github.com/nfluential/storefront-api/internal/health"
	"github.com/nfluential/storefront-api/internal/metrics"
	repository "github.com/nfluential/storefront-api/internal/repositories"
	service "github.com/nfluential/storefront-api/internal/services"
	"github.com/nfluential/storefront-api/internal/telemetry"
	"github.com/nfluential/storefront-api/pkg/sendgrid"
	"github.com/nfluential/storefront-api/pkg/shopify"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), &cfg.Telemetry)
	if err != nil {
		slog.Error("❌ Error initializing tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Redis setup
	redisClient, err := cache.NewClient(&cfg.RedisConnect)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}
	cacheStore := cache.NewRedisCache(redisClient, &cfg.Cache)

	jwtKey := []byte(cfg.Security.JWTKey)
	shopifyClient := shopify.NewClient(cfg.Shopify.GraphQLEndpoint(), cfg.Shopify.StorefrontToken)
	sendGridClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	rateLimiter := service.NewRateLimiter(repository.NewRateLimitRepo(repos.DB), cfg.RateLimits)
	contactService := service.NewContactService(repository.NewContactRepo(repos.DB), repository.NewNewsletterRepo(repos.DB), rateLimiter, sendGridClient, cfg.SendGrid.ContactInbox)
	contactHandler := handlers.NewContactHandler(contactService, rateLimiter)
	cartService := service.NewCartService(shopifyClient, cacheStore, jwtKey, cfg.Cache.CartTTL)
	cartHandler := handlers.NewCartHandler(cartService)
	productService := service.NewProductService(shopifyClient, cacheStore, cfg.Cache.ProductTTL)
	productHandler := handlers.NewProductHandler(productService)
	cartAuthMiddleware := middleware.NewCartAuthMiddleware(cartService)
	corsMiddleware := middleware.NewCORS(cfg.CORS.AllowedOrigins)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{
		DB:            repos.DB,
		RedisClient:   redisClient,
		ShopifyClient: shopifyClient,
	})
	if err != nil {
		slog.Error("❌ Error creating health handler", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()

	// No method in the pattern: OPTIONS preflights must reach the CORS middleware.
	routerMux.Handle("/contact-submit", corsMiddleware.Handle(contactHandler.Submit()))

	routerMux.HandleFunc("POST /api/v1/carts", cartHandler.CreateCart())
	routerMux.HandleFunc("GET /api/v1/carts", cartAuthMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/carts/items", cartAuthMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/carts/items", cartAuthMiddleware.Authenticate(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/carts/items/{variantId}", cartAuthMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("POST /api/v1/carts/sync", cartAuthMiddleware.Authenticate(cartHandler.SyncCart()))
	routerMux.HandleFunc("GET /api/v1/carts/checkout-url", cartAuthMiddleware.Authenticate(cartHandler.CheckoutURL()))
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{handle}", productHandler.GetProduct())

	routerMux.Handle("/health", healthHandler.Handler())
	routerMux.Handle("/metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "storefront-api")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
