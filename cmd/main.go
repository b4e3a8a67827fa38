package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/config"
	"storefront-service/internal/events"
	"storefront-service/internal/handlers"
	"storefront-service/internal/middleware"
	"storefront-service/internal/session"
	"storefront-service/internal/source"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Load the catalog snapshot: Postgres when configured, otherwise
	// the deterministic generated catalog. A failed remote load falls
	// back once and is never fatal.
	var primary source.Source
	if cfg.DatabaseURL != "" {
		pg, err := source.NewPostgresSource(cfg.DatabaseURL, cfg.CatalogLimit)
		if err != nil {
			logger.WithError(err).Warn("Catalog database unavailable, using generated catalog")
		} else {
			primary = pg
		}
	} else {
		log.Println("DATABASE_URL not set, using generated catalog")
	}
	fallback := source.NewGeneratorSource(cfg.GeneratorSeed, time.Now())

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 15*time.Second)
	products, sourceName, err := source.LoadWithFallback(loadCtx, primary, fallback, logger)
	cancelLoad()
	if err != nil {
		log.Fatal("Failed to load catalog:", err)
	}
	snapshot := catalog.NewSnapshot(products)
	logger.WithFields(logrus.Fields{"source": sourceName, "count": snapshot.Len()}).Info("Catalog loaded")

	// Initialize Redis client for cart persistence
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{Addr: "localhost:6379"}
	}
	redisClient := redis.NewClient(redisOpts)

	redisAvailable := true
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (carts will not survive restarts)", err)
		redisAvailable = false
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	storeFactory := func(sessionID string) cart.Store {
		if redisAvailable {
			return cart.NewRedisStore(redisClient, sessionID)
		}
		return cart.NewMemoryStore()
	}

	// Initialize event publisher only if NATS_URL is set
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
			publisher.PublishCatalogLoaded(sourceName, snapshot.Len())
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}
	defer publisher.Close()

	// Initialize session manager
	var listeners []session.RenderListener
	if publisher != nil {
		listeners = append(listeners, publisher)
	}
	sessions := session.NewManager(snapshot, storeFactory, cfg.SearchDebounce, logger, listeners...)
	defer sessions.Close()

	// Initialize handlers
	storefrontHandler := handlers.NewStorefrontHandler(sessions, cfg.MaxPageSize, logger)
	cartHandler := handlers.NewCartHandler(sessions, logger)

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":         "healthy",
			"catalogSource":  sourceName,
			"catalogSize":    snapshot.Len(),
			"redisConnected": redisAvailable,
		})
	})

	api := router.Group("/api/v1/storefront")
	api.Use(middleware.SessionMiddleware())
	{
		api.GET("/products", storefrontHandler.GetProducts)
		api.GET("/filters", storefrontHandler.GetAvailableFilters)
		api.GET("/suggestions", storefrontHandler.GetSuggestions)

		api.POST("/session/intents", storefrontHandler.ApplyIntent)
		api.POST("/session/hydrate", storefrontHandler.HydrateSession)
		api.GET("/session/view", storefrontHandler.GetSessionView)

		api.GET("/cart", cartHandler.GetCart)
		api.GET("/cart/badge", cartHandler.GetBadge)
		api.POST("/cart/items", cartHandler.AddItem)
		api.PUT("/cart/items/:id", cartHandler.SetItemQuantity)
		api.DELETE("/cart/items/:id", cartHandler.RemoveItem)
		api.DELETE("/cart", cartHandler.ClearCart)
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Starting storefront service")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down storefront service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}
}
