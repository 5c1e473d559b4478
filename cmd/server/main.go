package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/Chadangdang/BookstoreApp/internal/auth"
	"github.com/Chadangdang/BookstoreApp/internal/cart"
	"github.com/Chadangdang/BookstoreApp/internal/catalog"
	"github.com/Chadangdang/BookstoreApp/internal/checkout"
	h "github.com/Chadangdang/BookstoreApp/internal/http"
	"github.com/Chadangdang/BookstoreApp/internal/orders"
	"github.com/Chadangdang/BookstoreApp/internal/outbox"
	"github.com/Chadangdang/BookstoreApp/internal/storage"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    string
	IdentityURL     string
	IdentityTimeout time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "bookstore"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		IdentityURL:     getEnv("IDENTITY_URL", "http://localhost:9099"),
		IdentityTimeout: 5 * time.Second,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("bookstore server starting...")
	var wg sync.WaitGroup

	cfg := loadConfig()

	// Set up MongoDB connection
	ctx := context.Background()
	mongoDB, err := storage.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("Redis connection failed:", err)
	}
	log.Printf("Redis ping succeeded")

	// Outbox database setup
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}
	creds := &outbox.Credentials{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              dbPort,
		User:              getEnv("DB_USER", "postgres"),
		Password:          getEnv("DB_PASSWORD", "postgres"),
		DBName:            getEnv("DB_NAME", "bookstore"),
		MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./internal/outbox/migrations"),
	}

	outboxRepo, err := outbox.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to outbox database: %v", err)
	}
	defer outboxRepo.Close()

	if err := outboxRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Start outbox poller
	poller := outbox.NewPoller(outboxRepo, cfg.KafkaBrokers)
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(pollerCtx)
	}()

	// Wire services
	bookRepo := catalog.NewMongoRepository(mongoDB)
	bookCache := catalog.NewRedisCache(redisClient)
	catalogService := catalog.NewService(bookRepo, bookCache)

	orderRepo := orders.NewMongoRepository(mongoDB)
	cartStore := cart.NewStore()
	txRunner := storage.NewMongoTxRunner(mongoDB.Client())
	checkoutService := checkout.NewService(cartStore, catalogService, orderRepo, outboxRepo, txRunner)

	identityProvider := auth.NewHTTPProvider(cfg.IdentityURL, cfg.IdentityTimeout)

	booksHandler := h.NewBooksHandler(catalogService)
	cartHandler := h.NewCartHandler(cartStore, catalogService)
	checkoutHandler := h.NewCheckoutHandler(checkoutService)
	ordersHandler := h.NewOrdersHandler(orderRepo, catalogService)
	authHandler := h.NewAuthHandler(identityProvider)

	// Setup router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(h.SessionMiddleware)
	r.Use(h.IdentityMiddleware(identityProvider))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/books", booksHandler.ListBooks)
		r.Get("/books/{book_id}", booksHandler.GetBook)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{book_id}", cartHandler.UpdateQuantity)
			r.Delete("/items/{book_id}", cartHandler.RemoveItem)
		})

		r.Post("/checkout", checkoutHandler.Checkout)
		r.Get("/orders", ordersHandler.ListOrders)
		r.Post("/auth/logout", authHandler.Logout)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(r, "bookstore"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Bookstore server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	pollerCancel()
	doneChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(doneChan)
	}()

	select {
	case <-doneChan:
		log.Println("Poller stopped cleanly")
	case <-shutdownCtx.Done():
		log.Println("Poller didn't stop in time")
	}
	poller.Close()

	mongoDB.Client().Disconnect(ctx)
	log.Println("Bookstore server stopped")
}
