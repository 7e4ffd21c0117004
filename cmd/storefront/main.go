package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tanvirrrhasan/TanvirEmart/internal/auth"
	"github.com/tanvirrrhasan/TanvirEmart/internal/catalog"
	"github.com/tanvirrrhasan/TanvirEmart/internal/checkout"
	"github.com/tanvirrrhasan/TanvirEmart/internal/config"
	h "github.com/tanvirrrhasan/TanvirEmart/internal/http"
	"github.com/tanvirrrhasan/TanvirEmart/internal/kv"
	"github.com/tanvirrrhasan/TanvirEmart/internal/orders"
	"github.com/tanvirrrhasan/TanvirEmart/internal/otp"
	"github.com/tanvirrrhasan/TanvirEmart/internal/relay"
	"github.com/tanvirrrhasan/TanvirEmart/internal/throttle"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	mongoDB, err := catalog.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
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

	slots := kv.NewRedisStore(redisClient)
	snapshot := catalog.NewSnapshot(catalog.NewMongoRepository(mongoDB))
	nav := relay.New(slots)

	ordersRepo := orders.NewMongoRepository(mongoDB)
	profilesRepo := orders.NewMongoProfileRepository(mongoDB)
	ordersSvc := orders.NewService(ordersRepo, profilesRepo, nav)

	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)
	builder := checkout.NewBuilder(cfg.DeliveryFee)
	debouncer := throttle.NewDebouncer(300 * time.Millisecond)

	var sender otp.SMSSender = otp.LogSender{}
	if cfg.SMSGatewayURL != "" {
		sender = &otp.HTTPSender{URL: cfg.SMSGatewayURL}
	}
	challenger := otp.NewKVChallenger(slots, sender)
	provider := auth.NewTokenInfoVerifier(cfg.TokenInfoURL)
	session := auth.NewSession()
	sessionEvents := session.Subscribe()
	go func() {
		for id := range sessionEvents {
			if id != nil {
				log.Printf("signed in: %s via %s", id.UID, id.Method)
			} else {
				log.Printf("signed out")
			}
		}
	}()

	router := h.NewRouter(
		issuer,
		h.NewProductHandler(snapshot, debouncer),
		h.NewCartHandler(slots, snapshot),
		h.NewCheckoutHandler(slots, snapshot, nav, builder, ordersSvc),
		h.NewOrdersHandler(ordersSvc),
		h.NewAuthHandler(issuer, provider, challenger, profilesRepo, session),
		h.NewNavHandler(nav),
		cfg.RequestTimeout,
	)

	// warm the catalog so the first page load doesn't pay the query
	if err := snapshot.Refresh(ctx); err != nil {
		log.Printf("catalog warmup failed, will retry lazily: %v", err)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
	mongoDB.Client().Disconnect(ctx)
	log.Println("server exited")
}
