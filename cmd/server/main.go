package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/config"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/api"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/bigcommerce"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/broker"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/mapping"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/migrate"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/redisclient"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/store"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/util"
	"github.com/qamaruldinhamza/woocommerce-bigcommerce-migrator-sub000/internal/verify"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting migration service")

	tp, err := util.InitTracer("wc-bc-migrator", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	db, err := store.NewStore(cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected")

	if err := db.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Failed to ensure ledger schema: %v", err)
	}

	redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Redis connected")

	var producer *broker.Producer
	if cfg.Kafka.Enabled {
		producer = broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer producer.Close()
		log.Println("Kafka producer initialized")
	}
	eventPublisher := broker.NewEventPublisher(producer)

	bcClient := bigcommerce.NewClient(
		cfg.BigCommerce.APIBaseURL,
		cfg.BigCommerce.StoreHash,
		cfg.BigCommerce.AccessToken,
		cfg.BigCommerce.Timeout,
	)

	mappings := mapping.NewRepo(db, redisClient)

	categories := migrate.NewCategoryMigrator(db, bcClient, mappings)
	attributes := migrate.NewAttributeMigrator(db, bcClient, mappings, cfg.Migration.ExcludedOptions)
	brands := migrate.NewBrandMigrator(db, bcClient, mappings)
	groups := migrate.NewGroupMigrator(db, bcClient, mappings)
	priceLists := migrate.NewPriceListMigrator(bcClient, mappings)
	products := migrate.NewProductMigrator(db, bcClient, mappings, eventPublisher,
		cfg.Migration.ExcludedOptions, cfg.Migration.ProductDelay)
	customers := migrate.NewCustomerMigrator(db, bcClient, mappings, eventPublisher, cfg.Migration.CustomerDelay)
	orders := migrate.NewOrderMigrator(db, bcClient, eventPublisher, cfg.Migration.OrderDelay)
	verifier := verify.NewEngine(db, bcClient, eventPublisher, cfg.Migration.VerifyDelay)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(cfg, redisClient,
		categories, attributes, brands, groups, priceLists,
		products, customers, orders, verifier)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
