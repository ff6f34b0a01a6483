package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/pickup-service/internal/archive"
	c "github.com/fjod/go_cart/pickup-service/internal/cache"
	"github.com/fjod/go_cart/pickup-service/internal/catalog"
	"github.com/fjod/go_cart/pickup-service/internal/config"
	"github.com/fjod/go_cart/pickup-service/internal/domain"
	h "github.com/fjod/go_cart/pickup-service/internal/http"
	"github.com/fjod/go_cart/pickup-service/internal/idgen"
	"github.com/fjod/go_cart/pickup-service/internal/logger"
	"github.com/fjod/go_cart/pickup-service/internal/metrics"
	"github.com/fjod/go_cart/pickup-service/internal/publisher"
	"github.com/fjod/go_cart/pickup-service/internal/repository"
	"github.com/fjod/go_cart/pickup-service/internal/sink"
	"github.com/fjod/go_cart/pickup-service/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	seedPath := flag.String("seed", "", "path to a JSON menu to upsert on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoDB.URI, cfg.MongoDB.Database)
	if err != nil {
		log.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer mongoDB.Client().Disconnect(ctx)

	repo := repository.NewMongoRepository(mongoDB)
	if err := repository.EnsureIndexes(ctx, repo); err != nil {
		log.Warn("failed to create menu indexes", zap.Error(err))
	}
	log.Info("connected to MongoDB", zap.String("uri", cfg.MongoDB.URI))

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}
	log.Info("redis ping succeeded", zap.String("addr", cfg.Redis.Addr))

	menu := catalog.NewService(repo, c.NewRedisCache(redisClient, cfg.Redis.MenuTTL), log.Named("catalog"))
	if *seedPath != "" {
		if err := seedMenu(ctx, menu, *seedPath); err != nil {
			log.Fatal("failed to seed menu", zap.Error(err))
		}
		log.Info("menu seeded", zap.String("path", *seedPath))
	}

	ids, err := idgen.New(cfg.Order.IDGenerator)
	if err != nil {
		log.Fatal("invalid order id generator", zap.Error(err))
	}
	sessions := store.NewSessions(ids, cfg.Session.TTL, cfg.Session.CleanupInterval)
	defer sessions.Close()

	var sinks sink.Multi
	var history h.OrderHistory
	if cfg.Kafka.Enabled {
		pub := publisher.NewPublisher(cfg.Kafka.Topic, cfg.Kafka.Brokers...)
		defer pub.Close()
		sinks = append(sinks, pub)
		log.Info("publishing placed orders", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	if cfg.Postgres.Enabled {
		creds := &archive.Credentials{
			Host:              cfg.Postgres.Host,
			Port:              cfg.Postgres.Port,
			User:              cfg.Postgres.User,
			Password:          cfg.Postgres.Password,
			DBName:            cfg.Postgres.DBName,
			SSLMode:           cfg.Postgres.SSLMode,
			MigrationsDirPath: cfg.Postgres.MigrationsPath,
		}
		orderArchive, err := archive.NewRepository(creds)
		if err != nil {
			log.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer orderArchive.Close()
		if err := orderArchive.RunMigrations(creds); err != nil {
			log.Fatal("failed to run archive migrations", zap.Error(err))
		}
		sinks = append(sinks, orderArchive)
		history = orderArchive
		log.Info("archiving placed orders", zap.String("host", cfg.Postgres.Host))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	router := h.NewRouter(h.RouterConfig{
		Sessions:           sessions,
		Catalog:            menu,
		Sink:               sinks,
		History:            history,
		Metrics:            m,
		Logger:             log.Named("http"),
		RequestTimeout:     cfg.HTTP.RequestTimeout,
		MaxRequestBodySize: cfg.HTTP.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.ServerWriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("pickup service starting", zap.String("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func seedMenu(ctx context.Context, menu *catalog.Service, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	return menu.Seed(ctx, items)
}
