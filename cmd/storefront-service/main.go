package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/catalog"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/checkout"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/clients"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/db"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	httpapi "github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/http"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/logging"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/sequence"
)

type stores struct {
	products catalog.Repository
	cart     cart.Store
	orders   order.Repository
	seq      events.Sequencer
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("storefront-service stopped", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run owns every resource it opens; all of them are released through defers before it returns.
func run(cfg config.Config, logger *zap.Logger) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- storage ---
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer st.close()

	if cfg.SeedCatalog {
		seeded, err := st.products.SeedIfEmpty(ctx, catalog.DemoProducts())
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if seeded {
			logger.Info("seeded demo catalog")
		}
	}

	// --- AMQP ---
	var publisher checkout.OrderPublisher
	if cfg.RabbitMQURL != "" {
		conn, ch, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("rabbitmq connect: %w", err)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(ch, st.seq, logger, events.PublisherOptions{})
		if err != nil {
			return fmt.Errorf("init publisher: %w", err)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Info("RABBITMQ_URL not set, OrderPlaced events disabled")
	}

	// --- domain ---
	manager := cart.NewManager(st.cart, st.products, logger)
	engine := checkout.NewEngine(checkout.Deps{
		Catalog:     st.products,
		Orders:      st.orders,
		Cart:        manager,
		Publisher:   publisher,
		Logger:      logger,
		Concurrency: cfg.CheckoutLookupConcurrency,
	})

	feedClient, err := clients.NewClient("fakestore", cfg.CatalogFeedURL, &http.Client{Timeout: cfg.UpstreamTimeout})
	if err != nil {
		return fmt.Errorf("catalog feed client: %w", err)
	}
	syncer := catalog.NewSyncer(st.products, clients.NewFakeStoreClient(feedClient), logger)

	// --- HTTP ---
	h := httpapi.NewHandler(httpapi.Deps{
		Logger:   logger,
		Products: st.products,
		Syncer:   syncer,
		Cart:     manager,
		Checkout: engine,
		Orders:   st.orders,
	})

	addr := ":" + cfg.Port
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(h, cfg.CORSAllowOrigins),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("http listening", zap.String("addr", addr), zap.String("backend", cfg.StoreBackend))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
	case serveErr = <-errCh:
		logger.Error("http server failed", zap.Error(serveErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()

	logger.Info("shutdown complete")
	return serveErr
}

func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn("using in-memory storage; data is lost on restart")
		return stores{
			products: catalog.NewMemoryRepository(),
			cart:     cart.NewMemoryStore(),
			orders:   order.NewMemoryRepository(),
			seq:      sequence.NewMemory(),
			close:    func() {},
		}, nil
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		return stores{}, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			pool.Close()
			return stores{}, fmt.Errorf("db migrate: %w", err)
		}
	}

	return stores{
		products: catalog.NewPostgresRepository(pool),
		cart:     cart.NewPostgresStore(pool),
		orders:   order.NewPostgresRepository(pool),
		seq:      sequence.NewRepository(pool),
		close:    pool.Close,
	}, nil
}
