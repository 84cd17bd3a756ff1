package cmd

import (
	"errors"
	"fmt"

	httpin "shopping/internal/adapters/in/http"
	"shopping/internal/adapters/out/kafka"
	"shopping/internal/adapters/out/memory"
	"shopping/internal/adapters/out/postgres"
	"shopping/internal/core/application/services"
	"shopping/internal/core/application/usecases/queries"
	"shopping/internal/core/domain/model/order"
	"shopping/internal/core/ports"
	"shopping/internal/jobs"
	"shopping/internal/pkg/keylock"
	"shopping/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// CompositionRoot wires the application. With a database configured it runs on
// PostgreSQL; otherwise on the in-memory store.
type CompositionRoot struct {
	cfg        Config
	logger     *zap.Logger
	gormDB     *gorm.DB
	uowFactory ports.UnitOfWorkFactory
	registry   *prometheus.Registry
	publisher  *kafka.OrderStatusPublisher

	orders  *services.OrderService
	catalog *services.CatalogService
	carts   *services.CartService
}

func NewCompositionRoot(cfg Config, logger *zap.Logger) (*CompositionRoot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	order.SetIdempotentTransitions(cfg.IdempotentTransitions)

	c := &CompositionRoot{
		cfg:      cfg,
		logger:   logger,
		registry: prometheus.NewRegistry(),
	}
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.UsesDatabase() {
		gormDB, err := gorm.Open(postgresdriver.Open(cfg.DSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err = postgres.Migrate(gormDB); err != nil {
			return nil, fmt.Errorf("migrate database: %w", err)
		}
		c.gormDB = gormDB
		c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB)
		logger.Info("using postgres storage", zap.String("host", cfg.DBHost), zap.String("db", cfg.DBName))
	} else {
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewStore())
		logger.Warn("no database configured, using in-memory storage")
	}

	var events ports.EventPublisher
	if cfg.UsesKafka() {
		publisher, err := kafka.NewOrderStatusPublisher(cfg.KafkaHost, cfg.KafkaOrderChangedTopic)
		if err != nil {
			return nil, fmt.Errorf("create kafka publisher: %w", err)
		}
		c.publisher = publisher
		events = publisher
	}

	var f services.UoWFactory = FuncUoWFactory(func() services.UoW {
		return c.uowFactory.Create()
	})

	// Checkout and cart edits share the cart lock, so both services use one locker.
	locker := keylock.New(cfg.LockTimeout)
	orders, err := services.NewOrderService(services.OrderServiceDeps{
		UoWFactory: f,
		Locker:     locker,
		Events:     events,
		Logger:     logger,
		Metrics:    metrics.NewOrderMetrics(c.registry),
	})
	if err != nil {
		return nil, err
	}
	catalog, err := services.NewCatalogService(f, logger)
	if err != nil {
		return nil, err
	}
	carts, err := services.NewCartService(f, locker, logger)
	if err != nil {
		return nil, err
	}
	c.orders = orders
	c.catalog = catalog
	c.carts = carts

	return c, nil
}

func (c *CompositionRoot) OrderService() *services.OrderService {
	return c.orders
}

func (c *CompositionRoot) CatalogService() *services.CatalogService {
	return c.catalog
}

func (c *CompositionRoot) CartService() *services.CartService {
	return c.carts
}

func (c *CompositionRoot) Gatherer() prometheus.Gatherer {
	return c.registry
}

// CreateGetActiveOrdersQueryHandler reads with SQL on PostgreSQL and through the
// order repository on the in-memory store.
func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() httpin.ActiveOrdersQueryHandler {
	if c.gormDB != nil {
		return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
	}
	return queries.NewRepositoryActiveOrdersQueryHandler(c.uowFactory.Create().OrderRepository())
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(c.orders, c.catalog, c.carts, c.CreateGetActiveOrdersQueryHandler(), c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.cfg.PendingOrderTTL == 0 {
		c.logger.Info("pending order expiry disabled")
		return jobs.NewJobManager(c.logger)
	}
	expiry := jobs.NewPendingOrderExpiryJob(c.orders, c.cfg.ExpirySchedule, c.cfg.PendingOrderTTL, c.logger)
	return jobs.NewJobManager(c.logger, expiry)
}

// Close releases the Kafka writer and the database pool.
func (c *CompositionRoot) Close() error {
	var err error
	if c.publisher != nil {
		err = errors.Join(err, c.publisher.Close())
	}
	if c.gormDB != nil {
		sqlDB, dbErr := c.gormDB.DB()
		if dbErr == nil {
			dbErr = sqlDB.Close()
		}
		err = errors.Join(err, dbErr)
	}
	return err
}

type FuncUoWFactory func() services.UoW

func (f FuncUoWFactory) Create() services.UoW {
	return f()
}
