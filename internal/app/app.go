package app

import (
	"context"
	"fmt"

	fileadapter "github.com/mkolchin/shopcart/internal/adapter/file"
	inventoryadapter "github.com/mkolchin/shopcart/internal/adapter/inventory"
	mongoadapter "github.com/mkolchin/shopcart/internal/adapter/mongo"
	natsadapter "github.com/mkolchin/shopcart/internal/adapter/nats"
	redisadapter "github.com/mkolchin/shopcart/internal/adapter/redis"
	"github.com/mkolchin/shopcart/internal/app/config"
	"github.com/mkolchin/shopcart/internal/platform/logger"
	"github.com/mkolchin/shopcart/internal/repository"
	"github.com/mkolchin/shopcart/internal/service"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

type App struct {
	cfg  *config.Config
	log  logger.Logger
	Cart service.CartService

	redisClient *redis.Client
	mongoClient *mongo.Client
	natsConn    *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Debugf("Configuration loaded: Env=%s, storage backend=%s", cfg.Env, cfg.Storage.Backend)

	a := &App{
		cfg: cfg,
		log: appLogger,
	}

	store, err := a.newCartStore(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	inventoryClient, err := inventoryadapter.NewClient(inventoryadapter.ClientConfig{
		BaseURL: cfg.Inventory.BaseURL,
		Timeout: cfg.Inventory.Timeout,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to initialize inventory client: %w", err)
	}

	observers := make([]service.Observer, 0, 1)
	notifiers := []service.Notifier{&logNotifier{log: appLogger}}

	if cfg.NATS.Enabled {
		conn, err := natsadapter.NewConnection(cfg.NATS)
		if err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("failed to initialize NATS connection: %w", err)
		}
		a.natsConn = conn
		publisher := natsadapter.NewPublisher(conn, appLogger)
		observers = append(observers, publisher)
		notifiers = append(notifiers, publisher)
		appLogger.Info("NATS event publisher initialized")
	}

	cart, err := service.NewCartService(store, inventoryClient, appLogger, service.CartServiceConfig{
		StorageKey: cfg.Storage.Key,
		Observers:  observers,
		Notifiers:  notifiers,
	})
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to initialize cart service: %w", err)
	}
	a.Cart = cart

	return a, nil
}

func (a *App) newCartStore(ctx context.Context) (repository.CartStore, error) {
	switch a.cfg.Storage.Backend {
	case "file":
		store, err := fileadapter.NewStore(a.cfg.Storage.Dir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return store, nil
	case "redis":
		client, err := redisadapter.NewClient(ctx, a.cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis client: %w", err)
		}
		a.redisClient = client
		return redisadapter.NewCartStore(client), nil
	case "mongo":
		client, err := mongoadapter.NewClient(ctx, a.cfg.MongoDB)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongodb client: %w", err)
		}
		a.mongoClient = client
		return mongoadapter.NewCartStore(client, a.cfg.MongoDB), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func (a *App) Close(ctx context.Context) {
	if a.natsConn != nil {
		a.natsConn.Close()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing redis client: %v", err)
		}
	}
	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(ctx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		}
	}
}

// logNotifier routes failure signals into the application log, so every
// rejected or failed mutation is visible even without a UI attached.
type logNotifier struct {
	log logger.Logger
}

func (n *logNotifier) Failure(message string) {
	n.log.Warnf("Cart operation failed: %s", message)
}
