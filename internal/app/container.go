// Package app wires repositories, handlers and infrastructure into one
// container shared by the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	arcadeCommands "github.com/felixgeelhaar/ordo/internal/arcade/application/commands"
	arcadeQueries "github.com/felixgeelhaar/ordo/internal/arcade/application/queries"
	arcadeSubs "github.com/felixgeelhaar/ordo/internal/arcade/application/subscribers"
	arcadeDomain "github.com/felixgeelhaar/ordo/internal/arcade/domain"
	arcadeCache "github.com/felixgeelhaar/ordo/internal/arcade/infrastructure/cache"
	arcadePersistence "github.com/felixgeelhaar/ordo/internal/arcade/infrastructure/persistence"
	deployApp "github.com/felixgeelhaar/ordo/internal/deploy/application"
	deployDomain "github.com/felixgeelhaar/ordo/internal/deploy/domain"
	deployRunner "github.com/felixgeelhaar/ordo/internal/deploy/infrastructure/runner"
	docsApp "github.com/felixgeelhaar/ordo/internal/docsearch/application"
	docsArchive "github.com/felixgeelhaar/ordo/internal/docsearch/infrastructure/archive"
	docsKeyword "github.com/felixgeelhaar/ordo/internal/docsearch/infrastructure/keyword"
	docsScraper "github.com/felixgeelhaar/ordo/internal/docsearch/infrastructure/scraper"
	identityCommands "github.com/felixgeelhaar/ordo/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/ordo/internal/identity/application/queries"
	identityPersistence "github.com/felixgeelhaar/ordo/internal/identity/infrastructure/persistence"
	identitySecurity "github.com/felixgeelhaar/ordo/internal/identity/infrastructure/security"
	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	todoCommands "github.com/felixgeelhaar/ordo/internal/todos/application/commands"
	todoQueries "github.com/felixgeelhaar/ordo/internal/todos/application/queries"
	todoPersistence "github.com/felixgeelhaar/ordo/internal/todos/infrastructure/persistence"
	"github.com/felixgeelhaar/ordo/pkg/config"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics
	Health  *observability.HealthRegistry

	// Infrastructure. Redis and RabbitMQ are nil when not configured.
	DB          database.Connection
	RedisClient *redis.Client
	Rabbit      *eventbus.RabbitMQPublisher
	LocalBus    *eventbus.LocalBus
	Publisher   eventbus.Publisher
	OutboxRepo  outbox.Repository
	UnitOfWork  sharedApplication.UnitOfWork
	Processor   *outbox.Processor

	// Identity
	SignupHandler         *identityCommands.SignupHandler
	LoginHandler          *identityCommands.LoginHandler
	LogoutHandler         *identityCommands.LogoutHandler
	SetModifyHandler      *identityCommands.SetModifyHandler
	EnsureDemoUserHandler *identityCommands.EnsureDemoUserHandler
	AuthenticateHandler   *identityQueries.AuthenticateHandler
	GetUserHandler        *identityQueries.GetUserHandler

	// Todos
	CreateItemHandler          *todoCommands.CreateItemHandler
	UpdateItemHandler          *todoCommands.UpdateItemHandler
	DeleteItemHandler          *todoCommands.DeleteItemHandler
	ToggleItemHandler          *todoCommands.ToggleItemHandler
	CompleteAndFollowupHandler *todoCommands.CompleteAndFollowupHandler
	ReorderItemsHandler        *todoCommands.ReorderItemsHandler
	CreateCategoryHandler      *todoCommands.CreateCategoryHandler
	DeleteCategoryHandler      *todoCommands.DeleteCategoryHandler
	ReorderCategoriesHandler   *todoCommands.ReorderCategoriesHandler
	SeedSampleDataHandler      *todoCommands.SeedSampleDataHandler
	ListItemsHandler           *todoQueries.ListItemsHandler
	DueSoonHandler             *todoQueries.DueSoonHandler
	GetItemHandler             *todoQueries.GetItemHandler
	ListCategoriesHandler      *todoQueries.ListCategoriesHandler
	ItemDraftHandler           *todoQueries.ItemDraftHandler

	// Arcade
	SubmitScoreHandler    *arcadeCommands.SubmitScoreHandler
	GameStateHandler      *arcadeCommands.GameStateHandler
	LeaderboardHandler    *arcadeQueries.LeaderboardHandler
	PlayersHandler        *arcadeQueries.PlayersHandler
	LeaderboardSubscriber *arcadeSubs.LeaderboardSubscriber

	// Deploy and docs
	WebhookHandler *deployApp.WebhookHandler
	Docs           *docsApp.Library
}

// NewContainer connects to the configured infrastructure and builds every
// handler. Missing Redis or RabbitMQ degrades features rather than failing.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	conn, err := database.Open(ctx, database.Config{URL: cfg.DatabaseURL, MaxConns: cfg.DatabaseMaxConns})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	c.DB = conn
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	logger.Info("connected to database", "driver", conn.Driver())

	if err := c.connectRedis(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	if err := c.connectBroker(); err != nil {
		_ = c.Close()
		return nil, err
	}

	c.OutboxRepo = outbox.NewSQLRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.wireIdentity()
	c.wireTodos()
	c.wireArcade()
	if err := c.wireDeploy(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.wireDocs()

	c.Processor = outbox.NewProcessor(c.OutboxRepo, c.Publisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
		Retention:        cfg.OutboxRetention(),
		CleanupInterval:  cfg.OutboxCleanupInterval,
	}, logger, c.Metrics)

	return c, nil
}

func (c *Container) connectRedis(ctx context.Context) error {
	if c.Config.RedisURL == "" {
		c.Logger.Info("redis not configured, leaderboard served from the database")
		return nil
	}
	opts, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("redis unreachable at startup", "error", err)
	}
	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	return nil
}

// connectBroker builds the publisher chain: in-process subscribers first,
// then RabbitMQ when configured.
func (c *Container) connectBroker() error {
	c.LocalBus = eventbus.NewLocalBus(c.Logger)

	var external eventbus.Publisher = eventbus.NewNoopPublisher(c.Logger)
	if c.Config.RabbitMQURL != "" {
		rabbit, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err != nil {
			if c.Config.IsProduction() {
				return fmt.Errorf("connect to RabbitMQ: %w", err)
			}
			c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		} else {
			c.Rabbit = rabbit
			external = rabbit
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(rabbit.Ping))
		}
	}
	c.Publisher = eventbus.NewFanoutPublisher(c.LocalBus, external)
	return nil
}

func (c *Container) wireIdentity() {
	users := identityPersistence.NewSQLUserRepository(c.DB)
	sessions := identityPersistence.NewSQLSessionRepository(c.DB)
	hasher := identitySecurity.NewBcryptHasher(0)
	tokens := identitySecurity.NewJWTIssuer(string(c.Config.SigningKey()))

	scores := arcadePersistence.NewSQLScoreRepository(c.DB)

	c.SignupHandler = identityCommands.NewSignupHandler(users, hasher, scores, c.OutboxRepo, c.UnitOfWork)
	c.LoginHandler = identityCommands.NewLoginHandler(users, sessions, hasher, tokens, c.Config.SessionTTL)
	c.LogoutHandler = identityCommands.NewLogoutHandler(sessions)
	c.SetModifyHandler = identityCommands.NewSetModifyHandler(users, c.OutboxRepo, c.UnitOfWork)
	c.EnsureDemoUserHandler = identityCommands.NewEnsureDemoUserHandler(users, hasher, scores, c.OutboxRepo, c.UnitOfWork)
	c.AuthenticateHandler = identityQueries.NewAuthenticateHandler(users, sessions, tokens)
	c.GetUserHandler = identityQueries.NewGetUserHandler(users)
}

func (c *Container) wireTodos() {
	items := todoPersistence.NewSQLItemRepository(c.DB)
	categories := todoPersistence.NewSQLCategoryRepository(c.DB)

	c.CreateItemHandler = todoCommands.NewCreateItemHandler(items, categories, c.OutboxRepo, c.UnitOfWork)
	c.UpdateItemHandler = todoCommands.NewUpdateItemHandler(items, categories, c.OutboxRepo, c.UnitOfWork)
	c.DeleteItemHandler = todoCommands.NewDeleteItemHandler(items, c.OutboxRepo, c.UnitOfWork)
	c.ToggleItemHandler = todoCommands.NewToggleItemHandler(items, c.OutboxRepo, c.UnitOfWork)
	c.CompleteAndFollowupHandler = todoCommands.NewCompleteAndFollowupHandler(items, c.OutboxRepo, c.UnitOfWork)
	c.ReorderItemsHandler = todoCommands.NewReorderItemsHandler(items, c.OutboxRepo, c.UnitOfWork)
	c.CreateCategoryHandler = todoCommands.NewCreateCategoryHandler(categories, c.OutboxRepo, c.UnitOfWork)
	c.DeleteCategoryHandler = todoCommands.NewDeleteCategoryHandler(categories, c.OutboxRepo, c.UnitOfWork)
	c.ReorderCategoriesHandler = todoCommands.NewReorderCategoriesHandler(categories, c.OutboxRepo, c.UnitOfWork)
	c.SeedSampleDataHandler = todoCommands.NewSeedSampleDataHandler(items, categories, c.OutboxRepo, c.UnitOfWork)

	c.ListItemsHandler = todoQueries.NewListItemsHandler(items, categories)
	c.DueSoonHandler = todoQueries.NewDueSoonHandler(items, categories)
	c.GetItemHandler = todoQueries.NewGetItemHandler(items, categories)
	c.ListCategoriesHandler = todoQueries.NewListCategoriesHandler(categories)
	c.ItemDraftHandler = todoQueries.NewItemDraftHandler(categories)
}

func (c *Container) wireArcade() {
	scores := arcadePersistence.NewSQLScoreRepository(c.DB)
	sessions := arcadePersistence.NewSQLGameSessionRepository(c.DB)

	// Interface values stay nil without Redis so handlers skip the cache.
	var (
		board    arcadeDomain.LeaderboardCache
		presence arcadeDomain.PresenceTracker
	)
	if c.RedisClient != nil {
		board = arcadeCache.NewRedisLeaderboard(c.RedisClient)
		presence = arcadeCache.NewRedisPresence(c.RedisClient)
	}

	c.SubmitScoreHandler = arcadeCommands.NewSubmitScoreHandler(scores, board, c.OutboxRepo, c.UnitOfWork, c.Logger)
	c.GameStateHandler = arcadeCommands.NewGameStateHandler(sessions, presence, c.Logger)
	c.LeaderboardHandler = arcadeQueries.NewLeaderboardHandler(scores, board, c.Logger)
	c.PlayersHandler = arcadeQueries.NewPlayersHandler(sessions, presence)
	c.LeaderboardSubscriber = arcadeSubs.NewLeaderboardSubscriber(scores, board, c.Logger)
	c.LeaderboardSubscriber.Register(c.LocalBus)
}

func (c *Container) wireDeploy() error {
	var runner deployDomain.Runner
	if c.Config.DeployCommand != "" {
		rcfg := deployRunner.DefaultConfig(c.Config.DeployCommand)
		rcfg.Dir = c.Config.DeployDir
		rcfg.Timeout = c.Config.DeployTimeout
		r, err := deployRunner.NewExecRunner(rcfg, c.Logger)
		if err != nil {
			return err
		}
		runner = r
	} else {
		c.Logger.Info("DEPLOY_COMMAND not set, webhook pushes are recorded only")
	}
	if c.Config.GitHubWebhookSecret == "" {
		c.Logger.Warn("GITHUB_WEBHOOK_SECRET not set, webhook deliveries will be rejected")
	}

	c.WebhookHandler = deployApp.NewWebhookHandler(deployApp.WebhookConfig{
		Secret:    c.Config.GitHubWebhookSecret,
		BranchRef: c.Config.DeployBranchRef,
	}, runner, c.OutboxRepo, c.Metrics, c.Logger)
	return nil
}

func (c *Container) wireDocs() {
	loader := docsArchive.NewLoader(c.Config.DocsCacheDir, nil, c.Logger)
	scraper := docsScraper.NewReaderScraper(c.Config.ScraperBaseURL, &http.Client{Timeout: 30 * time.Second}, c.Logger)
	c.Docs = docsApp.NewLibrary(c.Config.DocSources(), loader, docsKeyword.NewBuilder(), scraper, c.Logger)
}

// Migrate applies pending schema migrations.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	applied, err := migrations.Run(ctx, c.DB)
	if err != nil {
		return nil, err
	}
	if len(applied) > 0 {
		c.Logger.Info("migrations applied", "count", len(applied), "versions", applied)
	}
	return applied, nil
}

// Close releases every connection the container opened.
func (c *Container) Close() error {
	var errs []error
	if c.WebhookHandler != nil {
		c.WebhookHandler.Wait()
	}
	if c.Publisher != nil {
		errs = append(errs, c.Publisher.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
