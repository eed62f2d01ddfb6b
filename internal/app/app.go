package app

import (
	"context"
	"fmt"
	"net/http"

	"medtour-itinerary-service/internal/domain/repository"
	"medtour-itinerary-service/internal/infrastructure/config"
	"medtour-itinerary-service/internal/infrastructure/oauth"
	"medtour-itinerary-service/internal/infrastructure/persistence"
	"medtour-itinerary-service/internal/infrastructure/router"
	"medtour-itinerary-service/internal/interface/cache"
	"medtour-itinerary-service/internal/interface/export"
	"medtour-itinerary-service/internal/interface/handler"
	repo "medtour-itinerary-service/internal/interface/repository"
	"medtour-itinerary-service/internal/interface/search"
	"medtour-itinerary-service/internal/usecase"
	"medtour-itinerary-service/pkg/logger"
	"medtour-itinerary-service/pkg/metrics"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// App holds the wired use cases shared by the HTTP server and the CLI
type App struct {
	Fixer        *usecase.FlightFixer
	Reconciler   *usecase.TimelineReconciler
	Corrector    *usecase.DirectionCorrector
	Allocator    *usecase.AttractionAllocator
	Validator    *usecase.TimelineValidator
	Projector    *usecase.TimelineProjector
	Orchestrator *usecase.RepairOrchestrator
	Previewer    *usecase.RoutePreviewer
	Resolver     *usecase.RouteResolver
	PDF          *export.TimelinePDFRenderer

	db     *gorm.DB
	mongo  *mongo.Client
	redis  *redis.Client
	logger logger.Logger
}

// New connects the stores named in cfg and wires every use case
func New(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log logger.Logger) (*App, error) {
	a := &App{logger: log}

	var err error
	log.Info("Connecting to PostgreSQL")
	a.db, err = persistence.NewPostgresDB(cfg.PostgresDSN, cfg.AutoMigrate)
	if err != nil {
		return nil, err
	}

	log.Info("Connecting to MongoDB")
	a.mongo, err = persistence.NewMongoClient(ctx, cfg.MongoURI, cfg.MongoUser, cfg.MongoPassword)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	mongoDB := persistence.GetDatabase(a.mongo, cfg.MongoDB)

	routeCache, err := a.newRouteCache(ctx, cfg, mongoDB)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	routeSearch, err := newRouteSearch(ctx, cfg, log)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	orders := repo.NewGormOrderRepository(a.db)
	itineraries := repo.NewGormItineraryRepository(a.db)
	uow := repo.NewGormUnitOfWork(a.db)
	cities := usecase.NewCityDirectory(repo.NewGormCityRepository(a.db), log)

	a.Resolver = usecase.NewRouteResolver(routeCache, routeSearch, cities, m, log, usecase.RouteResolverOptions{
		TTL:        cfg.RouteCacheTTL,
		MaxResults: cfg.SearchMaxResults,
	})
	builder := usecase.NewSegmentBuilder(repo.NewGormAirlineRepository(a.db), cities, log)

	a.Fixer = usecase.NewFlightFixer(orders, itineraries, uow, a.Resolver, builder, log)
	a.Reconciler = usecase.NewTimelineReconciler(orders, itineraries, uow, log)
	a.Corrector = usecase.NewDirectionCorrector(orders, itineraries, uow, a.Resolver, builder, cities, log, nil)
	a.Allocator = usecase.NewAttractionAllocator(orders, itineraries, uow, log, nil)
	a.Validator = usecase.NewTimelineValidator(orders, itineraries, cities, m, log)
	a.Projector = usecase.NewTimelineProjector(orders, itineraries, log)
	a.Previewer = usecase.NewRoutePreviewer(a.Resolver, builder, nil)
	a.PDF = export.NewTimelinePDFRenderer(nil)

	operations := router.NewOperationRouter(log)
	operations.Register(usecase.NewFixFlightsOperation(a.Fixer))
	operations.Register(usecase.NewAdjustTimelineOperation(a.Reconciler))
	operations.Register(usecase.NewCorrectDirectionOperation(a.Corrector))
	operations.Register(usecase.NewAllocateAttractionsOperation(a.Allocator))
	a.Orchestrator = usecase.NewRepairOrchestrator(operations, repo.NewMongoRepairLogRepository(mongoDB), m, log, nil)

	return a, nil
}

// Services exposes the use cases to the HTTP handler
func (a *App) Services() handler.Services {
	return handler.Services{
		Fixer:      a.Fixer,
		Reconciler: a.Reconciler,
		Corrector:  a.Corrector,
		Allocator:  a.Allocator,
		Validator:  a.Validator,
		Projector:  a.Projector,
		Repairs:    a.Orchestrator,
		Routes:     a.Previewer,
		PDF:        a.PDF,
	}
}

// Close releases every connection that was opened
func (a *App) Close(ctx context.Context) {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Redis close error", "error", err)
		}
	}
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Error("MongoDB disconnect error", "error", err)
		}
	}
	if a.db != nil {
		if err := persistence.ClosePostgres(a.db); err != nil {
			a.logger.Error("PostgreSQL close error", "error", err)
		}
	}
}

func (a *App) newRouteCache(ctx context.Context, cfg *config.Config, mongoDB *mongo.Database) (repository.RouteCache, error) {
	switch cfg.RouteCacheBackend {
	case config.CacheBackendRedis:
		client, err := persistence.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.redis = client
		return cache.NewRedisRouteCache(client), nil
	case config.CacheBackendMongo:
		return cache.NewMongoRouteCache(mongoDB, nil), nil
	case config.CacheBackendMemory, "":
		return cache.NewMemoryRouteCache(nil), nil
	default:
		return nil, fmt.Errorf("unknown route cache backend %q", cfg.RouteCacheBackend)
	}
}

// newRouteSearch returns nil when no provider is configured; the resolver then skips the
// external tier
func newRouteSearch(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.RouteSearchRepository, error) {
	if !cfg.SearchEnabled() {
		log.Info("External route search disabled", "provider", cfg.SearchProvider)
		return nil, nil
	}
	switch cfg.SearchProvider {
	case config.SearchProviderGoogle:
		return search.NewGoogleSearchRepository(ctx, cfg.GoogleSearchAPIKey, cfg.GoogleSearchEngine, log)
	default:
		creds := oauth.NewClientCredentials(cfg.GatewayClientID, cfg.GatewayClientSecret, cfg.GatewayTokenURL, nil, log)
		client := &http.Client{Timeout: cfg.SearchTimeout}
		if creds.Enabled() {
			client = creds.HTTPClient(context.WithoutCancel(ctx), cfg.SearchTimeout)
		}
		return search.NewGatewaySearchRepository(client, cfg.GatewayURL, cfg.GatewayAPIKey, log), nil
	}
}
