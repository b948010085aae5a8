// Package bootstrap wires configuration, storage, and services together.
package bootstrap

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/adapter/out/mongodb"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/adapter/out/persistence"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/adapter/out/provider/gmail"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/config"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/llm"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/agent/rag"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/domain"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/port/out"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/analytics"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/chat"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/classification"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/document"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/ingest"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/labels"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/core/service/reminder"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/infra/database"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/cache"
	"github.com/mrinalFouzdar/BE-Email-Automation-sub001/pkg/logger"
)

// Dependencies holds every wired component. API and worker modes share
// one instance.
type Dependencies struct {
	Config  *config.Config
	DB      *pgxpool.Pool
	SQLDB   *sqlx.DB
	Redis   *redis.Client
	MongoDB *mongo.Client

	// Repositories
	EmailRepo      domain.EmailRepository
	MetaRepo       domain.EmailMetaRepository
	LabelRepo      domain.LabelRepository
	SuggestionRepo domain.SuggestionRepository
	UsageRepo      domain.UsageRepository
	AuditRepo      domain.AuditRepository
	ReminderRepo   domain.ReminderRepository
	DocumentRepo   domain.DocumentRepository
	BodyRepo       out.EmailBodyRepository

	// Cache
	Cache *cache.RedisCache

	// Agent components
	LLMClient   *llm.Client
	Embedder    *rag.Embedder
	VectorStore *rag.VectorStore
	Retriever   *rag.Retriever

	// Classification cascade
	Cascade *classification.Cascade

	// Services
	ClassificationService *classification.Service
	SuggestionService     *labels.SuggestionService
	LabelService          *labels.LabelService
	AnalyticsService      *analytics.Service
	ChatService           *chat.Service
	ReminderService       *reminder.Service
	DocumentService       *document.Service
	IngestService         *ingest.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	// Database (pgxpool for vector queries)
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })

	// Database (sqlx for the persistence adapters)
	sqlDB, err := database.NewSQLX(cfg.DatabaseURL)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	deps.SQLDB = sqlDB
	cleanups = append(cleanups, func() { sqlDB.Close() })

	// Redis
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, classification cache disabled: %v", err)
		} else {
			deps.Redis = redisClient
			deps.Cache = cache.NewRedisCache(redisClient)
			cleanups = append(cleanups, func() { redisClient.Close() })
		}
	}

	// MongoDB (email bodies)
	if cfg.MongoDBURL != "" {
		mongoClient, err := mongodb.NewClient(cfg.MongoDBURL)
		if err != nil {
			logger.Warn("MongoDB connection failed, bodies unavailable: %v", err)
		} else {
			deps.MongoDB = mongoClient
			cleanups = append(cleanups, func() {
				mongoClient.Disconnect(context.Background())
			})

			bodyAdapter := mongodb.NewBodyAdapter(mongoClient.Database(cfg.MongoDBName))
			if err := bodyAdapter.EnsureIndexes(context.Background()); err != nil {
				logger.Warn("Failed to ensure MongoDB indexes: %v", err)
			}
			deps.BodyRepo = bodyAdapter
		}
	}
	if deps.BodyRepo == nil {
		// Classification falls back to the Postgres snippet.
		deps.BodyRepo = noopBodyStore{}
	}

	// Repositories
	deps.EmailRepo = persistence.NewEmailAdapter(sqlDB)
	deps.MetaRepo = persistence.NewMetaAdapter(sqlDB)
	deps.LabelRepo = persistence.NewLabelAdapter(sqlDB)
	deps.SuggestionRepo = persistence.NewSuggestionAdapter(sqlDB)
	deps.UsageRepo = persistence.NewUsageAdapter(sqlDB)
	deps.AuditRepo = persistence.NewAuditAdapter(sqlDB)
	deps.ReminderRepo = persistence.NewReminderAdapter(sqlDB)
	deps.DocumentRepo = persistence.NewDocumentAdapter(sqlDB)

	// LLM client
	if cfg.OpenAIAPIKey != "" {
		deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
	} else {
		logger.Warn("OPENAI_API_KEY not set, LLM tier and chat disabled")
	}

	// RAG components
	backend := cfg.EmbeddingBackend
	if deps.LLMClient == nil && backend == rag.BackendOpenAI {
		backend = rag.BackendDisabled
	}
	deps.Embedder = rag.NewEmbedder(rag.EmbedderConfig{
		Backend:  backend,
		Model:    cfg.EmbeddingModel,
		LocalURL: cfg.LocalEmbeddingURL,
	}, deps.LLMClient)
	deps.VectorStore = rag.NewVectorStore(db)
	deps.Retriever = rag.NewRetriever(deps.Embedder, deps.VectorStore, 5, cfg.SimilarityThreshold)

	// Classification cascade (cache -> domain rules -> regex -> LLM)
	var cacheTier *classification.CacheClassifier
	if deps.Cache != nil {
		cacheTier = classification.NewCacheClassifier(deps.Cache, cfg.CacheTTL)
	}
	domainTier := classification.NewDomainClassifier(classification.DomainRules{
		LeadershipAddresses: cfg.LeadershipAddresses,
		LeadershipDomains:   cfg.LeadershipDomains,
		ClientDomains:       cfg.ClientDomains,
		InternalDomains:     cfg.InternalDomains,
	})
	regexTier := classification.NewRegexClassifier(cfg.RegexMinMatches)
	var llmTier *classification.LLMClassifier
	if deps.LLMClient != nil {
		llmTier = classification.NewLLMClassifier(deps.LLMClient)
	}
	deps.Cascade = classification.NewCascade(cacheTier, domainTier, regexTier, llmTier)

	// Services
	deps.ClassificationService = classification.NewService(
		deps.Cascade,
		deps.Embedder,
		deps.EmailRepo,
		deps.BodyRepo,
		deps.MetaRepo,
		deps.UsageRepo,
		deps.SuggestionRepo,
		deps.LabelRepo,
		classification.DefaultServiceConfig(),
	)

	propagation := labels.NewPropagation(deps.VectorStore, deps.MetaRepo, deps.LabelRepo, labels.PropagationConfig{
		Threshold: cfg.SimilarityThreshold,
		MaxEmails: 10,
	})
	deps.SuggestionService = labels.NewSuggestionService(deps.SuggestionRepo, deps.LabelRepo, deps.AuditRepo, propagation)
	deps.LabelService = labels.NewLabelService(deps.LabelRepo, deps.EmailRepo)
	deps.AnalyticsService = analytics.NewService(deps.UsageRepo)
	deps.ReminderService = reminder.NewService(deps.ReminderRepo, deps.EmailRepo)
	deps.DocumentService = document.NewService(deps.DocumentRepo, deps.Embedder, deps.VectorStore)

	if deps.LLMClient != nil {
		deps.ChatService = chat.NewService(deps.Retriever, deps.LLMClient)
	}

	// Gmail ingestion (single-mailbox service account style: a refresh
	// token provisioned out of band)
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" && cfg.GoogleRefreshToken != "" {
		oauthConfig := &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/gmail.readonly"},
			Endpoint:     google.Endpoint,
		}
		token := &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken}

		source, err := gmail.NewSource(context.Background(), token, oauthConfig)
		if err != nil {
			logger.WithError(err).Warn("Gmail source unavailable, ingestion disabled")
		} else {
			deps.IngestService = ingest.NewService(domain.MailProviderGmail, source, deps.EmailRepo, deps.BodyRepo)
			logger.Info("Gmail ingestion configured for %s", source.Email())
		}
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	return deps, cleanup, nil
}

// HealthCheck pings the required backends.
func (d *Dependencies) HealthCheck(ctx context.Context) error {
	if err := d.DB.Ping(ctx); err != nil {
		return err
	}

	if d.Redis != nil {
		if err := d.Redis.Ping(ctx).Err(); err != nil {
			return err
		}
	}

	return nil
}

// noopBodyStore stands in when no document store is configured.
type noopBodyStore struct{}

func (noopBodyStore) SaveBody(context.Context, *domain.EmailBody) error { return nil }
func (noopBodyStore) GetBody(context.Context, int64) (*domain.EmailBody, error) {
	return nil, nil
}
func (noopBodyStore) DeleteBody(context.Context, int64) error { return nil }
