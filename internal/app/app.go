package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/darukaa-earth/daruka-rag/internal/chunking"
	"github.com/darukaa-earth/daruka-rag/internal/common"
	"github.com/darukaa-earth/daruka-rag/internal/handlers"
	"github.com/darukaa-earth/daruka-rag/internal/interfaces"
	"github.com/darukaa-earth/daruka-rag/internal/services/embeddings"
	"github.com/darukaa-earth/daruka-rag/internal/services/ingest"
	"github.com/darukaa-earth/daruka-rag/internal/services/llm"
	"github.com/darukaa-earth/daruka-rag/internal/services/memory"
	"github.com/darukaa-earth/daruka-rag/internal/services/pdf"
	"github.com/darukaa-earth/daruka-rag/internal/services/projects"
	"github.com/darukaa-earth/daruka-rag/internal/services/rag"
	"github.com/darukaa-earth/daruka-rag/internal/services/scheduler"
	"github.com/darukaa-earth/daruka-rag/internal/services/tables"
	"github.com/darukaa-earth/daruka-rag/internal/services/vectorstore"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	ctx       context.Context
	cancelCtx context.CancelFunc

	// Storage
	DB    *vectorstore.BadgerDB
	Store *vectorstore.Store

	// Model services
	LLMService    interfaces.LLMService
	Embedder      interfaces.EmbeddingService
	embedProvider interfaces.LLMService

	// Domain services
	Retriever     *rag.Retriever
	Chain         *rag.Chain
	Memory        interfaces.ConversationMemory
	Projects      *projects.Matcher
	IngestService *ingest.Service
	Scheduler     *scheduler.Service

	// Handlers
	QueryHandler   *handlers.QueryHandler
	IngestHandler  *handlers.IngestHandler
	SessionHandler *handlers.SessionHandler
	AdminHandler   *handlers.AdminHandler
	StatusHandler  *handlers.StatusHandler
}

// New wires up the full application from configuration. Services are built
// bottom-up: storage, model providers, then the RAG pipeline and handlers.
func New(config *common.Config, logger arbor.ILogger) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		Config:    config,
		Logger:    logger,
		ctx:       ctx,
		cancelCtx: cancel,
	}

	if err := a.initServices(); err != nil {
		cancel()
		a.closePartial()
		return nil, err
	}
	a.initHandlers()

	logger.Info().
		Str("environment", config.Environment).
		Str("model", a.LLMService.ModelName()).
		Msg("Application initialized")
	return a, nil
}

func (a *App) initServices() error {
	db, err := vectorstore.NewBadgerDB(a.Logger, &a.Config.Storage.Badger)
	if err != nil {
		return fmt.Errorf("failed to open vector storage: %w", err)
	}
	a.DB = db

	generator, embedProvider, err := llm.NewLLMService(a.ctx, &a.Config.LLM, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM services: %w", err)
	}
	a.LLMService = generator
	a.embedProvider = embedProvider
	a.Embedder = embeddings.NewService(embedProvider, a.Config.LLM.EmbedModel, a.Config.LLM.EmbedDimension, a.Logger)

	a.Store = vectorstore.NewStore(db, a.Embedder, a.Logger)
	for _, collection := range []string{a.Config.Retrieval.DefaultCollection, a.Config.Retrieval.ProjectsCollection} {
		if err := a.Store.EnsureCollection(a.ctx, collection); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", collection, err)
		}
	}

	a.Memory = memory.NewService(a.Config.Memory.MaxSessionsPerContext, a.Logger)
	a.Retriever = rag.NewRetriever(a.Store, &a.Config.Retrieval, a.Logger)
	a.Projects = projects.NewMatcher(a.Store, a.LLMService, &a.Config.Retrieval, a.Logger)
	a.Chain = rag.NewChain(a.Retriever, a.LLMService, a.Memory, a.Projects, &a.Config.Memory, a.Logger)

	a.IngestService = ingest.NewService(
		a.newRouter(),
		chunking.NewSemanticChunker(a.Config.Chunking.ChunkSize, a.Config.Chunking.ChunkOverlap),
		a.Store,
		pdf.NewExtractor(a.Logger),
		a.Logger,
	)

	sched, err := scheduler.NewService(a.Memory, &a.Config.Memory, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize scheduler: %w", err)
	}
	a.Scheduler = sched

	return nil
}

func (a *App) newRouter() *chunking.Router {
	cfg := a.Config.Chunking
	return chunking.NewRouter(
		chunking.NewSemanticChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		chunking.NewTableChunker(tables.NewExtractor(), cfg.MaxTableSize),
		chunking.NewQAChunker(),
		chunking.NewHierarchicalChunker(cfg.ParentChunkSize, cfg.ParentOverlap, cfg.ChildChunkSize, cfg.ChildOverlap),
		cfg.HierarchicalThreshold,
	)
}

func (a *App) initHandlers() {
	a.QueryHandler = handlers.NewQueryHandler(a.Chain, a.Logger)
	a.IngestHandler = handlers.NewIngestHandler(a.IngestService, &a.Config.Ingest, a.Logger)
	a.SessionHandler = handlers.NewSessionHandler(a.Memory, a.Logger)
	a.AdminHandler = handlers.NewAdminHandler(a.Store, a.Projects, a.Logger)
	a.StatusHandler = handlers.NewStatusHandler(a.LLMService, a.Embedder, a.Store, a.Logger)
}

// Start launches background services.
func (a *App) Start() error {
	return a.Scheduler.Start(a.Config.Memory.PruneSchedule)
}

// Close shuts down services in reverse dependency order.
func (a *App) Close() error {
	a.cancelCtx()

	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	return a.closePartial()
}

func (a *App) closePartial() error {
	var firstErr error
	if a.LLMService != nil {
		if err := a.LLMService.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.embedProvider != nil && a.embedProvider != a.LLMService {
		if err := a.embedProvider.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
