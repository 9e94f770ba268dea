package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/helpdesk-labs/support-agent/internal/agents"
	"github.com/helpdesk-labs/support-agent/internal/bedrock"
	"github.com/helpdesk-labs/support-agent/internal/chat"
	"github.com/helpdesk-labs/support-agent/internal/config"
	"github.com/helpdesk-labs/support-agent/internal/conversation"
	"github.com/helpdesk-labs/support-agent/internal/embedding"
	"github.com/helpdesk-labs/support-agent/internal/middleware"
	"github.com/helpdesk-labs/support-agent/internal/redis"
	"github.com/helpdesk-labs/support-agent/internal/retrieval"
	"github.com/helpdesk-labs/support-agent/internal/search"
	"github.com/helpdesk-labs/support-agent/internal/tools"
	"github.com/helpdesk-labs/support-agent/internal/vectorstore"
)

const version = "1.0.0"

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Support Agent API",
			Description: "Customer support agent with hybrid retrieval",
			Version:     version,
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "chat", Description: "Chat operations"}},
		{TagProps: spec.TagProps{Name: "search", Description: "Knowledge base search"}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting Support Agent API Server")

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := config.Load()

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	retrievalSettings, err := config.LoadRetrievalSettings(cfg.RetrievalConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid retrieval configuration")
	}

	ctx := context.Background()

	bedrockClient, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeModelID)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize Bedrock client")
	}
	miniClient, err := bedrock.NewClient(ctx, cfg.AWSRegion, cfg.ClaudeMiniModelID)
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize mini Bedrock client")
	}

	log.Info().
		Str("region", cfg.AWSRegion).
		Str("model", cfg.ClaudeModelID).
		Msg("Bedrock client initialized")

	db, err := vectorstore.NewWithBackoff(ctx, cfg.VectorDB, cfg.ConnectMaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to vector database")
	}
	defer db.Close()
	log.Info().Msg("Vector database connected")

	redisClient, err := redis.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.ConnectMaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("Redis connected")

	// Wire retrieval
	embedder := embedding.NewTitanEmbedder(bedrockClient.Runtime, cfg.EmbeddingModelID)
	retriever := retrieval.NewRetriever(embedder, db, retrievalSettings.RetrievalConfig(), log.Logger)

	docs, err := db.LoadAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load knowledge base")
	}
	retriever.BuildBM25Index(docs)

	// Wire agents
	registry := tools.NewRegistry()
	for _, tool := range tools.SupportTools() {
		if err := registry.Register(tool); err != nil {
			log.Fatal().Err(err).Str("tool", tool.Name).Msg("Failed to register support tool")
		}
	}

	conversationStore := conversation.NewRedisStore(redisClient, cfg.RedisTTL)

	orchestrator := agents.NewOrchestrator(
		agents.NewRouter(miniClient, log.Logger),
		agents.NewRAGAgent(bedrockClient, retriever, retrievalSettings.TopK, 1000, log.Logger),
		agents.NewToolAgent(bedrockClient, registry, 1000, log.Logger),
		agents.NewResponder(bedrockClient, 500, log.Logger),
		conversationStore,
		log.Logger,
	)

	container := restful.NewContainer()

	// Add filters
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	// Register APIs
	chat.RegisterRoutes(container, chat.NewHandler(orchestrator, version))
	search.RegisterRoutes(container, search.NewHandler(retriever))

	openAPIConfig := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(openAPIConfig))

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info().Str("address", addr).Msg("Starting server")

	server := http.Server{
		Addr:         addr,
		Handler:      corsHandler.Handler(container),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}
