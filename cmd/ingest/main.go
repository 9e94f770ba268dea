package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/helpdesk-labs/support-agent/internal/bedrock"
	"github.com/helpdesk-labs/support-agent/internal/config"
	"github.com/helpdesk-labs/support-agent/internal/embedding"
	"github.com/helpdesk-labs/support-agent/internal/ingestion"
	"github.com/helpdesk-labs/support-agent/internal/logger"
	"github.com/helpdesk-labs/support-agent/internal/vectorstore"
)

func main() {
	filePath := flag.String("file", "", "Ingest a single .txt or .md file")
	dirPath := flag.String("dir", "", "Ingest every .txt and .md file in a directory")
	truncate := flag.Bool("truncate", false, "Wipe the knowledge base before ingesting")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	cfg := config.Load()
	log.Logger = logger.New(cfg.LogLevel)

	if *filePath == "" && *dirPath == "" {
		log.Fatal().Msg("Provide -file or -dir")
	}

	retrievalSettings, err := config.LoadRetrievalSettings(cfg.RetrievalConfigPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid retrieval configuration")
	}

	ctx := context.Background()

	db, err := vectorstore.NewWithBackoff(ctx, cfg.VectorDB, cfg.ConnectMaxRetries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to vector database")
	}
	defer db.Close()

	bedrockClient, err := bedrock.NewClient(ctx, cfg.AWSRegion, "")
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to initialize Bedrock client")
	}

	embedder := embedding.NewTitanEmbedder(bedrockClient.Runtime, cfg.EmbeddingModelID)
	pipeline := ingestion.NewPipeline(ingestion.NewParser(), embedder, db, retrievalSettings.MaxChunkLength, log.Logger)

	if *truncate {
		if err := db.Truncate(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate knowledge base")
		}
		log.Info().Msg("Knowledge base truncated")
	}

	var total int
	if *filePath != "" {
		total, err = pipeline.IngestFile(ctx, *filePath)
	} else {
		total, err = pipeline.IngestDirectory(ctx, *dirPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Ingestion failed")
	}

	log.Info().Int("chunks", total).Msg("Done")
}
