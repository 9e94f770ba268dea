package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/helpdesk-labs/support-agent/internal/retrieval"
)

// RetrievalSettings is the YAML-tunable part of the retrieval engine.
type RetrievalSettings struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	DenseWeight    float64 `yaml:"dense_weight"`
	SparseWeight   float64 `yaml:"sparse_weight"`
	RRFK           int     `yaml:"rrf_k"`
	MaxChunkLength int     `yaml:"max_chunk_length"`
}

// LoadRetrievalSettings reads the retrieval tuning file. A missing file is
// not an error: the defaults apply.
func LoadRetrievalSettings(path string) (*RetrievalSettings, error) {
	settings := defaultRetrievalSettings()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read retrieval config: %w", err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse retrieval config: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

func defaultRetrievalSettings() RetrievalSettings {
	cfg := retrieval.DefaultConfig()
	return RetrievalSettings{
		TopK:           cfg.TopK,
		ScoreThreshold: cfg.ScoreThreshold,
		DenseWeight:    cfg.Fusion.DenseWeight,
		SparseWeight:   cfg.Fusion.SparseWeight,
		RRFK:           cfg.Fusion.RRFK,
		MaxChunkLength: retrieval.DefaultMaxChunkLength,
	}
}

func (s *RetrievalSettings) Validate() error {
	if s.TopK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", s.TopK)
	}
	if s.ScoreThreshold < 0 || s.ScoreThreshold > 1 {
		return fmt.Errorf("score_threshold must be in [0,1], got %f", s.ScoreThreshold)
	}
	if s.DenseWeight < 0 || s.SparseWeight < 0 {
		return fmt.Errorf("fusion weights must be non-negative")
	}
	if s.RRFK <= 0 {
		return fmt.Errorf("rrf_k must be positive, got %d", s.RRFK)
	}
	if s.MaxChunkLength <= 0 {
		return fmt.Errorf("max_chunk_length must be positive, got %d", s.MaxChunkLength)
	}
	return nil
}

// RetrievalConfig maps the settings onto the retrieval engine's config.
func (s *RetrievalSettings) RetrievalConfig() retrieval.Config {
	return retrieval.Config{
		TopK:           s.TopK,
		ScoreThreshold: s.ScoreThreshold,
		Fusion: retrieval.FusionConfig{
			DenseWeight:  s.DenseWeight,
			SparseWeight: s.SparseWeight,
			RRFK:         s.RRFK,
		},
	}
}
