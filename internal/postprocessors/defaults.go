package postprocessors

import (
	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/postprocessors/chunker"
	"github.com/custodia-labs/groundrag/internal/postprocessors/metadata"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("metadata", buildMetadata)
	r.Register("chunker", buildChunker)
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Runes per segment (default: 500)
//   - overlap (int): Runes shared by consecutive segments (default: 50)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if _, ok := cfg["chunk_size"]; ok {
			opts = append(opts, chunker.WithChunkSize(getIntFromConfig(cfg, "chunk_size")))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return chunker.New(opts...)
}

// buildMetadata creates a metadata extractor from generic config.
// Supported config keys:
//   - rules ([]domain.MetadataRule): extraction table (default: built-in table)
func buildMetadata(cfg map[string]any) (driven.PostProcessor, error) {
	rules := domain.DefaultMetadataRules()
	if cfg != nil {
		if r, ok := cfg["rules"].([]domain.MetadataRule); ok && len(r) > 0 {
			rules = r
		}
	}
	return metadata.New(rules)
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
