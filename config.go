package neogeosync

import (
	"os"
	"time"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// PasswordEnv overrides neo4j.password when set.
const PasswordEnv = "NEOGEOSYNC_NEO4J_PASSWORD"

// Config holds every tunable of the synchronization engine.
type Config struct {
	Neo4j    Neo4jConfig    `yaml:"neo4j"`
	Identity IdentityConfig `yaml:"identity"`
	Bounds   BoundsConfig   `yaml:"bounds"`
	Sync     SyncConfig     `yaml:"sync"`
	Features FeatureConfig  `yaml:"features"`
	Click    ClickConfig    `yaml:"click"`
}

// Neo4jConfig holds the database connection settings.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// IdentityConfig names the node properties that join graph and map.
type IdentityConfig struct {
	IdentifierProperty string `yaml:"identifier_property"`
	FeatureIDProperty  string `yaml:"feature_id_property"`
}

// BoundsConfig describes where a node stores its bounding box.
type BoundsConfig struct {
	Label            string `yaml:"label"`
	MinX             string `yaml:"min_x"`
	MinY             string `yaml:"min_y"`
	MaxX             string `yaml:"max_x"`
	MaxY             string `yaml:"max_y"`
	IncludeNeighbors bool   `yaml:"include_neighbors"`
	// CRS is the reference system of the stored boxes. Empty means they share the
	// map's system and viewports are queried as reported.
	CRS string `yaml:"crs"`
}

// SyncConfig holds the two sync toggles and the zoom gate.
type SyncConfig struct {
	GraphFollowsMap     bool    `yaml:"graph_follows_map"`
	MapFollowsGraph     bool    `yaml:"map_follows_graph"`
	DetailZoom          float64 `yaml:"detail_zoom"`
	DiscardStaleResults bool    `yaml:"discard_stale_results"`
	CenterOnSelection   bool    `yaml:"center_on_selection"`
}

// FeatureConfig configures feature loading.
type FeatureConfig struct {
	Parallelism  int           `yaml:"parallelism"`
	NativeCRS    string        `yaml:"native_crs"`
	OutputFormat string        `yaml:"output_format"`
	Timeout      time.Duration `yaml:"timeout"`
	// RequestsPerSecond throttles fetches; zero disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// ClickConfig configures map click resolution.
type ClickConfig struct {
	// FeatureIDFilter keeps only clicked feature ids containing it; empty keeps all.
	FeatureIDFilter string `yaml:"feature_id_filter"`
}

// DefaultConfig returns the configuration the engine runs with when no file is given.
func DefaultConfig() Config {
	return Config{
		Neo4j: Neo4jConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Identity: IdentityConfig{
			IdentifierProperty: "gml:identifier",
			FeatureIDProperty:  "gml:id",
		},
		Bounds: BoundsConfig{
			MinX:             "x_min",
			MinY:             "y_min",
			MaxX:             "x_max",
			MaxY:             "y_max",
			IncludeNeighbors: true,
		},
		Sync: SyncConfig{
			MapFollowsGraph:     true,
			DetailZoom:          10,
			DiscardStaleResults: true,
			CenterOnSelection:   true,
		},
		Features: FeatureConfig{
			Parallelism:  10,
			NativeCRS:    CRSLAEAEurope,
			OutputFormat: "application/json",
			Timeout:      15 * time.Second,
		},
		Click: ClickConfig{
			FeatureIDFilter: "ProtectedSite",
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, zerr.With(zerr.Wrap(err, ErrConfigReadFailed.Error()), "path", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, zerr.With(zerr.Wrap(err, ErrConfigParseFailed.Error()), "path", path)
	}
	if pw := os.Getenv(PasswordEnv); pw != "" {
		cfg.Neo4j.Password = pw
	}

	return cfg, cfg.Validate()
}

// Validate checks value ranges and the property names used to build queries.
func (c Config) Validate() error {
	if c.Features.Parallelism < 1 {
		return zerr.With(zerr.Wrap(ErrConfigInvalid, "features.parallelism must be at least 1"),
			"parallelism", c.Features.Parallelism)
	}
	if c.Features.RequestsPerSecond < 0 {
		return zerr.With(zerr.Wrap(ErrConfigInvalid, "features.requests_per_second must not be negative"),
			"requests_per_second", c.Features.RequestsPerSecond)
	}
	if c.Sync.DetailZoom < 0 {
		return zerr.With(zerr.Wrap(ErrConfigInvalid, "sync.detail_zoom must not be negative"),
			"detail_zoom", c.Sync.DetailZoom)
	}
	if c.Identity.IdentifierProperty == "" {
		return zerr.Wrap(ErrConfigInvalid, "identity.identifier_property is required")
	}
	if c.Features.NativeCRS == "" {
		return zerr.Wrap(ErrConfigInvalid, "features.native_crs is required")
	}
	for name, field := range map[string]string{
		"bounds.min_x": c.Bounds.MinX,
		"bounds.min_y": c.Bounds.MinY,
		"bounds.max_x": c.Bounds.MaxX,
		"bounds.max_y": c.Bounds.MaxY,
	} {
		if field == "" {
			return zerr.With(zerr.Wrap(ErrConfigInvalid, "bounding box property is required"), "field", name)
		}
	}
	return nil
}

// Mapper returns the IdentityMapper described by the identity section.
func (c Config) Mapper() IdentityMapper {
	return IdentityMapper{
		IdentifierProperty: c.Identity.IdentifierProperty,
		FeatureIDProperty:  c.Identity.FeatureIDProperty,
	}
}

// QueryBuilder returns the BoundsQueryBuilder described by the bounds section.
func (c Config) QueryBuilder() BoundsQueryBuilder {
	return BoundsQueryBuilder{
		Label: c.Bounds.Label,
		Fields: BBoxFields{
			MinX: c.Bounds.MinX,
			MinY: c.Bounds.MinY,
			MaxX: c.Bounds.MaxX,
			MaxY: c.Bounds.MaxY,
		},
		IncludeNeighbors: c.Bounds.IncludeNeighbors,
	}
}
