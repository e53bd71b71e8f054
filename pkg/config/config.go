// Package config loads floorwalk configuration from TOML files.
//
// A configuration file only needs the keys it changes; everything else keeps
// the value from [Default]:
//
//	[building]
//	name = "Main campus"
//	documents = "./floors"
//	floors = [1, 2, 3, 4, 5]
//
//	[route]
//	floor_penalty = 50.0
//	candidate_window = 1
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/ingest"
	"github.com/matzehuels/floorwalk/pkg/route"
	"github.com/matzehuels/floorwalk/pkg/source"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// History backends.
const (
	HistoryMemory = "memory"
	HistoryMongo  = "mongo"
	HistoryNone   = "none"
)

// Config is the complete configuration.
type Config struct {
	Building Building `toml:"building"`
	Ingest   Ingest   `toml:"ingest"`
	Route    Route    `toml:"route"`
	Cache    Cache    `toml:"cache"`
	Server   Server   `toml:"server"`
	History  History  `toml:"history"`
}

// Building describes where the floor drawings live.
type Building struct {
	Name      string `toml:"name"`
	Floors    []int  `toml:"floors"`
	Documents string `toml:"documents"`
	Pattern   string `toml:"pattern"`
}

// Ingest mirrors [ingest.Options].
type Ingest struct {
	MarkerPrefix      string   `toml:"marker_prefix"`
	SnapDistance      float64  `toml:"snap_distance"`
	StairsGroupSuffix int      `toml:"stairs_group_suffix"`
	NodeElements      []string `toml:"node_elements"`
	LineElement       string   `toml:"line_element"`
	LabelAttr         string   `toml:"label_attr"`
	Concurrency       int      `toml:"concurrency"`
}

// Route mirrors [route.Options].
type Route struct {
	FloorPenalty    float64 `toml:"floor_penalty"`
	CandidateWindow int     `toml:"candidate_window"`
	MinFloor        int     `toml:"min_floor"`
	MaxFloor        int     `toml:"max_floor"`
}

// Cache selects the route-result cache.
type Cache struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// History selects the query history store.
type History struct {
	Backend    string `toml:"backend"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Limit      int    `toml:"limit"`
}

// Duration is a time.Duration written as a string ("24h", "90m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration: five floors read from
// floor_<n>.svg in the working directory.
func Default() Config {
	return Config{
		Building: Building{
			Name:      "building",
			Floors:    []int{1, 2, 3, 4, 5},
			Documents: ".",
			Pattern:   source.DefaultPattern,
		},
		Ingest: Ingest{
			MarkerPrefix:      ingest.DefaultMarkerPrefix,
			StairsGroupSuffix: ingest.DefaultStairsGroupSuffix,
			NodeElements:      slices.Clone(ingest.DefaultNodeElements),
			LineElement:       ingest.DefaultLineElement,
			LabelAttr:         ingest.DefaultLabelAttr,
			Concurrency:       ingest.DefaultConcurrency,
		},
		Route: Route{
			FloorPenalty:    route.DefaultFloorPenalty,
			CandidateWindow: route.DefaultCandidateWindow,
		},
		Cache: Cache{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration{24 * time.Hour},
		},
		Server: Server{Addr: ":8080"},
		History: History{
			Backend:    HistoryMemory,
			Database:   "floorwalk",
			Collection: "queries",
			Limit:      1000,
		},
	}
}

// Load reads the TOML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	return Parse(string(data))
}

// Parse decodes TOML text over the defaults and validates the result.
// Unknown keys are rejected so that typos do not silently fall back to a
// default.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if len(c.Building.Floors) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "building.floors must not be empty")
	}
	for _, f := range c.Building.Floors {
		if err := errors.ValidateFloor(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "building.floors")
		}
	}
	if c.Building.Pattern != "" && strings.Count(c.Building.Pattern, "%d") != 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "building.pattern %q must contain one %%d", c.Building.Pattern)
	}
	if c.Ingest.SnapDistance < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "ingest.snap_distance must not be negative")
	}
	if c.Ingest.StairsGroupSuffix < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ingest.stairs_group_suffix must be at least 1")
	}
	if c.Ingest.Concurrency < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "ingest.concurrency must be at least 1")
	}
	if c.Route.FloorPenalty < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "route.floor_penalty must not be negative")
	}
	if c.Route.CandidateWindow < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "route.candidate_window must not be negative")
	}
	if c.Route.MinFloor < 0 || c.Route.MaxFloor < 0 ||
		(c.Route.MinFloor > 0 && c.Route.MaxFloor > 0 && c.Route.MinFloor > c.Route.MaxFloor) {
		return errors.New(errors.ErrCodeInvalidConfig, "route.min_floor/max_floor out of range")
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache.backend %q", c.Cache.Backend)
	}
	switch c.History.Backend {
	case HistoryMemory, HistoryNone:
	case HistoryMongo:
		if c.History.MongoURI == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "history.mongo_uri is required for the mongo backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown history.backend %q", c.History.Backend)
	}
	return nil
}

// IngestOptions converts the ingest section. The logger is left to the
// caller.
func (c Config) IngestOptions() ingest.Options {
	return ingest.Options{
		MarkerPrefix:      c.Ingest.MarkerPrefix,
		NodeElements:      c.Ingest.NodeElements,
		LineElement:       c.Ingest.LineElement,
		LabelAttr:         c.Ingest.LabelAttr,
		SnapDistance:      c.Ingest.SnapDistance,
		StairsGroupSuffix: c.Ingest.StairsGroupSuffix,
		Concurrency:       c.Ingest.Concurrency,
	}
}

// RouteOptions converts the route section.
func (c Config) RouteOptions() []route.Option {
	return []route.Option{
		route.WithFloorPenalty(c.Route.FloorPenalty),
		route.WithCandidateWindow(c.Route.CandidateWindow),
		route.WithFloorRange(c.Route.MinFloor, c.Route.MaxFloor),
	}
}

// Source opens the configured floor document directory.
func (c Config) Source() (*source.Dir, error) {
	if err := errors.ValidatePath(c.Building.Documents); err != nil {
		return nil, err
	}
	dir, err := source.NewDir(c.Building.Documents, c.Building.Pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "building.pattern")
	}
	return dir, nil
}
