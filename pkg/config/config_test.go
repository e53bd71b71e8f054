package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/route"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if !slices.Equal(cfg.Building.Floors, []int{1, 2, 3, 4, 5}) {
		t.Errorf("floors = %v", cfg.Building.Floors)
	}
	if cfg.Route.FloorPenalty != 50 || cfg.Route.CandidateWindow != 1 {
		t.Errorf("route = %+v", cfg.Route)
	}
	if cfg.Ingest.MarkerPrefix != "p_" || cfg.Ingest.LabelAttr != "inkscape:label" {
		t.Errorf("ingest = %+v", cfg.Ingest)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[building]
name = "Annex"
floors = [1, 2]
documents = "/srv/floors"

[ingest]
snap_distance = 12.5

[route]
floor_penalty = 30.0
candidate_window = 2

[cache]
backend = "redis"
redis_addr = "cache:6379"
ttl = "90m"

[history]
backend = "none"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Building.Name != "Annex" || !slices.Equal(cfg.Building.Floors, []int{1, 2}) {
		t.Errorf("building = %+v", cfg.Building)
	}
	if cfg.Building.Pattern != "floor_%d.svg" {
		t.Errorf("pattern default lost: %q", cfg.Building.Pattern)
	}
	if cfg.Ingest.SnapDistance != 12.5 || cfg.Ingest.Concurrency != 4 {
		t.Errorf("ingest = %+v", cfg.Ingest)
	}
	if cfg.Route.FloorPenalty != 30 || cfg.Route.CandidateWindow != 2 {
		t.Errorf("route = %+v", cfg.Route)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.History.Backend != HistoryNone {
		t.Errorf("history = %+v", cfg.History)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[building`},
		{"unknown key", "[route]\nfloor_penalti = 3.0"},
		{"empty floors", "[building]\nfloors = []"},
		{"zero floor", "[building]\nfloors = [0, 1]"},
		{"bad pattern", "[building]\npattern = \"floor.svg\""},
		{"negative snap", "[ingest]\nsnap_distance = -1.0"},
		{"negative penalty", "[route]\nfloor_penalty = -5.0"},
		{"negative window", "[route]\ncandidate_window = -1"},
		{"inverted range", "[route]\nmin_floor = 4\nmax_floor = 2"},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"mongo without uri", "[history]\nbackend = \"mongo\""},
		{"bad ttl", "[cache]\nttl = \"soon\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floorwalk.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9090\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("missing file error = %v", err)
	}
	if cfg, err := Load(""); err != nil || cfg.Server.Addr != ":8080" {
		t.Errorf("Load(\"\") = %+v, %v", cfg.Server, err)
	}
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Route.FloorPenalty = 12
	cfg.Route.MaxFloor = 3

	o := route.DefaultOptions()
	for _, opt := range cfg.RouteOptions() {
		opt(&o)
	}
	if o.FloorPenalty != 12 || o.MaxFloor != 3 || o.CandidateWindow != 1 {
		t.Errorf("route options = %+v", o)
	}

	ing := cfg.IngestOptions()
	if ing.MarkerPrefix != "p_" || ing.Concurrency != 4 || len(ing.NodeElements) != 2 {
		t.Errorf("ingest options = %+v", ing)
	}

	src, err := cfg.Source()
	if err != nil {
		t.Fatal(err)
	}
	if got := src.Path(3); got != "floor_3.svg" {
		t.Errorf("Path(3) = %q", got)
	}
}
