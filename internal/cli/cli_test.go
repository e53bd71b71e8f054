package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/floorwalk/pkg/errors"
	fwio "github.com/matzehuels/floorwalk/pkg/io"
)

func floorSVG(elems ...string) string {
	return `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape">` +
		strings.Join(elems, "") + `</svg>`
}

func marker(label string, x, y float64) string {
	return fmt.Sprintf(`<ellipse inkscape:label=%q cx="%g" cy="%g"/>`, label, x, y)
}

func segment(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g"/>`, x1, y1, x2, y2)
}

// building writes a two-floor building and a config file pointing at it and
// at a private cache directory. It returns the config path.
func building(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	floors := map[int]string{
		1: floorSVG(
			marker("p_room_101", 0, 0),
			marker("p_room_toilet1M", 0, 10),
			marker("p_stairs_1A", 10, 0),
			segment(0, 0, 10, 0),
			segment(0, 0, 0, 10),
		),
		2: floorSVG(
			marker("p_stairs_2A", 10, 0),
			marker("p_room_201", 10, 20),
			segment(10, 0, 10, 20),
		),
	}
	for f, svg := range floors {
		if err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("floor_%d.svg", f)), []byte(svg), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	cfg := fmt.Sprintf("[building]\nfloors = [1, 2]\ndocuments = %q\n\n[cache]\ndir = %q\n",
		dir, filepath.Join(t.TempDir(), "cache"))
	path := filepath.Join(dir, "floorwalk.toml")
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

type result struct {
	stdout string
	stderr string
	logs   string
	err    error
}

func execute(args ...string) result {
	var out, errOut, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), logs: logs.String(), err: err}
}

func TestRouteCommand(t *testing.T) {
	cfg := building(t)

	res := execute("--config", cfg, "route", "101", "201")
	if res.err != nil {
		t.Fatalf("route: %v\n%s", res.err, res.logs)
	}
	for _, want := range []string{"101 → 201", "cost 80.0", "4 points", "floors 1→2", "fresh", "p_stairs_1A (floor 1)"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
	if !strings.Contains(res.logs, "Built navigation graph") {
		t.Errorf("logs = %q", res.logs)
	}

	res = execute("--config", cfg, "route", "101", "201")
	if res.err != nil || !strings.Contains(res.stdout, "cached") {
		t.Errorf("second run should hit the cache: %v\n%s", res.err, res.stdout)
	}
}

func TestRouteJSON(t *testing.T) {
	res := execute("--config", building(t), "route", "-o", "json", "101", "201")
	if res.err != nil {
		t.Fatal(res.err)
	}
	var body struct {
		Cost   float64 `json:"cost"`
		Floors []int   `json:"floors"`
	}
	if err := json.Unmarshal([]byte(res.stdout), &body); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.stdout)
	}
	if body.Cost != 80 || len(body.Floors) != 2 {
		t.Errorf("body = %+v", body)
	}
}

func TestCommandErrors(t *testing.T) {
	cfg := building(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown room", []string{"route", "101", "Nowhere"}, errors.ErrCodeRoomNotFound},
		{"bad output", []string{"route", "-o", "yaml", "101", "201"}, errors.ErrCodeInvalidFormat},
		{"blank room", []string{"route", " ", "201"}, errors.ErrCodeInvalidRoom},
		{"bad category", []string{"restroom", "201", "X"}, errors.ErrCodeInvalidCategory},
		{"no candidate", []string{"restroom", "201", "F"}, errors.ErrCodeNoCandidate},
		{"bad floor", []string{"rooms", "--floor", "0"}, errors.ErrCodeInvalidFloor},
		{"bad format", []string{"export", "-f", "bmp"}, errors.ErrCodeInvalidFormat},
		{"half route", []string{"export", "--from", "101"}, errors.ErrCodeInvalidInput},
		{"negative penalty", []string{"--penalty", "-1", "route", "101", "201"}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg}, tt.args...)
			res := execute(args...)
			if !errors.Is(res.err, tt.code) {
				t.Errorf("error = %v, want %s", res.err, tt.code)
			}
		})
	}

	if res := execute("--config", cfg, "route", "101"); res.err == nil {
		t.Error("route with one argument should fail")
	}
}

func TestRestroomCommand(t *testing.T) {
	res := execute("--config", building(t), "restroom", "201", "m")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"201 → toilet1M", "cost 90.0", "↓"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestRoomsCommand(t *testing.T) {
	cfg := building(t)

	res := execute("--config", cfg, "rooms")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "101") || !strings.Contains(res.stdout, "201") {
		t.Errorf("rooms missing:\n%s", res.stdout)
	}
	if strings.Contains(res.stdout, "toilet") {
		t.Errorf("restroom listed as room:\n%s", res.stdout)
	}
	if !strings.Contains(res.stdout, "2 rooms") {
		t.Errorf("count missing:\n%s", res.stdout)
	}

	res = execute("--config", cfg, "rooms", "--floor", "2")
	if res.err != nil || strings.Contains(res.stdout, "101") || !strings.Contains(res.stdout, "201") {
		t.Errorf("floor filter: %v\n%s", res.err, res.stdout)
	}

	res = execute("--config", cfg, "rooms", "--restrooms")
	if res.err != nil || !strings.Contains(res.stdout, "toilet1M") || !strings.Contains(res.stdout, "Category") {
		t.Errorf("restrooms: %v\n%s", res.err, res.stdout)
	}

	res = execute("--config", cfg, "rooms", "--floor", "7")
	if res.err != nil || !strings.Contains(res.stdout, "No rooms found") {
		t.Errorf("empty floor: %v\n%s", res.err, res.stdout)
	}
}

func TestFloorsCommand(t *testing.T) {
	res := execute("--config", building(t), "floors")
	if res.err != nil {
		t.Fatal(res.err)
	}
	for _, want := range []string{"1, 2", "Points", "5", "Connections", "4"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("output missing %q:\n%s", want, res.stdout)
		}
	}
	if strings.Contains(res.stdout, "Skipped") {
		t.Errorf("no floor should be skipped:\n%s", res.stdout)
	}
}

func TestSkippedFloorsAreReported(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := filepath.Dir(building(t))
	res := execute("--floors-dir", dir, "floors")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "Skipped floors: 3, 4, 5") {
		t.Errorf("output:\n%s", res.stdout)
	}
	if !strings.Contains(res.logs, "floor skipped") {
		t.Errorf("logs:\n%s", res.logs)
	}
}

func TestFlagOverrides(t *testing.T) {
	res := execute("--config", building(t), "--penalty", "10", "--no-cache", "route", "101", "201")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "cost 40.0") {
		t.Errorf("penalty override ignored:\n%s", res.stdout)
	}

	res = execute("--config", building(t), "--floors-dir", t.TempDir(), "route", "101", "201")
	if !errors.Is(res.err, errors.ErrCodeRoomNotFound) {
		t.Errorf("empty floors dir: error = %v", res.err)
	}
}

func TestNoCache(t *testing.T) {
	cfg := building(t)
	for range 2 {
		res := execute("--config", cfg, "--no-cache", "route", "101", "201")
		if res.err != nil || !strings.Contains(res.stdout, "fresh") {
			t.Errorf("--no-cache: %v\n%s", res.err, res.stdout)
		}
	}
}

func TestExportAndImport(t *testing.T) {
	cfg := building(t)
	path := filepath.Join(t.TempDir(), "graph.json")

	res := execute("--config", cfg, "export", "-o", path)
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stderr, "Exported json") || !strings.Contains(res.stderr, path) {
		t.Errorf("stderr = %q", res.stderr)
	}
	g, err := fwio.ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.PointCount() != 5 {
		t.Errorf("points = %d", g.PointCount())
	}

	res = execute("--graph", path, "--no-cache", "route", "101", "201")
	if res.err != nil || !strings.Contains(res.stdout, "cost 80.0") {
		t.Errorf("route from export: %v\n%s", res.err, res.stdout)
	}
	if !strings.Contains(res.logs, "Imported "+path) {
		t.Errorf("logs = %q", res.logs)
	}

	res = execute("--config", cfg, "export", "-f", "dot", "--from", "101", "--to", "201")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.HasPrefix(res.stdout, "graph G {") || !strings.Contains(res.stdout, "#d62728") {
		t.Errorf("dot output:\n%s", res.stdout)
	}
}

func TestCacheCommands(t *testing.T) {
	cfg := building(t)

	res := execute("--config", cfg, "cache", "path")
	if res.err != nil || !strings.HasSuffix(strings.TrimSpace(res.stdout), "cache") {
		t.Fatalf("cache path: %v %q", res.err, res.stdout)
	}

	if res := execute("--config", cfg, "route", "101", "201"); res.err != nil {
		t.Fatal(res.err)
	}
	res = execute("--config", cfg, "cache", "clear")
	if res.err != nil || !strings.Contains(res.stdout, "Cleared 1 cached entries") {
		t.Errorf("cache clear: %v\n%s", res.err, res.stdout)
	}

	res = execute("--config", cfg, "--no-cache", "cache", "clear")
	if res.err != nil || !strings.Contains(res.stdout, "no local entries") {
		t.Errorf("cache clear without backend: %v\n%s", res.err, res.stdout)
	}
}

func TestVersion(t *testing.T) {
	res := execute("--version")
	if res.err != nil || !strings.HasPrefix(res.stdout, "floorwalk version ") {
		t.Errorf("--version: %v %q", res.err, res.stdout)
	}
}

func TestCompleteRooms(t *testing.T) {
	res := execute("__complete", "route", "--config", building(t), "")
	if res.err != nil {
		t.Fatal(res.err)
	}
	if !strings.Contains(res.stdout, "101\n") || !strings.Contains(res.stdout, "201\n") {
		t.Errorf("completions:\n%s", res.stdout)
	}
	if strings.Contains(res.stdout, "toilet") {
		t.Errorf("restroom offered as a room:\n%s", res.stdout)
	}
}
