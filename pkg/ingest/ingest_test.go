package ingest

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/source"
)

// svg wraps elements in an Inkscape-style document.
func svg(elems ...string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape" width="100" height="100">
<g inkscape:label="markers">
` + strings.Join(elems, "\n") + `
</g>
</svg>`)
}

func marker(label string, x, y float64) string {
	return fmt.Sprintf(`<ellipse inkscape:label=%q cx="%g" cy="%g" rx="1" ry="1"/>`, label, x, y)
}

func segment(x1, y1, x2, y2 float64) string {
	return fmt.Sprintf(`<line x1="%g" y1="%g" x2="%g" y2="%g"/>`, x1, y1, x2, y2)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		label    string
		floor    int
		wantID   string
		kind     nav.Kind
		name     string
		restroom bool
		category nav.Category
	}{
		{"p_room_101", 1, "p_room_101", nav.KindRoom, "101", false, nav.CategoryNone},
		{"p_room_Lobby", 2, "p_room_Lobby", nav.KindRoom, "Lobby", false, nav.CategoryNone},
		{"p_room_toilet1M", 1, "p_room_toilet1M", nav.KindRoom, "toilet1M", true, nav.CategoryMale},
		{"p_room_toilet2F", 3, "p_room_toilet2F", nav.KindRoom, "toilet2F", true, nav.CategoryFemale},
		{"p_room_toilet_4_F", 4, "p_room_toilet_4_F", nav.KindRoom, "toilet_4_F", true, nav.CategoryFemale},
		{"p_room_toilet3", 3, "p_room_toilet3", nav.KindRoom, "toilet3", true, nav.CategoryNone},
		{"p_stairs_1A", 1, "p_stairs_1A", nav.KindStairs, "", false, nav.CategoryNone},
		{"p_node_7", 2, "p_node_7_2", nav.KindJunction, "", false, nav.CategoryNone},
		{"corner", 5, "corner_5", nav.KindJunction, "", false, nav.CategoryNone},
		{"room_B", 1, "room_B", nav.KindRoom, "B", false, nav.CategoryNone},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			p, ok := Classify(tt.label, tt.floor, "p_")
			if !ok {
				t.Fatalf("Classify(%q) rejected", tt.label)
			}
			if p.ID != tt.wantID || p.Kind != tt.kind || p.Floor != tt.floor {
				t.Errorf("got %s/%s/%d, want %s/%s/%d", p.ID, p.Kind, p.Floor, tt.wantID, tt.kind, tt.floor)
			}
			if p.Name != tt.name || p.Restroom != tt.restroom || p.Category != tt.category {
				t.Errorf("room fields = %q/%v/%q, want %q/%v/%q", p.Name, p.Restroom, p.Category, tt.name, tt.restroom, tt.category)
			}
		})
	}
}

func TestClassifyRejects(t *testing.T) {
	for _, label := range []string{"", "   ", "p_room_"} {
		if _, ok := Classify(label, 1, "p_"); ok {
			t.Errorf("Classify(%q) accepted", label)
		}
	}
}

func TestNearest(t *testing.T) {
	pts := []nav.Point{
		{ID: "a", X: 0, Y: 0},
		{ID: "b", X: 10, Y: 0},
		{ID: "c", X: 5, Y: 0},
	}

	t.Run("exact", func(t *testing.T) {
		p, d, ok := Nearest(10, 0, pts, 0)
		if !ok || p.ID != "b" || d != 0 {
			t.Errorf("got %s %v %v, want b 0 true", p.ID, d, ok)
		}
	})
	t.Run("nearer wins", func(t *testing.T) {
		if p, _, _ := Nearest(7, 1, pts, 0); p.ID != "c" {
			t.Errorf("got %s, want c", p.ID)
		}
	})
	t.Run("tie goes to earlier", func(t *testing.T) {
		if p, _, _ := Nearest(2.5, 0, pts, 0); p.ID != "a" {
			t.Errorf("got %s, want a", p.ID)
		}
	})
	t.Run("bounded", func(t *testing.T) {
		if _, _, ok := Nearest(0, 50, pts, 5); ok {
			t.Error("expected rejection beyond max distance")
		}
		if _, _, ok := Nearest(0, 4, pts, 5); !ok {
			t.Error("expected snap within max distance")
		}
	})
	t.Run("empty", func(t *testing.T) {
		if _, _, ok := Nearest(0, 0, nil, 0); ok {
			t.Error("expected no point")
		}
	})
}

func TestLinkStairs(t *testing.T) {
	pts := []nav.Point{
		{ID: "p_stairs_1A", Floor: 1, Kind: nav.KindStairs},
		{ID: "p_stairs_3A", Floor: 3, Kind: nav.KindStairs},
		{ID: "p_stairs_2A", Floor: 2, Kind: nav.KindStairs},
		{ID: "p_stairs_1B", Floor: 1, Kind: nav.KindStairs},
		{ID: "p_stairs_3B", Floor: 3, Kind: nav.KindStairs},
		{ID: "p_room_1A", Floor: 1, Kind: nav.KindRoom, Name: "1A"},
	}
	got := LinkStairs(pts, 1)
	want := []nav.Connection{
		{From: "p_stairs_1A", To: "p_stairs_2A"},
		{From: "p_stairs_2A", To: "p_stairs_3A"},
	}
	if !slices.Equal(got, want) {
		t.Errorf("LinkStairs = %v, want %v", got, want)
	}
}

func TestStairsGroup(t *testing.T) {
	tests := []struct {
		id   string
		n    int
		want string
	}{
		{"p_stairs_1A", 1, "A"},
		{"p_stairs_1A", 2, "1A"},
		{"A", 3, "A"},
		{"p_stairs_1A", 0, "p_stairs_1A"},
	}
	for _, tt := range tests {
		if got := StairsGroup(tt.id, tt.n); got != tt.want {
			t.Errorf("StairsGroup(%q, %d) = %q, want %q", tt.id, tt.n, got, tt.want)
		}
	}
}

func TestParseFloor(t *testing.T) {
	doc := svg(
		marker("p_room_A", 0, 0),
		marker("p_node_1", 3, 0),
		marker("p_room_B", 3, 4),
		`<rect x="0" y="0" width="5" height="5"/>`,
		segment(0.2, 0.1, 2.9, 0),
		segment(3, 0.3, 3.1, 3.8),
		segment(3, 0, 3, 4), // duplicate of the previous one
	)

	res, err := ParseFloor(strings.NewReader(string(doc)), 1, Options{})
	if err != nil {
		t.Fatalf("ParseFloor: %v", err)
	}
	var ids []string
	for _, p := range res.Points {
		ids = append(ids, p.ID)
	}
	if want := []string{"p_room_A", "p_node_1_1", "p_room_B"}; !slices.Equal(ids, want) {
		t.Errorf("points = %v, want %v", ids, want)
	}
	want := []nav.Connection{
		{From: "p_room_A", To: "p_node_1_1"},
		{From: "p_node_1_1", To: "p_room_B"},
	}
	if !slices.Equal(res.Connections, want) {
		t.Errorf("connections = %v, want %v", res.Connections, want)
	}
	if len(res.Issues) != 0 {
		t.Errorf("unexpected issues: %v", res.Issues)
	}
}

func TestParseFloorLinesBeforeMarkers(t *testing.T) {
	doc := svg(
		segment(0, 0, 10, 0),
		marker("p_room_A", 0, 0),
		marker("p_room_B", 10, 0),
	)
	res, err := ParseFloor(strings.NewReader(string(doc)), 2, Options{})
	if err != nil {
		t.Fatalf("ParseFloor: %v", err)
	}
	if len(res.Connections) != 1 {
		t.Errorf("connections = %v, want one", res.Connections)
	}
}

func TestParseFloorMalformed(t *testing.T) {
	doc := svg(
		marker("p_room_A", 0, 0),
		marker("p_room_B", 10, 0),
		`<ellipse inkscape:label="p_room_C" cx="abc" cy="1"/>`,
		`<ellipse cx="1" cy="1"/>`,
		`<ellipse inkscape:label="p_room_D" cy="1"/>`,
		marker("p_room_A", 5, 5),
		`<line x1="0" y1="0" x2="10"/>`,
		segment(0, 0, 0.5, 0), // collapses onto A
		segment(0, 0, 10, 0),
	)
	res, err := ParseFloor(strings.NewReader(string(doc)), 1, Options{})
	if err != nil {
		t.Fatalf("ParseFloor: %v", err)
	}
	if len(res.Points) != 2 {
		t.Errorf("points = %d, want 2", len(res.Points))
	}
	if len(res.Connections) != 1 {
		t.Errorf("connections = %d, want 1", len(res.Connections))
	}
	if len(res.Issues) != 6 {
		t.Errorf("issues = %d, want 6: %v", len(res.Issues), res.Issues)
	}
	for _, issue := range res.Issues {
		if !errors.Is(issue, errors.ErrCodeMalformedElement) {
			t.Errorf("issue %v has code %s", issue, errors.GetCode(issue))
		}
	}
}

func TestParseFloorSnapDistance(t *testing.T) {
	doc := svg(
		marker("p_room_A", 0, 0),
		marker("p_room_B", 10, 0),
		segment(0, 0, 10, 30),
	)

	res, err := ParseFloor(strings.NewReader(string(doc)), 1, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Connections) != 1 {
		t.Errorf("unbounded: connections = %d, want 1", len(res.Connections))
	}

	res, err = ParseFloor(strings.NewReader(string(doc)), 1, Options{SnapDistance: 5})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Connections) != 0 || len(res.Issues) != 1 {
		t.Errorf("bounded: connections = %d issues = %d, want 0 and 1", len(res.Connections), len(res.Issues))
	}
}

func TestParseFloorUnparsable(t *testing.T) {
	for _, doc := range []string{"", "<svg><g></svg>"} {
		_, err := ParseFloor(strings.NewReader(doc), 1, Options{})
		if !errors.Is(err, errors.ErrCodeFloorUnavailable) {
			t.Errorf("ParseFloor(%q) error = %v, want FLOOR_UNAVAILABLE", doc, err)
		}
	}
}

func building() source.Memory {
	return source.Memory{
		1: svg(
			marker("p_room_101", 0, 0),
			marker("p_node_1", 10, 0),
			marker("p_stairs_1A", 20, 0),
			marker("p_room_toilet1M", 10, 10),
			segment(0, 0, 10, 0),
			segment(10, 0, 20, 0),
			segment(10, 0, 10, 10),
		),
		2: svg(
			marker("p_stairs_2A", 20, 0),
			marker("p_node_1", 10, 0),
			marker("p_room_201", 0, 0),
			segment(20, 0, 10, 0),
			segment(10, 0, 0, 0),
		),
		3: svg(
			marker("p_stairs_3A", 20, 0),
			marker("p_room_toilet3F", 0, 0),
			segment(20, 0, 0, 0),
		),
		5: svg(
			marker("p_stairs_5A", 20, 0),
			marker("p_room_501", 0, 0),
			segment(20, 0, 0, 0),
		),
	}
}

func TestBuild(t *testing.T) {
	g, report, err := Build(context.Background(), building(), []int{1, 2, 3, 4, 5}, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := report.Skipped(); !slices.Equal(got, []int{4}) {
		t.Errorf("skipped = %v, want [4]", got)
	}
	if !errors.Is(report.Floors[3].Err, errors.ErrCodeFloorUnavailable) {
		t.Errorf("floor 4 error = %v", report.Floors[3].Err)
	}
	if got := report.Loaded(); !slices.Equal(got, []int{1, 2, 3, 5}) {
		t.Errorf("loaded = %v", got)
	}
	if report.StairLinks != 2 {
		t.Errorf("stair links = %d, want 2", report.StairLinks)
	}

	if g.PointCount() != 11 {
		t.Errorf("points = %d, want 11", g.PointCount())
	}
	if g.ConnectionCount() != 9 {
		t.Errorf("connections = %d, want 9", g.ConnectionCount())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	hasEdge := func(a, b string) bool {
		for _, c := range g.Adjacent(a) {
			if c.Other(a) == b {
				return true
			}
		}
		return false
	}
	if !hasEdge("p_stairs_1A", "p_stairs_2A") || !hasEdge("p_stairs_2A", "p_stairs_3A") {
		t.Error("missing stairs links between adjacent floors")
	}
	if hasEdge("p_stairs_3A", "p_stairs_5A") || hasEdge("p_stairs_1A", "p_stairs_3A") {
		t.Error("stairs linked across a floor gap")
	}

	if _, ok := g.Point("p_node_1_1"); !ok {
		t.Error("junction on floor 1 missing")
	}
	if _, ok := g.Point("p_node_1_2"); !ok {
		t.Error("junction on floor 2 missing")
	}
	if r, ok := g.FindRoom("201"); !ok || r.Floor != 2 {
		t.Errorf("FindRoom(201) = %+v, %v", r, ok)
	}
	if got := g.Restrooms(nav.CategoryFemale); len(got) != 1 || got[0].Floor != 3 {
		t.Errorf("female restrooms = %v", got)
	}
}

func TestBuildLegality(t *testing.T) {
	g, _, err := Build(context.Background(), building(), []int{1, 2, 3, 5}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range g.Connections() {
		a, _ := g.Point(c.From)
		b, _ := g.Point(c.To)
		if !nav.CanConnect(a, b) {
			t.Errorf("illegal connection %s (floor %d) - %s (floor %d)", a.ID, a.Floor, b.ID, b.Floor)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	src := building()
	first, _, err := Build(context.Background(), src, []int{5, 3, 1, 2}, Options{Concurrency: 4})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		g, _, err := Build(context.Background(), src, []int{1, 2, 3, 5, 3}, Options{Concurrency: 1 + i%3})
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(g.Points(), first.Points()) {
			t.Fatalf("run %d: points differ", i)
		}
		if !slices.Equal(g.Connections(), first.Connections()) {
			t.Fatalf("run %d: connections differ", i)
		}
	}
}

func TestBuildDuplicateAcrossFloors(t *testing.T) {
	src := source.Memory{
		1: svg(marker("p_room_X", 0, 0)),
		2: svg(marker("p_room_X", 0, 0)),
	}
	g, report, err := Build(context.Background(), src, []int{1, 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if g.PointCount() != 1 {
		t.Errorf("points = %d, want 1", g.PointCount())
	}
	if len(report.Rejected) != 1 || report.IssueCount() != 1 {
		t.Errorf("rejected = %v", report.Rejected)
	}
	if p, _ := g.Point("p_room_X"); p.Floor != 1 {
		t.Errorf("kept floor %d, want the lower floor", p.Floor)
	}
}

func TestBuildDuplicateKeepsLinesOnTheirFloor(t *testing.T) {
	src := source.Memory{
		1: svg(marker("p_room_X", 0, 0), marker("p_room_Y", 100, 0)),
		2: svg(marker("p_room_X", 0, 0), marker("p_room_Y", 3, 4), segment(0, 0, 3, 4)),
	}
	g, report, err := Build(context.Background(), src, []int{1, 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if g.ConnectionCount() != 0 {
		t.Errorf("connections = %v, floor 1 draws none", g.Connections())
	}
	if len(report.Rejected) != 3 {
		t.Fatalf("rejected = %v, want two points and one line", report.Rejected)
	}
	if !stderrors.Is(report.Rejected[2], ErrDroppedEndpoint) {
		t.Errorf("rejected line = %v", report.Rejected[2])
	}
	if f := report.Floors[1]; f.Points != 0 || f.Connections != 0 {
		t.Errorf("floor 2 report = %+v", f)
	}
}

func TestBuildEverythingMissing(t *testing.T) {
	g, report, err := Build(context.Background(), source.Memory{}, []int{1, 2}, Options{})
	if err != nil {
		t.Fatalf("Build should not fail wholesale: %v", err)
	}
	if g.PointCount() != 0 || len(report.Skipped()) != 2 {
		t.Errorf("points = %d skipped = %v", g.PointCount(), report.Skipped())
	}
}

func TestBuildInvalidFloor(t *testing.T) {
	_, _, err := Build(context.Background(), source.Memory{}, []int{0, 1}, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFloor) {
		t.Errorf("error = %v, want INVALID_FLOOR", err)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Build(ctx, building(), []int{1, 2}, Options{}); err == nil {
		t.Error("expected error for canceled context")
	}
}
