package metrics

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/matzehuels/floorwalk/pkg/errors"
)

func TestQueryHooks(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnQuery(ctx, "route", time.Millisecond, nil)
	m.OnQuery(ctx, "route", time.Millisecond, errors.New(errors.ErrCodeRoomNotFound, "x"))
	m.OnQuery(ctx, "restroom", time.Millisecond, fmt.Errorf("plain"))
	m.OnPathFound(ctx, "route", 42, 5)

	tests := []struct {
		kind, outcome string
		want          float64
	}{
		{"route", "ok", 1},
		{"route", "ROOM_NOT_FOUND", 1},
		{"restroom", "INTERNAL_ERROR", 1},
		{"restroom", "ok", 0},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(m.QueriesTotal.WithLabelValues(tt.kind, tt.outcome)); got != tt.want {
			t.Errorf("queries{%s,%s} = %v, want %v", tt.kind, tt.outcome, got, tt.want)
		}
	}
	if n := testutil.CollectAndCount(m.PathCost); n != 1 {
		t.Errorf("path cost series = %d, want 1", n)
	}
}

func TestIngestHooks(t *testing.T) {
	ctx := context.Background()
	m := New(nil)

	m.OnFloorComplete(ctx, 1, 10, 9, time.Millisecond, nil)
	m.OnFloorComplete(ctx, 2, 0, 0, time.Millisecond, errors.New(errors.ErrCodeFloorUnavailable, "missing"))
	m.OnElementSkipped(ctx, 1, "missing cx")
	m.OnElementSkipped(ctx, 1, "bad number")
	m.OnGraphBuilt(ctx, 10, 9, 1, 2*time.Second)

	if got := testutil.ToFloat64(m.FloorsTotal.WithLabelValues("skipped")); got != 1 {
		t.Errorf("skipped floors = %v", got)
	}
	if got := testutil.ToFloat64(m.ElementsSkipped.WithLabelValues("1")); got != 2 {
		t.Errorf("skipped elements = %v", got)
	}
	if got := testutil.ToFloat64(m.GraphPoints); got != 10 {
		t.Errorf("graph points = %v", got)
	}
	if got := testutil.ToFloat64(m.GraphBuildSeconds); got != 2 {
		t.Errorf("build seconds = %v", got)
	}
}

func TestCacheHooks(t *testing.T) {
	ctx := context.Background()
	m := New(nil)
	m.OnCacheMiss(ctx, "route")
	m.OnCacheSet(ctx, "route", 100)
	m.OnCacheSet(ctx, "route", 50)
	m.OnCacheHit(ctx, "route")

	if got := testutil.ToFloat64(m.CacheOpsTotal.WithLabelValues("route", "set")); got != 2 {
		t.Errorf("sets = %v", got)
	}
	if got := testutil.ToFloat64(m.CacheBytes.WithLabelValues("route")); got != 150 {
		t.Errorf("bytes = %v", got)
	}
}

func TestHandler(t *testing.T) {
	m := New(nil)
	m.RecordHTTPRequest("/v1/route", "GET", 200, 10*time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`floorwalk_http_requests_total{method="GET",route="/v1/route",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestSeparateRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a, b := New(nil), New(nil)
	a.OnCacheHit(context.Background(), "route")
	if got := testutil.ToFloat64(b.CacheOpsTotal.WithLabelValues("route", "hit")); got != 0 {
		t.Errorf("registries share state: %v", got)
	}
}
