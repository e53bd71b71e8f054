package history

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/nav"
	"github.com/matzehuels/floorwalk/pkg/route"
)

func TestNewEntry(t *testing.T) {
	e := NewEntry("route", "101")
	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", e.ID, err)
	}
	if e.Time.IsZero() || e.Time.Location().String() != "UTC" {
		t.Errorf("Time = %v", e.Time)
	}
	if NewEntry("route", "101").ID == e.ID {
		t.Error("IDs should be unique")
	}
}

func TestEntryFinish(t *testing.T) {
	res := &route.PathResult{Points: []nav.Point{{ID: "a"}, {ID: "b"}}, Cost: 5}

	ok := NewEntry("route", "A")
	ok.Finish(res, true, nil)
	if ok.Cost != 5 || ok.Points != 2 || !ok.Cached || ok.Code != "" {
		t.Errorf("answered entry = %+v", ok)
	}

	failed := NewEntry("restroom", "A")
	failed.Finish(nil, false, errors.New(errors.ErrCodeNoCandidate, "none"))
	if failed.Code != "NO_CANDIDATE_OF_CATEGORY" || failed.Points != 0 {
		t.Errorf("failed entry = %+v", failed)
	}

	plain := NewEntry("route", "A")
	plain.Finish(nil, false, fmt.Errorf("boom"))
	if plain.Code != "INTERNAL_ERROR" {
		t.Errorf("uncoded error = %q", plain.Code)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(3)

	if got, _ := s.Recent(ctx, 10); len(got) != 0 {
		t.Errorf("empty store returned %d entries", len(got))
	}

	for i := 1; i <= 5; i++ {
		if err := s.Record(ctx, Entry{ID: fmt.Sprint(i)}); err != nil {
			t.Fatal(err)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}

	tests := []struct {
		limit int
		want  []string
	}{
		{0, []string{"5", "4", "3"}},
		{2, []string{"5", "4"}},
		{10, []string{"5", "4", "3"}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("limit=%d", tt.limit), func(t *testing.T) {
			got, err := s.Recent(ctx, tt.limit)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i, e := range got {
				if e.ID != tt.want[i] {
					t.Errorf("entry %d = %s, want %s", i, e.ID, tt.want[i])
				}
			}
		})
	}
}

func TestMemoryStorePartial(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)
	_ = s.Record(ctx, Entry{ID: "a"})
	_ = s.Record(ctx, Entry{ID: "b"})
	got, _ := s.Recent(ctx, 0)
	if len(got) != 2 || got[0].ID != "b" || got[1].ID != "a" {
		t.Errorf("Recent = %+v", got)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = s.Record(ctx, NewEntry("route", "101"))
				_, _ = s.Recent(ctx, 5)
			}
		}()
	}
	wg.Wait()
	if s.Len() != 50 {
		t.Errorf("Len = %d, want 50", s.Len())
	}
}

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	var s Store = NullStore{}
	if err := s.Record(ctx, NewEntry("route", "x")); err != nil {
		t.Fatal(err)
	}
	if got, err := s.Recent(ctx, 0); err != nil || len(got) != 0 {
		t.Errorf("Recent = %v, %v", got, err)
	}
}

func TestNewMongoStoreValidation(t *testing.T) {
	ctx := context.Background()
	for _, uri := range []string{"", "not-a-mongo-uri://host"} {
		if _, err := NewMongoStore(ctx, MongoConfig{URI: uri}); !errors.Is(err, errors.ErrCodeHistoryUnavailable) {
			t.Errorf("NewMongoStore(%q) error = %v, want HISTORY_UNAVAILABLE", uri, err)
		}
	}
}
