// Package history records answered route queries.
//
// The server appends one [Entry] per query to a [Store]; operators read the
// most recent entries back to see what visitors ask for and which queries
// fail. Three stores are provided:
//
//   - [MemoryStore]: bounded in-process ring, the default
//   - [MongoStore]: a MongoDB collection, shared across server instances
//   - [NullStore]: discards everything
package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/floorwalk/pkg/errors"
	"github.com/matzehuels/floorwalk/pkg/route"
)

// Entry is one answered query.
type Entry struct {
	ID        string    `json:"id" bson:"_id"`
	Time      time.Time `json:"time" bson:"time"`
	RequestID string    `json:"request_id,omitempty" bson:"request_id,omitempty"`

	// Kind is "route" or "restroom".
	Kind     string `json:"kind" bson:"kind"`
	From     string `json:"from" bson:"from"`
	To       string `json:"to,omitempty" bson:"to,omitempty"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`

	// Outcome. Code is empty for answered queries.
	Cost   float64 `json:"cost,omitempty" bson:"cost,omitempty"`
	Points int     `json:"points,omitempty" bson:"points,omitempty"`
	Code   string  `json:"code,omitempty" bson:"code,omitempty"`
	Cached bool    `json:"cached,omitempty" bson:"cached,omitempty"`
}

// NewEntry creates an entry with a fresh ID and the current time.
func NewEntry(kind, from string) Entry {
	return Entry{
		ID:   uuid.NewString(),
		Time: time.Now().UTC(),
		Kind: kind,
		From: from,
	}
}

// Finish fills the outcome fields from a query result.
func (e *Entry) Finish(res *route.PathResult, cached bool, err error) {
	if err != nil {
		e.Code = string(errors.GetCode(err))
		if e.Code == "" {
			e.Code = string(errors.ErrCodeInternal)
		}
		return
	}
	e.Cost = res.Cost
	e.Points = len(res.Points)
	e.Cached = cached
}

// Store persists entries.
type Store interface {
	// Record appends an entry.
	Record(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest first. A limit <= 0
	// returns everything the store holds.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	// Close releases resources.
	Close() error
}

// NullStore discards entries.
type NullStore struct{}

func (NullStore) Record(context.Context, Entry) error          { return nil }
func (NullStore) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
func (NullStore) Close() error                                 { return nil }

var _ Store = NullStore{}
