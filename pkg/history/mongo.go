package history

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/floorwalk/pkg/buildinfo"
	"github.com/matzehuels/floorwalk/pkg/errors"
)

// MongoConfig configures a [MongoStore].
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

const mongoTimeout = 5 * time.Second

// MongoStore stores entries in a MongoDB collection indexed by time.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, verifies the connection and ensures the
// time index exists.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.URI == "" {
		return nil, errors.New(errors.ErrCodeHistoryUnavailable, "mongo uri is empty")
	}
	if cfg.Database == "" {
		cfg.Database = "floorwalk"
	}
	if cfg.Collection == "" {
		cfg.Collection = "queries"
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetAppName(buildinfo.UserAgent()).
		SetServerSelectionTimeout(mongoTimeout))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryUnavailable, err, "connect mongo")
	}

	pingCtx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeHistoryUnavailable, err, "ping mongo")
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(pingCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeHistoryUnavailable, err, "create time index")
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Record inserts an entry.
func (s *MongoStore) Record(ctx context.Context, e Entry) error {
	if _, err := s.coll.InsertOne(ctx, e); err != nil {
		return errors.Wrap(errors.ErrCodeHistoryUnavailable, err, "insert entry")
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *MongoStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryUnavailable, err, "query entries")
	}
	var out []Entry
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeHistoryUnavailable, err, "decode entries")
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
