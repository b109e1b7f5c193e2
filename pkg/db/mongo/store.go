// Package mongo is the data access layer over the document store. Repositories
// talk to a Collection rather than to the driver directly.
package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	LessonsCollection = "lessons"
	OrdersCollection  = "orders"
)

// Collection is the subset of *mongo.Collection the repositories rely on.
// FindOneAndUpdate with a guarded filter is the single-document atomic
// conditional update.
type Collection interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	InsertOne(ctx context.Context, document any, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	InsertMany(ctx context.Context, documents []any, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
	UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOneAndUpdate(ctx context.Context, filter any, update any, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	DeleteMany(ctx context.Context, filter any, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
}

var _ Collection = (*mongo.Collection)(nil)

type Store struct {
	client *mongo.Client
	db     *mongo.Database

	Lessons Collection
	Orders  Collection
}

func NewStore(client *mongo.Client, databaseName string) *Store {
	db := client.Database(databaseName)
	return &Store{
		client:  client,
		db:      db,
		Lessons: db.Collection(LessonsCollection),
		Orders:  db.Collection(OrdersCollection),
	}
}

func (s *Store) Database() *mongo.Database {
	return s.db
}

func (s *Store) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return s.client.Ping(ctx, rp)
}

// WithTimeout bounds ctx by timeout unless ctx already expires sooner.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
