package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"coursework/internal/testutil"
	mongodb "coursework/pkg/db/mongo"
	"coursework/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type fakeOrdersCollection struct {
	mongodb.Collection
	insertFunc func(ctx context.Context, document any) (*mongo.InsertOneResult, error)
	inserted   []any
}

func (f *fakeOrdersCollection) InsertOne(ctx context.Context, document any, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.inserted = append(f.inserted, document)
	return f.insertFunc(ctx, document)
}

func newFakeOrderRepository(collection *fakeOrdersCollection) OrderRepository {
	return NewMongoOrderRepository(&mongodb.Store{Orders: collection}, testutil.Config())
}

func TestMongoOrderRepository_Create_IDChosenBeforeInsert(t *testing.T) {
	collection := &fakeOrdersCollection{
		insertFunc: func(context.Context, any) (*mongo.InsertOneResult, error) {
			return &mongo.InsertOneResult{InsertedID: "not-an-object-id"}, nil
		},
	}
	repo := newFakeOrderRepository(collection)

	order := &model.Order{Name: "Ada", Phone: "+447700900123", LessonIDs: []string{"65a1b2c3d4e5f6a7b8c9d0e1"}, NumSpaces: 1}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("expected a successful insert to succeed, got %v", err)
	}

	if len(collection.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(collection.inserted))
	}
	doc, ok := collection.inserted[0].(orderDocument)
	if !ok {
		t.Fatalf("unexpected document type %T", collection.inserted[0])
	}
	if doc.ID.IsZero() {
		t.Fatal("expected an ObjectID to be assigned before the insert")
	}
	if order.ID != doc.ID.Hex() {
		t.Errorf("expected order id %s, got %s", doc.ID.Hex(), order.ID)
	}
}

func TestMongoOrderRepository_Create_InsertError(t *testing.T) {
	insertErr := errors.New("connection reset")
	repo := newFakeOrderRepository(&fakeOrdersCollection{
		insertFunc: func(context.Context, any) (*mongo.InsertOneResult, error) {
			return nil, insertErr
		},
	})

	order := &model.Order{Name: "Ada", Phone: "+447700900123", LessonIDs: []string{"65a1b2c3d4e5f6a7b8c9d0e1"}, NumSpaces: 1}
	err := repo.Create(context.Background(), order)
	if !errors.Is(err, insertErr) {
		t.Fatalf("expected the insert error in the chain, got %v", err)
	}
	if order.ID != "" {
		t.Errorf("expected no id on a failed insert, got %s", order.ID)
	}
}

func TestMongoOrderRepository_Create(t *testing.T) {
	store := testutil.StartMongo(t)
	testutil.Clean(t, store)
	repo := NewMongoOrderRepository(store, testutil.Config())

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	order := &model.Order{
		Name:      "Ada Lovelace",
		Phone:     "+447700900123",
		LessonIDs: []string{"65a1b2c3d4e5f6a7b8c9d0e1"},
		NumSpaces: 2,
		CreatedAt: createdAt,
	}
	if err := repo.Create(context.Background(), order); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if order.ID == "" {
		t.Fatal("expected the store id to be filled in")
	}

	objectID, err := primitive.ObjectIDFromHex(order.ID)
	if err != nil {
		t.Fatalf("id is not an ObjectID: %v", err)
	}

	var raw bson.M
	if err := store.Orders.FindOne(context.Background(), bson.M{"_id": objectID}).Decode(&raw); err != nil {
		t.Fatalf("failed to read order back: %v", err)
	}
	if raw["name"] != "Ada Lovelace" || raw["numSpaces"] != int32(2) {
		t.Errorf("unexpected stored document %v", raw)
	}
	ts, ok := raw["timestamp"].(primitive.DateTime)
	if !ok || !ts.Time().Equal(createdAt) {
		t.Errorf("expected timestamp %v, got %v", createdAt, raw["timestamp"])
	}
}
