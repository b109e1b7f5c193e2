package repository

import (
	"context"
	"fmt"
	"time"

	"coursework/pkg/config"
	mongodb "coursework/pkg/db/mongo"
	"coursework/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderRepository interface {
	// Create stores the order and fills in the id the store assigned.
	Create(ctx context.Context, order *model.Order) error
}

// orderDocument carries the ObjectID chosen before the insert, so the order id
// is known whatever the store echoes back.
type orderDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone"`
	LessonIDs []string           `bson:"lessonIDs"`
	NumSpaces int                `bson:"numSpaces"`
	CreatedAt time.Time          `bson:"timestamp"`
}

type mongoOrderRepository struct {
	cfg        *config.Config
	collection mongodb.Collection
}

func NewMongoOrderRepository(store *mongodb.Store, cfg *config.Config) OrderRepository {
	return &mongoOrderRepository{
		cfg:        cfg,
		collection: store.Orders,
	}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	doc := orderDocument{
		ID:        primitive.NewObjectID(),
		Name:      order.Name,
		Phone:     order.Phone,
		LessonIDs: order.LessonIDs,
		NumSpaces: order.NumSpaces,
		CreatedAt: order.CreatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	order.ID = doc.ID.Hex()
	return nil
}
