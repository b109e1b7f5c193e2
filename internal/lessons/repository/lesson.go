package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	lessonserrors "coursework/internal/lessons/errors"
	"coursework/pkg/config"
	mongodb "coursework/pkg/db/mongo"
	"coursework/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type LessonRepository interface {
	FindAll(ctx context.Context) ([]*model.Lesson, error)
	FindByID(ctx context.Context, id string) (*model.Lesson, error)
	MissingIDs(ctx context.Context, ids []string) ([]string, error)
	UpdateFields(ctx context.Context, id string, update *model.LessonUpdate) error

	// DecrementCapacity subtracts amount only if at least amount spaces are
	// left, in one store operation, and returns the lesson after the change.
	DecrementCapacity(ctx context.Context, id string, amount int) (*model.Lesson, error)
	IncrementCapacity(ctx context.Context, id string, amount int) error
}

type mongoLessonRepository struct {
	cfg        *config.Config
	collection mongodb.Collection
}

func NewMongoLessonRepository(store *mongodb.Store, cfg *config.Config) LessonRepository {
	return &mongoLessonRepository{
		cfg:        cfg,
		collection: store.Lessons,
	}
}

func parseID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %s", lessonserrors.ErrInvalidID, id)
	}
	return objectID, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoLessonRepository) FindAll(ctx context.Context) ([]*model.Lesson, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to query lessons: %w", err)
	}
	defer cursor.Close(ctx)

	lessons := []*model.Lesson{}
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode lessons: %w", err)
	}

	return lessons, nil
}

func (r *mongoLessonRepository) FindByID(ctx context.Context, id string) (*model.Lesson, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var lesson model.Lesson
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&lesson)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", lessonserrors.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find lesson: %w", err)
	}
	return &lesson, nil
}

// MissingIDs returns the ids that do not resolve to a lesson, in input order.
// Malformed ids count as missing.
func (r *mongoLessonRepository) MissingIDs(ctx context.Context, ids []string) ([]string, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var missing []string
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := parseID(id)
		if err != nil {
			missing = append(missing, id)
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}
	if len(objectIDs) == 0 {
		return missing, nil
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson ids: %w", err)
	}
	defer cursor.Close(ctx)

	var found []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &found); err != nil {
		return nil, fmt.Errorf("failed to decode lesson ids: %w", err)
	}

	existing := make(map[primitive.ObjectID]struct{}, len(found))
	for _, f := range found {
		existing[f.ID] = struct{}{}
	}
	for _, objectID := range objectIDs {
		if _, ok := existing[objectID]; !ok {
			missing = append(missing, objectID.Hex())
		}
	}
	return missing, nil
}

func (r *mongoLessonRepository) UpdateFields(ctx context.Context, id string, update *model.LessonUpdate) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	set := bson.M{"updatedAt": now()}
	for field, value := range update.Fields() {
		set[field] = value
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update lesson: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", lessonserrors.ErrNotFound, id)
	}

	return nil
}

func (r *mongoLessonRepository) DecrementCapacity(ctx context.Context, id string, amount int) (*model.Lesson, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{
		"_id":    objectID,
		"spaces": bson.M{"$gte": amount},
	}
	update := bson.M{
		"$inc": bson.M{"spaces": -amount},
		"$set": bson.M{"updatedAt": now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var lesson model.Lesson
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&lesson)
	if err == nil {
		return &lesson, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to reserve lesson capacity: %w", err)
	}

	// Nothing matched: either the lesson is gone or it is too full.
	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson existence: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", lessonserrors.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: %s needs %d", lessonserrors.ErrInsufficientCapacity, id, amount)
}

func (r *mongoLessonRepository) IncrementCapacity(ctx context.Context, id string, amount int) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	update := bson.M{
		"$inc": bson.M{"spaces": amount},
		"$set": bson.M{"updatedAt": now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to release lesson capacity: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%w: %s", lessonserrors.ErrNotFound, id)
	}

	return nil
}
