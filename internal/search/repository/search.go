package repository

import (
	"context"
	"fmt"
	"regexp"

	"coursework/pkg/config"
	mongodb "coursework/pkg/db/mongo"
	"coursework/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var regexSpecialChars = regexp.MustCompile(`[.*+?^$()[\]{}|\\]`)

type SearchRepository interface {
	// Search matches term as a case-insensitive substring of subject,
	// location, or the text form of price or spaces.
	Search(ctx context.Context, term string) ([]*model.Lesson, error)
}

type mongoSearchRepository struct {
	cfg        *config.Config
	collection mongodb.Collection
}

func NewMongoSearchRepository(store *mongodb.Store, cfg *config.Config) SearchRepository {
	return &mongoSearchRepository{
		cfg:        cfg,
		collection: store.Lessons,
	}
}

// escapeRegexSpecialChars makes user input match literally.
func escapeRegexSpecialChars(s string) string {
	return regexSpecialChars.ReplaceAllStringFunc(s, func(match string) string {
		return "\\" + match
	})
}

func searchFilter(term string) bson.M {
	pattern := escapeRegexSpecialChars(term)

	textMatch := func(field string) bson.M {
		return bson.M{field: bson.M{"$regex": pattern, "$options": "i"}}
	}
	numberMatch := func(field string) bson.M {
		return bson.M{"$expr": bson.M{"$regexMatch": bson.M{
			"input":   bson.M{"$toString": "$" + field},
			"regex":   pattern,
			"options": "i",
		}}}
	}

	return bson.M{"$or": bson.A{
		textMatch("subject"),
		textMatch("location"),
		numberMatch("price"),
		numberMatch("spaces"),
	}}
}

func (r *mongoSearchRepository) Search(ctx context.Context, term string) ([]*model.Lesson, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetLimit(int64(r.cfg.SearchMaxResults))
	cursor, err := r.collection.Find(ctx, searchFilter(term), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search lessons: %w", err)
	}
	defer cursor.Close(ctx)

	lessons := []*model.Lesson{}
	if err = cursor.All(ctx, &lessons); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}

	return lessons, nil
}
