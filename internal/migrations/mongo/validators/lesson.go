package validators

import "go.mongodb.org/mongo-driver/bson"

var numberTypes = []string{"int", "long", "double", "decimal"}

// LessonValidator keeps capacity and price non-negative at the store level,
// underneath the conditional decrement.
var LessonValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"subject", "location", "price", "spaces"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":      bson.M{"bsonType": "objectId"},
			"subject":  bson.M{"bsonType": "string", "minLength": 1},
			"location": bson.M{"bsonType": "string", "minLength": 1},
			"price": bson.M{
				"bsonType": numberTypes,
				"minimum":  0,
			},
			"spaces": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},
			"image":     bson.M{"bsonType": "string"},
			"icon":      bson.M{"bsonType": "string"},
			"updatedAt": bson.M{"bsonType": "date"},
		},
	},
}
