package validators

import "go.mongodb.org/mongo-driver/bson"

var OrderValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "phone", "lessonIDs", "numSpaces", "timestamp"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":   bson.M{"bsonType": "objectId"},
			"name":  bson.M{"bsonType": "string", "minLength": 1, "maxLength": 100},
			"phone": bson.M{"bsonType": "string", "minLength": 1, "maxLength": 32},
			"lessonIDs": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},
			"numSpaces": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"timestamp": bson.M{"bsonType": "date"},
		},
	},
}
