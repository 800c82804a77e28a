package validators

import "go.mongodb.org/mongo-driver/bson"

// UserValidator only covers the fields the booking engine reads. The
// identity service owns the rest of the document.
var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"batch_number", "squat_number", "is_active"},
		"additionalProperties": true,

		"properties": bson.M{
			"batch_number": bson.M{
				"bsonType": bson.A{"int", "long"},
				"enum":     bson.A{1, 2},
			},
			"squat_number": bson.M{
				"bsonType": bson.A{"int", "long"},
				"minimum":  1,
				"maximum":  10,
			},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"user", "admin"},
			},
			"is_active": bson.M{
				"bsonType": "bool",
			},
		},
	},
}
