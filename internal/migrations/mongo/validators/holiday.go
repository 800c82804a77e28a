package validators

import "go.mongodb.org/mongo-driver/bson"

var HolidayValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"date", "reason"},
		"additionalProperties": true,

		"properties": bson.M{
			"date": bson.M{
				"bsonType": "date",
			},
			"reason": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 200,
			},
		},
	},
}
