package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"user_id",
			"date",
			"seat_number",
			"booking_type",
			"status",
			"created_at",
			"updated_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"date": bson.M{
				"bsonType": "date",
			},

			"seat_number": bson.M{
				"bsonType": bson.A{"int", "long"},
				"minimum":  1,
				"maximum":  50,
			},

			"booking_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"scheduled",
					"spare",
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"active",
					"released",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
