package validators

import "go.mongodb.org/mongo-driver/bson"

var ReservationSettingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"unit_id",
			"bookable_from",
			"bookable_to",
			"mode",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"unit_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"blackout_dates": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
					"pattern":  `^\d{4}-\d{2}-\d{2}$`,
				},
			},

			"daily_capacity": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"bookable_from": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]?[0-9]|2[0-3]):[0-5][0-9]$`,
			},

			"bookable_to": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]?[0-9]|2[0-3]):[0-5][0-9]$`,
			},

			"kitchen_from": bson.M{
				"bsonType": "string",
			},

			"kitchen_to": bson.M{
				"bsonType": "string",
			},

			"bar_from": bson.M{
				"bsonType": "string",
			},

			"bar_to": bson.M{
				"bsonType": "string",
			},

			"mode": bson.M{
				"bsonType": "string",
				"enum": []string{
					"request",
					"auto",
				},
			},

			"notification_emails": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
