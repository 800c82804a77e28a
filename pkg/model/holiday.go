package model

import "time"

type Holiday struct {
	ID     string    `json:"id,omitempty" bson:"_id,omitempty"`
	Date   time.Time `json:"date" bson:"date"`
	Reason string    `json:"reason" bson:"reason"`
}
