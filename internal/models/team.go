package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Team struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	Admin   primitive.ObjectID   `bson:"admin" json:"admin"`
	Members []primitive.ObjectID `bson:"members" json:"members"`
}

// HasMember reports whether userID is in the member set.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m == userID {
			return true
		}
	}
	return false
}
