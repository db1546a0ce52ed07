package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment belongs to an issue and its author. Private comments are
// visible only to the issue owner, admins, and workers.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Content   string             `bson:"content" json:"content"`
	IsPrivate bool               `bson:"isPrivate" json:"isPrivate"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
