package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueUpdate is one audit record per changed field on an issue. The
// issue row is the current state; these records are the change log.
type IssueUpdate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	Field     string             `bson:"field" json:"field"`
	OldValue  interface{}        `bson:"oldValue" json:"oldValue"`
	NewValue  interface{}        `bson:"newValue" json:"newValue"`
	UpdatedBy primitive.ObjectID `bson:"updatedBy" json:"updatedBy"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
