package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enum
type NotificationType string

const (
	NotifyIssueAssigned NotificationType = "issue_assigned"
	NotifyStatusChanged NotificationType = "status_changed"
	NotifyNewComment    NotificationType = "new_comment"
	NotifyInfo          NotificationType = "info"
)

// Notification is a row describing an event for a user. Actual push or
// email delivery happens outside this service.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	User      primitive.ObjectID  `bson:"user" json:"user"`
	Type      NotificationType    `bson:"type" json:"type"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Issue     *primitive.ObjectID `bson:"issue,omitempty" json:"issue,omitempty"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
