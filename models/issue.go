package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Pothole     IssueCategory = "pothole"
	Streetlight IssueCategory = "streetlight"
	Garbage     IssueCategory = "garbage"
	Water       IssueCategory = "water"
	Graffiti    IssueCategory = "graffiti"
	Road        IssueCategory = "road"
	Other       IssueCategory = "other"
)

// ValidCategory reports whether s is one of the known categories.
func ValidCategory(s string) bool {
	switch IssueCategory(s) {
	case Pothole, Streetlight, Garbage, Water, Graffiti, Road, Other:
		return true
	}
	return false
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow      IssuePriority = "low"
	PriorityMedium   IssuePriority = "medium"
	PriorityHigh     IssuePriority = "high"
	PriorityCritical IssuePriority = "critical"
)

// ValidPriority reports whether s is one of the known priorities.
func ValidPriority(s string) bool {
	switch IssuePriority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusOpen       IssueStatus = "open"
	StatusAssigned   IssueStatus = "assigned"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s string) bool {
	switch IssueStatus(s) {
	case StatusOpen, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// statusTransitions is the lifecycle table for non-admin callers.
// open -> assigned -> in_progress -> resolved -> closed, plus the
// open -> closed rejection shortcut.
var statusTransitions = map[IssueStatus][]IssueStatus{
	StatusOpen:       {StatusAssigned, StatusClosed},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {StatusClosed},
}

// CanTransitionStatus reports whether from -> to is an allowed lifecycle
// step. Admins bypass this table and may set any status.
func CanTransitionStatus(from, to IssueStatus) bool {
	if from == to {
		return true
	}
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title               string              `bson:"title" json:"title"`
	Description         string              `bson:"description" json:"description"`
	Category            IssueCategory       `bson:"category" json:"category"`
	Priority            IssuePriority       `bson:"priority" json:"priority"`
	Status              IssueStatus         `bson:"status" json:"status"`
	Address             string              `bson:"address" json:"address"`
	Latitude            *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude           *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	ImageURL            *string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Upvotes             int64               `bson:"upvotes" json:"upvotes"`
	Views               int64               `bson:"views" json:"views"`
	CreatedBy           primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	AssignedWorker      *primitive.ObjectID `bson:"assignedWorker,omitempty" json:"assignedWorker,omitempty"`
	EstimatedResolution *time.Time          `bson:"estimatedResolution,omitempty" json:"estimatedResolution,omitempty"`
	ReportedAt          time.Time           `bson:"reportedAt" json:"reportedAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
	ResolvedAt          *time.Time          `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}
