package models

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VoteType enum
type VoteType string

const (
	Upvote   VoteType = "upvote"
	Downvote VoteType = "downvote"
)

// ValidVoteType reports whether s is one of the known vote types.
func ValidVoteType(s string) bool {
	switch VoteType(s) {
	case Upvote, Downvote:
		return true
	}
	return false
}

// VoteState is a user's standing vote on an issue.
type VoteState string

const (
	VoteNone      VoteState = "none"
	VoteUpvoted   VoteState = "upvoted"
	VoteDownvoted VoteState = "downvoted"
)

// StateFor maps a stored vote type to the state it represents.
func StateFor(t VoteType) VoteState {
	if t == Downvote {
		return VoteDownvoted
	}
	return VoteUpvoted
}

// NextVoteState applies an incoming vote to the caller's current state.
// Casting the same type twice toggles the vote off; casting the opposite
// type flips it. The returned delta is the net change to the issue's
// upvote counter.
func NextVoteState(current VoteState, incoming VoteType) (VoteState, int64) {
	switch current {
	case VoteUpvoted:
		if incoming == Upvote {
			return VoteNone, -1
		}
		return VoteDownvoted, -2
	case VoteDownvoted:
		if incoming == Downvote {
			return VoteNone, +1
		}
		return VoteUpvoted, +2
	default:
		if incoming == Upvote {
			return VoteUpvoted, +1
		}
		return VoteDownvoted, -1
	}
}

// Vote represents a user's vote on an issue
type Vote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue     primitive.ObjectID `bson:"issue" json:"issue"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	VoteType  VoteType           `bson:"voteType" json:"voteType"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// VoteEvent is the audit record written for every vote action.
type VoteEvent struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Issue          primitive.ObjectID `bson:"issue" json:"issue"`
	User           primitive.ObjectID `bson:"user" json:"user"`
	Action         string             `bson:"action" json:"action"` // cast, flip, retract
	VoteType       VoteType           `bson:"voteType" json:"voteType"`
	Delta          int64              `bson:"delta" json:"delta"`
	ResultingVotes int64              `bson:"resultingVotes" json:"resultingVotes"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// EnsureVoteIndex creates a unique compound index for (issue, user)
func EnsureVoteIndex(collection *mongo.Collection) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "issue", Value: 1}, {Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	return err
}
