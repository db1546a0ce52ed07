package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"citizen-be/middlewares"
	"citizen-be/models"
	authUtils "citizen-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// voteAction names the transition kind for the audit event.
func voteAction(current, next models.VoteState) string {
	switch {
	case current == models.VoteNone:
		return "cast"
	case next == models.VoteNone:
		return "retract"
	default:
		return "flip"
	}
}

// GetVoteState returns the caller's standing vote and the issue counter
func GetVoteState(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var issue models.Issue
	err = issueCollection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	state := models.VoteNone
	var vote models.Vote
	err = voteCollection().FindOne(ctx, bson.M{"issue": issueID, "user": userObjID}).Decode(&vote)
	if err == nil {
		state = models.StateFor(vote.VoteType)
	} else if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing vote"})
		return
	}

	c.JSON(http.StatusOK, authUtils.Data(gin.H{
		"votes":    issue.Upvotes,
		"userVote": state,
	}))
}

// ApplyVote applies one vote request through the toggle/flip transition
// table. The issue counter is moved with an atomic $inc so concurrent
// votes from different users cannot lose updates.
func ApplyVote(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userObjID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		VoteType string `json:"voteType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidVoteType(input.VoteType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "voteType must be upvote or downvote"})
		return
	}
	incoming := models.VoteType(input.VoteType)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := issueCollection().CountDocuments(ctx, bson.M{"_id": issueID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	// Current state for this (issue, user) pair; the unique index keeps
	// it to at most one row.
	current := models.VoteNone
	var existing models.Vote
	err = voteCollection().FindOne(ctx, bson.M{"issue": issueID, "user": userObjID}).Decode(&existing)
	if err == nil {
		current = models.StateFor(existing.VoteType)
	} else if err != mongo.ErrNoDocuments {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing vote"})
		return
	}

	next, delta := models.NextVoteState(current, incoming)
	now := time.Now()

	switch {
	case next == models.VoteNone:
		// Same type twice: toggle the vote off.
		_, err = voteCollection().DeleteOne(ctx, bson.M{"issue": issueID, "user": userObjID})
	case current == models.VoteNone:
		_, err = voteCollection().InsertOne(ctx, models.Vote{
			ID:        primitive.NewObjectID(),
			Issue:     issueID,
			User:      userObjID,
			VoteType:  incoming,
			CreatedAt: now,
			UpdatedAt: now,
		})
	default:
		// Opposite type: flip the row in place.
		_, err = voteCollection().UpdateOne(ctx,
			bson.M{"issue": issueID, "user": userObjID},
			bson.M{"$set": bson.M{"voteType": incoming, "updatedAt": now}},
		)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	// Counter moves as a server-side increment, never read-modify-write.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Issue
	err = issueCollection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": issueID},
		bson.M{"$inc": bson.M{"upvotes": delta}, "$set": bson.M{"updatedAt": now}},
		opts,
	).Decode(&updated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vote count"})
		return
	}

	// Defensive floor; the transition deltas cannot drive a consistent
	// counter negative, but a drifted one stays clamped at zero.
	votes := updated.Upvotes
	if votes < 0 {
		_, _ = issueCollection().UpdateOne(ctx,
			bson.M{"_id": issueID, "upvotes": bson.M{"$lt": 0}},
			bson.M{"$set": bson.M{"upvotes": int64(0)}},
		)
		votes = 0
	}

	action := voteAction(current, next)
	middlewares.RecordVoteAction(action)

	// Audit event is best-effort; the vote row and counter are the
	// source of truth.
	if _, err := voteEventCollection().InsertOne(ctx, models.VoteEvent{
		ID:             primitive.NewObjectID(),
		Issue:          issueID,
		User:           userObjID,
		Action:         action,
		VoteType:       incoming,
		Delta:          delta,
		ResultingVotes: votes,
		CreatedAt:      now,
	}); err != nil {
		log.Println("Error writing vote event:", err)
	}

	c.JSON(http.StatusOK, authUtils.Data(gin.H{
		"votes":    votes,
		"userVote": next,
	}))
}
