package controllers

import (
	"context"
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

// GetComments lists an issue's comments. Private comments are included
// only for the issue owner, admins, and workers.
func GetComments(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
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

	isOwner := false
	if userIDStr, exists := c.Get("user_id"); exists {
		if callerID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			isOwner = issue.CreatedBy == callerID
		}
	}

	filter := bson.M{"issue": issueID}
	if !models.CanViewPrivateComment(middlewares.CallerRole(c), isOwner) {
		filter["isPrivate"] = false
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := commentCollection().Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comments"})
		return
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode comments"})
		return
	}

	// Author names, looked up per comment like the issue creator info.
	type commentWithAuthor struct {
		models.Comment
		Author map[string]interface{} `json:"author"`
	}

	out := make([]commentWithAuthor, 0, len(comments))
	for _, comment := range comments {
		author := map[string]interface{}{"id": comment.User}
		var user models.User
		if err := userCollection().FindOne(ctx, bson.M{"_id": comment.User}).Decode(&user); err == nil {
			author["name"] = user.Name
			author["role"] = user.Role
		}
		out = append(out, commentWithAuthor{Comment: comment, Author: author})
	}

	c.JSON(http.StatusOK, authUtils.Data(out))
}

// CreateComment adds a comment to an issue. Private comments are
// restricted to the issue owner, admins, and workers.
func CreateComment(c *gin.Context) {
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
		Content   string `json:"content" binding:"required,max=1000"`
		IsPrivate bool   `json:"isPrivate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	isOwner := issue.CreatedBy == userObjID
	if input.IsPrivate && !models.CanViewPrivateComment(middlewares.CallerRole(c), isOwner) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to create private comments"})
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		User:      userObjID,
		Content:   input.Content,
		IsPrivate: input.IsPrivate,
		CreatedAt: time.Now(),
	}

	if _, err := commentCollection().InsertOne(ctx, comment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	// Tell the reporter about comments from other people. Reporters see
	// private comments on their own issue, so no visibility filter here.
	if issue.CreatedBy != userObjID {
		notify(ctx, issue.CreatedBy, models.NotifyNewComment,
			"New comment on your issue", issue.Title, &issueID)
	}

	c.JSON(http.StatusCreated, authUtils.Data(comment))
}
