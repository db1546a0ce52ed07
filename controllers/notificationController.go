package controllers

import (
	"context"
	"net/http"
	"time"

	"citizen-be/models"
	authUtils "citizen-be/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetNotifications lists the caller's notifications, newest first
func GetNotifications(c *gin.Context) {
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

	page, limit := authUtils.ParsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))
	skip := (page - 1) * limit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"user": userObjID}
	if c.Query("unread") == "true" {
		filter["read"] = false
	}

	totalCount, err := notificationCollection().CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count notifications"})
		return
	}

	unreadCount, err := notificationCollection().CountDocuments(ctx, bson.M{"user": userObjID, "read": false})
	if err != nil {
		unreadCount = 0
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := notificationCollection().Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode notifications"})
		return
	}

	c.JSON(http.StatusOK, authUtils.Data(gin.H{
		"notifications": notifications,
		"unreadCount":   unreadCount,
		"totalPages":    authUtils.TotalPages(totalCount, limit),
		"currentPage":   page,
	}))
}

// MarkNotificationsRead marks the given notification ids (or all of the
// caller's notifications) as read
func MarkNotificationsRead(c *gin.Context) {
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
		IDs []string `json:"ids,omitempty"`
		All bool     `json:"all,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !input.All && len(input.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide ids or all=true"})
		return
	}

	// Only the caller's own rows are ever touched.
	filter := bson.M{"user": userObjID}
	if !input.All {
		ids := make([]primitive.ObjectID, 0, len(input.IDs))
		for _, raw := range input.IDs {
			id, err := primitive.ObjectIDFromHex(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID: " + raw})
				return
			}
			ids = append(ids, id)
		}
		filter["_id"] = bson.M{"$in": ids}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := notificationCollection().UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, authUtils.Data(gin.H{"marked": result.ModifiedCount}))
}
