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

// CreateIssue handles the creation of a new issue
func CreateIssue(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	createdByID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Title       string   `json:"title" binding:"required,max=200"`
		Description string   `json:"description" binding:"required,max=1000"`
		Category    string   `json:"category" binding:"required"`
		Priority    string   `json:"priority,omitempty"`
		Address     string   `json:"address" binding:"required,max=200"`
		ImageURL    *string  `json:"imageUrl,omitempty"`
		Latitude    *float64 `json:"latitude,omitempty"`
		Longitude   *float64 `json:"longitude,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	priority := models.PriorityMedium
	if input.Priority != "" {
		if !models.ValidPriority(input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		priority = models.IssuePriority(input.Priority)
	}

	// New reports always start open regardless of what the client sends.
	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Priority:    priority,
		Status:      models.StatusOpen,
		Address:     input.Address,
		ImageURL:    input.ImageURL,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Upvotes:     0,
		Views:       0,
		CreatedBy:   createdByID,
		ReportedAt:  time.Now(),
		UpdatedAt:   time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = issueCollection().InsertOne(ctx, issue)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, authUtils.Data(issue))
}

// issueWithCaller decorates an issue with creator info and the caller's
// standing vote.
type issueWithCaller struct {
	models.Issue
	UserVote  models.VoteState       `json:"userVote"`
	CreatedBy map[string]interface{} `json:"createdBy"`
}

func decorateIssues(ctx context.Context, issues []models.Issue, callerID *primitive.ObjectID) []issueWithCaller {
	// One votes query for the whole page instead of one per issue.
	voteStates := map[primitive.ObjectID]models.VoteState{}
	if callerID != nil && len(issues) > 0 {
		ids := make([]primitive.ObjectID, 0, len(issues))
		for _, issue := range issues {
			ids = append(ids, issue.ID)
		}
		cursor, err := voteCollection().Find(ctx, bson.M{
			"issue": bson.M{"$in": ids},
			"user":  *callerID,
		})
		if err == nil {
			var votes []models.Vote
			if err := cursor.All(ctx, &votes); err == nil {
				for _, v := range votes {
					voteStates[v.Issue] = models.StateFor(v.VoteType)
				}
			}
		}
	}

	out := make([]issueWithCaller, 0, len(issues))
	for _, issue := range issues {
		createdByMap := map[string]interface{}{
			"id": issue.CreatedBy,
		}

		var creator models.User
		if err := userCollection().FindOne(ctx, bson.M{"_id": issue.CreatedBy}).Decode(&creator); err == nil {
			createdByMap["name"] = creator.Name
			createdByMap["email"] = creator.Email
		}

		state := models.VoteNone
		if s, ok := voteStates[issue.ID]; ok {
			state = s
		}

		out = append(out, issueWithCaller{
			Issue:     issue,
			UserVote:  state,
			CreatedBy: createdByMap,
		})
	}
	return out
}

// GetAllIssues handles retrieving all issues with filtering, pagination, and vote state
func GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category := c.Query("category")
	status := c.Query("status")
	priority := c.Query("priority")
	search := c.Query("search")
	sortKey := c.DefaultQuery("sort", "newest")
	page, limit := authUtils.ParsePagination(c.DefaultQuery("page", "1"), c.DefaultQuery("limit", "10"))

	filter := bson.M{}

	if category != "" && category != "all" {
		if !models.ValidCategory(category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		filter["category"] = category
	}

	if status != "" && status != "all" {
		if !models.ValidStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		filter["status"] = status
	}

	if priority != "" && priority != "all" {
		if !models.ValidPriority(priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		filter["priority"] = priority
	}

	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	// Caller identity (set when a valid token accompanied the request)
	var currentUserID *primitive.ObjectID
	if userIDStr, exists := c.Get("user_id"); exists {
		if objID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			currentUserID = &objID
		}
	}

	if c.Query("mine") == "true" {
		if currentUserID == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}
		filter["createdBy"] = *currentUserID
	}

	skip := (page - 1) * limit

	var sortOptions bson.D
	switch sortKey {
	case "oldest":
		sortOptions = bson.D{{Key: "reportedAt", Value: 1}}
	case "votes":
		sortOptions = bson.D{{Key: "upvotes", Value: -1}, {Key: "reportedAt", Value: -1}}
	case "newest":
		fallthrough
	default:
		sortOptions = bson.D{{Key: "reportedAt", Value: -1}}
	}

	totalCount, err := issueCollection().CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count issues"})
		return
	}

	findOptions := options.Find().
		SetSort(sortOptions).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := issueCollection().Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	response := gin.H{
		"issues":      decorateIssues(ctx, issues, currentUserID),
		"totalIssues": totalCount,
		"totalPages":  authUtils.TotalPages(totalCount, limit),
		"currentPage": page,
	}

	c.JSON(http.StatusOK, authUtils.Data(response))
}

// GetIssue retrieves an issue by its ID and bumps its view counter
func GetIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Atomic view bump; returns the post-increment document.
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var issue models.Issue
	err = issueCollection().FindOneAndUpdate(
		ctx,
		bson.M{"_id": issueID},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	var currentUserID *primitive.ObjectID
	if userIDStr, exists := c.Get("user_id"); exists {
		if objID, err := primitive.ObjectIDFromHex(userIDStr.(string)); err == nil {
			currentUserID = &objID
		}
	}

	decorated := decorateIssues(ctx, []models.Issue{issue}, currentUserID)
	c.JSON(http.StatusOK, authUtils.Data(decorated[0]))
}

// issueUpdateInput carries the optional fields of an issue update request.
type issueUpdateInput struct {
	Title               *string  `json:"title,omitempty"`
	Description         *string  `json:"description,omitempty"`
	Category            *string  `json:"category,omitempty"`
	Priority            *string  `json:"priority,omitempty"`
	Address             *string  `json:"address,omitempty"`
	ImageURL            *string  `json:"imageUrl,omitempty"`
	Latitude            *float64 `json:"latitude,omitempty"`
	Longitude           *float64 `json:"longitude,omitempty"`
	Status              *string  `json:"status,omitempty"`
	AssignedWorker      *string  `json:"assignedWorker,omitempty"`
	EstimatedResolution *string  `json:"estimatedResolution,omitempty"`
}

// fieldChange is one accepted field write, recorded to the audit log.
type fieldChange struct {
	field    string
	oldValue interface{}
	newValue interface{}
}

// UpdateIssue applies a role-gated, field-level update with an audit
// record per changed field.
func UpdateIssue(c *gin.Context) {
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

	var input issueUpdateInput
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

	role := middlewares.CallerRole(c)
	isOwner := issue.CreatedBy == userObjID

	allowed := func(field string) bool {
		return models.CanEditField(role, isOwner, issue.Status, field)
	}

	now := time.Now()
	set := bson.M{"updatedAt": now}
	unset := bson.M{}
	var changes []fieldChange

	apply := func(field string, oldValue, newValue interface{}, bsonKey string) bool {
		if !allowed(field) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update " + field})
			return false
		}
		set[bsonKey] = newValue
		changes = append(changes, fieldChange{field: field, oldValue: oldValue, newValue: newValue})
		return true
	}

	if input.Title != nil && !apply(models.FieldTitle, issue.Title, *input.Title, "title") {
		return
	}
	if input.Description != nil && !apply(models.FieldDescription, issue.Description, *input.Description, "description") {
		return
	}
	if input.Category != nil {
		if !models.ValidCategory(*input.Category) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
			return
		}
		if !apply(models.FieldCategory, string(issue.Category), *input.Category, "category") {
			return
		}
	}
	if input.Priority != nil {
		if !models.ValidPriority(*input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		if !apply(models.FieldPriority, string(issue.Priority), *input.Priority, "priority") {
			return
		}
	}
	if input.Address != nil && !apply(models.FieldAddress, issue.Address, *input.Address, "address") {
		return
	}
	if input.ImageURL != nil && !apply(models.FieldImageURL, issue.ImageURL, *input.ImageURL, "imageUrl") {
		return
	}
	if input.Latitude != nil && !apply(models.FieldLatitude, issue.Latitude, *input.Latitude, "latitude") {
		return
	}
	if input.Longitude != nil && !apply(models.FieldLongitude, issue.Longitude, *input.Longitude, "longitude") {
		return
	}

	var newWorker *primitive.ObjectID
	if input.AssignedWorker != nil {
		workerID, err := primitive.ObjectIDFromHex(*input.AssignedWorker)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid worker ID"})
			return
		}
		var worker models.User
		err = userCollection().FindOne(ctx, bson.M{"_id": workerID, "role": models.RoleWorker}).Decode(&worker)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "Worker not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up worker"})
			}
			return
		}
		if !apply(models.FieldAssignedWorker, issue.AssignedWorker, workerID, "assignedWorker") {
			return
		}
		newWorker = &workerID
	}

	if input.EstimatedResolution != nil {
		est, err := time.Parse(time.RFC3339, *input.EstimatedResolution)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid estimatedResolution, expected RFC3339"})
			return
		}
		if !apply(models.FieldEstimatedResolution, issue.EstimatedResolution, est, "estimatedResolution") {
			return
		}
	}

	statusChanged := false
	var newStatus models.IssueStatus
	if input.Status != nil {
		if !models.ValidStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		newStatus = models.IssueStatus(*input.Status)
		if role != models.RoleAdmin && !models.CanTransitionStatus(issue.Status, newStatus) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid status transition from " + string(issue.Status) + " to " + string(newStatus),
			})
			return
		}
		if newStatus != issue.Status {
			if !apply(models.FieldStatus, string(issue.Status), string(newStatus), "status") {
				return
			}
			statusChanged = true

			// resolvedAt mirrors the resolved state exactly: entering
			// resolved stamps it, leaving resolved clears it.
			if newStatus == models.StatusResolved {
				set["resolvedAt"] = now
			} else if issue.Status == models.StatusResolved {
				unset["resolvedAt"] = ""
			}
		}
	}

	if len(changes) == 0 {
		c.JSON(http.StatusOK, authUtils.DataMessage(nil, "Nothing to update"))
		return
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	_, err = issueCollection().UpdateOne(ctx, bson.M{"_id": issueID}, update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	// One audit record per changed field.
	auditDocs := make([]interface{}, 0, len(changes))
	for _, ch := range changes {
		auditDocs = append(auditDocs, models.IssueUpdate{
			ID:        primitive.NewObjectID(),
			Issue:     issueID,
			Field:     ch.field,
			OldValue:  ch.oldValue,
			NewValue:  ch.newValue,
			UpdatedBy: userObjID,
			CreatedAt: now,
		})
	}
	if _, err := issueUpdateCollection().InsertMany(ctx, auditDocs); err != nil {
		log.Println("Error writing issue audit records:", err)
	}

	if newWorker != nil {
		notify(ctx, *newWorker, models.NotifyIssueAssigned, "Issue assigned to you",
			issue.Title, &issueID)
	}
	if statusChanged && issue.CreatedBy != userObjID {
		notify(ctx, issue.CreatedBy, models.NotifyStatusChanged,
			"Issue status changed to "+string(newStatus), issue.Title, &issueID)
	}

	var updated models.Issue
	if err := issueCollection().FindOne(ctx, bson.M{"_id": issueID}).Decode(&updated); err != nil {
		c.JSON(http.StatusOK, authUtils.DataMessage(nil, "Issue updated successfully"))
		return
	}

	c.JSON(http.StatusOK, authUtils.DataMessage(updated, "Issue updated successfully"))
}

// DeleteIssue removes an issue and its dependent records
func DeleteIssue(c *gin.Context) {
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

	if !models.CanDeleteIssue(middlewares.CallerRole(c), issue.CreatedBy == userObjID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to delete this issue"})
		return
	}

	_, err = issueCollection().DeleteOne(ctx, bson.M{"_id": issueID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}

	// Cascade dependent records; best-effort like the vote cleanup.
	_, _ = voteCollection().DeleteMany(ctx, bson.M{"issue": issueID})
	_, _ = voteEventCollection().DeleteMany(ctx, bson.M{"issue": issueID})
	_, _ = commentCollection().DeleteMany(ctx, bson.M{"issue": issueID})
	_, _ = issueUpdateCollection().DeleteMany(ctx, bson.M{"issue": issueID})
	_, _ = attachmentCollection().DeleteMany(ctx, bson.M{"issue": issueID})

	c.JSON(http.StatusOK, authUtils.DataMessage(nil, "Issue deleted successfully"))
}

// GetIssueUpdates returns the per-field audit trail, newest first
func GetIssueUpdates(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := issueUpdateCollection().Find(ctx, bson.M{"issue": issueID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue history"})
		return
	}
	defer cursor.Close(ctx)

	var updates []models.IssueUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issue history"})
		return
	}

	c.JSON(http.StatusOK, authUtils.Data(updates))
}

// RecentIssues returns the most recent issues that have latitude and longitude
func RecentIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	limit := 19

	filter := bson.M{
		"latitude":  bson.M{"$exists": true, "$ne": nil},
		"longitude": bson.M{"$exists": true, "$ne": nil},
	}

	projection := bson.M{
		"_id":        1,
		"title":      1,
		"latitude":   1,
		"longitude":  1,
		"address":    1,
		"category":   1,
		"status":     1,
		"reportedAt": 1,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "reportedAt", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(projection)

	cursor, err := issueCollection().Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve recent issues"})
		return
	}
	defer cursor.Close(ctx)

	type issueProjection struct {
		ID         primitive.ObjectID `bson:"_id" json:"id"`
		Title      string             `bson:"title" json:"title"`
		Latitude   *float64           `bson:"latitude" json:"latitude"`
		Longitude  *float64           `bson:"longitude" json:"longitude"`
		Address    string             `bson:"address" json:"address"`
		Category   string             `bson:"category" json:"category"`
		Status     string             `bson:"status" json:"status"`
		ReportedAt time.Time          `bson:"reportedAt" json:"reportedAt"`
	}

	var issues []issueProjection
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode recent issues"})
		return
	}

	type issueResponse struct {
		ID         string    `json:"id"`
		Title      string    `json:"title"`
		Latitude   float64   `json:"latitude"`
		Longitude  float64   `json:"longitude"`
		Address    string    `json:"address"`
		Category   string    `json:"category,omitempty"`
		Status     string    `json:"status,omitempty"`
		ReportedAt time.Time `json:"reportedAt,omitempty"`
	}

	response := make([]issueResponse, 0, len(issues))
	for _, issue := range issues {
		if issue.Latitude != nil && issue.Longitude != nil {
			response = append(response, issueResponse{
				ID:         issue.ID.Hex(),
				Title:      issue.Title,
				Latitude:   *issue.Latitude,
				Longitude:  *issue.Longitude,
				Address:    issue.Address,
				Category:   issue.Category,
				Status:     issue.Status,
				ReportedAt: issue.ReportedAt,
			})
		}
	}

	c.JSON(http.StatusOK, authUtils.Data(response))
}

// notify inserts one notification row; delivery happens elsewhere.
func notify(ctx context.Context, user primitive.ObjectID, kind models.NotificationType, title, message string, issue *primitive.ObjectID) {
	_, err := notificationCollection().InsertOne(ctx, models.Notification{
		ID:        primitive.NewObjectID(),
		User:      user,
		Type:      kind,
		Title:     title,
		Message:   message,
		Issue:     issue,
		Read:      false,
		CreatedAt: time.Now(),
	})
	if err != nil {
		log.Println("Error inserting notification:", err)
	}
}
