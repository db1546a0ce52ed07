package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"citizen-be/models"
	authUtils "citizen-be/utils"

	"github.com/gin-gonic/gin"
	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// countByField runs a $group aggregation and returns name/value pairs.
func countByField(ctx context.Context, field string) ([]bson.M, error) {
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$" + field,
				"count": bson.M{"$sum": 1},
			},
		},
		{
			"$project": bson.M{
				"name":  "$_id",
				"value": "$count",
				"_id":   0,
			},
		},
	}

	cursor, err := issueCollection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []bson.M
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSimpleAnalytics returns the dashboard aggregates
func GetSimpleAnalytics(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	issuesByCategory, err := countByField(ctx, "category")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category analytics"})
		return
	}

	issuesByStatus, err := countByField(ctx, "status")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status analytics"})
		return
	}

	issuesByPriority, err := countByField(ctx, "priority")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get priority analytics"})
		return
	}

	// Daily report counts for the trailing week.
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection().CountDocuments(ctx, bson.M{
			"reportedAt": bson.M{
				"$gte": date,
				"$lt":  nextDate,
			},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Top voted issues straight off the denormalized counter.
	findOptions := options.Find().
		SetSort(bson.D{{Key: "upvotes", Value: -1}, {Key: "reportedAt", Value: -1}}).
		SetLimit(5)

	cursor, err := issueCollection().Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top issues"})
		return
	}
	defer cursor.Close(ctx)

	var topIssues []models.Issue
	if err := cursor.All(ctx, &topIssues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode top issues"})
		return
	}

	type topVotedIssue struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Votes    int64  `json:"votes"`
	}
	topVoted := make([]topVotedIssue, 0, len(topIssues))
	for _, issue := range topIssues {
		topVoted = append(topVoted, topVotedIssue{
			ID:       issue.ID.Hex(),
			Title:    issue.Title,
			Category: string(issue.Category),
			Votes:    issue.Upvotes,
		})
	}
	sort.SliceStable(topVoted, func(i, j int) bool {
		return topVoted[i].Votes > topVoted[j].Votes
	})

	// Resolution-time summary over resolved issues.
	resolvedCursor, err := issueCollection().Find(ctx, bson.M{"resolvedAt": bson.M{"$exists": true, "$ne": nil}})
	resolutionSummary := gin.H{"resolvedCount": 0}
	if err == nil {
		var resolved []models.Issue
		if err := resolvedCursor.All(ctx, &resolved); err == nil && len(resolved) > 0 {
			hours := make([]float64, 0, len(resolved))
			for _, issue := range resolved {
				if issue.ResolvedAt != nil {
					hours = append(hours, issue.ResolvedAt.Sub(issue.ReportedAt).Hours())
				}
			}
			if len(hours) > 0 {
				mean, _ := stats.Mean(hours)
				median, _ := stats.Median(hours)
				resolutionSummary = gin.H{
					"resolvedCount": len(hours),
					"meanHours":     mean,
					"medianHours":   median,
				}
			}
		}
	}

	totalIssues, err := issueCollection().CountDocuments(ctx, bson.M{})
	if err != nil {
		totalIssues = 0
	}

	totalVotes, err := voteCollection().CountDocuments(ctx, bson.M{})
	if err != nil {
		totalVotes = 0
	}

	openIssues, err := issueCollection().CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []string{
			string(models.StatusOpen),
			string(models.StatusAssigned),
			string(models.StatusInProgress),
		}},
	})
	if err != nil {
		openIssues = 0
	}

	response := gin.H{
		"issuesByCategory": issuesByCategory,
		"issuesByStatus":   issuesByStatus,
		"issuesByPriority": issuesByPriority,
		"last7Days":        last7Days,
		"topVotedIssues":   topVoted,
		"resolutionTime":   resolutionSummary,
		"totalIssues":      totalIssues,
		"totalVotes":       totalVotes,
		"openIssues":       openIssues,
	}

	c.JSON(http.StatusOK, authUtils.Data(response))
}
