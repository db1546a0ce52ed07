package controllers

import (
	"citizen-be/config"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collections are resolved lazily so handlers only touch the database
// after request validation has passed.

func userCollection() *mongo.Collection         { return config.GetCollection("users") }
func issueCollection() *mongo.Collection        { return config.GetCollection("issues") }
func voteCollection() *mongo.Collection         { return config.GetCollection("votes") }
func voteEventCollection() *mongo.Collection    { return config.GetCollection("vote_events") }
func commentCollection() *mongo.Collection      { return config.GetCollection("comments") }
func notificationCollection() *mongo.Collection { return config.GetCollection("notifications") }
func issueUpdateCollection() *mongo.Collection  { return config.GetCollection("issue_updates") }
func attachmentCollection() *mongo.Collection   { return config.GetCollection("attachments") }
