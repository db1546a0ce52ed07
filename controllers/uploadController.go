package controllers

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"time"

	"citizen-be/config"
	"citizen-be/models"
	authUtils "citizen-be/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxUploadSize = 10 << 20 // 10MB

// allowedMIMETypes is the attachment allowlist, checked against the
// sniffed content type, never the client-supplied one.
var allowedMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
}

// UploadAttachment stores a file in GridFS and records its metadata.
// The metadata insert must succeed: on failure the stored file is
// removed and the request fails.
func UploadAttachment(c *gin.Context) {
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

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	var issueID *primitive.ObjectID
	if raw := c.PostForm("issue"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
			return
		}
		issueID = &id
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(http.MaxBytesReader(nil, src, maxUploadSize)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	detected := mimetype.Detect(buf.Bytes())
	contentType := detected.String()
	if !allowedMIMETypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported file type " + contentType})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if issueID != nil {
		count, err := issueCollection().CountDocuments(ctx, bson.M{"_id": *issueID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
			return
		}
	}

	bucket, err := config.GetBucket()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open storage"})
		return
	}

	fileID := primitive.NewObjectID()
	if err := bucket.UploadFromStreamWithID(fileID, fileHeader.Filename, bytes.NewReader(buf.Bytes())); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	attachment := models.Attachment{
		ID:          primitive.NewObjectID(),
		Issue:       issueID,
		FileID:      fileID,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        int64(buf.Len()),
		UploadedBy:  userObjID,
		CreatedAt:   time.Now(),
	}

	if _, err := attachmentCollection().InsertOne(ctx, attachment); err != nil {
		// No silent partial state: drop the stored bytes and report.
		log.Println("Error inserting attachment record:", err)
		if delErr := bucket.Delete(fileID); delErr != nil {
			log.Println("Error removing orphaned file:", delErr)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attachment"})
		return
	}

	c.JSON(http.StatusCreated, authUtils.Data(gin.H{
		"id":          attachment.ID,
		"fileName":    attachment.FileName,
		"contentType": attachment.ContentType,
		"size":        attachment.Size,
		"url":         "/api/upload/" + attachment.ID.Hex(),
	}))
}

// ServeAttachment streams a stored file with its recorded content type
func ServeAttachment(c *gin.Context) {
	idParam := c.Param("id")
	attachmentID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid attachment ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var attachment models.Attachment
	err = attachmentCollection().FindOne(ctx, bson.M{"_id": attachmentID}).Decode(&attachment)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attachment"})
		}
		return
	}

	bucket, err := config.GetBucket()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open storage"})
		return
	}

	var buf bytes.Buffer
	if _, err := bucket.DownloadToStream(attachment.FileID, &buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read file"})
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+attachment.FileName+`"`)
	c.Data(http.StatusOK, attachment.ContentType, buf.Bytes())
}
