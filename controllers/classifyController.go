package controllers

import (
	"bytes"
	"log"
	"net/http"
	"os"

	"citizen-be/clients"
	"citizen-be/middlewares"
	authUtils "citizen-be/utils"

	"github.com/gin-gonic/gin"
)

// ClassifyImage forwards an image to the classification service to
// pre-fill the report form. The suggestion is advisory only: every
// failure returns a null suggestion instead of an error so reporting
// never blocks on the classifier.
func ClassifyImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image is required"})
		return
	}
	if fileHeader.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 10MB limit"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	classifier := clients.NewClassifierClient(os.Getenv("CLASSIFIER_URL"))
	result, err := classifier.Classify(buf.Bytes(), fileHeader.Filename)
	if err != nil {
		log.Println("Classifier call failed:", err)
		middlewares.RecordClassifierCall(false)
		c.JSON(http.StatusOK, authUtils.Data(gin.H{"suggestion": nil}))
		return
	}

	middlewares.RecordClassifierCall(true)
	c.JSON(http.StatusOK, authUtils.Data(gin.H{"suggestion": result}))
}
