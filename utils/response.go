package authUtils

import "github.com/gin-gonic/gin"

// Envelope helpers so every handler answers with the same shape:
// success bodies carry "data", failures carry "error" plus an optional
// "message" with detail safe to show a client.

func Data(payload interface{}) gin.H {
	return gin.H{"data": payload}
}

func DataMessage(payload interface{}, message string) gin.H {
	return gin.H{"data": payload, "message": message}
}

func Error(message string) gin.H {
	return gin.H{"error": message}
}

func ErrorDetail(message, detail string) gin.H {
	return gin.H{"error": message, "message": detail}
}
