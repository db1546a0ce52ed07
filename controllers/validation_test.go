package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// identity injects an authenticated caller the way the auth middleware
// does, without needing a token.
func identity(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// These tests cover the request-validation layer, which rejects bad
// input before any database call is made.

func TestSignupValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/auth/signup", SignupUser)

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"missing name", gin.H{"email": "a@b.com", "password": "secret1"}, http.StatusBadRequest},
		{"bad email", gin.H{"name": "Ann", "email": "not-an-email", "password": "secret1"}, http.StatusBadRequest},
		{"short password", gin.H{"name": "Ann", "email": "a@b.com", "password": "abc"}, http.StatusBadRequest},
		{"self-assigned admin role", gin.H{"name": "Ann", "email": "a@b.com", "password": "secret1", "role": "admin"}, http.StatusBadRequest},
		{"unknown role", gin.H{"name": "Ann", "email": "a@b.com", "password": "secret1", "role": "mayor"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/api/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestCreateIssueValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.POST("/api/issues", identity(userID, "citizen"), CreateIssue)

	anon := gin.New()
	anon.POST("/api/issues", CreateIssue)

	valid := gin.H{
		"title":       "Pothole on 5th",
		"description": "Large pothole near the crosswalk",
		"category":    "pothole",
		"priority":    "high",
		"address":     "5th Avenue",
	}

	tests := []struct {
		name           string
		router         *gin.Engine
		body           gin.H
		expectedStatus int
	}{
		{"unauthenticated", anon, valid, http.StatusUnauthorized},
		{"missing title", r, gin.H{"description": "x", "category": "pothole", "address": "5th"}, http.StatusBadRequest},
		{"unknown category", r, gin.H{"title": "t", "description": "d", "category": "sinkhole", "address": "5th"}, http.StatusBadRequest},
		{"unknown priority", r, gin.H{"title": "t", "description": "d", "category": "pothole", "priority": "urgent", "address": "5th"}, http.StatusBadRequest},
		{"title too long", r, gin.H{"title": strings.Repeat("x", 201), "description": "d", "category": "pothole", "address": "5th"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest("POST", "/api/issues", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			tt.router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestListIssuesFilterValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/issues", GetAllIssues)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
	}{
		{"unknown status filter", "?status=pending", http.StatusBadRequest},
		{"unknown category filter", "?category=sinkhole", http.StatusBadRequest},
		{"unknown priority filter", "?priority=urgent", http.StatusBadRequest},
		{"mine without auth", "?mine=true", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/issues"+tt.query, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestIssueIDValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.GET("/api/issues/:id", GetIssue)
	r.PUT("/api/issues/:id", identity(userID, "citizen"), UpdateIssue)
	r.GET("/api/issues/:id/updates", identity(userID, "citizen"), GetIssueUpdates)

	for _, path := range []string{
		"/api/issues/not-a-hex-id",
		"/api/issues/not-a-hex-id/updates",
	} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", path, w.Code)
		}
	}

	req := httptest.NewRequest("PUT", "/api/issues/zzz", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("PUT with bad id: status = %d, want 400", w.Code)
	}
}

func TestApplyVoteValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()
	issueID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.POST("/api/issues/:id/vote", identity(userID, "citizen"), ApplyVote)

	anon := gin.New()
	anon.POST("/api/issues/:id/vote", ApplyVote)

	tests := []struct {
		name           string
		router         *gin.Engine
		path           string
		body           string
		expectedStatus int
	}{
		{"bad issue id", r, "/api/issues/nope/vote", `{"voteType":"upvote"}`, http.StatusBadRequest},
		{"unauthenticated", anon, "/api/issues/" + issueID + "/vote", `{"voteType":"upvote"}`, http.StatusUnauthorized},
		{"missing voteType", r, "/api/issues/" + issueID + "/vote", `{}`, http.StatusBadRequest},
		{"unknown voteType", r, "/api/issues/" + issueID + "/vote", `{"voteType":"sideways"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			tt.router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestCreateCommentValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()
	issueID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.POST("/api/issues/:id/comments", identity(userID, "citizen"), CreateComment)

	tests := []struct {
		name           string
		path           string
		body           string
		expectedStatus int
	}{
		{"bad issue id", "/api/issues/nope/comments", `{"content":"hi"}`, http.StatusBadRequest},
		{"missing content", "/api/issues/" + issueID + "/comments", `{}`, http.StatusBadRequest},
		{"content too long", "/api/issues/" + issueID + "/comments",
			`{"content":"` + strings.Repeat("x", 1001) + `"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestMarkNotificationsReadValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.PUT("/api/notifications", identity(userID, "citizen"), MarkNotificationsRead)

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{"neither ids nor all", `{}`, http.StatusBadRequest},
		{"empty ids without all", `{"ids":[]}`, http.StatusBadRequest},
		{"malformed id", `{"ids":["not-hex"]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("PUT", "/api/notifications", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func multipartBody(t *testing.T, field, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

func TestUploadValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.POST("/api/upload", identity(userID, "citizen"), UploadAttachment)

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/upload", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("disallowed content type", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "notes.txt", []byte("just some text"))
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("oversize file", func(t *testing.T) {
		body, contentType := multipartBody(t, "file", "huge.bin", make([]byte, maxUploadSize+1))
		req := httptest.NewRequest("POST", "/api/upload", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
		}
	})
}

func TestClassifyFallsBackWithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("CLASSIFIER_URL", "")
	userID := primitive.NewObjectID().Hex()

	r := gin.New()
	r.POST("/api/classify", identity(userID, "citizen"), ClassifyImage)

	t.Run("missing image", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/classify", strings.NewReader(""))
		req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400 (body: %s)", w.Code, w.Body.String())
		}
	})

	t.Run("classifier unavailable returns null suggestion", func(t *testing.T) {
		body, contentType := multipartBody(t, "image", "photo.jpg", []byte{0xFF, 0xD8, 0xFF})
		req := httptest.NewRequest("POST", "/api/classify", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
		}

		var resp struct {
			Data struct {
				Suggestion *json.RawMessage `json:"suggestion"`
			} `json:"data"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if resp.Data.Suggestion != nil && string(*resp.Data.Suggestion) != "null" {
			t.Errorf("suggestion = %s, want null", string(*resp.Data.Suggestion))
		}
	})
}
