package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"citizen-be/models"
)

// ClassifierClient calls the external image-classification service.
// Its output only pre-fills the report form; every failure is tolerated
// and the caller falls back to manual category selection.
type ClassifierClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewClassifierClient(baseURL string) *ClassifierClient {
	return &ClassifierClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type Classification struct {
	Label             string  `json:"label"`
	Confidence        float64 `json:"confidence"`
	SuggestedCategory string  `json:"suggestedCategory"`
}

// labelCategories maps classifier labels onto issue categories.
var labelCategories = map[string]models.IssueCategory{
	"pothole":      models.Pothole,
	"streetlight":  models.Streetlight,
	"street_light": models.Streetlight,
	"garbage":      models.Garbage,
	"trash":        models.Garbage,
	"water_leak":   models.Water,
	"flooding":     models.Water,
	"graffiti":     models.Graffiti,
	"road_damage":  models.Road,
}

// Classify sends the image bytes and returns the label/confidence pair.
func (c *ClassifierClient) Classify(image []byte, fileName string) (*Classification, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("classifier not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/classify", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("classifier returned %d: %s", resp.StatusCode, raw)
	}

	var result struct {
		Label      string  `json:"label"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	out := &Classification{
		Label:             result.Label,
		Confidence:        result.Confidence,
		SuggestedCategory: string(models.Other),
	}
	if cat, ok := labelCategories[result.Label]; ok {
		out.SuggestedCategory = string(cat)
	}
	return out, nil
}
