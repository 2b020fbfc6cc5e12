package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/pkg/logger"

	"go.uber.org/zap"
)

// ImageSearcher finds illustrative images for a chat answer.
type ImageSearcher interface {
	SearchImages(ctx context.Context, query string, limit int) ([]model.Image, error)
}

// ImageService queries the Serper image search API. Queries are biased
// toward educational diagrams so answers get schematics rather than
// stock photos.
type ImageService struct {
	config config.SerperConfig
	client *http.Client
}

func NewImageService(cfg config.SerperConfig) *ImageService {
	return &ImageService{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type serperImageResult struct {
	Images []struct {
		Title    string `json:"title"`
		ImageURL string `json:"imageUrl"`
		Source   string `json:"source"`
	} `json:"images"`
}

func (s *ImageService) SearchImages(ctx context.Context, query string, limit int) ([]model.Image, error) {
	if s.config.APIKey == "" {
		return nil, nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"q":   query + " computer architecture diagram",
		"num": limit,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/images", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("serper error (status %d): %s", resp.StatusCode, string(raw))
	}

	var result serperImageResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	images := make([]model.Image, 0, limit)
	for _, img := range result.Images {
		if img.ImageURL == "" {
			continue
		}
		images = append(images, model.Image{
			URL:    img.ImageURL,
			Title:  img.Title,
			Source: img.Source,
		})
		if len(images) >= limit {
			break
		}
	}

	logger.Log.Debug("image search done", zap.String("query", query), zap.Int("results", len(images)))
	return images, nil
}
