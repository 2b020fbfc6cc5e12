package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"archtutor_backend/internal/config"
)

func TestSearchImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-API-KEY") != "serper-key" {
			t.Errorf("missing api key header")
		}

		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if q, _ := req["q"].(string); q == "" {
			t.Error("empty query")
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"images": []map[string]string{
				{"title": "cache hierarchy", "imageUrl": "http://img/1.png", "source": "example.com"},
				{"title": "no url", "imageUrl": ""},
				{"title": "pipeline", "imageUrl": "http://img/2.png"},
				{"title": "extra", "imageUrl": "http://img/3.png"},
			},
		})
	}))
	defer srv.Close()

	svc := NewImageService(config.SerperConfig{BaseURL: srv.URL, APIKey: "serper-key"})
	images, err := svc.SearchImages(context.Background(), "cache", 2)
	if err != nil {
		t.Fatalf("SearchImages: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("len(images) = %d, want limit 2", len(images))
	}
	if images[0].URL != "http://img/1.png" || images[1].URL != "http://img/2.png" {
		t.Errorf("entries without urls must be skipped: %+v", images)
	}
}

func TestSearchImagesWithoutKeyIsNoOp(t *testing.T) {
	svc := NewImageService(config.SerperConfig{BaseURL: "http://unused"})
	images, err := svc.SearchImages(context.Background(), "cache", 3)
	if err != nil || images != nil {
		t.Errorf("expected silent no-op, got %v, %v", images, err)
	}
}
