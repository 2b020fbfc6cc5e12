package controller

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestHealthCheckWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/api/health", NewHealthController(nil).HealthCheck)

	w, res := doJSON(t, router, "GET", "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data := res["data"].(map[string]interface{})
	if data["status"] != "ok" {
		t.Errorf("status field = %v", data["status"])
	}
	components := data["components"].(map[string]interface{})
	if components["redis"] != "disabled" {
		t.Errorf("redis component = %v", components["redis"])
	}
}
