package controller

import (
	"archtutor_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type HealthController struct {
	rdb *redis.Client
}

func NewHealthController(rdb *redis.Client) *HealthController {
	return &HealthController{rdb: rdb}
}

// HealthCheck godoc
// @Summary Service health
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (hc *HealthController) HealthCheck(c *gin.Context) {
	components := gin.H{}

	if hc.rdb != nil {
		if err := hc.rdb.Ping(c.Request.Context()).Err(); err != nil {
			components["redis"] = "down"
		} else {
			components["redis"] = "up"
		}
	} else {
		components["redis"] = "disabled"
	}

	util.Success(c, gin.H{
		"status":     "ok",
		"components": components,
	})
}
