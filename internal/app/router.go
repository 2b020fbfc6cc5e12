package app

import (
	"archtutor_backend/docs"
	"archtutor_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers) {
	docs.SwaggerInfo.BasePath = "/api/v1"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		games := v1.Group("/games")
		{
			games.POST("", c.game.CreateGame)
			games.POST("/hangman", c.game.CreateHangman)
			games.POST("/hangman/guess", c.game.GuessHangman)
			games.POST("/wordle", c.game.CreateWordle)
			games.POST("/wordle/guess", c.game.GuessWordle)
			games.POST("/logic", c.game.CreateLogic)
			games.POST("/logic/answer", c.game.AnswerLogic)
			games.POST("/assembly", c.game.CreateAssembly)
			games.POST("/assembly/answer", c.game.AnswerAssembly)
			games.GET("/status/:gameType/:gameID", c.game.Status)
			games.DELETE("/:gameType/:gameID", c.game.Delete)
		}

		exam := v1.Group("/exam")
		{
			exam.POST("/generate", c.exam.Generate)
			exam.POST("/validate", c.exam.Validate)
			exam.GET("", c.exam.List)
			exam.GET("/:examID", c.exam.Get)
			exam.DELETE("/:examID", c.exam.Delete)
		}

		chat := v1.Group("/chat")
		{
			chat.POST("", c.chat.Ask)
			chat.POST("/stream", c.chat.AskStream)
			chat.GET("/sessions/:sessionID", c.chat.History)
			chat.GET("/documents", c.chat.Documents)
		}
	}
}
