package controller

import (
	"archtutor_backend/internal/service"
	"archtutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	chat *service.ChatService
}

func NewChatController(chat *service.ChatService) *ChatController {
	return &ChatController{chat: chat}
}

// Ask godoc
// @Summary Ask the course assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param request body service.ChatRequest true "query, optional session id and document ids"
// @Success 200 {object} util.Response
// @Failure 502 {object} util.Response
// @Router /api/v1/chat [post]
func (cc *ChatController) Ask(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	result, err := cc.chat.Ask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, result)
}

// AskStream godoc
// @Summary Ask the course assistant, streamed over SSE
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param request body service.ChatRequest true "query, optional session id and document ids"
// @Success 200 {string} string "event stream"
// @Router /api/v1/chat/stream [post]
func (cc *ChatController) AskStream(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	sessionID, chunks, errChan, err := cc.chat.AskStream(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Transfer-Encoding", "chunked")

	c.SSEvent("session", sessionID)
	c.Writer.Flush()

	for chunk := range chunks {
		c.SSEvent("message", chunk)
		c.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		c.SSEvent("error", err.Error())
		c.Writer.Flush()
	}

	c.SSEvent("end", "done")
	c.Writer.Flush()
}

// History godoc
// @Summary Conversation history for a session
// @Tags chat
// @Produce json
// @Param sessionID path string true "chat session id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/v1/chat/sessions/{sessionID} [get]
func (cc *ChatController) History(c *gin.Context) {
	session, err := cc.chat.History(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, session)
}

// Documents godoc
// @Summary Course material available as chat context
// @Tags chat
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/v1/chat/documents [get]
func (cc *ChatController) Documents(c *gin.Context) {
	docs, err := cc.chat.Documents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, docs)
}
