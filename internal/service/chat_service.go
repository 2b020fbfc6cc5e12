package service

import (
	"context"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/util"
	"archtutor_backend/pkg/logger"

	"go.uber.org/zap"
)

// ChatService answers course questions. It threads conversation
// history through the chat repository, grounds answers in requested
// course material and decorates replies with related images.
type ChatService struct {
	repo      repository.ChatRepository
	ai        ChatModel
	images    ImageSearcher
	documents *DocumentService
	cfg       config.ChatConfig
}

func NewChatService(repo repository.ChatRepository, ai ChatModel, images ImageSearcher, documents *DocumentService, cfg config.ChatConfig) *ChatService {
	return &ChatService{
		repo:      repo,
		ai:        ai,
		images:    images,
		documents: documents,
		cfg:       cfg,
	}
}

type ChatRequest struct {
	SessionID     string   `json:"session_id"`
	Query         string   `json:"query" binding:"required"`
	DocumentIDs   []string `json:"document_ids"`
	IncludeImages bool     `json:"include_images"`
}

type ChatResult struct {
	SessionID  string            `json:"session_id"`
	Reply      string            `json:"reply"`
	Images     []model.Image     `json:"images,omitempty"`
	References []model.Reference `json:"references,omitempty"`
}

// Ask answers one chat turn. A missing or expired session id starts a
// fresh conversation transparently.
func (s *ChatService) Ask(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	sessionID, history, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	docContext, refs, err := s.documents.Context(ctx, req.DocumentIDs)
	if err != nil {
		return nil, err
	}

	reply, err := s.ai.ChatReply(ctx, req.Query, docContext, history)
	if err != nil {
		return nil, err
	}

	s.recordTurn(ctx, sessionID, req.Query, reply)

	result := &ChatResult{
		SessionID:  sessionID,
		Reply:      reply,
		References: refs,
	}

	if req.IncludeImages {
		images, err := s.images.SearchImages(ctx, req.Query, s.cfg.MaxImages)
		if err != nil {
			// Images are decoration; a failed search never fails the chat.
			logger.Log.Warn("image search failed", zap.Error(err))
		} else {
			result.Images = images
		}
	}

	return result, nil
}

// AskStream is the streaming variant. Chunks arrive on the returned
// channel; the full reply is appended to the history once the stream
// ends cleanly.
func (s *ChatService) AskStream(ctx context.Context, req ChatRequest) (string, <-chan string, <-chan error, error) {
	sessionID, history, err := s.resolveSession(ctx, req.SessionID)
	if err != nil {
		return "", nil, nil, err
	}

	docContext, _, err := s.documents.Context(ctx, req.DocumentIDs)
	if err != nil {
		return "", nil, nil, err
	}

	chunks, errChan := s.ai.ChatReplyStream(ctx, req.Query, docContext, history)

	out := make(chan string)
	outErr := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(outErr)

		var full []byte
		for chunk := range chunks {
			full = append(full, chunk...)
			out <- chunk
		}
		if err := <-errChan; err != nil {
			outErr <- err
			return
		}
		s.recordTurn(ctx, sessionID, req.Query, string(full))
	}()

	return sessionID, out, outErr, nil
}

// History returns the stored conversation for a session id.
func (s *ChatService) History(ctx context.Context, sessionID string) (*model.ChatSession, error) {
	session, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, util.ErrSessionNotFound
	}
	return session, nil
}

// Documents lists the course material available as chat context.
func (s *ChatService) Documents(ctx context.Context) ([]model.Document, error) {
	return s.documents.List(ctx)
}

func (s *ChatService) resolveSession(ctx context.Context, id string) (string, []model.ChatMessage, error) {
	if id != "" {
		session, err := s.repo.GetSession(ctx, id)
		if err != nil {
			return "", nil, err
		}
		if session != nil {
			return session.ID, session.Messages, nil
		}
	}

	newID, err := s.repo.CreateSession(ctx)
	if err != nil {
		return "", nil, err
	}
	return newID, nil, nil
}

func (s *ChatService) recordTurn(ctx context.Context, sessionID, query, reply string) {
	if err := s.repo.AppendMessage(ctx, sessionID, "user", query); err != nil {
		logger.Log.Warn("failed to append user message", zap.Error(err))
		return
	}
	if err := s.repo.AppendMessage(ctx, sessionID, "assistant", reply); err != nil {
		logger.Log.Warn("failed to append assistant message", zap.Error(err))
	}
}
