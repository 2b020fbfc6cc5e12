package service

import (
	"context"
	"strings"
	"time"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/util"
	"archtutor_backend/pkg/logger"
	"archtutor_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	minExplanationLength  = 10
	assemblyPassThreshold = 70
)

// AssemblyService runs bug-hunting rounds over generated assembly
// snippets. The engine holds no grading logic of its own: free-text
// answers go back to the grader collaborator for judgment.
type AssemblyService struct {
	store     repository.SessionStore
	generator ContentGenerator
	grader    AnswerGrader
}

func NewAssemblyService(store repository.SessionStore, generator ContentGenerator, grader AnswerGrader) *AssemblyService {
	return &AssemblyService{store: store, generator: generator, grader: grader}
}

type AssemblyCreateResult struct {
	GameID           string `json:"game_id"`
	Code             string `json:"code"`
	Architecture     string `json:"architecture"`
	ExpectedBehavior string `json:"expected_behavior"`
	Hint             string `json:"hint"`
}

type AssemblyAnswerResult struct {
	Correct            bool    `json:"correct"`
	Score              float64 `json:"score"`
	Feedback           string  `json:"feedback"`
	CorrectExplanation string  `json:"correct_explanation,omitempty"`
}

func (s *AssemblyService) Create(ctx context.Context, difficulty model.Difficulty) (*AssemblyCreateResult, error) {
	content, err := s.generator.AssemblyBug(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content.Code) == "" || strings.TrimSpace(content.Explanation) == "" {
		return nil, util.ErrInvalidContent
	}
	arch := content.Architecture
	if arch == "" {
		arch = "x86"
	}

	session := &model.AssemblySession{
		SessionBase: model.SessionBase{
			ID:          uuid.NewString(),
			Type:        model.GameAssembly,
			CreatedAt:   time.Now(),
			AttemptsMax: 1,
		},
		Difficulty:       difficulty,
		Code:             content.Code,
		Architecture:     arch,
		ExpectedBehavior: content.ExpectedBehavior,
		Hint:             content.Hint,
		Solution:         content.Explanation,
	}

	if err := s.store.Create(session); err != nil {
		return nil, err
	}
	monitoring.GamesCreated.WithLabelValues(string(model.GameAssembly)).Inc()
	monitoring.GamesActive.Set(float64(s.store.Len()))
	logger.Log.Info("assembly game created",
		zap.String("game_id", session.ID),
		zap.String("architecture", arch))

	return &AssemblyCreateResult{
		GameID:           session.ID,
		Code:             session.Code,
		Architecture:     session.Architecture,
		ExpectedBehavior: session.ExpectedBehavior,
		Hint:             session.Hint,
	}, nil
}

// Submit grades the player's free-text explanation via the grader and
// closes the session. The reference explanation is revealed only on a
// wrong answer. Grading failures leave the session untouched so the
// player can retry the submission.
func (s *AssemblyService) Submit(ctx context.Context, id, explanation string) (*AssemblyAnswerResult, error) {
	raw, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	session, ok := raw.(*model.AssemblySession)
	if !ok {
		return nil, util.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	if session.GameOver {
		return nil, util.ErrGameOver
	}

	explanation = strings.TrimSpace(explanation)
	if len(explanation) < minExplanationLength {
		return nil, util.ErrInvalidInput
	}

	score, feedback, err := s.grader.GradeAssembly(ctx, session.Code, session.Solution, explanation)
	if err != nil {
		return nil, err
	}

	correct := score >= assemblyPassThreshold

	session.AttemptsUsed = 1
	session.GameOver = true
	session.PlayerAnswer = explanation
	session.Correct = correct
	session.Score = score
	session.Feedback = feedback

	logger.Log.Info("assembly game answered",
		zap.String("game_id", session.ID),
		zap.Bool("correct", correct),
		zap.Float64("score", score))

	res := &AssemblyAnswerResult{
		Correct:  correct,
		Score:    score,
		Feedback: feedback,
	}
	if !correct {
		res.CorrectExplanation = session.Solution
	}
	return res, nil
}
