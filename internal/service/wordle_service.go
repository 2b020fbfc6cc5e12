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

const wordleWordLength = 5

// WordleService runs wordle rounds against a generated 5-letter term.
type WordleService struct {
	store       repository.SessionStore
	generator   ContentGenerator
	maxAttempts int
}

func NewWordleService(store repository.SessionStore, generator ContentGenerator, maxAttempts int) *WordleService {
	return &WordleService{store: store, generator: generator, maxAttempts: maxAttempts}
}

type WordleCreateResult struct {
	GameID      string `json:"game_id"`
	WordLength  int    `json:"word_length"`
	MaxAttempts int    `json:"max_attempts"`
	TopicHint   string `json:"topic_hint"`
}

type WordleGuessResult struct {
	Results           []model.LetterResult `json:"results"`
	AttemptNumber     int                  `json:"attempt_number"`
	RemainingAttempts int                  `json:"remaining_attempts"`
	GameOver          bool                 `json:"game_over"`
	Win               bool                 `json:"win"`
	CorrectWord       string               `json:"correct_word,omitempty"`
	Explanation       string               `json:"explanation,omitempty"`
}

// Create generates a target word. The generator is not trusted: a word
// that is not exactly five letters is rejected as invalid content.
func (s *WordleService) Create(ctx context.Context, topic string, difficulty model.Difficulty) (*WordleCreateResult, error) {
	content, err := s.generator.WordleWord(ctx, topic, difficulty)
	if err != nil {
		return nil, err
	}

	word := strings.ToUpper(strings.TrimSpace(content.Word))
	if len(word) != wordleWordLength || !isUpperAlpha(word) {
		return nil, util.ErrInvalidContent
	}

	session := &model.WordleSession{
		SessionBase: model.SessionBase{
			ID:          uuid.NewString(),
			Type:        model.GameWordle,
			CreatedAt:   time.Now(),
			AttemptsMax: s.maxAttempts,
		},
		Word:        word,
		TopicHint:   content.TopicHint,
		Explanation: content.Explanation,
	}

	if err := s.store.Create(session); err != nil {
		return nil, err
	}
	monitoring.GamesCreated.WithLabelValues(string(model.GameWordle)).Inc()
	monitoring.GamesActive.Set(float64(s.store.Len()))
	logger.Log.Info("wordle game created", zap.String("game_id", session.ID))

	return &WordleCreateResult{
		GameID:      session.ID,
		WordLength:  wordleWordLength,
		MaxAttempts: session.AttemptsMax,
		TopicHint:   session.TopicHint,
	}, nil
}

// Guess scores a 5-letter guess and appends it to the history.
func (s *WordleService) Guess(ctx context.Context, id, guess string) (*WordleGuessResult, error) {
	raw, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	session, ok := raw.(*model.WordleSession)
	if !ok {
		return nil, util.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	if session.GameOver {
		return nil, util.ErrGameOver
	}

	guess = strings.ToUpper(strings.TrimSpace(guess))
	if len(guess) != wordleWordLength || !isUpperAlpha(guess) {
		return nil, util.ErrInvalidInput
	}

	results := scoreWordleGuess(session.Word, guess)

	session.Attempts = append(session.Attempts, guess)
	session.Results = append(session.Results, results)
	session.AttemptsUsed++

	session.Win = guess == session.Word
	if session.Win || session.AttemptsUsed >= session.AttemptsMax {
		session.GameOver = true
		logger.Log.Info("wordle game finished",
			zap.String("game_id", session.ID),
			zap.Bool("win", session.Win),
			zap.Int("attempts", session.AttemptsUsed))
	}

	res := &WordleGuessResult{
		Results:           results,
		AttemptNumber:     session.AttemptsUsed,
		RemainingAttempts: session.RemainingAttempts(),
		GameOver:          session.GameOver,
		Win:               session.Win,
	}
	if session.GameOver {
		res.CorrectWord = session.Word
		res.Explanation = session.Explanation
	}
	return res, nil
}

// AttachExplanation sets the educational explanation on a finished
// game. Returns false for unknown or still-running games.
func (s *WordleService) AttachExplanation(id, explanation string) bool {
	raw, err := s.store.Get(id)
	if err != nil {
		return false
	}
	session, ok := raw.(*model.WordleSession)
	if !ok {
		return false
	}

	session.Lock()
	defer session.Unlock()

	if !session.GameOver {
		return false
	}
	session.Explanation = explanation
	return true
}

// scoreWordleGuess implements the standard two-pass scoring. Pass one
// marks exact matches and counts the remaining target letters; pass
// two hands out "present" marks while that letter budget lasts, so a
// repeated guess letter is never credited more times than it appears
// in the target.
func scoreWordleGuess(target, guess string) []model.LetterResult {
	n := len(guess)
	results := make([]model.LetterResult, n)

	var counts [26]int
	for i := 0; i < n; i++ {
		if guess[i] == target[i] {
			results[i] = model.LetterCorrect
		} else {
			counts[target[i]-'A']++
		}
	}

	for i := 0; i < n; i++ {
		if results[i] == model.LetterCorrect {
			continue
		}
		j := guess[i] - 'A'
		if counts[j] > 0 {
			results[i] = model.LetterPresent
			counts[j]--
		} else {
			results[i] = model.LetterAbsent
		}
	}
	return results
}
