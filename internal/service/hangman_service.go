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

// HangmanService runs hangman rounds: a hidden word from the content
// generator, letter or whole-word guesses, a bounded attempt budget.
type HangmanService struct {
	store       repository.SessionStore
	generator   ContentGenerator
	maxAttempts int
}

func NewHangmanService(store repository.SessionStore, generator ContentGenerator, maxAttempts int) *HangmanService {
	return &HangmanService{store: store, generator: generator, maxAttempts: maxAttempts}
}

type HangmanCreateResult struct {
	GameID      string `json:"game_id"`
	WordLength  int    `json:"word_length"`
	Clue        string `json:"clue"`
	Argument    string `json:"argument"`
	MaxAttempts int    `json:"max_attempts"`
	HiddenWord  string `json:"hidden_word"`
}

type HangmanGuessResult struct {
	Correct           bool   `json:"correct"`
	CurrentWord       string `json:"current_word"`
	RemainingAttempts int    `json:"remaining_attempts"`
	GameOver          bool   `json:"game_over"`
	Win               bool   `json:"win"`
	CorrectWord       string `json:"correct_word,omitempty"`
}

// Create asks the generator for a word and inserts a fresh session.
// The session only becomes visible once fully initialized.
func (s *HangmanService) Create(ctx context.Context, topic string, difficulty model.Difficulty) (*HangmanCreateResult, error) {
	content, err := s.generator.HangmanWord(ctx, topic, difficulty)
	if err != nil {
		return nil, err
	}

	word := strings.ToUpper(strings.TrimSpace(content.Word))
	if word == "" || !isUpperAlpha(word) {
		return nil, util.ErrInvalidContent
	}

	session := &model.HangmanSession{
		SessionBase: model.SessionBase{
			ID:          uuid.NewString(),
			Type:        model.GameHangman,
			CreatedAt:   time.Now(),
			AttemptsMax: s.maxAttempts,
		},
		Word:           word,
		Clue:           content.Clue,
		Argument:       content.Argument,
		GuessedLetters: make(map[string]bool),
		GuessedWords:   make(map[string]bool),
	}

	if err := s.store.Create(session); err != nil {
		return nil, err
	}
	monitoring.GamesCreated.WithLabelValues(string(model.GameHangman)).Inc()
	monitoring.GamesActive.Set(float64(s.store.Len()))
	logger.Log.Info("hangman game created", zap.String("game_id", session.ID), zap.Int("word_length", len(word)))

	return &HangmanCreateResult{
		GameID:      session.ID,
		WordLength:  len(word),
		Clue:        session.Clue,
		Argument:    session.Argument,
		MaxAttempts: session.AttemptsMax,
		HiddenWord:  session.MaskedWord(),
	}, nil
}

// Guess applies a single letter or a whole-word guess. Repeating a
// previous guess is an idempotent no-op and never consumes an attempt.
func (s *HangmanService) Guess(ctx context.Context, id, guess string) (*HangmanGuessResult, error) {
	raw, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	session, ok := raw.(*model.HangmanSession)
	if !ok {
		return nil, util.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	if session.GameOver {
		return nil, util.ErrGameOver
	}

	guess = strings.ToUpper(strings.TrimSpace(guess))
	if guess == "" || !isUpperAlpha(guess) {
		return nil, util.ErrInvalidInput
	}

	correct := false

	if len(guess) == 1 {
		if session.GuessedLetters[guess] {
			return s.result(session, strings.Contains(session.Word, guess)), nil
		}
		session.GuessedLetters[guess] = true
		if strings.Contains(session.Word, guess) {
			correct = true
		} else {
			session.AttemptsUsed++
		}
	} else {
		if session.GuessedWords[guess] {
			return s.result(session, guess == session.Word), nil
		}
		session.GuessedWords[guess] = true
		if guess == session.Word {
			correct = true
			session.Won = true
			for _, r := range session.Word {
				session.GuessedLetters[string(r)] = true
			}
		} else {
			session.AttemptsUsed++
		}
	}

	if session.AllRevealed() {
		session.Won = true
	}
	if session.Won || session.RemainingAttempts() == 0 {
		session.GameOver = true
		logger.Log.Info("hangman game finished",
			zap.String("game_id", session.ID),
			zap.Bool("win", session.Won))
	}

	return s.result(session, correct), nil
}

// result builds the player view; caller holds the session lock.
func (s *HangmanService) result(session *model.HangmanSession, correct bool) *HangmanGuessResult {
	res := &HangmanGuessResult{
		Correct:           correct,
		CurrentWord:       session.MaskedWord(),
		RemainingAttempts: session.RemainingAttempts(),
		GameOver:          session.GameOver,
		Win:               session.Won,
	}
	if session.GameOver {
		res.CorrectWord = session.Word
	}
	return res
}

func isUpperAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
