package service

import (
	"context"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/util"
	"archtutor_backend/pkg/monitoring"
)

// GameService dispatches generic game operations to the per-game
// engines and builds the player-facing status views. Secrets (target
// words, reference solutions, expected tables) stay hidden until the
// game is over.
type GameService struct {
	store    repository.SessionStore
	hangman  *HangmanService
	wordle   *WordleService
	logic    *LogicService
	assembly *AssemblyService
}

func NewGameService(store repository.SessionStore, hangman *HangmanService, wordle *WordleService, logic *LogicService, assembly *AssemblyService) *GameService {
	return &GameService{
		store:    store,
		hangman:  hangman,
		wordle:   wordle,
		logic:    logic,
		assembly: assembly,
	}
}

// CreateGame starts a new round of the requested type. The per-game
// create result is returned as-is.
func (s *GameService) CreateGame(ctx context.Context, gameType model.GameType, topic string, difficulty model.Difficulty) (interface{}, error) {
	switch gameType {
	case model.GameHangman:
		return s.hangman.Create(ctx, topic, difficulty)
	case model.GameWordle:
		return s.wordle.Create(ctx, topic, difficulty)
	case model.GameLogic:
		return s.logic.Create(ctx, difficulty)
	case model.GameAssembly:
		return s.assembly.Create(ctx, difficulty)
	}
	return nil, util.ErrUnknownGameType
}

type GameStatus struct {
	GameID            string                 `json:"game_id"`
	GameType          model.GameType         `json:"game_type"`
	GameOver          bool                   `json:"game_over"`
	AttemptsUsed      int                    `json:"attempts_used"`
	RemainingAttempts int                    `json:"remaining_attempts"`
	State             map[string]interface{} `json:"state"`
}

// Status reports the current state of a session. The type in the path
// must match the stored session; a mismatch reads as not found so game
// ids cannot be probed across types.
func (s *GameService) Status(gameType model.GameType, id string) (*GameStatus, error) {
	raw, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	base := raw.Base()
	if base.Type != gameType {
		return nil, util.ErrSessionNotFound
	}

	base.Lock()
	defer base.Unlock()

	status := &GameStatus{
		GameID:            base.ID,
		GameType:          base.Type,
		GameOver:          base.GameOver,
		AttemptsUsed:      base.AttemptsUsed,
		RemainingAttempts: base.RemainingAttempts(),
		State:             stateView(raw),
	}
	return status, nil
}

// Delete removes a session after checking the type in the path.
func (s *GameService) Delete(gameType model.GameType, id string) error {
	raw, err := s.store.Get(id)
	if err != nil {
		return err
	}
	if raw.Base().Type != gameType {
		return util.ErrSessionNotFound
	}
	s.store.Delete(id)
	monitoring.GamesActive.Set(float64(s.store.Len()))
	return nil
}

// stateView builds the per-type state map; caller holds the lock.
func stateView(raw model.Session) map[string]interface{} {
	switch session := raw.(type) {
	case *model.HangmanSession:
		letters := make([]string, 0, len(session.GuessedLetters))
		for l := range session.GuessedLetters {
			letters = append(letters, l)
		}
		state := map[string]interface{}{
			"current_word":    session.MaskedWord(),
			"guessed_letters": letters,
			"clue":            session.Clue,
			"win":             session.Won,
		}
		if session.GameOver {
			state["correct_word"] = session.Word
		}
		return state

	case *model.WordleSession:
		state := map[string]interface{}{
			"word_length": len(session.Word),
			"attempts":    session.Attempts,
			"results":     session.Results,
			"topic_hint":  session.TopicHint,
			"win":         session.Win,
		}
		if session.GameOver {
			state["correct_word"] = session.Word
			state["explanation"] = session.Explanation
		}
		return state

	case *model.LogicSession:
		gates := make([]string, len(session.Gates))
		for i, g := range session.Gates {
			gates[i] = string(g)
		}
		state := map[string]interface{}{
			"gates":      gates,
			"inputs":     session.InputNames,
			"difficulty": session.Difficulty,
		}
		if session.GameOver {
			state["correct"] = session.Correct
			state["score"] = session.Score
			state["expected_truth_table"] = session.Table
		}
		return state

	case *model.AssemblySession:
		state := map[string]interface{}{
			"code":              session.Code,
			"architecture":      session.Architecture,
			"expected_behavior": session.ExpectedBehavior,
			"hint":              session.Hint,
			"difficulty":        session.Difficulty,
		}
		if session.GameOver {
			state["correct"] = session.Correct
			state["score"] = session.Score
			state["feedback"] = session.Feedback
			state["correct_explanation"] = session.Solution
		}
		return state
	}
	return map[string]interface{}{}
}
