package model

import (
	"strings"
	"sync"
	"time"
)

// GameType tags the concrete session variant.
type GameType string

const (
	GameHangman  GameType = "hangman"
	GameWordle   GameType = "wordle"
	GameLogic    GameType = "logic"
	GameAssembly GameType = "assembly"
)

func ParseGameType(s string) (GameType, bool) {
	switch GameType(strings.ToLower(s)) {
	case GameHangman:
		return GameHangman, true
	case GameWordle:
		return GameWordle, true
	case GameLogic:
		return GameLogic, true
	case GameAssembly:
		return GameAssembly, true
	}
	return "", false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty falls back to medium for unknown values, matching
// the request default.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(strings.ToLower(s)) {
	case DifficultyEasy:
		return DifficultyEasy
	case DifficultyHard:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}

// LetterResult is the per-position outcome of a Wordle guess.
type LetterResult string

const (
	LetterCorrect LetterResult = "correct"
	LetterPresent LetterResult = "present"
	LetterAbsent  LetterResult = "absent"
)

// GateType identifies a boolean gate applied to all circuit inputs.
type GateType string

const (
	GateAND  GateType = "AND"
	GateOR   GateType = "OR"
	GateXOR  GateType = "XOR"
	GateNAND GateType = "NAND"
	GateNOR  GateType = "NOR"
	GateXNOR GateType = "XNOR"
)

func ParseGateType(s string) (GateType, bool) {
	switch GateType(strings.ToUpper(strings.TrimSpace(s))) {
	case GateAND:
		return GateAND, true
	case GateOR:
		return GateOR, true
	case GateXOR:
		return GateXOR, true
	case GateNAND:
		return GateNAND, true
	case GateNOR:
		return GateNOR, true
	case GateXNOR:
		return GateXNOR, true
	}
	return "", false
}

// Session is the tagged union over the four game variants. Engines
// type-switch on the concrete type; Base gives access to the shared
// lifecycle fields.
type Session interface {
	Base() *SessionBase
}

// SessionBase carries the fields every game session shares. GameOver
// transitions false→true exactly once and never reverts; AttemptsUsed
// never exceeds AttemptsMax. The embedded mutex serializes submissions
// against a single session.
type SessionBase struct {
	ID           string
	Type         GameType
	CreatedAt    time.Time
	GameOver     bool
	AttemptsUsed int
	AttemptsMax  int

	mu sync.Mutex
}

func (b *SessionBase) Base() *SessionBase { return b }

func (b *SessionBase) Lock()   { b.mu.Lock() }
func (b *SessionBase) Unlock() { b.mu.Unlock() }

// RemainingAttempts is derived; it never goes below zero.
func (b *SessionBase) RemainingAttempts() int {
	r := b.AttemptsMax - b.AttemptsUsed
	if r < 0 {
		return 0
	}
	return r
}

// HangmanSession tracks a hidden word with per-letter reveals.
type HangmanSession struct {
	SessionBase
	Word           string // uppercase, source of truth, immutable
	Clue           string
	Argument       string
	GuessedLetters map[string]bool
	GuessedWords   map[string]bool
	Won            bool
}

// MaskedWord renders the player-visible view: guessed letters revealed,
// placeholders elsewhere, space separated. A won game shows everything.
func (s *HangmanSession) MaskedWord() string {
	parts := make([]string, 0, len(s.Word))
	for _, r := range s.Word {
		letter := string(r)
		if s.Won || s.GuessedLetters[letter] {
			parts = append(parts, letter)
		} else {
			parts = append(parts, "_")
		}
	}
	return strings.Join(parts, " ")
}

// AllRevealed reports whether every letter of the word has been guessed.
func (s *HangmanSession) AllRevealed() bool {
	for _, r := range s.Word {
		if !s.GuessedLetters[string(r)] {
			return false
		}
	}
	return true
}

// WordleSession tracks a 5-letter target with append-only guess history.
// Results runs parallel to Attempts.
type WordleSession struct {
	SessionBase
	Word        string // uppercase, exactly 5 letters, immutable
	TopicHint   string
	Explanation string
	Attempts    []string
	Results     [][]LetterResult
	Win         bool
}

// TruthRow is one line of a circuit truth table: a combination of input
// bits and the expected output of each gate in the pattern, in order.
type TruthRow struct {
	Inputs  []int `json:"inputs"`
	Outputs []int `json:"outputs"`
}

// LogicSession holds a generated gate pattern and its precomputed truth
// table. The table is filled once at creation and never mutated.
type LogicSession struct {
	SessionBase
	Difficulty  Difficulty
	Gates       []GateType
	InputNames  []string
	Table       []TruthRow
	Score       float64
	Correct     bool
	Explanation string
}

// AssemblySession holds a buggy snippet whose grading is delegated to
// the content generator.
type AssemblySession struct {
	SessionBase
	Difficulty       Difficulty
	Code             string // immutable
	Architecture     string
	ExpectedBehavior string
	Hint             string
	Solution         string // reference explanation, revealed only on a wrong answer
	PlayerAnswer     string
	Correct          bool
	Score            float64
	Feedback         string
}
