package service

import (
	"context"

	"archtutor_backend/internal/model"
)

// HangmanContent is what the generator returns for a hangman round.
type HangmanContent struct {
	Word     string `json:"word"`
	Clue     string `json:"clue"`
	Argument string `json:"argument"`
}

// WordleContent is what the generator returns for a wordle round.
type WordleContent struct {
	Word        string `json:"word"`
	TopicHint   string `json:"topic_hint"`
	Explanation string `json:"explanation"`
}

// LogicContent describes a generated circuit: an ordered gate pattern
// applied to a small set of named boolean inputs.
type LogicContent struct {
	Gates       []string `json:"gates"`
	Inputs      []string `json:"inputs"`
	Description string   `json:"description"`
}

// AssemblyContent is a buggy snippet plus the reference explanation
// used later for grading.
type AssemblyContent struct {
	Code             string `json:"code"`
	Architecture     string `json:"architecture"`
	ErrorType        string `json:"error_type"`
	ExpectedBehavior string `json:"expected_behavior"`
	Hint             string `json:"hint"`
	Explanation      string `json:"correct_explanation"`
}

// GeneratedQuestion is one multiple-choice question as produced by the
// generator, including the answer key.
type GeneratedQuestion struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Explanation   string            `json:"explanation"`
}

// ContentGenerator produces puzzle content at session-creation time.
// Engines validate structural constraints on whatever comes back and
// never trust it blindly. Implementations fail fast; retry policy is
// the caller's business.
type ContentGenerator interface {
	HangmanWord(ctx context.Context, topic string, difficulty model.Difficulty) (*HangmanContent, error)
	WordleWord(ctx context.Context, topic string, difficulty model.Difficulty) (*WordleContent, error)
	LogicCircuit(ctx context.Context, difficulty model.Difficulty) (*LogicContent, error)
	AssemblyBug(ctx context.Context, difficulty model.Difficulty) (*AssemblyContent, error)
}

// AnswerGrader judges free-text answers the engine cannot score itself.
type AnswerGrader interface {
	// GradeAssembly returns a 0-100 score and feedback for a player's
	// explanation of the bug in code, measured against the reference
	// explanation.
	GradeAssembly(ctx context.Context, code, reference, answer string) (float64, string, error)
}

// ExamGenerator produces multiple-choice exam questions.
type ExamGenerator interface {
	ExamQuestions(ctx context.Context, topic string, difficulty model.Difficulty, count int, subtopics []string) ([]GeneratedQuestion, error)
}

// ChatModel answers course questions, optionally grounded in document
// context and prior conversation turns.
type ChatModel interface {
	ChatReply(ctx context.Context, query, docContext string, history []model.ChatMessage) (string, error)
	ChatReplyStream(ctx context.Context, query, docContext string, history []model.ChatMessage) (<-chan string, <-chan error)
}
