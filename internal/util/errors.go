package util

import "errors"

var (
	ErrSessionNotFound   = errors.New("game session not found")
	ErrExamNotFound      = errors.New("exam not found")
	ErrGameOver          = errors.New("game already finished")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidContent    = errors.New("generator returned invalid content")
	ErrContentGeneration = errors.New("content generation failed")
	ErrUnknownGameType   = errors.New("unknown game type")
)
