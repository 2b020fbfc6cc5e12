package model

import "time"

// Question is a single multiple-choice exam question. The correct
// answer and explanation live on the exam, keyed by question id, so a
// question can be serialized to the client without leaking the answer.
type Question struct {
	ID      string            `json:"id"`
	Text    string            `json:"text"`
	Options map[string]string `json:"options"` // option key (a-d) -> option text
	Topic   string            `json:"topic,omitempty"`
}

// ExamAttempt records one graded submission against an exam.
type ExamAttempt struct {
	UserID           string            `json:"user_id,omitempty"`
	Answers          map[string]string `json:"answers"`
	Score            float64           `json:"score"`
	TimeTakenSeconds int               `json:"time_taken_seconds,omitempty"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Exam is a generated exam with its answer key and recorded attempts.
type Exam struct {
	ID           string
	Topic        string
	Difficulty   Difficulty
	Questions    []Question
	Answers      map[string]string // question id -> correct option key
	Explanations map[string]string // question id -> explanation
	CreatedAt    time.Time
	Attempts     []ExamAttempt
}

// ExamSummary is the listing view of an exam.
type ExamSummary struct {
	ID            string    `json:"id"`
	Topic         string    `json:"topic"`
	CreatedAt     time.Time `json:"created_at"`
	QuestionCount int       `json:"question_count"`
	AttemptCount  int       `json:"attempt_count"`
}
