package model

import "time"

type ChatMessage struct {
	Role      string    `json:"role"` // user or assistant
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession is a conversation history, persisted with a TTL.
type ChatSession struct {
	ID        string        `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Messages  []ChatMessage `json:"messages"`
}

// Image is a search result attached to a chat answer.
type Image struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	Source string `json:"source,omitempty"`
}

// Reference points at the course material backing an answer.
type Reference struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url,omitempty"`
	Page   int    `json:"page,omitempty"`
}

// Document describes one piece of course material available as chat
// context.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"-"` // object name within the storage backend
}
