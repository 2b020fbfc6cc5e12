package repository

import (
	"context"
	"testing"
	"time"
)

func TestMemoryChatRepositoryRoundTrip(t *testing.T) {
	repo := NewMemoryChatRepository(time.Hour)
	ctx := context.Background()

	id, err := repo.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	repo.AppendMessage(ctx, id, "user", "what is a TLB?")
	repo.AppendMessage(ctx, id, "assistant", "a translation cache")

	session, err := repo.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session == nil {
		t.Fatal("session vanished")
	}
	if len(session.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(session.Messages))
	}
	if session.Messages[0].Role != "user" || session.Messages[1].Role != "assistant" {
		t.Errorf("roles out of order: %+v", session.Messages)
	}
}

func TestMemoryChatRepositoryExpiry(t *testing.T) {
	repo := NewMemoryChatRepository(-time.Second) // already expired
	ctx := context.Background()

	id, _ := repo.CreateSession(ctx)
	session, err := repo.GetSession(ctx, id)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session != nil {
		t.Error("expired session should read as missing")
	}
}

func TestMemoryChatRepositoryUnknownSession(t *testing.T) {
	repo := NewMemoryChatRepository(time.Hour)
	session, err := repo.GetSession(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if session != nil {
		t.Error("unknown id should return nil session")
	}

	// Appending to a missing session is a silent no-op.
	if err := repo.AppendMessage(context.Background(), "missing", "user", "hi"); err != nil {
		t.Errorf("AppendMessage: %v", err)
	}
}
