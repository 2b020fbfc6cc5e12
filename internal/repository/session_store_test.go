package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/util"
)

func newHangman(id string, createdAt time.Time) *model.HangmanSession {
	return &model.HangmanSession{
		SessionBase: model.SessionBase{
			ID:          id,
			Type:        model.GameHangman,
			CreatedAt:   createdAt,
			AttemptsMax: 6,
		},
		Word:           "CACHE",
		GuessedLetters: map[string]bool{},
		GuessedWords:   map[string]bool{},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewMemorySessionStore()
	if err := store.Create(newHangman("s1", time.Now())); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := store.Get("s1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	session := got.(*model.HangmanSession)
	if session.Word != "CACHE" {
		t.Errorf("secret changed on round trip: %q", session.Word)
	}
}

func TestStoreCreateCollision(t *testing.T) {
	store := NewMemorySessionStore()
	store.Create(newHangman("dup", time.Now()))
	if err := store.Create(newHangman("dup", time.Now())); err == nil {
		t.Error("expected collision error")
	}

	if err := store.Create(&model.HangmanSession{}); err == nil {
		t.Error("expected error for empty id")
	}
}

func TestStoreGetUnknown(t *testing.T) {
	store := NewMemorySessionStore()
	if _, err := store.Get("nope"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestStoreDeleteIdempotence(t *testing.T) {
	store := NewMemorySessionStore()
	store.Create(newHangman("s1", time.Now()))

	if !store.Delete("s1") {
		t.Error("first delete should return true")
	}
	if store.Delete("s1") {
		t.Error("second delete should return false")
	}
}

func TestStoreSweep(t *testing.T) {
	store := NewMemorySessionStore()
	store.Create(newHangman("old", time.Now().Add(-48*time.Hour)))
	store.Create(newHangman("older", time.Now().Add(-25*time.Hour)))
	store.Create(newHangman("fresh", time.Now()))

	removed := store.Sweep(24 * time.Hour)
	if removed != 2 {
		t.Errorf("Sweep removed %d, want 2", removed)
	}
	if store.Len() != 1 {
		t.Errorf("Len = %d, want 1", store.Len())
	}
	if _, err := store.Get("fresh"); err != nil {
		t.Errorf("fresh session swept: %v", err)
	}
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := NewMemorySessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("s%d", i)
			store.Create(newHangman(id, time.Now()))
			store.Get(id)
			if i%2 == 0 {
				store.Delete(id)
			}
		}(i)
	}
	wg.Wait()

	if store.Len() != 25 {
		t.Errorf("Len = %d, want 25", store.Len())
	}
}
