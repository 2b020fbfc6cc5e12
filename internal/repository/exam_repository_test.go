package repository

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/util"
)

func TestExamRepositoryListNewestFirst(t *testing.T) {
	repo := NewExamRepository()
	base := time.Now()
	for i := 0; i < 3; i++ {
		repo.Save(&model.Exam{
			ID:        fmt.Sprintf("e%d", i),
			Topic:     "caches",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	summaries := repo.List(10, 0)
	if len(summaries) != 3 {
		t.Fatalf("len = %d, want 3", len(summaries))
	}
	if summaries[0].ID != "e2" || summaries[2].ID != "e0" {
		t.Errorf("not newest first: %v", summaries)
	}

	page := repo.List(1, 1)
	if len(page) != 1 || page[0].ID != "e1" {
		t.Errorf("pagination wrong: %v", page)
	}

	if got := repo.List(10, 99); len(got) != 0 {
		t.Errorf("offset past end should be empty, got %v", got)
	}
}

func TestExamRepositoryAttempts(t *testing.T) {
	repo := NewExamRepository()
	repo.Save(&model.Exam{ID: "e1", CreatedAt: time.Now()})

	if err := repo.SaveAttempt("e1", model.ExamAttempt{Score: 80}); err != nil {
		t.Fatalf("SaveAttempt: %v", err)
	}
	if err := repo.SaveAttempt("nope", model.ExamAttempt{}); !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("err = %v, want ErrExamNotFound", err)
	}

	exam, _ := repo.Get("e1")
	if len(exam.Attempts) != 1 || exam.Attempts[0].Timestamp.IsZero() {
		t.Errorf("attempt not recorded with timestamp: %+v", exam.Attempts)
	}
}
