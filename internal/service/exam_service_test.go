package service

import (
	"context"
	"errors"
	"testing"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/util"
)

func newExamService(gen *fakeGenerator) *ExamService {
	if gen == nil {
		gen = &fakeGenerator{}
	}
	return NewExamService(repository.NewExamRepository(), gen, config.ExamConfig{
		MaxQuestions:     10,
		DefaultQuestions: 5,
	})
}

func TestExamGenerateCapsCount(t *testing.T) {
	svc := newExamService(nil)

	exam, err := svc.Generate(context.Background(), "pipelining", model.DifficultyMedium, 50, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(exam.Questions) != 10 {
		t.Errorf("question count = %d, want capped at 10", len(exam.Questions))
	}

	exam, _ = svc.Generate(context.Background(), "pipelining", model.DifficultyMedium, 0, nil)
	if len(exam.Questions) != 5 {
		t.Errorf("question count = %d, want default 5", len(exam.Questions))
	}
}

func TestExamValidateGrading(t *testing.T) {
	svc := newExamService(&fakeGenerator{questions: []GeneratedQuestion{
		{Question: "q1", Options: map[string]string{"a": "1", "b": "2"}, CorrectAnswer: "a", Explanation: "e1"},
		{Question: "q2", Options: map[string]string{"a": "1", "b": "2"}, CorrectAnswer: "b", Explanation: "e2"},
	}})

	exam, err := svc.Generate(context.Background(), "caches", model.DifficultyEasy, 2, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	answers := map[string]string{
		exam.Questions[0].ID: "A", // case-insensitive, correct
		exam.Questions[1].ID: "a", // wrong
	}
	result, err := svc.Validate(exam.ExamID, "student", answers, 120)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if result.Score != 50 || result.CorrectCount != 1 || result.Total != 2 {
		t.Fatalf("unexpected grading: %+v", result)
	}
	if !result.Results[0].Correct || result.Results[1].Correct {
		t.Errorf("per-question results wrong: %+v", result.Results)
	}
	if result.Results[1].CorrectAnswer != "b" || result.Results[1].Explanation != "e2" {
		t.Errorf("missing feedback on wrong answer: %+v", result.Results[1])
	}
}

func TestExamValidateRecordsAttempt(t *testing.T) {
	svc := newExamService(nil)
	exam, _ := svc.Generate(context.Background(), "isa", model.DifficultyEasy, 2, nil)

	svc.Validate(exam.ExamID, "student", map[string]string{}, 0)
	svc.Validate(exam.ExamID, "student", map[string]string{}, 0)

	summaries := svc.List(10, 0)
	if len(summaries) != 1 {
		t.Fatalf("len(summaries) = %d, want 1", len(summaries))
	}
	if summaries[0].AttemptCount != 2 {
		t.Errorf("AttemptCount = %d, want 2", summaries[0].AttemptCount)
	}
}

func TestExamGetHidesAnswerKey(t *testing.T) {
	svc := newExamService(nil)
	exam, _ := svc.Generate(context.Background(), "isa", model.DifficultyEasy, 2, nil)

	view, err := svc.Get(exam.ExamID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(view.Questions) != 2 {
		t.Fatalf("question count = %d", len(view.Questions))
	}
	// The view carries questions and options only; the key stays in
	// the repository.
	for _, q := range view.Questions {
		if q.Text == "" || len(q.Options) == 0 {
			t.Errorf("incomplete question view: %+v", q)
		}
	}
}

func TestExamDelete(t *testing.T) {
	svc := newExamService(nil)
	exam, _ := svc.Generate(context.Background(), "isa", model.DifficultyEasy, 2, nil)

	if err := svc.Delete(exam.ExamID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(exam.ExamID); !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("second delete: err = %v, want ErrExamNotFound", err)
	}
	if _, err := svc.Get(exam.ExamID); !errors.Is(err, util.ErrExamNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrExamNotFound", err)
	}
}

func TestExamGenerateRejectsBadKey(t *testing.T) {
	svc := newExamService(&fakeGenerator{questions: []GeneratedQuestion{
		{Question: "q1", Options: map[string]string{"a": "1"}, CorrectAnswer: "z"},
	}})
	if _, err := svc.Generate(context.Background(), "isa", model.DifficultyEasy, 1, nil); !errors.Is(err, util.ErrContentGeneration) {
		t.Errorf("err = %v, want ErrContentGeneration", err)
	}
}
