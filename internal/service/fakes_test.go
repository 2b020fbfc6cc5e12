package service

import (
	"context"
	"fmt"

	"archtutor_backend/internal/model"
)

// fakeGenerator returns canned content so engine behavior can be
// tested without the AI API.
type fakeGenerator struct {
	hangman  *HangmanContent
	wordle   *WordleContent
	logic    *LogicContent
	assembly *AssemblyContent
	err      error

	gradeScore    float64
	gradeFeedback string
	gradeErr      error

	questions []GeneratedQuestion
}

func (f *fakeGenerator) HangmanWord(ctx context.Context, topic string, difficulty model.Difficulty) (*HangmanContent, error) {
	return f.hangman, f.err
}

func (f *fakeGenerator) WordleWord(ctx context.Context, topic string, difficulty model.Difficulty) (*WordleContent, error) {
	return f.wordle, f.err
}

func (f *fakeGenerator) LogicCircuit(ctx context.Context, difficulty model.Difficulty) (*LogicContent, error) {
	return f.logic, f.err
}

func (f *fakeGenerator) AssemblyBug(ctx context.Context, difficulty model.Difficulty) (*AssemblyContent, error) {
	return f.assembly, f.err
}

func (f *fakeGenerator) GradeAssembly(ctx context.Context, code, reference, answer string) (float64, string, error) {
	return f.gradeScore, f.gradeFeedback, f.gradeErr
}

func (f *fakeGenerator) ExamQuestions(ctx context.Context, topic string, difficulty model.Difficulty, count int, subtopics []string) ([]GeneratedQuestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.questions != nil {
		return f.questions, nil
	}
	qs := make([]GeneratedQuestion, count)
	for i := range qs {
		qs[i] = GeneratedQuestion{
			Question:      fmt.Sprintf("question %d", i+1),
			Options:       map[string]string{"a": "one", "b": "two", "c": "three", "d": "four"},
			CorrectAnswer: "a",
			Explanation:   "because",
		}
	}
	return qs, nil
}
