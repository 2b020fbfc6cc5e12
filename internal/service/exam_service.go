package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/util"
	"archtutor_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExamService generates multiple-choice exams through the generator
// and grades submissions locally against the stored answer key.
type ExamService struct {
	repo      *repository.ExamRepository
	generator ExamGenerator
	cfg       config.ExamConfig
}

func NewExamService(repo *repository.ExamRepository, generator ExamGenerator, cfg config.ExamConfig) *ExamService {
	return &ExamService{repo: repo, generator: generator, cfg: cfg}
}

type ExamView struct {
	ExamID    string           `json:"exam_id"`
	Topic     string           `json:"topic"`
	Questions []model.Question `json:"questions"`
	CreatedAt time.Time        `json:"created_at"`
}

type QuestionResult struct {
	QuestionID    string `json:"question_id"`
	Correct       bool   `json:"correct"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation"`
}

type ExamResult struct {
	ExamID       string           `json:"exam_id"`
	Score        float64          `json:"score"`
	CorrectCount int              `json:"correct_count"`
	Total        int              `json:"total"`
	Results      []QuestionResult `json:"results"`
}

// Generate builds a new exam. The question count is clamped to the
// configured maximum; zero or negative requests get the default.
func (s *ExamService) Generate(ctx context.Context, topic string, difficulty model.Difficulty, count int, subtopics []string) (*ExamView, error) {
	if strings.TrimSpace(topic) == "" {
		topic = "computer architecture"
	}
	if count <= 0 {
		count = s.cfg.DefaultQuestions
	}
	if count > s.cfg.MaxQuestions {
		count = s.cfg.MaxQuestions
	}

	generated, err := s.generator.ExamQuestions(ctx, topic, difficulty, count, subtopics)
	if err != nil {
		return nil, err
	}

	exam := &model.Exam{
		ID:           uuid.NewString(),
		Topic:        topic,
		Difficulty:   difficulty,
		Answers:      make(map[string]string, len(generated)),
		Explanations: make(map[string]string, len(generated)),
		CreatedAt:    time.Now(),
	}

	for _, q := range generated {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) == 0 {
			return nil, fmt.Errorf("%w: malformed exam question", util.ErrContentGeneration)
		}
		key := strings.ToLower(strings.TrimSpace(q.CorrectAnswer))
		if _, ok := q.Options[key]; !ok {
			return nil, fmt.Errorf("%w: answer key %q not among options", util.ErrContentGeneration, q.CorrectAnswer)
		}

		qid := uuid.NewString()
		exam.Questions = append(exam.Questions, model.Question{
			ID:      qid,
			Text:    q.Question,
			Options: q.Options,
			Topic:   topic,
		})
		exam.Answers[qid] = key
		exam.Explanations[qid] = q.Explanation
	}

	s.repo.Save(exam)
	logger.Log.Info("exam generated",
		zap.String("exam_id", exam.ID),
		zap.String("topic", topic),
		zap.Int("questions", len(exam.Questions)))

	return &ExamView{
		ExamID:    exam.ID,
		Topic:     exam.Topic,
		Questions: exam.Questions,
		CreatedAt: exam.CreatedAt,
	}, nil
}

// Validate grades a submission against the answer key and records the
// attempt. Unanswered questions count as wrong.
func (s *ExamService) Validate(examID, userID string, answers map[string]string, timeTakenSeconds int) (*ExamResult, error) {
	exam, err := s.repo.Get(examID)
	if err != nil {
		return nil, err
	}

	results := make([]QuestionResult, 0, len(exam.Questions))
	correctCount := 0
	for _, q := range exam.Questions {
		expected := exam.Answers[q.ID]
		given := strings.ToLower(strings.TrimSpace(answers[q.ID]))
		correct := given != "" && given == expected
		if correct {
			correctCount++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			Correct:       correct,
			UserAnswer:    given,
			CorrectAnswer: expected,
			Explanation:   exam.Explanations[q.ID],
		})
	}

	score := 0.0
	if len(exam.Questions) > 0 {
		score = float64(correctCount) / float64(len(exam.Questions)) * 100
	}

	if err := s.repo.SaveAttempt(examID, model.ExamAttempt{
		UserID:           userID,
		Answers:          answers,
		Score:            score,
		TimeTakenSeconds: timeTakenSeconds,
	}); err != nil {
		return nil, err
	}

	logger.Log.Info("exam validated",
		zap.String("exam_id", examID),
		zap.Float64("score", score))

	return &ExamResult{
		ExamID:       examID,
		Score:        score,
		CorrectCount: correctCount,
		Total:        len(exam.Questions),
		Results:      results,
	}, nil
}

// Get returns the player view of an exam, without the answer key.
func (s *ExamService) Get(examID string) (*ExamView, error) {
	exam, err := s.repo.Get(examID)
	if err != nil {
		return nil, err
	}
	return &ExamView{
		ExamID:    exam.ID,
		Topic:     exam.Topic,
		Questions: exam.Questions,
		CreatedAt: exam.CreatedAt,
	}, nil
}

func (s *ExamService) List(limit, offset int) []model.ExamSummary {
	return s.repo.List(limit, offset)
}

func (s *ExamService) Delete(examID string) error {
	if !s.repo.Delete(examID) {
		return util.ErrExamNotFound
	}
	return nil
}
