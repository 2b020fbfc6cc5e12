package repository

import (
	"sort"
	"sync"
	"time"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/util"
)

// ExamRepository stores generated exams and their attempts in memory.
// A persistent backend would hang off this same interface.
type ExamRepository struct {
	mu    sync.RWMutex
	exams map[string]*model.Exam
}

func NewExamRepository() *ExamRepository {
	return &ExamRepository{exams: make(map[string]*model.Exam)}
}

func (r *ExamRepository) Save(exam *model.Exam) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exams[exam.ID] = exam
}

func (r *ExamRepository) Get(id string) (*model.Exam, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.exams[id]; ok {
		return e, nil
	}
	return nil, util.ErrExamNotFound
}

func (r *ExamRepository) SaveAttempt(examID string, attempt model.ExamAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exam, ok := r.exams[examID]
	if !ok {
		return util.ErrExamNotFound
	}
	attempt.Timestamp = time.Now()
	exam.Attempts = append(exam.Attempts, attempt)
	return nil
}

func (r *ExamRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.exams[id]; !ok {
		return false
	}
	delete(r.exams, id)
	return true
}

// List returns exam summaries newest first.
func (r *ExamRepository) List(limit, offset int) []model.ExamSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*model.Exam, 0, len(r.exams))
	for _, e := range r.exams {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []model.ExamSummary{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}

	summaries := make([]model.ExamSummary, 0, len(all))
	for _, e := range all {
		summaries = append(summaries, model.ExamSummary{
			ID:            e.ID,
			Topic:         e.Topic,
			CreatedAt:     e.CreatedAt,
			QuestionCount: len(e.Questions),
			AttemptCount:  len(e.Attempts),
		})
	}
	return summaries
}
