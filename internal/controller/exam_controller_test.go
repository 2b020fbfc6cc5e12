package controller

import (
	"context"
	"net/http"
	"testing"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type stubExamGenerator struct{}

func (stubExamGenerator) ExamQuestions(ctx context.Context, topic string, difficulty model.Difficulty, count int, subtopics []string) ([]service.GeneratedQuestion, error) {
	qs := make([]service.GeneratedQuestion, count)
	for i := range qs {
		qs[i] = service.GeneratedQuestion{
			Question:      "which level is fastest?",
			Options:       map[string]string{"a": "L1", "b": "L2", "c": "L3", "d": "RAM"},
			CorrectAnswer: "a",
			Explanation:   "L1 sits closest to the core",
		}
	}
	return qs, nil
}

func newExamRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	exams := service.NewExamService(repository.NewExamRepository(), stubExamGenerator{}, config.ExamConfig{
		MaxQuestions:     10,
		DefaultQuestions: 5,
	})
	ec := NewExamController(exams)

	router := gin.New()
	g := router.Group("/api/v1/exam")
	g.POST("/generate", ec.Generate)
	g.POST("/validate", ec.Validate)
	g.GET("", ec.List)
	g.GET("/:examID", ec.Get)
	g.DELETE("/:examID", ec.Delete)
	return router
}

func TestExamGenerateAndValidateEndpoints(t *testing.T) {
	router := newExamRouter()

	w, created := doJSON(t, router, "POST", "/api/v1/exam/generate", gin.H{"topic": "caches", "count": 2})
	if w.Code != http.StatusCreated {
		t.Fatalf("generate status = %d, body %s", w.Code, w.Body.String())
	}
	data := created["data"].(map[string]interface{})
	examID := data["exam_id"].(string)
	questions := data["questions"].([]interface{})
	if len(questions) != 2 {
		t.Fatalf("question count = %d, want 2", len(questions))
	}

	// The client view must not contain the answer key.
	for _, q := range questions {
		qm := q.(map[string]interface{})
		if _, leaked := qm["correct_answer"]; leaked {
			t.Error("answer key leaked in generate response")
		}
	}

	q0 := questions[0].(map[string]interface{})["id"].(string)
	q1 := questions[1].(map[string]interface{})["id"].(string)

	w, res := doJSON(t, router, "POST", "/api/v1/exam/validate", gin.H{
		"exam_id": examID,
		"answers": gin.H{q0: "a", q1: "b"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("validate status = %d, body %s", w.Code, w.Body.String())
	}
	result := res["data"].(map[string]interface{})
	if result["score"].(float64) != 50 {
		t.Errorf("score = %v, want 50", result["score"])
	}
}

func TestExamValidateUnknownExamIs404(t *testing.T) {
	router := newExamRouter()
	w, _ := doJSON(t, router, "POST", "/api/v1/exam/validate", gin.H{
		"exam_id": "missing",
		"answers": gin.H{"q": "a"},
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestExamListAndDeleteEndpoints(t *testing.T) {
	router := newExamRouter()

	_, created := doJSON(t, router, "POST", "/api/v1/exam/generate", gin.H{"count": 1})
	examID := created["data"].(map[string]interface{})["exam_id"].(string)

	w, res := doJSON(t, router, "GET", "/api/v1/exam", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	if list := res["data"].([]interface{}); len(list) != 1 {
		t.Errorf("list length = %d, want 1", len(list))
	}

	w, _ = doJSON(t, router, "DELETE", "/api/v1/exam/"+examID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w, _ = doJSON(t, router, "GET", "/api/v1/exam/"+examID, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", w.Code)
	}
}
