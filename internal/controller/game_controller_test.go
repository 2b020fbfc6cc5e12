package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/service"

	"github.com/gin-gonic/gin"
)

type stubGenerator struct{}

func (stubGenerator) HangmanWord(ctx context.Context, topic string, difficulty model.Difficulty) (*service.HangmanContent, error) {
	return &service.HangmanContent{Word: "CACHE", Clue: "fast memory", Argument: "keeps hot data close"}, nil
}

func (stubGenerator) WordleWord(ctx context.Context, topic string, difficulty model.Difficulty) (*service.WordleContent, error) {
	return &service.WordleContent{Word: "CACHE", TopicHint: "memory", Explanation: "a small fast memory"}, nil
}

func (stubGenerator) LogicCircuit(ctx context.Context, difficulty model.Difficulty) (*service.LogicContent, error) {
	return &service.LogicContent{Gates: []string{"AND"}, Inputs: []string{"A", "B"}, Description: "A AND B"}, nil
}

func (stubGenerator) AssemblyBug(ctx context.Context, difficulty model.Difficulty) (*service.AssemblyContent, error) {
	return &service.AssemblyContent{Code: "div cx", Architecture: "x86", Explanation: "dx not cleared"}, nil
}

func (stubGenerator) GradeAssembly(ctx context.Context, code, reference, answer string) (float64, string, error) {
	return 85, "well spotted", nil
}

func newGameRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	store := repository.NewMemorySessionStore()
	gen := stubGenerator{}
	hangman := service.NewHangmanService(store, gen, 6)
	wordle := service.NewWordleService(store, gen, 6)
	logic := service.NewLogicService(store, gen)
	assembly := service.NewAssemblyService(store, gen, gen)
	games := service.NewGameService(store, hangman, wordle, logic, assembly)

	gc := NewGameController(games, hangman, wordle, logic, assembly)

	router := gin.New()
	g := router.Group("/api/v1/games")
	g.POST("", gc.CreateGame)
	g.POST("/hangman", gc.CreateHangman)
	g.POST("/hangman/guess", gc.GuessHangman)
	g.POST("/wordle", gc.CreateWordle)
	g.POST("/wordle/guess", gc.GuessWordle)
	g.POST("/logic", gc.CreateLogic)
	g.POST("/logic/answer", gc.AnswerLogic)
	g.POST("/assembly", gc.CreateAssembly)
	g.POST("/assembly/answer", gc.AnswerAssembly)
	g.GET("/status/:gameType/:gameID", gc.Status)
	g.DELETE("/:gameType/:gameID", gc.Delete)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var envelope map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
		}
	}
	return w, envelope
}

func gameID(t *testing.T, envelope map[string]interface{}) string {
	t.Helper()
	data, ok := envelope["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("no data in response: %v", envelope)
	}
	id, _ := data["game_id"].(string)
	if id == "" {
		t.Fatalf("no game_id in response: %v", data)
	}
	return id
}

func TestHangmanEndpointFlow(t *testing.T) {
	router := newGameRouter()

	w, created := doJSON(t, router, "POST", "/api/v1/games/hangman", gin.H{"topic": "memory"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	id := gameID(t, created)

	data := created["data"].(map[string]interface{})
	if data["hidden_word"] != "_ _ _ _ _" {
		t.Errorf("hidden_word = %v", data["hidden_word"])
	}

	w, res := doJSON(t, router, "POST", "/api/v1/games/hangman/guess", gin.H{"game_id": id, "guess": "C"})
	if w.Code != http.StatusOK {
		t.Fatalf("guess status = %d", w.Code)
	}
	guess := res["data"].(map[string]interface{})
	if guess["correct"] != true || guess["current_word"] != "C _ C _ _" {
		t.Errorf("guess result: %v", guess)
	}

	// Win with the full word, then a further guess conflicts.
	doJSON(t, router, "POST", "/api/v1/games/hangman/guess", gin.H{"game_id": id, "guess": "CACHE"})
	w, _ = doJSON(t, router, "POST", "/api/v1/games/hangman/guess", gin.H{"game_id": id, "guess": "A"})
	if w.Code != http.StatusConflict {
		t.Errorf("guess after win status = %d, want 409", w.Code)
	}
}

func TestGuessUnknownSessionIs404(t *testing.T) {
	router := newGameRouter()
	w, _ := doJSON(t, router, "POST", "/api/v1/games/wordle/guess", gin.H{"game_id": "nope", "guess": "CACHE"})
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestWordleInvalidGuessIs400(t *testing.T) {
	router := newGameRouter()
	_, created := doJSON(t, router, "POST", "/api/v1/games/wordle", nil)
	id := gameID(t, created)

	w, _ := doJSON(t, router, "POST", "/api/v1/games/wordle/guess", gin.H{"game_id": id, "guess": "TOOLONG"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestGenericCreateAndStatus(t *testing.T) {
	router := newGameRouter()

	w, created := doJSON(t, router, "POST", "/api/v1/games", gin.H{"game_type": "wordle"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d", w.Code)
	}
	id := gameID(t, created)

	w, status := doJSON(t, router, "GET", fmt.Sprintf("/api/v1/games/status/wordle/%s", id), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	state := status["data"].(map[string]interface{})["state"].(map[string]interface{})
	if _, leaked := state["correct_word"]; leaked {
		t.Error("target word leaked in status before completion")
	}

	w, _ = doJSON(t, router, "GET", fmt.Sprintf("/api/v1/games/status/hangman/%s", id), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-type status = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, router, "POST", "/api/v1/games", gin.H{"game_type": "chess"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown game type status = %d, want 400", w.Code)
	}
}

func TestLogicAnswerEndpoint(t *testing.T) {
	router := newGameRouter()
	_, created := doJSON(t, router, "POST", "/api/v1/games/logic", gin.H{"difficulty": "easy"})
	id := gameID(t, created)

	w, res := doJSON(t, router, "POST", "/api/v1/games/logic/answer", gin.H{
		"game_id": id,
		"truth_table": []gin.H{
			{"inputs": []int{0, 0}, "outputs": []int{0}},
			{"inputs": []int{0, 1}, "outputs": []int{0}},
			{"inputs": []int{1, 0}, "outputs": []int{0}},
			{"inputs": []int{1, 1}, "outputs": []int{1}},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d, body %s", w.Code, w.Body.String())
	}
	data := res["data"].(map[string]interface{})
	if data["correct"] != true || data["score"].(float64) != 100 {
		t.Errorf("answer result: %v", data)
	}
}

func TestAssemblyAnswerEndpoint(t *testing.T) {
	router := newGameRouter()
	_, created := doJSON(t, router, "POST", "/api/v1/games/assembly", nil)
	id := gameID(t, created)

	w, _ := doJSON(t, router, "POST", "/api/v1/games/assembly/answer", gin.H{"game_id": id, "explanation": "short"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("short explanation status = %d, want 400", w.Code)
	}

	w, res := doJSON(t, router, "POST", "/api/v1/games/assembly/answer", gin.H{
		"game_id":     id,
		"explanation": "dx is not cleared before the div instruction",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("answer status = %d", w.Code)
	}
	data := res["data"].(map[string]interface{})
	if data["correct"] != true {
		t.Errorf("answer result: %v", data)
	}
}

func TestDeleteEndpoint(t *testing.T) {
	router := newGameRouter()
	_, created := doJSON(t, router, "POST", "/api/v1/games/hangman", nil)
	id := gameID(t, created)

	w, _ := doJSON(t, router, "DELETE", "/api/v1/games/hangman/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	w, _ = doJSON(t, router, "DELETE", "/api/v1/games/hangman/"+id, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}
