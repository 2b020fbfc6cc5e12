package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"archtutor_backend/internal/model"
	"archtutor_backend/internal/repository"
	"archtutor_backend/internal/util"
	"archtutor_backend/pkg/logger"
	"archtutor_backend/pkg/monitoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LogicService runs truth-table exercises over a generated gate
// pattern. The full expected table is computed once at creation; a
// submission is graded against it row by row.
type LogicService struct {
	store     repository.SessionStore
	generator ContentGenerator
}

func NewLogicService(store repository.SessionStore, generator ContentGenerator) *LogicService {
	return &LogicService{store: store, generator: generator}
}

type LogicCreateResult struct {
	GameID      string   `json:"game_id"`
	Gates       []string `json:"gates"`
	Inputs      []string `json:"inputs"`
	Description string   `json:"description"`
	NumInputs   int      `json:"num_inputs"`
	NumRows     int      `json:"num_rows"`
	Question    string   `json:"question"`
}

type LogicAnswerResult struct {
	Correct       bool             `json:"correct"`
	Score         float64          `json:"score"`
	Explanation   string           `json:"explanation"`
	ExpectedTable []model.TruthRow `json:"expected_truth_table"`
}

// Create asks the generator for a gate pattern, validates it and
// precomputes the truth table before the session becomes visible.
func (s *LogicService) Create(ctx context.Context, difficulty model.Difficulty) (*LogicCreateResult, error) {
	content, err := s.generator.LogicCircuit(ctx, difficulty)
	if err != nil {
		return nil, err
	}

	gates, inputs, err := validateCircuit(content)
	if err != nil {
		return nil, err
	}

	session := &model.LogicSession{
		SessionBase: model.SessionBase{
			ID:          uuid.NewString(),
			Type:        model.GameLogic,
			CreatedAt:   time.Now(),
			AttemptsMax: 1,
		},
		Difficulty: difficulty,
		Gates:      gates,
		InputNames: inputs,
		Table:      computeTruthTable(gates, len(inputs)),
	}

	if err := s.store.Create(session); err != nil {
		return nil, err
	}
	monitoring.GamesCreated.WithLabelValues(string(model.GameLogic)).Inc()
	monitoring.GamesActive.Set(float64(s.store.Len()))
	logger.Log.Info("logic game created",
		zap.String("game_id", session.ID),
		zap.Int("gates", len(gates)),
		zap.Int("inputs", len(inputs)))

	gateNames := make([]string, len(gates))
	for i, g := range gates {
		gateNames[i] = string(g)
	}

	return &LogicCreateResult{
		GameID:      session.ID,
		Gates:       gateNames,
		Inputs:      inputs,
		Description: content.Description,
		NumInputs:   len(inputs),
		NumRows:     len(session.Table),
		Question:    "Complete the truth table for this circuit",
	}, nil
}

// Submit grades the player's truth table. Easy and medium are graded
// binary over the whole table; hard hands out partial credit as the
// percentage of matching rows.
func (s *LogicService) Submit(ctx context.Context, id string, rows []model.TruthRow) (*LogicAnswerResult, error) {
	raw, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	session, ok := raw.(*model.LogicSession)
	if !ok {
		return nil, util.ErrSessionNotFound
	}

	session.Lock()
	defer session.Unlock()

	if session.GameOver {
		return nil, util.ErrGameOver
	}

	if len(rows) != len(session.Table) {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", util.ErrInvalidInput, len(session.Table), len(rows))
	}

	matched := 0
	var mismatches []string
	for i, row := range rows {
		expected := session.Table[i]
		if !intsEqual(row.Inputs, expected.Inputs) {
			return nil, fmt.Errorf("%w: input values of row %d do not match the expected combinations", util.ErrInvalidInput, i+1)
		}
		if len(row.Outputs) != len(expected.Outputs) {
			return nil, fmt.Errorf("%w: row %d must have %d outputs", util.ErrInvalidInput, i+1, len(expected.Outputs))
		}
		if intsEqual(row.Outputs, expected.Outputs) {
			matched++
		} else {
			mismatches = append(mismatches, fmt.Sprintf("row %d (%s): expected %v, got %v",
				i+1, formatInputs(session.InputNames, expected.Inputs), expected.Outputs, row.Outputs))
		}
	}

	correct := matched == len(session.Table)
	score := float64(matched) / float64(len(session.Table)) * 100
	if session.Difficulty != model.DifficultyHard {
		// No partial credit below hard.
		if correct {
			score = 100
		} else {
			score = 0
		}
	}

	session.AttemptsUsed = 1
	session.GameOver = true
	session.Correct = correct
	session.Score = score
	session.Explanation = gradeExplanation(correct, mismatches)

	logger.Log.Info("logic game answered",
		zap.String("game_id", session.ID),
		zap.Bool("correct", correct),
		zap.Float64("score", score))

	return &LogicAnswerResult{
		Correct:       correct,
		Score:         score,
		Explanation:   session.Explanation,
		ExpectedTable: session.Table,
	}, nil
}

func validateCircuit(content *LogicContent) ([]model.GateType, []string, error) {
	if len(content.Gates) == 0 || len(content.Gates) > 5 {
		return nil, nil, util.ErrInvalidContent
	}
	if len(content.Inputs) < 2 || len(content.Inputs) > 3 {
		return nil, nil, util.ErrInvalidContent
	}

	gates := make([]model.GateType, 0, len(content.Gates))
	for _, g := range content.Gates {
		gate, ok := model.ParseGateType(g)
		if !ok {
			return nil, nil, util.ErrInvalidContent
		}
		gates = append(gates, gate)
	}

	seen := make(map[string]bool, len(content.Inputs))
	inputs := make([]string, 0, len(content.Inputs))
	for _, name := range content.Inputs {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" || seen[name] {
			return nil, nil, util.ErrInvalidContent
		}
		seen[name] = true
		inputs = append(inputs, name)
	}
	return gates, inputs, nil
}

// computeTruthTable enumerates all 2^n input combinations, most
// significant input first, and evaluates every gate of the pattern
// against each combination.
func computeTruthTable(gates []model.GateType, numInputs int) []model.TruthRow {
	rows := make([]model.TruthRow, 0, 1<<numInputs)

	for i := 0; i < 1<<numInputs; i++ {
		inputs := make([]int, numInputs)
		for j := 0; j < numInputs; j++ {
			inputs[j] = (i >> (numInputs - 1 - j)) & 1
		}

		outputs := make([]int, len(gates))
		for k, gate := range gates {
			outputs[k] = evalGate(gate, inputs)
		}

		rows = append(rows, model.TruthRow{Inputs: inputs, Outputs: outputs})
	}
	return rows
}

// evalGate applies one gate to all inputs. XOR and XNOR generalize to
// odd/even parity for three inputs, not a pairwise chain.
func evalGate(gate model.GateType, inputs []int) int {
	ones := 0
	for _, v := range inputs {
		if v != 0 {
			ones++
		}
	}

	switch gate {
	case model.GateAND:
		return boolToBit(ones == len(inputs))
	case model.GateOR:
		return boolToBit(ones > 0)
	case model.GateXOR:
		return boolToBit(ones%2 == 1)
	case model.GateNAND:
		return boolToBit(ones != len(inputs))
	case model.GateNOR:
		return boolToBit(ones == 0)
	case model.GateXNOR:
		return boolToBit(ones%2 == 0)
	}
	return 0
}

func boolToBit(b bool) int {
	if b {
		return 1
	}
	return 0
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func formatInputs(names []string, values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		name := fmt.Sprintf("in%d", i)
		if i < len(names) {
			name = names[i]
		}
		parts[i] = fmt.Sprintf("%s=%d", name, v)
	}
	return strings.Join(parts, ", ")
}

func gradeExplanation(correct bool, mismatches []string) string {
	if correct {
		return "Perfect, the truth table is completely correct."
	}

	shown := mismatches
	extra := 0
	if len(shown) > 3 {
		extra = len(shown) - 3
		shown = shown[:3]
	}
	msg := "Errors found:\n" + strings.Join(shown, "\n")
	if extra > 0 {
		msg += fmt.Sprintf("\n... and %d more", extra)
	}
	return msg
}
