package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"archtutor_backend/internal/config"
	"archtutor_backend/internal/model"
	"archtutor_backend/internal/util"
)

// AIService talks to an OpenAI-compatible chat-completions API. It is
// the concrete ContentGenerator, AnswerGrader, ExamGenerator and
// ChatModel behind all game, exam and chat features.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
	Stream   bool            `json:"stream,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const chatSystemPrompt = "You are an expert professor of computer architecture. " +
	"Answer in a clear, educational and detailed way, staying on topic. " +
	"Politely decline questions unrelated to computing education."

func (s *AIService) complete(ctx context.Context, messages []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: messages,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("AI returned no choices")
	}
	return result.Choices[0].Message.Content, nil
}

// completeJSON asks for a JSON-only reply and unmarshals it into out.
// Models wrap JSON in markdown fences often enough that stripping them
// is mandatory.
func (s *AIService) completeJSON(ctx context.Context, prompt string, out interface{}) error {
	messages := []AIChatMessage{
		{Role: "system", Content: "You respond with a single valid JSON object and nothing else. No markdown, no commentary."},
		{Role: "user", Content: prompt},
	}

	raw, err := s.complete(ctx, messages)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrContentGeneration, err)
	}

	cleaned := stripJSONFences(raw)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: unparseable generator reply: %v", util.ErrContentGeneration, err)
	}
	return nil
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// ChatReply answers a course question grounded in optional document
// context and the running conversation.
func (s *AIService) ChatReply(ctx context.Context, query, docContext string, history []model.ChatMessage) (string, error) {
	return s.complete(ctx, s.chatMessages(query, docContext, history))
}

// ChatReplyStream streams the answer chunk by chunk over the returned
// channel, following the SSE wire format of the completions API.
func (s *AIService) ChatReplyStream(ctx context.Context, query, docContext string, history []model.ChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: s.chatMessages(query, docContext, history),
		Stream:   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := http.NewRequestWithContext(ctx, "POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(jsonData))
		if err != nil {
			errChan <- err
			return
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

		resp, err := s.client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var streamResp ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					out <- content
				}
			}
		}
	}()

	return out, errChan
}

func (s *AIService) chatMessages(query, docContext string, history []model.ChatMessage) []AIChatMessage {
	systemContent := chatSystemPrompt
	if docContext != "" {
		systemContent = fmt.Sprintf("%s\n\nUse the following course material as context:\n\n%s", chatSystemPrompt, docContext)
	}

	messages := []AIChatMessage{{Role: "system", Content: systemContent}}
	for _, h := range history {
		messages = append(messages, AIChatMessage{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, AIChatMessage{Role: "user", Content: query})
	return messages
}

// HangmanWord generates a hangman word with clue and educational
// argument.
func (s *AIService) HangmanWord(ctx context.Context, topic string, difficulty model.Difficulty) (*HangmanContent, error) {
	if topic == "" {
		topic = "computer architecture"
	}
	prompt := fmt.Sprintf(`Generate a hangman word for a computer architecture course.
Topic: %s. Difficulty: %s (harder means longer, more specialized terms).

Respond ONLY with a JSON object in exactly this format:
{
    "word": "single word, letters only, no spaces",
    "clue": "a hint that does not contain the word",
    "argument": "a short educational explanation of the concept"
}`, topic, difficulty)

	var content HangmanContent
	if err := s.completeJSON(ctx, prompt, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// WordleWord generates a 5-letter word with topic hint and
// explanation. Length is validated by the engine, not here.
func (s *AIService) WordleWord(ctx context.Context, topic string, difficulty model.Difficulty) (*WordleContent, error) {
	if topic == "" {
		topic = "computer architecture"
	}
	prompt := fmt.Sprintf(`Generate a word of EXACTLY 5 letters for a Wordle game in a computer architecture course.
Topic: %s. Difficulty: %s.

Respond ONLY with a JSON object in exactly this format:
{
    "word": "exactly five letters",
    "topic_hint": "a thematic hint that does not reveal the word",
    "explanation": "a short educational explanation of the term"
}`, topic, difficulty)

	var content WordleContent
	if err := s.completeJSON(ctx, prompt, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// LogicCircuit generates a gate pattern over 2-3 named inputs. The
// engine validates gate tags and input count and computes the truth
// table itself.
func (s *AIService) LogicCircuit(ctx context.Context, difficulty model.Difficulty) (*LogicContent, error) {
	shape := "2 input variables and 1 gate"
	switch difficulty {
	case model.DifficultyMedium:
		shape = "2 input variables and 2 gates"
	case model.DifficultyHard:
		shape = "3 input variables and 2 or 3 gates"
	}

	prompt := fmt.Sprintf(`Generate a logic circuit exercise for a computer architecture course with %s.
Valid gate types: AND, OR, XOR, NAND, NOR, XNOR. Each gate takes all input variables.

Respond ONLY with a JSON object in exactly this format:
{
    "gates": ["GATE", ...],
    "inputs": ["A", "B"],
    "description": "one sentence describing the circuit"
}`, shape)

	var content LogicContent
	if err := s.completeJSON(ctx, prompt, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// AssemblyBug generates a short buggy x86 snippet with hint and
// reference explanation.
func (s *AIService) AssemblyBug(ctx context.Context, difficulty model.Difficulty) (*AssemblyContent, error) {
	prompt := fmt.Sprintf(`Generate an Intel x86 assembly exercise containing exactly ONE bug. Difficulty: %s.
The code must be simple and educational. Possible bug kinds: uninitialized register, overflow,
wrong segment, misconfigured division, unbalanced stack, logic error.

Respond ONLY with a JSON object in exactly this format:
{
    "code": "assembly code with the bug",
    "architecture": "x86",
    "error_type": "kind of bug",
    "expected_behavior": "what the code should do",
    "hint": "a hint for the student",
    "correct_explanation": "the correct explanation of the bug"
}`, difficulty)

	var content AssemblyContent
	if err := s.completeJSON(ctx, prompt, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// GradeAssembly scores a student's free-text bug explanation against
// the reference. 80-100 identifies the bug and fixes it, 60-79
// identifies it with missing detail, below that partial or none.
func (s *AIService) GradeAssembly(ctx context.Context, code, reference, answer string) (float64, string, error) {
	prompt := fmt.Sprintf(`Evaluate a student's explanation of a bug in assembly code.

Buggy code:
%s

Reference explanation:
%s

Student's explanation:
%s

Respond ONLY with a JSON object:
{
    "score": number between 0 and 100,
    "feedback": "constructive feedback"
}

Scoring guide: 80-100 correctly identifies the bug and proposes a fix;
60-79 identifies the bug but lacks detail; 40-59 partial understanding;
0-39 does not identify the bug.`, code, reference, answer)

	var result struct {
		Score    float64 `json:"score"`
		Feedback string  `json:"feedback"`
	}
	if err := s.completeJSON(ctx, prompt, &result); err != nil {
		return 0, "", err
	}
	return result.Score, result.Feedback, nil
}

// ExamQuestions generates count multiple-choice questions on topic.
func (s *AIService) ExamQuestions(ctx context.Context, topic string, difficulty model.Difficulty, count int, subtopics []string) ([]GeneratedQuestion, error) {
	subtopicLine := ""
	if len(subtopics) > 0 {
		subtopicLine = "Cover these subtopics: " + strings.Join(subtopics, ", ") + "."
	}

	prompt := fmt.Sprintf(`Generate %d multiple-choice questions for a computer architecture exam.
Topic: %s. Difficulty: %s. %s
Each question has four options keyed "a" through "d" with exactly one correct answer.

Respond ONLY with a JSON object in exactly this format:
{
    "questions": [
        {
            "question": "question text",
            "options": {"a": "...", "b": "...", "c": "...", "d": "..."},
            "correct_answer": "a",
            "explanation": "why the answer is correct"
        }
    ]
}`, count, topic, difficulty, subtopicLine)

	var result struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := s.completeJSON(ctx, prompt, &result); err != nil {
		return nil, err
	}
	if len(result.Questions) == 0 {
		return nil, fmt.Errorf("%w: generator returned no questions", util.ErrContentGeneration)
	}
	return result.Questions, nil
}
