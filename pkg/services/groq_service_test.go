package services

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"

	config "bhoomi-advisory-api/configs"
)

// stubCompleter scripts per-model completions for fallback-chain tests.
type stubCompleter struct {
	failModels map[string]bool
	calls      []string
	reply      string
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.calls = append(s.calls, req.Model)
	if s.failModels[req.Model] {
		return openai.ChatCompletionResponse{}, errors.New("model overloaded")
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func testGroqConfig() *config.Config {
	return &config.Config{
		GroqModel:         "groq/compound-mini",
		GroqFallbackModel: "llama-3.3-70b-versatile",
		GroqSimpleModel:   "llama-3.1-8b-instant",
	}
}

func TestAnswerUsesPrimaryModel(t *testing.T) {
	stub := &stubCompleter{reply: "Sow wheat now."}
	svc := NewGroqServiceWithClient(stub, testGroqConfig())

	answer, model, err := svc.Answer(context.Background(), "system", "question")
	assert.NoError(t, err)
	assert.Equal(t, "Sow wheat now.", answer)
	assert.Equal(t, "groq/compound-mini", model)
	assert.Equal(t, []string{"groq/compound-mini"}, stub.calls)
}

func TestAnswerFallsBackInOrder(t *testing.T) {
	stub := &stubCompleter{
		reply:      "Fallback answer.",
		failModels: map[string]bool{"groq/compound-mini": true},
	}
	svc := NewGroqServiceWithClient(stub, testGroqConfig())

	answer, model, err := svc.Answer(context.Background(), "system", "question")
	assert.NoError(t, err)
	assert.Equal(t, "Fallback answer.", answer)
	assert.Equal(t, "llama-3.3-70b-versatile", model)
	assert.Equal(t, []string{"groq/compound-mini", "llama-3.3-70b-versatile"}, stub.calls)
}

func TestAnswerErrorsWhenAllModelsFail(t *testing.T) {
	stub := &stubCompleter{
		failModels: map[string]bool{
			"groq/compound-mini":      true,
			"llama-3.3-70b-versatile": true,
		},
	}
	svc := NewGroqServiceWithClient(stub, testGroqConfig())

	_, _, err := svc.Answer(context.Background(), "system", "what crop should I plant")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "all models failed")
	assert.Equal(t, []string{"groq/compound-mini", "llama-3.3-70b-versatile"}, stub.calls)
}

func TestAnswerWithoutAPIKey(t *testing.T) {
	svc := NewGroqService(testGroqConfig())

	answer, model, err := svc.Answer(context.Background(), "system", "question")
	assert.NoError(t, err)
	assert.Equal(t, "offline-heuristic", model)
	assert.NotEmpty(t, answer)
}

func TestSimpleAnswerUsesSimpleModel(t *testing.T) {
	stub := &stubCompleter{reply: "Short answer."}
	svc := NewGroqServiceWithClient(stub, testGroqConfig())

	answer, model, err := svc.SimpleAnswer(context.Background(), "system", "question")
	assert.NoError(t, err)
	assert.Equal(t, "Short answer.", answer)
	assert.Equal(t, "llama-3.1-8b-instant", model)
}

func TestSimpleAnswerErrorsOnFailure(t *testing.T) {
	stub := &stubCompleter{failModels: map[string]bool{"llama-3.1-8b-instant": true}}
	svc := NewGroqServiceWithClient(stub, testGroqConfig())

	_, _, err := svc.SimpleAnswer(context.Background(), "system", "question")
	assert.Error(t, err)
}

func TestExtractRecommendations(t *testing.T) {
	answer := "Advice below:\n" +
		"1. Sow wheat by mid-November\n" +
		"2. Apply basal NPK\n" +
		"- Irrigate at crown root stage\n" +
		"• Scout for aphids\n" +
		"plain text line\n" +
		"3. Mulch the beds\n" +
		"4. Rotate with legumes\n"

	recs := ExtractRecommendations(answer)
	assert.Len(t, recs, 5)
	assert.Equal(t, "Sow wheat by mid-November", recs[0])
	assert.Equal(t, "Irrigate at crown root stage", recs[2])
	assert.NotContains(t, recs, "plain text line")
}

func TestShouldTriggerFertilizerPane(t *testing.T) {
	assert.True(t, ShouldTriggerFertilizerPane("What crop should I plant?"))
	assert.True(t, ShouldTriggerFertilizerPane("Best FERTILIZER for rice"))
	assert.False(t, ShouldTriggerFertilizerPane("Will it rain tomorrow?"))
}

func TestExtractRecommendedCrops(t *testing.T) {
	crops := ExtractRecommendedCrops("Try Wheat and mustard, maybe potato or onion.")
	assert.Len(t, crops, 3)
	assert.Contains(t, crops, "wheat")
	assert.Contains(t, crops, "mustard")
	assert.Empty(t, ExtractRecommendedCrops("no known names here"))
}
