package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	config "bhoomi-advisory-api/configs"
)

// ChatCompleter is the slice of the OpenAI-compatible client the advisory
// paths use. Groq serves the same wire protocol.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// modelAttempt is one step of the ordered fallback chain.
type modelAttempt struct {
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
}

// GroqService answers farmer questions through Groq's chat API, falling
// back through cheaper models and finally to an offline heuristic.
type GroqService struct {
	client      ChatCompleter
	attempts    []modelAttempt
	simpleModel modelAttempt
}

// NewGroqService builds the LLM client from config. An empty API key
// leaves the client nil and every answer comes from the offline heuristic.
func NewGroqService(cfg *config.Config) *GroqService {
	svc := &GroqService{
		attempts: []modelAttempt{
			{Model: cfg.GroqModel, MaxTokens: 8192, Temperature: 0.2, Timeout: 60 * time.Second},
			{Model: cfg.GroqFallbackModel, MaxTokens: 1000, Temperature: 0.2, Timeout: 30 * time.Second},
		},
		simpleModel: modelAttempt{Model: cfg.GroqSimpleModel, MaxTokens: 800, Temperature: 0.2, Timeout: 60 * time.Second},
	}

	if cfg.GroqAPIKey == "" {
		log.Println("GROQ_API_KEY not set, advisory answers will use offline heuristics")
		return svc
	}

	clientConfig := openai.DefaultConfig(cfg.GroqAPIKey)
	clientConfig.BaseURL = cfg.GroqBaseURL
	svc.client = openai.NewClientWithConfig(clientConfig)
	return svc
}

// NewGroqServiceWithClient injects a prebuilt client, used by tests.
func NewGroqServiceWithClient(client ChatCompleter, cfg *config.Config) *GroqService {
	svc := NewGroqService(cfg)
	svc.client = client
	return svc
}

// Answer runs the fallback chain for a context-rich advisory question.
// Without a client the offline heuristic answers. With a client, an
// upstream outage that exhausts every model is an error the caller must
// surface, not a degraded answer.
func (s *GroqService) Answer(ctx context.Context, systemPrompt, userPrompt string) (string, string, error) {
	if s.client == nil {
		return offlineAnswer(userPrompt), "offline-heuristic", nil
	}

	var lastErr error
	for _, attempt := range s.attempts {
		answer, err := s.complete(ctx, attempt, systemPrompt, userPrompt)
		if err != nil {
			log.Printf("model %s failed: %v", attempt.Model, err)
			lastErr = err
			continue
		}
		return answer, attempt.Model, nil
	}

	return "", "", fmt.Errorf("all models failed: %w", lastErr)
}

// SimpleAnswer handles location-free questions with the cheapest model.
func (s *GroqService) SimpleAnswer(ctx context.Context, systemPrompt, userPrompt string) (string, string, error) {
	if s.client == nil {
		return offlineAnswer(userPrompt), "offline-heuristic", nil
	}

	answer, err := s.complete(ctx, s.simpleModel, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("model %s failed: %v", s.simpleModel.Model, err)
		return "", "", err
	}
	return answer, s.simpleModel.Model, nil
}

func (s *GroqService) complete(ctx context.Context, attempt modelAttempt, systemPrompt, userPrompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, attempt.Timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:       attempt.Model,
		MaxTokens:   attempt.MaxTokens,
		Temperature: attempt.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// offlineAnswer produces seasonal guidance when no model is reachable.
func offlineAnswer(query string) string {
	season := SeasonFor(time.Now())
	var sb strings.Builder
	sb.WriteString("The advisory model is currently unavailable, so here is seasonal guidance.\n")
	sb.WriteString(fmt.Sprintf("Current season: %s.\n", season.Season))
	sb.WriteString(fmt.Sprintf("1. Recommended crops now: %s.\n", strings.Join(season.Recommended, ", ")))
	sb.WriteString(fmt.Sprintf("2. Avoid sowing: %s.\n", strings.Join(season.Avoid, ", ")))
	sb.WriteString("3. Get a soil test before major fertilizer purchases.\n")
	if ShouldTriggerFertilizerPane(query) {
		sb.WriteString("4. Check the fertilizer advisory for dose and timing details.\n")
	}
	return sb.String()
}

var numberedLine = regexp.MustCompile(`^\d+\.\s*`)

// ExtractRecommendations pulls numbered or bulleted lines out of an
// answer, capped at five.
func ExtractRecommendations(answer string) []string {
	var recs []string
	for _, line := range strings.Split(answer, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case numberedLine.MatchString(trimmed):
			recs = append(recs, numberedLine.ReplaceAllString(trimmed, ""))
		case strings.HasPrefix(trimmed, "- "):
			recs = append(recs, strings.TrimPrefix(trimmed, "- "))
		case strings.HasPrefix(trimmed, "• "):
			recs = append(recs, strings.TrimPrefix(trimmed, "• "))
		}
	}
	if len(recs) > 5 {
		recs = recs[:5]
	}
	return recs
}

var fertilizerTriggerKeywords = []string{
	"plant", "crop", "recommend", "grow", "cultivate", "farming",
	"agriculture", "seed", "sow", "harvest", "fertilizer",
}

// ShouldTriggerFertilizerPane reports whether a question warrants the
// fertilizer advisory panel.
func ShouldTriggerFertilizerPane(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range fertilizerTriggerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var knownCrops = []string{
	"wheat", "rice", "mustard", "gram", "pea", "barley", "lentil",
	"chickpea", "tomato", "onion", "potato", "cotton", "sugarcane",
	"maize", "coconut", "rubber", "vanilla", "moringa",
}

// ExtractRecommendedCrops lists known crops mentioned in an answer,
// capped at three.
func ExtractRecommendedCrops(answer string) []string {
	lower := strings.ToLower(answer)
	var crops []string
	for _, crop := range knownCrops {
		if strings.Contains(lower, crop) {
			crops = append(crops, crop)
		}
	}
	if len(crops) > 3 {
		crops = crops[:3]
	}
	return crops
}
