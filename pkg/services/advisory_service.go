package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	config "bhoomi-advisory-api/configs"
	"bhoomi-advisory-api/pkg/models"
)

// SupportedStates are the states with datasets behind the Q&A endpoint.
var SupportedStates = []string{"kerala", "karnataka", "jharkhand", "uttarpradesh"}

// IsSupportedState reports whether the Q&A endpoint covers a state.
func IsSupportedState(state string) bool {
	for _, s := range SupportedStates {
		if s == state {
			return true
		}
	}
	return false
}

var stateCapitals = map[string]string{
	"kerala":       "Thiruvananthapuram",
	"karnataka":    "Bengaluru",
	"jharkhand":    "Ranchi",
	"uttarpradesh": "Lucknow",
}

// AdvisoryService merges region, soil, season, weather and dataset facts
// into prompts and answers farmer questions through the LLM chain.
//
// Merge priority: dataset facts over heuristics, heuristics over defaults.
type AdvisoryService struct {
	region  *RegionService
	soil    *SoilService
	local   *LocalDataService
	weather *WeatherService
	groq    *GroqService
	prompt  *config.SystemPromptConfig
	now     func() time.Time
}

// NewAdvisoryService wires the full advisory pipeline. The system prompt
// config may be nil; a built-in prompt is used instead.
func NewAdvisoryService(region *RegionService, soil *SoilService, local *LocalDataService, weather *WeatherService, groq *GroqService, prompt *config.SystemPromptConfig) *AdvisoryService {
	return &AdvisoryService{
		region:  region,
		soil:    soil,
		local:   local,
		weather: weather,
		groq:    groq,
		prompt:  prompt,
		now:     time.Now,
	}
}

// AdvisoryContext is the merged evidence behind one answer.
type AdvisoryContext struct {
	Region  *models.RegionInfo
	Soil    *models.SoilData
	Season  models.SeasonInfo
	Weather *models.WeatherData
	Facts   string
}

// BuildContext resolves everything known about the query location. Every
// input is optional; missing pieces degrade to seasonal defaults.
func (s *AdvisoryService) BuildContext(ctx context.Context, q models.AIQuery) AdvisoryContext {
	now := s.now()
	merged := AdvisoryContext{Season: SeasonFor(now)}

	if q.Lat != nil && q.Lon != nil {
		region, soil := s.soil.EstimateByLocation(*q.Lat, *q.Lon, now)
		merged.Region = &region
		merged.Soil = &soil
	} else if q.State != "" {
		zone := s.region.ClimateZoneFor(q.State)
		if zone != "unknown" {
			region := models.RegionInfo{
				State:       q.State,
				District:    stateCapitals[q.State],
				ClimateZone: zone,
				Confidence:  0.6,
			}
			ph, category, confidence := s.soil.EstimatePH(q.State, region.District)
			soilType := SoilTypeFor(q.State, 0)
			merged.Region = &region
			merged.Soil = &models.SoilData{
				PH:            ph,
				PHCategory:    category,
				Moisture:      EstimateMoisture(zone, now.Month()),
				OrganicMatter: EstimateOrganicMatter(zone, soilType, ph),
				SoilType:      soilType,
				Confidence:    confidence,
				Source:        "state_default",
			}
		}
	}

	if crops := ExtractRecommendedCrops(q.Query); len(crops) > 0 {
		crop := crops[0]
		merged.Facts = s.local.Summary(crop,
			s.local.FindFertilizerFacts(crop, "", q.State),
			s.local.FindEconomicFacts(crop),
			s.local.FindPestFacts(crop))
	}

	if s.weather != nil {
		city := stateCapitals[q.State]
		if city == "" {
			city = "Ranchi"
		}
		if weather, err := s.weather.GetCurrentWeather(ctx, city); err == nil {
			merged.Weather = &weather
		}
	}

	return merged
}

// BuildPrompt renders the merged context into system and user prompts.
// Block order is fixed so identical inputs produce identical prompts.
func (s *AdvisoryService) BuildPrompt(q models.AIQuery, merged AdvisoryContext) (string, string) {
	systemPrompt := "You are Bhoomi, an agricultural advisor for Indian farmers. Be practical and concise."
	if s.prompt != nil {
		systemPrompt = s.prompt.BuildSystemPrompt()
	}

	now := s.now()
	var sb strings.Builder

	sb.WriteString("CURRENT CONTEXT:\n")
	sb.WriteString(fmt.Sprintf("- Date: %s\n", now.Format("2 January 2006")))
	sb.WriteString(fmt.Sprintf("- Agricultural phase: %s\n", AgriculturalPhase(now.Month())))
	sb.WriteString(fmt.Sprintf("- Seasonal activity: %s\n", SeasonalActivity(now.Month())))
	sb.WriteString(fmt.Sprintf("- Market timing: %s\n\n", MarketTiming(now.Month())))

	sb.WriteString(fmt.Sprintf("SEASON: %s\n", merged.Season.Season))
	sb.WriteString(fmt.Sprintf("- Recommended crops: %s\n", strings.Join(merged.Season.Recommended, ", ")))
	sb.WriteString(fmt.Sprintf("- Avoid sowing: %s\n\n", strings.Join(merged.Season.Avoid, ", ")))

	if merged.Region != nil && merged.Soil != nil {
		sb.WriteString(BuildSoilContext(*merged.Region, *merged.Soil))
		sb.WriteString("\n")
	}

	if merged.Weather != nil {
		sb.WriteString("WEATHER:\n")
		sb.WriteString(fmt.Sprintf("- %s: %.1f°C, humidity %d%%",
			merged.Weather.Location.Name, merged.Weather.Current.Temp, merged.Weather.Current.Humidity))
		if len(merged.Weather.Current.Weather) > 0 {
			sb.WriteString(", " + merged.Weather.Current.Weather[0].Description)
		}
		sb.WriteString("\n\n")
	}

	if merged.Facts != "" {
		sb.WriteString(merged.Facts)
		sb.WriteString("\n")
	}

	sb.WriteString("QUESTION: " + q.Query + "\n")
	sb.WriteString("Answer with numbered, actionable steps. Respect the season: never recommend the avoid-list crops for sowing now.")

	return systemPrompt, sb.String()
}

// Ask answers a farmer question with full context. Degraded inputs
// produce a seasonal heuristic answer; an LLM upstream outage is an
// error so callers never cache or serve a silently degraded response.
func (s *AdvisoryService) Ask(ctx context.Context, q models.AIQuery) (models.AIResponse, error) {
	if q.State == "" {
		q.State = "kerala"
	}

	if s.prompt != nil {
		if ok, canned := s.prompt.CheckSpecialCommand(q.Query); ok {
			return models.AIResponse{Answer: canned, ModelUsed: "canned"}, nil
		}
	}

	merged := s.BuildContext(ctx, q)
	systemPrompt, userPrompt := s.BuildPrompt(q, merged)

	var (
		answer, model string
		err           error
	)
	if q.Lat != nil && q.Lon != nil {
		answer, model, err = s.groq.Answer(ctx, systemPrompt, userPrompt)
	} else {
		answer, model, err = s.groq.SimpleAnswer(ctx, systemPrompt, userPrompt)
	}
	if err != nil {
		return models.AIResponse{}, fmt.Errorf("advisory answer failed: %w", err)
	}

	resp := models.AIResponse{
		Answer:            answer,
		Recommendations:   ExtractRecommendations(answer),
		RecommendedCrops:  ExtractRecommendedCrops(answer),
		Season:            &merged.Season,
		Region:            merged.Region,
		Soil:              merged.Soil,
		ModelUsed:         model,
		WeatherConsidered: merged.Weather != nil,
	}

	if ShouldTriggerFertilizerPane(q.Query) {
		resp.ShowFertilizerAdvice = true
		if len(resp.RecommendedCrops) > 0 {
			crop := resp.RecommendedCrops[0]
			resp.FertilizerContext = s.local.Summary(crop,
				s.local.FindFertilizerFacts(crop, "", q.State),
				s.local.FindEconomicFacts(crop),
				s.local.FindPestFacts(crop))
		}
	}

	return resp, nil
}

var quickAdvicePrompts = map[string]string{
	"crop-recommendation": "Which crops should a farmer in %s sow right now? Give five options with one-line reasons.",
	"pest-control":        "List the most important pest control measures for farmers in %s this month, preferring natural pesticides and IPM.",
	"weather-advice":      "What weather-driven precautions should farmers in %s take this week?",
	"soil-health":         "How can farmers in %s improve soil health this season? Include organic matter and pH management.",
}

// QuickAdviceTypes lists the supported quick-advice categories.
func QuickAdviceTypes() []string {
	return []string{"crop-recommendation", "pest-control", "weather-advice", "soil-health"}
}

// ErrUnknownAdviceType marks a quick-advice request for a category the
// service does not template.
var ErrUnknownAdviceType = errors.New("unsupported advice type")

// QuickAdvice answers a templated question for a state.
func (s *AdvisoryService) QuickAdvice(ctx context.Context, adviceType, state string) (models.AIResponse, error) {
	tmpl, ok := quickAdvicePrompts[adviceType]
	if !ok {
		return models.AIResponse{}, fmt.Errorf("%w: %s", ErrUnknownAdviceType, adviceType)
	}

	q := models.AIQuery{Query: fmt.Sprintf(tmpl, state), State: state}
	return s.Ask(ctx, q)
}
