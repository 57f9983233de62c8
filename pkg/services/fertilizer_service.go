package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"bhoomi-advisory-api/pkg/models"
)

const (
	cacheTTL        = 24 * time.Hour
	cacheMaxEntries = 1000
	rateLimit       = 10
	rateWindow      = time.Hour
	rateMaxBuckets  = 10000
)

// responseCache holds rendered advisories keyed by query. Expired entries
// are purged whenever the map outgrows its bound.
type responseCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	max     int
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value    models.FertilizerResponse
	storedAt time.Time
}

func newResponseCache(ttl time.Duration, max int, now func() time.Time) *responseCache {
	return &responseCache{
		ttl:     ttl,
		max:     max,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *responseCache) Get(key string) (models.FertilizerResponse, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(entry.storedAt) > c.ttl {
		return models.FertilizerResponse{}, false
	}
	return entry.value, true
}

func (c *responseCache) Set(key string, value models.FertilizerResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.max {
		cutoff := c.now().Add(-c.ttl)
		for k, e := range c.entries {
			if e.storedAt.Before(cutoff) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
}

// rateLimiter enforces a sliding-window request budget per client IP.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	now    func() time.Time
	hits   map[string][]time.Time
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		window: window,
		now:    now,
		hits:   make(map[string][]time.Time),
	}
}

// Allow records a request for ip. When the window budget is exhausted it
// returns false and the seconds until the oldest request expires.
func (l *rateLimiter) Allow(ip string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.hits[ip][:0]
	for _, t := range l.hits[ip] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[ip] = recent
		retryAfter := int(math.Ceil(recent[0].Add(l.window).Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	l.hits[ip] = append(recent, now)

	if len(l.hits) > rateMaxBuckets {
		for k, ts := range l.hits {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(l.hits, k)
			}
		}
	}

	return true, 0
}

// FertilizerService produces fertilizer advisories from the local
// knowledge base, with caching and per-IP rate limiting in front.
type FertilizerService struct {
	local   *LocalDataService
	groq    *GroqService
	cache   *responseCache
	limiter *rateLimiter
	now     func() time.Time
}

// NewFertilizerService wires the advisory pipeline with the production
// clock.
func NewFertilizerService(local *LocalDataService, groq *GroqService) *FertilizerService {
	return NewFertilizerServiceWithClock(local, groq, time.Now)
}

// NewFertilizerServiceWithClock injects the clock, used by TTL and
// rate-window tests.
func NewFertilizerServiceWithClock(local *LocalDataService, groq *GroqService, now func() time.Time) *FertilizerService {
	return &FertilizerService{
		local:   local,
		groq:    groq,
		cache:   newResponseCache(cacheTTL, cacheMaxEntries, now),
		limiter: newRateLimiter(rateLimit, rateWindow, now),
		now:     now,
	}
}

// RateLimitError reports an exhausted request budget.
type RateLimitError struct {
	RetryAfter int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %ds", e.RetryAfter)
}

// CacheKey normalizes an advisory query into its cache key. An expected
// yield extends the key so POST variants cache independently of GET.
func CacheKey(location, crop, soil, expectedYield string) string {
	key := fmt.Sprintf("%s-%s-%s", location, crop, soil)
	if expectedYield != "" {
		key = fmt.Sprintf("%s-%s", key, expectedYield)
	}
	return strings.ToLower(key)
}

// Advise returns a fertilizer advisory for the query, serving from cache
// when fresh. The boolean reports a cache hit; a *RateLimitError means the
// client must back off.
func (s *FertilizerService) Advise(ctx context.Context, clientIP, location, crop, soil, expectedYield string) (models.FertilizerResponse, bool, error) {
	if ok, retryAfter := s.limiter.Allow(clientIP); !ok {
		return models.FertilizerResponse{}, false, &RateLimitError{RetryAfter: retryAfter}
	}

	key := CacheKey(location, crop, soil, expectedYield)
	if resp, ok := s.cache.Get(key); ok {
		return resp, true, nil
	}

	resp, err := s.build(ctx, location, crop, soil, expectedYield)
	if err != nil {
		return models.FertilizerResponse{}, false, err
	}
	s.cache.Set(key, resp)
	return resp, false, nil
}

func (s *FertilizerService) build(ctx context.Context, location, crop, soil, expectedYield string) (models.FertilizerResponse, error) {
	fertilizers := s.local.FindFertilizerFacts(crop, soil, location)
	economics := s.local.FindEconomicFacts(crop)
	pests := s.local.FindPestFacts(crop)

	summary, err := s.summarize(ctx, crop, location, expectedYield, fertilizers, economics, pests)
	if err != nil {
		return models.FertilizerResponse{}, fmt.Errorf("fertilizer summary failed: %w", err)
	}

	actions := ToActions(fertilizers)
	actions = appendHeuristicActions(actions, crop)

	resp := models.FertilizerResponse{
		Title:            fmt.Sprintf("Fertilizer plan for %s in %s", capitalize(crop), location),
		Summary:          summary,
		Actions:          actions,
		PestInteractions: pestInteractions(pests),
		Suppliers:        suppliersFor(economics),
		ConfidenceScore:  confidenceScore(fertilizers, economics, pests),
		Citations:        citationsFor(fertilizers),
	}
	return resp, nil
}

func (s *FertilizerService) summarize(ctx context.Context, crop, location, expectedYield string, fertilizers []models.FertilizerRecord, economics []models.EconomicRecord, pests []models.PestRecord) (string, error) {
	facts := s.local.Summary(crop, fertilizers, economics, pests)

	prompt := fmt.Sprintf("Summarize a fertilizer plan for %s grown near %s in three sentences for a farmer.\n%s", crop, location, facts)
	if expectedYield != "" && expectedYield != "unknown" {
		prompt += fmt.Sprintf("\nThe farmer targets a yield of %s.", expectedYield)
	}

	summary, model, err := s.groq.SimpleAnswer(ctx, "You are an agronomy assistant. Be concrete and brief.", prompt)
	if err != nil {
		return "", err
	}
	if model == "offline-heuristic" {
		return facts, nil
	}
	return summary, nil
}

// Heuristic doses used when the dataset yields fewer than three steps.
var heuristicActions = []models.FertilizerAction{
	{
		Step:        "Basal Application",
		AmountPerHa: "200-250 kg NPK 10:26:26",
		Timing:      "At sowing or transplanting",
		Source:      "General agronomy guideline",
	},
	{
		Step:        "Top Dressing",
		AmountPerHa: "100-150 kg Urea",
		Timing:      "30-40 days after sowing",
		Source:      "General agronomy guideline",
	},
}

func appendHeuristicActions(actions []models.FertilizerAction, crop string) []models.FertilizerAction {
	for _, h := range heuristicActions {
		if len(actions) >= 3 {
			break
		}
		h.Step = fmt.Sprintf("%s for %s", h.Step, crop)
		actions = append(actions, h)
	}
	return actions
}

func pestInteractions(pests []models.PestRecord) string {
	if len(pests) == 0 {
		return "No pest interactions recorded for this crop."
	}
	var parts []string
	for _, p := range pests {
		parts = append(parts, fmt.Sprintf("%s (%s impact): use %s", p.Pest, strings.ToLower(p.EconomicImpact), p.NaturalPesticides))
	}
	return strings.Join(parts, "; ")
}

func suppliersFor(economics []models.EconomicRecord) []models.Supplier {
	suppliers := []models.Supplier{
		{Name: "IFFCO", Coverage: "Pan-India cooperative network"},
		{Name: "Coromandel International", Coverage: "Dealer network across eastern India"},
	}
	for _, e := range economics {
		if e.PrimaryDistricts != "" {
			suppliers = append(suppliers, models.Supplier{
				Name:     "Local agri-input dealers",
				Coverage: e.PrimaryDistricts,
				Notes:    fmt.Sprintf("Active markets for %s", e.Crop),
			})
			break
		}
	}
	return suppliers
}

// confidenceScore starts from the heuristic base and grows with each kind
// of dataset evidence, capped at 1.0.
func confidenceScore(fertilizers []models.FertilizerRecord, economics []models.EconomicRecord, pests []models.PestRecord) float64 {
	score := 0.85
	if len(fertilizers) > 0 {
		score += 0.10
	}
	if len(economics) > 0 {
		score += 0.03
	}
	if len(pests) > 0 {
		score += 0.02
	}
	return math.Min(score, 1.0)
}

func citationsFor(fertilizers []models.FertilizerRecord) []string {
	seen := make(map[string]struct{})
	citations := []string{"Jharkhand fertilizer trial dataset"}
	for _, r := range fertilizers {
		if r.Source == "" {
			continue
		}
		if _, ok := seen[r.Source]; ok {
			continue
		}
		seen[r.Source] = struct{}{}
		citations = append(citations, r.Source)
	}
	return citations
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ComparePrices restates dataset economics for a price comparison request.
func (s *FertilizerService) ComparePrices(crop string) []models.FertilizerRecord {
	return s.local.FindFertilizerFacts(crop, "", "")
}
