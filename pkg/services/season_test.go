package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeasonForSeptemberTransition(t *testing.T) {
	for _, year := range []int{2023, 2025, 2031} {
		info := SeasonFor(time.Date(year, time.September, 15, 0, 0, 0, 0, time.UTC))
		assert.Equal(t, "Post-Monsoon (Transition to Rabi)", info.Season, "year %d", year)
		assert.Contains(t, info.Recommended, "Wheat")
		assert.Contains(t, info.Avoid, "Rice")
		assert.NotContains(t, info.Recommended, "Rice")
	}
}

func TestSeasonForCoversAllMonths(t *testing.T) {
	expected := map[time.Month]string{
		time.January:   "Late Rabi (Harvest preparation)",
		time.February:  "Late Rabi (Harvest preparation)",
		time.March:     "Late Rabi (Harvest preparation)",
		time.April:     "Zaid Season (Summer crops)",
		time.May:       "Zaid Season (Summer crops)",
		time.June:      "Kharif Season (Monsoon crops)",
		time.July:      "Kharif Season (Monsoon crops)",
		time.August:    "Kharif Season (Monsoon crops)",
		time.September: "Post-Monsoon (Transition to Rabi)",
		time.October:   "Rabi Season (Winter crops)",
		time.November:  "Rabi Season (Winter crops)",
		time.December:  "Rabi Season (Winter crops)",
	}

	for month, season := range expected {
		info := SeasonFor(time.Date(2026, month, 1, 12, 0, 0, 0, time.UTC))
		assert.Equal(t, season, info.Season, "month %v", month)
		assert.NotEmpty(t, info.Recommended, "month %v", month)
		assert.NotEmpty(t, info.Avoid, "month %v", month)
	}
}

func TestKharifRecommendsRice(t *testing.T) {
	info := SeasonFor(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, info.Recommended, "Rice")
	assert.Contains(t, info.Avoid, "Wheat")
}

func TestAgriculturalPhase(t *testing.T) {
	assert.Equal(t, "Kharif Sowing Phase - Critical planting window", AgriculturalPhase(time.June))
	assert.Equal(t, "Rabi Growth Phase - Winter crop management", AgriculturalPhase(time.January))
	assert.Equal(t, "Rabi Growth Phase - Winter crop management", AgriculturalPhase(time.December))
	assert.Equal(t, "Zaid Season - Summer crop cultivation", AgriculturalPhase(time.May))
}

func TestSeasonalActivityAndMarketTiming(t *testing.T) {
	assert.Contains(t, SeasonalActivity(time.July), "Kharif sowing")
	assert.Contains(t, MarketTiming(time.November), "Post-harvest")
	assert.Contains(t, MarketTiming(time.April), "Rabi harvest")
	assert.Equal(t, "Regular market conditions", MarketTiming(time.January))
}
