package services

import (
	"time"

	"bhoomi-advisory-api/pkg/models"
)

// seasonEntry maps a month range to the cropping season. Entries are
// checked in order; September stands alone as the Kharif-Rabi transition.
type seasonEntry struct {
	FromMonth, ToMonth time.Month
	Info               models.SeasonInfo
}

var seasonTable = []seasonEntry{
	{time.September, time.September, models.SeasonInfo{
		Season:      "Post-Monsoon (Transition to Rabi)",
		Recommended: []string{"Wheat", "Mustard", "Gram", "Pea", "Barley", "Lentil", "Chickpea"},
		Avoid:       []string{"Rice", "Cotton", "Sugarcane", "Maize"},
	}},
	{time.October, time.December, models.SeasonInfo{
		Season:      "Rabi Season (Winter crops)",
		Recommended: []string{"Wheat", "Mustard", "Gram", "Pea", "Barley", "Potato", "Onion"},
		Avoid:       []string{"Rice", "Cotton", "Bajra"},
	}},
	{time.January, time.March, models.SeasonInfo{
		Season:      "Late Rabi (Harvest preparation)",
		Recommended: []string{"Fodder crops", "Green vegetables", "Summer pulses"},
		Avoid:       []string{"Most annual crops"},
	}},
	{time.April, time.May, models.SeasonInfo{
		Season:      "Zaid Season (Summer crops)",
		Recommended: []string{"Watermelon", "Muskmelon", "Cucumber", "Fodder crops"},
		Avoid:       []string{"Water-intensive crops without irrigation"},
	}},
	{time.June, time.August, models.SeasonInfo{
		Season:      "Kharif Season (Monsoon crops)",
		Recommended: []string{"Rice", "Cotton", "Sugarcane", "Maize", "Bajra", "Jowar"},
		Avoid:       []string{"Wheat", "Mustard", "Gram"},
	}},
}

// SeasonFor returns the cropping season for a point in time. Only the
// month matters.
func SeasonFor(t time.Time) models.SeasonInfo {
	month := t.Month()
	for _, e := range seasonTable {
		if month >= e.FromMonth && month <= e.ToMonth {
			return e.Info
		}
	}
	// Unreachable: the table covers all twelve months.
	return seasonTable[len(seasonTable)-1].Info
}

var agriculturalPhases = []struct {
	FromMonth, ToMonth time.Month
	Phase              string
}{
	{time.June, time.July, "Kharif Sowing Phase - Critical planting window"},
	{time.August, time.September, "Kharif Growth Phase - Focus on crop care"},
	{time.October, time.November, "Kharif Harvest & Rabi Preparation"},
	{time.December, time.December, "Rabi Growth Phase - Winter crop management"},
	{time.January, time.February, "Rabi Growth Phase - Winter crop management"},
	{time.March, time.April, "Rabi Harvest & Zaid Preparation"},
	{time.May, time.May, "Zaid Season - Summer crop cultivation"},
}

// AgriculturalPhase names the field operation phase for a month.
func AgriculturalPhase(month time.Month) string {
	for _, p := range agriculturalPhases {
		if month >= p.FromMonth && month <= p.ToMonth {
			return p.Phase
		}
	}
	return "Transitional Phase"
}

var seasonalActivities = map[time.Month]string{
	time.January:   "Rabi crop care, irrigation management, harvest preparation",
	time.February:  "Late Rabi management, summer crop planning, soil preparation",
	time.March:     "Rabi harvesting, field preparation for summer crops",
	time.April:     "Zaid sowing, summer crop establishment, irrigation setup",
	time.May:       "Summer crop care, heat management, water conservation",
	time.June:      "Monsoon preparation, Kharif field preparation, seed procurement",
	time.July:      "Kharif sowing, monsoon crop establishment, drainage management",
	time.August:    "Kharif crop care, pest monitoring, nutrient management",
	time.September: "Late Kharif care, disease management, harvest planning",
	time.October:   "Kharif harvesting, storage preparation, Rabi planning",
	time.November:  "Post-harvest activities, Rabi sowing, field preparation",
	time.December:  "Rabi establishment, winter crop care, irrigation scheduling",
}

// SeasonalActivity describes the typical farm activity for a month.
func SeasonalActivity(month time.Month) string {
	if a, ok := seasonalActivities[month]; ok {
		return a
	}
	return "General farming activities"
}

// MarketTiming summarizes market conditions for a month.
func MarketTiming(month time.Month) string {
	switch {
	case month >= time.October && month <= time.December:
		return "Post-harvest season - High market activity for Kharif crops"
	case month >= time.March && month <= time.May:
		return "Rabi harvest season - Good prices for winter crops"
	case month >= time.June && month <= time.September:
		return "Growing season - Plan for harvest marketing"
	default:
		return "Regular market conditions"
	}
}
