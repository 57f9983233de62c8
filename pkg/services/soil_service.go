package services

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"bhoomi-advisory-api/pkg/models"
)

// SoilService estimates soil properties from district pH datasets and
// climate heuristics. Estimates are advisory, not survey measurements.
type SoilService struct {
	region   *RegionService
	dataRoot string

	mu     sync.RWMutex
	loaded bool
	phData map[string][]phRecord
}

type phRecord struct {
	District string
	PH       float64
	Category string
}

// phEstimate is a district pH lookup result.
type phEstimate struct {
	PH         float64
	Category   string
	Confidence float64
}

var phDatasetFiles = map[string]string{
	"kerala":       "kerala_dataset/kerala_district_soil_ph_estimates.csv",
	"karnataka":    "karnataka_dataset/karnataka_district_soil_ph_estimates.csv",
	"uttarpradesh": "uttarpradesh_dataset/uttarpradesh_district_soil_ph_estimates.csv",
	"jharkhand":    "jharkhand_dataset/jharkhand_district_soil_ph_estimates.csv",
}

// Moisture base per climate zone, in percent.
var moistureBase = map[string]float64{
	"tropical_coastal":        60,
	"tropical_dry":            35,
	"subtropical_continental": 30,
	"subtropical_humid":       45,
}

const moistureDefault = 40

// monsoonDelta adjusts moisture by month: monsoon gain, pre-monsoon loss,
// winter residual.
type seasonDelta struct {
	FromMonth, ToMonth time.Month
	Delta              float64
}

var moistureSeasonDeltas = []seasonDelta{
	{time.June, time.September, 20},
	{time.March, time.May, -15},
}

const moistureWinterDelta = 5

var organicZoneDelta = map[string]float64{
	"tropical_coastal":        0.8,
	"subtropical_continental": -0.5,
}

var organicSoilDelta = map[string]float64{
	"Alluvial": 1.0,
	"Laterite": -0.5,
}

var soilTypeByState = map[string]string{
	"kerala":       "Laterite",
	"uttarpradesh": "Alluvial",
	"jharkhand":    "Red Soil",
}

// NewSoilService creates a soil estimation service reading pH datasets
// from dataRoot.
func NewSoilService(region *RegionService, dataRoot string) *SoilService {
	return &SoilService{
		region:   region,
		dataRoot: dataRoot,
		phData:   make(map[string][]phRecord),
	}
}

// Load reads the per-state pH datasets. Missing files are logged and
// skipped; calling Load twice is a no-op.
func (s *SoilService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}

	for state, rel := range phDatasetFiles {
		path := filepath.Join(s.dataRoot, rel)
		rows, err := readTable(path)
		if err != nil {
			log.Printf("soil pH data not found for %s: %v", state, err)
			continue
		}

		var records []phRecord
		for i, row := range rows {
			if i == 0 {
				continue // header
			}
			district := cell(row, 0)
			if district == "" {
				continue
			}
			ph, err := strconv.ParseFloat(cell(row, 1), 64)
			if err != nil {
				ph = 6.5
			}
			category := cell(row, 2)
			if category == "" {
				category = CategorizePH(ph)
			}
			records = append(records, phRecord{District: district, PH: ph, Category: category})
		}
		s.phData[state] = records
	}
	s.loaded = true
}

// EstimateByLocation builds a full soil profile for coordinates.
func (s *SoilService) EstimateByLocation(lat, lon float64, now time.Time) (models.RegionInfo, models.SoilData) {
	s.Load()

	region := s.region.Resolve(lat, lon)
	ph := s.estimatePH(region.State, region.District)
	moisture := EstimateMoisture(region.ClimateZone, now.Month())
	soilType := SoilTypeFor(region.State, lat)
	organic := EstimateOrganicMatter(region.ClimateZone, soilType, ph.PH)

	return region, models.SoilData{
		PH:            ph.PH,
		PHCategory:    ph.Category,
		Moisture:      moisture,
		OrganicMatter: organic,
		SoilType:      soilType,
		Confidence:    ph.Confidence,
		Source:        "district_ph_dataset",
	}
}

// EstimatePH looks up the district pH with substring and state-average
// fallbacks. Unknown districts in unknown states report neutral 6.5.
func (s *SoilService) EstimatePH(state, district string) (float64, string, float64) {
	s.Load()
	e := s.estimatePH(state, district)
	return e.PH, e.Category, e.Confidence
}

func (s *SoilService) estimatePH(state, district string) phEstimate {
	s.mu.RLock()
	records := s.phData[state]
	s.mu.RUnlock()

	lower := strings.ToLower(district)

	for _, r := range records {
		if strings.ToLower(r.District) == lower {
			return phEstimate{PH: r.PH, Category: r.Category, Confidence: 0.9}
		}
	}

	for _, r := range records {
		rd := strings.ToLower(r.District)
		if strings.Contains(rd, lower) || strings.Contains(lower, rd) {
			return phEstimate{PH: r.PH, Category: r.Category, Confidence: 0.9}
		}
	}

	if len(records) > 0 {
		sum := 0.0
		for _, r := range records {
			sum += r.PH
		}
		avg := sum / float64(len(records))
		return phEstimate{PH: avg, Category: CategorizePH(avg), Confidence: 0.9}
	}

	return phEstimate{PH: 6.5, Category: "neutral", Confidence: 0.6}
}

// CategorizePH maps a pH value to its agronomic category.
func CategorizePH(ph float64) string {
	switch {
	case ph < 5.5:
		return "strongly_acidic"
	case ph < 6.0:
		return "moderately_acidic"
	case ph < 6.5:
		return "slightly_acidic"
	case ph < 7.5:
		return "neutral"
	case ph < 8.5:
		return "slightly_alkaline"
	default:
		return "alkaline"
	}
}

// EstimateMoisture estimates soil moisture percent for a climate zone and
// month, clamped to [10, 90].
func EstimateMoisture(climateZone string, month time.Month) float64 {
	moisture, ok := moistureBase[climateZone]
	if !ok {
		moisture = moistureDefault
	}

	adjusted := false
	for _, d := range moistureSeasonDeltas {
		if month >= d.FromMonth && month <= d.ToMonth {
			moisture += d.Delta
			adjusted = true
			break
		}
	}
	if !adjusted {
		moisture += moistureWinterDelta
	}

	return math.Max(10, math.Min(90, moisture))
}

// SoilTypeFor returns the dominant soil type for a state. Karnataka splits
// at 15°N between red and black soils.
func SoilTypeFor(state string, lat float64) string {
	if state == "karnataka" {
		if lat < 15 {
			return "Red Soil"
		}
		return "Black Soil"
	}
	if t, ok := soilTypeByState[state]; ok {
		return t
	}
	return "Mixed"
}

// EstimateOrganicMatter estimates organic matter percent, clamped to
// [1.0, 6.0].
func EstimateOrganicMatter(climateZone, soilType string, ph float64) float64 {
	organic := 2.5
	organic += organicZoneDelta[climateZone]
	organic += organicSoilDelta[soilType]

	if ph < 6.0 {
		organic -= 0.3
	} else if ph > 7.5 {
		organic -= 0.2
	}

	return math.Max(1.0, math.Min(6.0, organic))
}

// Recommendations builds threshold-driven soil management advice.
func Recommendations(soil models.SoilData) []string {
	var recs []string

	switch {
	case soil.PH < 6.0:
		recs = append(recs,
			"Apply lime to increase soil pH for better nutrient availability",
			"Consider acid-tolerant crop varieties")
	case soil.PH > 8.0:
		recs = append(recs,
			"Add organic matter or sulfur to lower soil pH",
			"Use gypsum for alkaline soil improvement")
	default:
		recs = append(recs, "Soil pH is optimal for most crops")
	}

	switch {
	case soil.Moisture < 25:
		recs = append(recs,
			"Implement drip irrigation or mulching to conserve moisture",
			"Consider drought-resistant crop varieties")
	case soil.Moisture > 75:
		recs = append(recs,
			"Ensure proper drainage to prevent waterlogging",
			"Monitor for fungal diseases in high moisture conditions")
	default:
		recs = append(recs, "Soil moisture levels are good for most crops")
	}

	if soil.OrganicMatter < 2.0 {
		recs = append(recs,
			"Increase organic matter with compost or farmyard manure",
			"Practice crop rotation with legumes to improve soil fertility")
	} else if soil.OrganicMatter > 4.0 {
		recs = append(recs, "Excellent organic matter content - maintain with regular additions")
	}

	if note, ok := soilTypeNotes[soil.SoilType]; ok {
		recs = append(recs, note)
	}

	return recs
}

var soilTypeNotes = map[string]string{
	"Laterite":   "Laterite soil: Focus on water retention and organic matter addition",
	"Alluvial":   "Alluvial soil: Excellent for most crops, maintain fertility with balanced nutrition",
	"Red Soil":   "Red soil: Good drainage but may need phosphorus supplementation",
	"Black Soil": "Black soil: Excellent water retention, suitable for cotton and cereals",
}

// BuildSoilContext renders the soil profile for the LLM prompt.
func BuildSoilContext(region models.RegionInfo, soil models.SoilData) string {
	var sb strings.Builder
	sb.WriteString("SOIL INTELLIGENCE:\n")
	sb.WriteString(fmt.Sprintf("- Location: %s, %s (%s)\n", region.District, region.State, region.ClimateZone))
	sb.WriteString(fmt.Sprintf("- Soil pH: %.1f (%s)\n", soil.PH, soil.PHCategory))
	sb.WriteString(fmt.Sprintf("- Soil type: %s\n", soil.SoilType))
	sb.WriteString(fmt.Sprintf("- Moisture estimate: %.0f%%\n", soil.Moisture))
	sb.WriteString(fmt.Sprintf("- Organic matter: %.1f%%\n", soil.OrganicMatter))
	sb.WriteString(fmt.Sprintf("- Estimate confidence: %.0f%%\n", soil.Confidence*100))
	for _, rec := range Recommendations(soil) {
		sb.WriteString(fmt.Sprintf("- Advice: %s\n", rec))
	}
	return sb.String()
}
