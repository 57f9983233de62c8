package services

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"bhoomi-advisory-api/pkg/models"
)

// LocalDataService is the offline knowledge base: regional fertilizer
// trials, crop economics and pest control facts loaded from flat files.
type LocalDataService struct {
	dataRoot string

	mu          sync.RWMutex
	loaded      bool
	fertilizers []models.FertilizerRecord
	economics   []models.EconomicRecord
	pests       []models.PestRecord
}

const (
	fertilizerFile = "jharkhand_dataset/fertilizers_jharkhand.tsv"
	economicFile   = "jharkhand_dataset/jharkhand_crops_economic_importance.csv"
	pestFile       = "jharkhand_dataset/jharkhand_pests_natural_pesticides.csv"
)

// NewLocalDataService creates the knowledge base rooted at dataRoot.
func NewLocalDataService(dataRoot string) *LocalDataService {
	return &LocalDataService{dataRoot: dataRoot}
}

// Load reads the dataset files once. Missing files are logged and leave
// the corresponding slice empty; a second call is a no-op.
func (s *LocalDataService) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loaded = true

	if rows, err := readTable(filepath.Join(s.dataRoot, fertilizerFile)); err != nil {
		log.Printf("fertilizer dataset unavailable: %v", err)
	} else {
		for i, row := range rows {
			if i == 0 {
				continue
			}
			s.fertilizers = append(s.fertilizers, models.FertilizerRecord{
				Region:         cell(row, 0),
				SoilType:       cell(row, 1),
				Crop:           cell(row, 2),
				Yield:          parseFloatOrZero(cell(row, 3)),
				YieldUnit:      cell(row, 4),
				PricePerKg:     parseFloatOrZero(cell(row, 5)),
				GrossIncome:    parseFloatOrZero(cell(row, 6)),
				Recommendation: cell(row, 7),
				Notes:          cell(row, 8),
				Source:         cell(row, 9),
			})
		}
	}

	if rows, err := readTable(filepath.Join(s.dataRoot, economicFile)); err != nil {
		log.Printf("economic dataset unavailable: %v", err)
	} else {
		for i, row := range rows {
			if i == 0 {
				continue
			}
			s.economics = append(s.economics, models.EconomicRecord{
				Crop:               cell(row, 0),
				Category:           cell(row, 1),
				EconomicImportance: cell(row, 2),
				PrimaryDistricts:   cell(row, 3),
				Notes:              cell(row, 4),
				Source:             cell(row, 5),
			})
		}
	}

	if rows, err := readTable(filepath.Join(s.dataRoot, pestFile)); err != nil {
		log.Printf("pest dataset unavailable: %v", err)
	} else {
		for i, row := range rows {
			if i == 0 {
				continue
			}
			s.pests = append(s.pests, models.PestRecord{
				Pest:              cell(row, 0),
				CropAffected:      cell(row, 1),
				EconomicImpact:    cell(row, 2),
				NaturalPesticides: cell(row, 3),
				Notes:             cell(row, 4),
			})
		}
	}

	log.Printf("knowledge base loaded: %d fertilizer, %d economic, %d pest records",
		len(s.fertilizers), len(s.economics), len(s.pests))
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}

// cropMatches reports whether a stored crop name and a query refer to the
// same crop, by case-insensitive substring in either direction.
func cropMatches(stored, query string) bool {
	a := strings.ToLower(strings.TrimSpace(stored))
	b := strings.ToLower(strings.TrimSpace(query))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// FindFertilizerFacts returns dataset rows matching the crop, optionally
// narrowed by soil type and location. A soil type of "mixed" or "" matches
// everything.
func (s *LocalDataService) FindFertilizerFacts(crop, soilType, location string) []models.FertilizerRecord {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	soil := strings.ToLower(strings.TrimSpace(soilType))
	loc := strings.ToLower(strings.TrimSpace(location))

	var matches []models.FertilizerRecord
	for _, r := range s.fertilizers {
		if !cropMatches(r.Crop, crop) {
			continue
		}
		if soil != "" && soil != "mixed" && !strings.Contains(strings.ToLower(r.SoilType), soil) {
			continue
		}
		if loc != "" && !regionMatches(r.Region, loc) {
			continue
		}
		matches = append(matches, r)
	}
	return matches
}

func regionMatches(region, location string) bool {
	if strings.Contains(location, "jharkhand") {
		return true
	}
	return strings.Contains(strings.ToLower(region), location)
}

// FindEconomicFacts returns economic importance rows for a crop.
func (s *LocalDataService) FindEconomicFacts(crop string) []models.EconomicRecord {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.EconomicRecord
	for _, r := range s.economics {
		if cropMatches(r.Crop, crop) {
			matches = append(matches, r)
		}
	}
	return matches
}

// FindPestFacts returns pest rows whose affected crops include the crop.
func (s *LocalDataService) FindPestFacts(crop string) []models.PestRecord {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []models.PestRecord
	for _, r := range s.pests {
		if cropMatches(r.CropAffected, crop) {
			matches = append(matches, r)
		}
	}
	return matches
}

// ToActions converts dataset rows into actionable fertilizer steps.
// Yields recorded in kg/ha are restated in quintals.
func ToActions(records []models.FertilizerRecord) []models.FertilizerAction {
	var actions []models.FertilizerAction
	for _, r := range records {
		yieldExpected := ""
		if r.Yield > 0 {
			if strings.EqualFold(r.YieldUnit, "kg/ha") {
				quintals := math.Round(r.Yield / 100)
				yieldExpected = fmt.Sprintf("%.0f quintals/ha", quintals)
			} else {
				yieldExpected = fmt.Sprintf("%.0f %s", r.Yield, r.YieldUnit)
			}
		}

		grossIncome := ""
		if r.GrossIncome > 0 {
			grossIncome = fmt.Sprintf("Rs %.0f/ha", r.GrossIncome)
		}

		actions = append(actions, models.FertilizerAction{
			Step:          fmt.Sprintf("Apply recommended dose for %s (%s)", r.Crop, r.SoilType),
			AmountPerHa:   r.Recommendation,
			Timing:        r.Notes,
			Source:        r.Source,
			YieldExpected: yieldExpected,
			GrossIncome:   grossIncome,
		})
	}
	return actions
}

// Summary builds a knowledge-base paragraph for prompts and responses.
func (s *LocalDataService) Summary(crop string, fertilizers []models.FertilizerRecord, economics []models.EconomicRecord, pests []models.PestRecord) string {
	if len(fertilizers) == 0 && len(economics) == 0 && len(pests) == 0 {
		return fmt.Sprintf("No local dataset facts found for %s.", crop)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("LOCAL DATASET FACTS for %s:\n", crop))
	for _, r := range fertilizers {
		sb.WriteString(fmt.Sprintf("- %s on %s (%s): %s", r.Crop, r.SoilType, r.Region, r.Recommendation))
		if r.Yield > 0 {
			sb.WriteString(fmt.Sprintf(" [yield %.0f %s]", r.Yield, r.YieldUnit))
		}
		sb.WriteString("\n")
	}
	for _, r := range economics {
		sb.WriteString(fmt.Sprintf("- Economics: %s is of %s importance in %s\n", r.Crop, r.EconomicImportance, r.PrimaryDistricts))
	}
	for _, r := range pests {
		sb.WriteString(fmt.Sprintf("- Pest: %s affects %s; control with %s\n", r.Pest, r.CropAffected, r.NaturalPesticides))
	}
	return sb.String()
}

// Stats reports dataset sizes and distinct values.
func (s *LocalDataService) Stats() models.DatasetStats {
	s.Load()
	s.mu.RLock()
	defer s.mu.RUnlock()

	crops := make(map[string]struct{})
	soils := make(map[string]struct{})
	pests := make(map[string]struct{})

	for _, r := range s.fertilizers {
		if r.Crop != "" {
			crops[r.Crop] = struct{}{}
		}
		if r.SoilType != "" {
			soils[r.SoilType] = struct{}{}
		}
	}
	for _, r := range s.economics {
		if r.Crop != "" {
			crops[r.Crop] = struct{}{}
		}
	}
	for _, r := range s.pests {
		if r.Pest != "" {
			pests[r.Pest] = struct{}{}
		}
	}

	return models.DatasetStats{
		FertilizerRecords: len(s.fertilizers),
		EconomicRecords:   len(s.economics),
		PestRecords:       len(s.pests),
		AvailableCrops:    sortedKeys(crops),
		AvailableSoils:    sortedKeys(soils),
		KnownPests:        sortedKeys(pests),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
