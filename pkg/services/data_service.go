package services

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"bhoomi-advisory-api/pkg/models"
)

// DataService serves the per-state crop, pest and soil moisture datasets
// behind the /api/data routes, cached per state after first load.
type DataService struct {
	dataRoot string

	mu    sync.RWMutex
	cache map[string]models.StateDataset
}

// NewDataService creates the dataset service rooted at dataRoot.
func NewDataService(dataRoot string) *DataService {
	return &DataService{
		dataRoot: dataRoot,
		cache:    make(map[string]models.StateDataset),
	}
}

var stateNameAliases = map[string]string{
	"kerala":        "kerala",
	"karnataka":     "karnataka",
	"jharkhand":     "jharkhand",
	"uttarpradesh":  "uttarpradesh",
	"uttar pradesh": "uttarpradesh",
	"up":            "uttarpradesh",
}

// NormalizeState canonicalizes a state name, or returns "" when the
// state is unsupported.
func NormalizeState(state string) string {
	return stateNameAliases[strings.ToLower(strings.TrimSpace(state))]
}

// GetDataset loads (or returns the cached) dataset for a state.
func (s *DataService) GetDataset(state string) (models.StateDataset, error) {
	normalized := NormalizeState(state)
	if normalized == "" {
		return models.StateDataset{}, fmt.Errorf("unsupported state: %s", state)
	}

	cacheKey := "dataset_" + normalized

	s.mu.RLock()
	cachedSet, ok := s.cache[cacheKey]
	s.mu.RUnlock()
	if ok {
		return cachedSet, nil
	}

	dataset := models.StateDataset{State: normalized, LoadedAt: time.Now()}
	dir := filepath.Join(s.dataRoot, normalized+"_dataset")

	if rows, err := readTable(filepath.Join(dir, normalized+"_crop_calendar.csv")); err != nil {
		log.Printf("crop dataset unavailable for %s: %v", normalized, err)
	} else {
		for i, row := range rows {
			if i == 0 {
				continue
			}
			dataset.Crops = append(dataset.Crops, models.CropData{
				Crop:               cell(row, 0),
				Category:           cell(row, 1),
				EconomicImportance: cell(row, 2),
				Season:             cell(row, 3),
				SoilType:           cell(row, 4),
				Notes:              cell(row, 5),
			})
		}
	}

	if rows, err := readTable(filepath.Join(dir, normalized+"_pests_natural_pesticides.csv")); err != nil {
		log.Printf("pest dataset unavailable for %s: %v", normalized, err)
	} else {
		for i, row := range rows {
			if i == 0 {
				continue
			}
			dataset.Pests = append(dataset.Pests, models.PestRecord{
				Pest:              cell(row, 0),
				CropAffected:      cell(row, 1),
				EconomicImpact:    cell(row, 2),
				NaturalPesticides: cell(row, 3),
				Notes:             cell(row, 4),
			})
		}
	}

	if rows, err := readTable(filepath.Join(dir, normalized+"_soil_moisture.csv")); err != nil {
		log.Printf("soil moisture dataset unavailable for %s: %v", normalized, err)
	} else {
		for i, row := range rows {
			if i == 0 {
				continue
			}
			if note := strings.Join(row, " | "); strings.TrimSpace(note) != "" {
				dataset.SoilMoisture = append(dataset.SoilMoisture, note)
			}
		}
	}

	if len(dataset.Crops) == 0 && len(dataset.Pests) == 0 && len(dataset.SoilMoisture) == 0 {
		return dataset, fmt.Errorf("no dataset files found for %s", normalized)
	}

	s.mu.Lock()
	s.cache[cacheKey] = dataset
	s.mu.Unlock()
	return dataset, nil
}

// SearchCrops filters a state's crops by substring across crop name,
// category and notes, optionally restricted to an importance level.
func (s *DataService) SearchCrops(state, search, importance string) ([]models.CropData, error) {
	dataset, err := s.GetDataset(state)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(search)
	var matches []models.CropData
	for _, c := range dataset.Crops {
		if query != "" &&
			!strings.Contains(strings.ToLower(c.Crop), query) &&
			!strings.Contains(strings.ToLower(c.Category), query) &&
			!strings.Contains(strings.ToLower(c.Notes), query) {
			continue
		}
		if importance != "" && !strings.EqualFold(c.EconomicImportance, importance) {
			continue
		}
		matches = append(matches, c)
	}
	return matches, nil
}

// CropRecommendations returns up to ten high-importance crops for a
// state, optionally filtered by season and soil type.
func (s *DataService) CropRecommendations(state, season, soilType string) ([]models.CropData, error) {
	dataset, err := s.GetDataset(state)
	if err != nil {
		return nil, err
	}

	var recs []models.CropData
	for _, c := range dataset.Crops {
		if !strings.EqualFold(c.EconomicImportance, "high") {
			continue
		}
		if season != "" && c.Season != "" && !strings.EqualFold(c.Season, season) {
			continue
		}
		if soilType != "" && c.SoilType != "" && !strings.Contains(strings.ToLower(c.SoilType), strings.ToLower(soilType)) {
			continue
		}
		recs = append(recs, c)
		if len(recs) == 10 {
			break
		}
	}
	return recs, nil
}

// ClearCache drops all cached state datasets and returns how many were
// evicted.
func (s *DataService) ClearCache() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.cache)
	s.cache = make(map[string]models.StateDataset)
	return n
}
