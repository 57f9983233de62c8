package models

import "time"

// RegionInfo is the result of resolving coordinates to an Indian state.
type RegionInfo struct {
	State       string  `json:"state"`
	District    string  `json:"district"`
	ClimateZone string  `json:"climateZone"`
	Confidence  float64 `json:"confidence"`
}

// SoilData holds heuristic soil estimates for a district.
type SoilData struct {
	PH            float64 `json:"ph"`
	PHCategory    string  `json:"phCategory"`
	Moisture      float64 `json:"moisture"`
	OrganicMatter float64 `json:"organicMatter"`
	SoilType      string  `json:"soilType"`
	Confidence    float64 `json:"confidence"`
	Source        string  `json:"source"`
}

// FertilizerRecord is one row of the regional fertilizer dataset.
type FertilizerRecord struct {
	Region         string  `json:"region"`
	SoilType       string  `json:"soilType"`
	Crop           string  `json:"crop"`
	Yield          float64 `json:"yield"`
	YieldUnit      string  `json:"yieldUnit"`
	PricePerKg     float64 `json:"pricePerKg"`
	GrossIncome    float64 `json:"grossIncome"`
	Recommendation string  `json:"fertilizerRecommendation"`
	Notes          string  `json:"notes"`
	Source         string  `json:"source"`
}

// EconomicRecord describes the economic importance of a crop.
type EconomicRecord struct {
	Crop               string `json:"crop"`
	Category           string `json:"category"`
	EconomicImportance string `json:"economicImportance"`
	PrimaryDistricts   string `json:"primaryDistricts"`
	Notes              string `json:"notes"`
	Source             string `json:"source"`
}

// PestRecord maps a pest to affected crops and natural control options.
type PestRecord struct {
	Pest              string `json:"pest"`
	CropAffected      string `json:"cropAffected"`
	EconomicImpact    string `json:"economicImpact"`
	NaturalPesticides string `json:"naturalPesticides"`
	Notes             string `json:"notes"`
}

// FertilizerAction is a single actionable step in a fertilizer plan.
type FertilizerAction struct {
	Step             string `json:"step"`
	AmountPerHa      string `json:"amount_per_ha"`
	AmountPerQuintal string `json:"amount_per_quintal,omitempty"`
	Timing           string `json:"timing"`
	Source           string `json:"source"`
	YieldExpected    string `json:"yieldExpected,omitempty"`
	GrossIncome      string `json:"grossIncome,omitempty"`
}

// Supplier is a fertilizer supplier suggestion.
type Supplier struct {
	Name     string `json:"name"`
	Coverage string `json:"coverage"`
	Notes    string `json:"notes,omitempty"`
}

// FertilizerResponse is the full advisory payload served to the client.
type FertilizerResponse struct {
	Title            string             `json:"title"`
	Summary          string             `json:"summary"`
	Actions          []FertilizerAction `json:"actions"`
	PestInteractions string             `json:"pest_interactions"`
	Suppliers        []Supplier         `json:"suppliers"`
	ConfidenceScore  float64            `json:"confidence_score"`
	Citations        []string           `json:"citations"`
}

// SeasonInfo describes the agricultural season for a month.
type SeasonInfo struct {
	Season      string   `json:"season"`
	Recommended []string `json:"recommendedCrops"`
	Avoid       []string `json:"avoidCrops"`
}

// DatasetStats summarizes the loaded knowledge-base files.
type DatasetStats struct {
	FertilizerRecords int      `json:"fertilizerRecords"`
	EconomicRecords   int      `json:"economicRecords"`
	PestRecords       int      `json:"pestRecords"`
	AvailableCrops    []string `json:"availableCrops"`
	AvailableSoils    []string `json:"availableSoilTypes"`
	KnownPests        []string `json:"knownPests"`
}

// CropData is one row of a per-state crop dataset.
type CropData struct {
	Crop               string `json:"crop"`
	Category           string `json:"category"`
	EconomicImportance string `json:"economicImportance"`
	Season             string `json:"season"`
	SoilType           string `json:"soilType"`
	Notes              string `json:"notes"`
}

// StateDataset bundles everything loaded for one state.
type StateDataset struct {
	State        string       `json:"state"`
	Crops        []CropData   `json:"crops"`
	Pests        []PestRecord `json:"pests"`
	SoilMoisture []string     `json:"soilMoisture"`
	LoadedAt     time.Time    `json:"loadedAt"`
}

// WeatherCondition mirrors one entry of OpenWeather's weather array.
type WeatherCondition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather holds the reading fields the advisory logic uses.
type CurrentWeather struct {
	Temp       float64            `json:"temp"`
	FeelsLike  float64            `json:"feels_like"`
	Humidity   int                `json:"humidity"`
	Pressure   int                `json:"pressure"`
	Visibility int                `json:"visibility"`
	WindSpeed  float64            `json:"wind_speed"`
	WindDeg    int                `json:"wind_deg"`
	Weather    []WeatherCondition `json:"weather"`
}

// WeatherLocation identifies the place a reading belongs to.
type WeatherLocation struct {
	Name    string  `json:"name"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// ForecastEntry is a single day of the 5-day forecast.
type ForecastEntry struct {
	Date        string             `json:"date"`
	Temp        float64            `json:"temp"`
	TempMin     float64            `json:"temp_min"`
	TempMax     float64            `json:"temp_max"`
	Humidity    int                `json:"humidity"`
	Weather     []WeatherCondition `json:"weather"`
	Rain        float64            `json:"rain,omitempty"`
	Description string             `json:"description"`
}

// WeatherData is the normalized weather payload.
type WeatherData struct {
	Location WeatherLocation `json:"location"`
	Current  CurrentWeather  `json:"current"`
	Forecast []ForecastEntry `json:"forecast,omitempty"`
}

// SeasonalInsight annotates a forecast with cropping-season context.
type SeasonalInsight struct {
	CurrentSeason string   `json:"currentSeason"`
	IdealCrops    []string `json:"idealCrops"`
	KeyFactors    []string `json:"keyFactors"`
}

// AgriculturalAdvice groups weather-driven field recommendations.
type AgriculturalAdvice struct {
	Planting    []string `json:"planting"`
	CropCare    []string `json:"cropCare"`
	Harvesting  []string `json:"harvesting"`
	RiskFactors []string `json:"riskFactors"`
}

// MonthOutlook is one month of the extended outlook.
type MonthOutlook struct {
	Month        string   `json:"month"`
	Expectations string   `json:"expectations"`
	Focus        string   `json:"focus"`
	Activities   []string `json:"activities"`
}

// ExtendedForecast is the agricultural view over the coming months.
type ExtendedForecast struct {
	Weather         WeatherData        `json:"weather"`
	SeasonalInsight SeasonalInsight    `json:"seasonalInsights"`
	Advice          AgriculturalAdvice `json:"agriculturalRecommendations"`
	Outlook         []MonthOutlook     `json:"extendedOutlook"`
}

// GeoPoint is the optional location object on advisory requests.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AIQuery is the request body of the advisory Q&A endpoint. Coordinates
// arrive either as a location object or as flat lat/lon fields.
type AIQuery struct {
	Query    string    `json:"query" binding:"required"`
	State    string    `json:"state"`
	Location *GeoPoint `json:"location"`
	Lat      *float64  `json:"lat"`
	Lon      *float64  `json:"lon"`
}

// AIResponse is the answer payload of the advisory Q&A endpoint.
type AIResponse struct {
	Answer               string      `json:"answer"`
	Recommendations      []string    `json:"recommendations"`
	RecommendedCrops     []string    `json:"recommendedCrops,omitempty"`
	Season               *SeasonInfo `json:"season,omitempty"`
	Region               *RegionInfo `json:"region,omitempty"`
	Soil                 *SoilData   `json:"soil,omitempty"`
	ShowFertilizerAdvice bool        `json:"shouldTriggerFertilizerPane"`
	FertilizerContext    string      `json:"fertilizerContext,omitempty"`
	ModelUsed            string      `json:"modelUsed,omitempty"`
	WeatherConsidered    bool        `json:"weatherConsidered"`
}

// LogEntry is a single request log record kept by the monitor.
type LogEntry struct {
	RequestID string        `json:"requestId"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	ClientIP  string        `json:"clientIp"`
	Latency   time.Duration `json:"latencyNs"`
	Timestamp time.Time     `json:"timestamp"`
}
