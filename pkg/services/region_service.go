package services

import (
	"math"

	"bhoomi-advisory-api/pkg/models"
)

// RegionService resolves coordinates to an Indian state, district and climate zone
type RegionService struct{}

// NewRegionService creates a new region resolution service
func NewRegionService() *RegionService {
	return &RegionService{}
}

// stateBox is an inclusive bounding box checked in declaration order.
// Kerala precedes Karnataka so the Western Ghats overlap resolves to Kerala.
type stateBox struct {
	State                          string
	MinLat, MaxLat, MinLon, MaxLon float64
}

var stateBoxes = []stateBox{
	{"kerala", 8.2, 12.8, 74.9, 77.4},
	{"karnataka", 11.5, 18.4, 74.0, 78.6},
	{"uttarpradesh", 23.8, 30.4, 77.0, 84.6},
	{"jharkhand", 21.95, 25.35, 83.3, 87.95},
	{"maharashtra", 15.6, 22.0, 72.6, 80.9},
	{"tamilnadu", 8.0, 13.6, 76.2, 80.3},
}

type stateCentroid struct {
	State    string
	Lat, Lon float64
}

var stateCentroids = []stateCentroid{
	{"kerala", 10.8505, 76.2711},
	{"karnataka", 15.3173, 75.7139},
	{"jharkhand", 23.6102, 85.2799},
	{"uttarpradesh", 26.8467, 80.9462},
	{"tamilnadu", 11.1271, 78.6569},
	{"maharashtra", 19.7515, 75.7139},
}

var climateZones = map[string]string{
	"kerala":       "tropical_coastal",
	"karnataka":    "tropical_dry",
	"uttarpradesh": "subtropical_continental",
	"jharkhand":    "subtropical_humid",
	"tamilnadu":    "tropical_dry",
	"maharashtra":  "tropical_dry",
}

// lonPick selects a district when lon <= MaxLon; the last entry is the catch-all.
type lonPick struct {
	MaxLon   float64
	District string
}

// latBand matches when lat >= MinLat; bands are ordered north to south.
type latBand struct {
	MinLat float64
	ByLon  []lonPick
}

// latPick selects a district when lat >= MinLat; the last entry is the catch-all.
type latPick struct {
	MinLat   float64
	District string
}

// lonBand matches when lon >= MinLon; bands are ordered east to west.
type lonBand struct {
	MinLon float64
	ByLat  []latPick
}

const anyCoord = -math.MaxFloat64

var keralaBands = []latBand{
	{12.0, []lonPick{{math.MaxFloat64, "Kasaragod"}}},
	{11.5, []lonPick{{math.MaxFloat64, "Kannur"}}},
	{11.0, []lonPick{{math.MaxFloat64, "Wayanad"}}},
	{10.5, []lonPick{{math.MaxFloat64, "Kozhikode"}}},
	{10.2, []lonPick{{math.MaxFloat64, "Malappuram"}}},
	{10.0, []lonPick{{math.MaxFloat64, "Palakkad"}}},
	{9.7, []lonPick{{math.MaxFloat64, "Thrissur"}}},
	{9.4, []lonPick{{math.MaxFloat64, "Ernakulam"}}},
	{9.2, []lonPick{{math.MaxFloat64, "Idukki"}}},
	{9.0, []lonPick{{math.MaxFloat64, "Kottayam"}}},
	{8.7, []lonPick{{math.MaxFloat64, "Alappuzha"}}},
	{8.4, []lonPick{{math.MaxFloat64, "Pathanamthitta"}}},
	{8.2, []lonPick{{math.MaxFloat64, "Kollam"}}},
	{anyCoord, []lonPick{{math.MaxFloat64, "Thiruvananthapuram"}}},
}

var karnatakaBands = []latBand{
	{17.5, []lonPick{{math.MaxFloat64, "Bidar"}}},
	{16.8, []lonPick{{math.MaxFloat64, "Kalaburagi"}}},
	{16.0, []lonPick{{math.MaxFloat64, "Raichur"}}},
	{15.8, []lonPick{{75.5, "Belagavi"}, {math.MaxFloat64, "Yadgir"}}},
	{15.0, []lonPick{{75.0, "Dharwad"}, {math.MaxFloat64, "Koppal"}}},
	{14.5, []lonPick{{75.5, "Haveri"}, {math.MaxFloat64, "Vijayanagara"}}},
	{14.0, []lonPick{{76.0, "Shivamogga"}, {math.MaxFloat64, "Ballari"}}},
	{13.5, []lonPick{{75.5, "Udupi"}, {math.MaxFloat64, "Chitradurga"}}},
	{13.0, []lonPick{{75.0, "Dakshina Kannada"}, {math.MaxFloat64, "Tumakuru"}}},
	{12.5, []lonPick{{75.5, "Kodagu"}, {math.MaxFloat64, "Bengaluru Urban"}}},
	{12.0, []lonPick{{math.MaxFloat64, "Hassan"}}},
	{anyCoord, []lonPick{{math.MaxFloat64, "Mysuru"}}},
}

// Uttar Pradesh reads east to west by longitude, then north to south.
var uttarPradeshBands = []lonBand{
	{83.0, []latPick{{26.5, "Gorakhpur"}, {25.5, "Varanasi"}, {anyCoord, "Mirzapur"}}},
	{81.0, []latPick{{27.0, "Faizabad"}, {26.0, "Lucknow"}, {anyCoord, "Allahabad"}}},
	{79.0, []latPick{{27.5, "Bareilly"}, {26.5, "Kanpur"}, {anyCoord, "Jhansi"}}},
	{77.5, []latPick{{28.5, "Meerut"}, {27.0, "Aligarh"}, {anyCoord, "Agra"}}},
	{anyCoord, []latPick{{29.0, "Saharanpur"}, {anyCoord, "Mathura"}}},
}

var jharkhandBands = []latBand{
	{24.4, []lonPick{{84.6, "Palamu"}, {85.2, "Chatra"}, {86.0, "Koderma"}, {86.9, "Deoghar"}, {87.4, "Dumka"}, {math.MaxFloat64, "Sahibganj"}}},
	{23.2, []lonPick{{84.5, "Latehar"}, {85.0, "Lohardaga"}, {85.6, "Ranchi"}, {86.2, "Bokaro"}, {86.6, "Dhanbad"}, {math.MaxFloat64, "Jamtara"}}},
	{anyCoord, []lonPick{{84.8, "Simdega"}, {85.5, "Khunti"}, {86.0, "Saraikela Kharsawan"}, {math.MaxFloat64, "East Singhbhum"}}},
}

var maharashtraBands = []latBand{
	{21.0, []lonPick{{74.0, "Dhule"}, {76.0, "Jalgaon"}, {78.0, "Buldhana"}, {math.MaxFloat64, "Akola"}}},
	{20.0, []lonPick{{73.5, "Nashik"}, {75.0, "Ahmednagar"}, {77.0, "Aurangabad"}, {math.MaxFloat64, "Jalna"}}},
	{19.0, []lonPick{{73.0, "Mumbai Suburban"}, {74.0, "Thane"}, {74.5, "Pune"}, {76.0, "Ahmednagar"}, {math.MaxFloat64, "Beed"}}},
	{18.0, []lonPick{{73.5, "Raigad"}, {74.5, "Satara"}, {76.0, "Solapur"}, {math.MaxFloat64, "Osmanabad"}}},
	{17.0, []lonPick{{74.0, "Sindhudurg"}, {75.0, "Kolhapur"}, {math.MaxFloat64, "Sangli"}}},
	{anyCoord, []lonPick{{math.MaxFloat64, "Ratnagiri"}}},
}

var tamilNaduBands = []latBand{
	{13.0, []lonPick{{78.0, "Vellore"}, {math.MaxFloat64, "Tiruvannamalai"}}},
	{12.5, []lonPick{{77.5, "Krishnagiri"}, {math.MaxFloat64, "Villupuram"}}},
	{12.0, []lonPick{{77.0, "Salem"}, {math.MaxFloat64, "Cuddalore"}}},
	{11.5, []lonPick{{77.5, "Namakkal"}, {math.MaxFloat64, "Thanjavur"}}},
	{11.0, []lonPick{{77.0, "Erode"}, {78.5, "Tiruchirappalli"}, {math.MaxFloat64, "Nagapattinam"}}},
	{10.5, []lonPick{{77.0, "Coimbatore"}, {math.MaxFloat64, "Pudukkottai"}}},
	{10.0, []lonPick{{77.5, "Dindigul"}, {math.MaxFloat64, "Sivaganga"}}},
	{9.5, []lonPick{{77.5, "Theni"}, {math.MaxFloat64, "Ramanathapuram"}}},
	{9.0, []lonPick{{math.MaxFloat64, "Virudhunagar"}}},
	{8.5, []lonPick{{math.MaxFloat64, "Tuticorin"}}},
	{anyCoord, []lonPick{{math.MaxFloat64, "Kanyakumari"}}},
}

var districtBands = map[string][]latBand{
	"kerala":      keralaBands,
	"karnataka":   karnatakaBands,
	"jharkhand":   jharkhandBands,
	"maharashtra": maharashtraBands,
	"tamilnadu":   tamilNaduBands,
}

// Resolve maps coordinates to a region. It always succeeds: points outside
// every bounding box fall back to the nearest state centroid, and anything
// else reports Kochi with low confidence.
func (s *RegionService) Resolve(lat, lon float64) models.RegionInfo {
	for _, box := range stateBoxes {
		if lat >= box.MinLat && lat <= box.MaxLat && lon >= box.MinLon && lon <= box.MaxLon {
			return models.RegionInfo{
				State:       box.State,
				District:    districtFor(box.State, lat, lon),
				ClimateZone: climateZones[box.State],
				Confidence:  1.0,
			}
		}
	}

	best := ""
	minDistance := math.Inf(1)
	for _, c := range stateCentroids {
		d := math.Hypot(lat-c.Lat, lon-c.Lon)
		if d < minDistance {
			minDistance = d
			best = c.State
		}
	}

	if best != "" {
		return models.RegionInfo{
			State:       best,
			District:    districtFor(best, lat, lon),
			ClimateZone: climateZones[best],
			Confidence:  math.Max(0.6, 1-minDistance/10),
		}
	}

	return models.RegionInfo{
		State:       "kerala",
		District:    "Kochi",
		ClimateZone: "tropical_coastal",
		Confidence:  0.5,
	}
}

// ClimateZoneFor returns the climate zone for a known state, or "unknown".
func (s *RegionService) ClimateZoneFor(state string) string {
	if zone, ok := climateZones[state]; ok {
		return zone
	}
	return "unknown"
}

func districtFor(state string, lat, lon float64) string {
	if state == "uttarpradesh" {
		return pickByLon(uttarPradeshBands, lat, lon)
	}
	if bands, ok := districtBands[state]; ok {
		return pickByLat(bands, lat, lon)
	}
	return "Unknown"
}

func pickByLat(bands []latBand, lat, lon float64) string {
	for _, band := range bands {
		if lat >= band.MinLat {
			for _, pick := range band.ByLon {
				if lon <= pick.MaxLon {
					return pick.District
				}
			}
		}
	}
	return "Unknown"
}

func pickByLon(bands []lonBand, lat, lon float64) string {
	for _, band := range bands {
		if lon >= band.MinLon {
			for _, pick := range band.ByLat {
				if lat >= pick.MinLat {
					return pick.District
				}
			}
		}
	}
	return "Unknown"
}
