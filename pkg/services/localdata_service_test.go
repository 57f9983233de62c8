package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fertilizerTSV = "region\tsoilType\tcrop\tyield\tyieldUnit\tpricePerKg\tgrossIncome\tfertilizerRecommendation\tnotes\tsource\n" +
	"Jharkhand\tRed Soil\tPaddy (Rice)\t4500\tkg/ha\t22\t99000\t120 kg N, 60 kg P2O5, 40 kg K2O per ha\tSplit nitrogen in three doses\tICAR trial 2023\n" +
	"Jharkhand\tRed Soil\tMaize\t3800\tkg/ha\t18\t68400\t100 kg N, 50 kg P2O5 per ha\tBasal plus one top dressing\tICAR trial 2023\n" +
	"Jharkhand (Ranchi)\tLoam\tWheat\t3200\tkg/ha\t25\tnot-a-number\t90 kg N, 45 kg P2O5 per ha\tIrrigate at crown root stage\tState dept bulletin\n"

const economicCSV = "crop,category,economicImportance,primaryDistricts,notes,source\n" +
	"Paddy (Rice),Cereal,High,\"Ranchi, Dumka\",Staple crop,State agri census\n" +
	"Maize,Cereal,Medium,Palamu,Feed and food,State agri census\n"

const pestCSV = "pest,cropAffected,economicImpact,naturalPesticides,notes\n" +
	"Stem Borer,Paddy (Rice),High,Neem oil spray,Most damaging at tillering\n" +
	"Fall Armyworm,Maize,High,Neem seed kernel extract,Scout weekly\n"

func newTestLocalData(t *testing.T) *LocalDataService {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "jharkhand_dataset")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fertilizers_jharkhand.tsv"), []byte(fertilizerTSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jharkhand_crops_economic_importance.csv"), []byte(economicCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jharkhand_pests_natural_pesticides.csv"), []byte(pestCSV), 0o644))
	return NewLocalDataService(root)
}

func TestLoadIsIdempotent(t *testing.T) {
	svc := newTestLocalData(t)

	svc.Load()
	svc.Load()

	stats := svc.Stats()
	assert.Equal(t, 3, stats.FertilizerRecords)
	assert.Equal(t, 2, stats.EconomicRecords)
	assert.Equal(t, 2, stats.PestRecords)
}

func TestLoadToleratesMissingFiles(t *testing.T) {
	svc := NewLocalDataService(t.TempDir())

	svc.Load()
	stats := svc.Stats()
	assert.Equal(t, 0, stats.FertilizerRecords)
	assert.Empty(t, svc.FindFertilizerFacts("rice", "", ""))
}

func TestCropMatchingIsBidirectional(t *testing.T) {
	svc := newTestLocalData(t)

	// "Paddy (Rice)" in the dataset must match both short queries.
	assert.Len(t, svc.FindFertilizerFacts("rice", "", ""), 1)
	assert.Len(t, svc.FindFertilizerFacts("paddy", "", ""), 1)
	assert.Len(t, svc.FindFertilizerFacts("Paddy (Rice)", "", ""), 1)
	assert.Empty(t, svc.FindFertilizerFacts("cotton", "", ""))
}

func TestSoilFilter(t *testing.T) {
	svc := newTestLocalData(t)

	assert.Len(t, svc.FindFertilizerFacts("maize", "red", ""), 1)
	assert.Empty(t, svc.FindFertilizerFacts("maize", "loam", ""))

	// "mixed" and empty soil types skip the filter.
	assert.Len(t, svc.FindFertilizerFacts("maize", "mixed", ""), 1)
	assert.Len(t, svc.FindFertilizerFacts("maize", "", ""), 1)
}

func TestRegionFilter(t *testing.T) {
	svc := newTestLocalData(t)

	// Any location naming jharkhand matches every record.
	assert.Len(t, svc.FindFertilizerFacts("wheat", "", "Jharkhand, India"), 1)
	// Otherwise the record region must contain the location.
	assert.Len(t, svc.FindFertilizerFacts("wheat", "", "ranchi"), 1)
	assert.Empty(t, svc.FindFertilizerFacts("wheat", "", "kerala"))
}

func TestMalformedNumericsDefaultToZero(t *testing.T) {
	svc := newTestLocalData(t)

	recs := svc.FindFertilizerFacts("wheat", "", "")
	require.Len(t, recs, 1)
	assert.Equal(t, 0.0, recs[0].GrossIncome)
	assert.Equal(t, 3200.0, recs[0].Yield)
}

func TestToActionsConvertsYieldToQuintals(t *testing.T) {
	svc := newTestLocalData(t)

	recs := svc.FindFertilizerFacts("rice", "", "")
	actions := ToActions(recs)
	require.Len(t, actions, 1)
	assert.Equal(t, "45 quintals/ha", actions[0].YieldExpected)
	assert.Equal(t, "Rs 99000/ha", actions[0].GrossIncome)
	assert.Contains(t, actions[0].AmountPerHa, "120 kg N")
	assert.Equal(t, "ICAR trial 2023", actions[0].Source)
}

func TestFindEconomicAndPestFacts(t *testing.T) {
	svc := newTestLocalData(t)

	econ := svc.FindEconomicFacts("rice")
	require.Len(t, econ, 1)
	assert.Equal(t, "High", econ[0].EconomicImportance)

	pests := svc.FindPestFacts("rice")
	require.Len(t, pests, 1)
	assert.Equal(t, "Stem Borer", pests[0].Pest)
}

func TestStatsListsDistinctValues(t *testing.T) {
	svc := newTestLocalData(t)

	stats := svc.Stats()
	assert.Contains(t, stats.AvailableCrops, "Paddy (Rice)")
	assert.Contains(t, stats.AvailableCrops, "Wheat")
	assert.Contains(t, stats.AvailableSoils, "Red Soil")
	assert.Contains(t, stats.KnownPests, "Fall Armyworm")
}

func TestSummaryMentionsAllFactKinds(t *testing.T) {
	svc := newTestLocalData(t)

	summary := svc.Summary("rice",
		svc.FindFertilizerFacts("rice", "", ""),
		svc.FindEconomicFacts("rice"),
		svc.FindPestFacts("rice"))

	assert.Contains(t, summary, "Paddy (Rice)")
	assert.Contains(t, summary, "Economics")
	assert.Contains(t, summary, "Stem Borer")

	empty := svc.Summary("quinoa", nil, nil, nil)
	assert.Contains(t, empty, "No local dataset facts")
}
