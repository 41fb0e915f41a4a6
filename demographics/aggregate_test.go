package demographics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateEmptyInput(t *testing.T) {
	agg := Aggregate(nil)
	require.NotNil(t, agg)

	assert.Empty(t, agg.FamiliesPerPurok)
	assert.Empty(t, agg.HouseholdsPerPurok)
	assert.Empty(t, agg.CivilStatusTotals)
	assert.Equal(t, GenderTotals{}, agg.GenderTotals)
}

func TestAggregateSingleRecordScenario(t *testing.T) {
	agg := Aggregate([]SurveyRecord{{
		Purok:       "3",
		Sex:         "Female",
		CivilStatus: "married",
		Religion:    "",
	}})

	assert.Equal(t, GenderTotals{Male: 0, Female: 1}, agg.GenderTotals)
	assert.Equal(t, []NameValue{{Name: CivilMarried, Value: 1}}, agg.CivilStatusTotals)
	assert.Equal(t, []NameValue{{Name: CategoryUnknown, Value: 1}}, agg.ReligionTotals)

	require.Len(t, agg.ReligionPerPurok, 1)
	assert.Equal(t, "Purok 3", agg.ReligionPerPurok[0]["name"])
	assert.Equal(t, 1, agg.ReligionPerPurok[0][CategoryUnknown])
}

func TestAggregateDistinctFamilyAndHouseholdCounts(t *testing.T) {
	records := []SurveyRecord{
		{Purok: "1", NumberOfFamilies: "10", HouseholdNumber: "100"},
		{Purok: "1", NumberOfFamilies: "10", HouseholdNumber: "100"},
		{Purok: "1", NumberOfFamilies: "11", HouseholdNumber: "100"},
		{Purok: "2", NumberOfFamilies: "10", HouseholdNumber: "200"},
		// Absent identifiers are skipped, not counted as a value.
		{Purok: "2"},
	}

	agg := Aggregate(records)

	assert.Equal(t, []NameValue{
		{Name: "Purok 1", Value: 2},
		{Name: "Purok 2", Value: 1},
	}, agg.FamiliesPerPurok)
	assert.Equal(t, []NameValue{
		{Name: "Purok 1", Value: 1},
		{Name: "Purok 2", Value: 1},
	}, agg.HouseholdsPerPurok)

	// Summing cardinalities over observed puroks partitions the record set:
	// each record contributes its identifiers to exactly one purok.
	famSum := 0
	for _, row := range agg.FamiliesPerPurok {
		famSum += row.Value
	}
	assert.Equal(t, 3, famSum)
}

func TestAggregateGenderCountsOnlyRecognizedSex(t *testing.T) {
	records := []SurveyRecord{
		{Purok: "1", Sex: "M"},
		{Purok: "1", Sex: "male"},
		{Purok: "1", Sex: "F"},
		{Purok: "1", Sex: "x"},
		{Purok: "1", Sex: ""},
	}

	agg := Aggregate(records)

	assert.Equal(t, GenderTotals{Male: 2, Female: 1}, agg.GenderTotals)
	require.Len(t, agg.GenderPerPurok, 1)
	assert.Equal(t, GenderRow{Name: "Purok 1", Male: 2, Female: 1}, agg.GenderPerPurok[0])

	// Records with unrecognized sex still count toward other accumulators.
	civilSum := 0
	for _, row := range agg.CivilStatusTotals {
		civilSum += row.Value
	}
	assert.Equal(t, len(records), civilSum)
}

func TestAggregateFamilyPlanningFemalesOnly(t *testing.T) {
	records := []SurveyRecord{
		{Sex: "M", FamilyPlanning: "yes"},
		{Sex: "Male", FamilyPlanning: "no"},
	}
	agg := Aggregate(records)
	assert.Empty(t, agg.FamilyPlanningTotals, "an all-male dataset has no family planning rows")

	records = append(records, SurveyRecord{Sex: "F", FamilyPlanning: "yes"})
	agg = Aggregate(records)
	assert.Equal(t, []NameValue{{Name: WithFamilyPlanning, Value: 1}}, agg.FamilyPlanningTotals)
}

func TestAggregateMissingPurokGroupsUnderUnknown(t *testing.T) {
	agg := Aggregate([]SurveyRecord{
		{Sex: "F", Religion: "Roman Catholic"},
	})

	require.Len(t, agg.ReligionPerPurok, 1)
	assert.Equal(t, "Purok Unknown", agg.ReligionPerPurok[0]["name"])
	assert.Equal(t, []NameValue{{Name: "Roman Catholic", Value: 1}}, agg.ReligionTotals)
}

func TestAggregatePurokRowsFollowDisplayOrder(t *testing.T) {
	agg := Aggregate([]SurveyRecord{
		{Purok: "10", Occupation: "Farmer"},
		{Purok: "2", Occupation: "Fisherman"},
		{Purok: "1", Occupation: "Teacher"},
	})

	require.Len(t, agg.OccupationPerPurok, 3)
	assert.Equal(t, "Purok 1", agg.OccupationPerPurok[0]["name"])
	assert.Equal(t, "Purok 2", agg.OccupationPerPurok[1]["name"])
	assert.Equal(t, "Purok 10", agg.OccupationPerPurok[2]["name"])
}

func TestAggregateTotalsSortedByCountDescending(t *testing.T) {
	agg := Aggregate([]SurveyRecord{
		{Occupation: "Farmer"},
		{Occupation: "Farmer"},
		{Occupation: "Teacher"},
	})

	assert.Equal(t, []NameValue{
		{Name: "Farmer", Value: 2},
		{Name: "Teacher", Value: 1},
	}, agg.OccupationTotals)
}

func TestAggregateIdempotentOverSameInput(t *testing.T) {
	records := []SurveyRecord{
		{Purok: "1", Sex: "F", CivilStatus: "single", FamilyPlanning: "yes"},
		{Purok: "2", Sex: "M", CivilStatus: "married"},
	}
	assert.Equal(t, Aggregate(records), Aggregate(records))
}
