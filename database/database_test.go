package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleResident() *Resident {
	return &Resident{
		Purok:                 "3",
		NumberOfFamilies:      "12",
		HouseholdNumber:       "45",
		Surname:               "Dela Cruz",
		GivenName:             "Maria",
		MiddleName:            "Santos",
		Age:                   34,
		Sex:                   "Female",
		CivilStatus:           "Married",
		Birthdate:             "05/14/1991",
		Birthplace:            "San Isidro",
		FamilyPlanning:        "Yes",
		Religion:              "Roman Catholic",
		CommunityGroup:        "Women's Group",
		EducationalAttainment: "College Graduate",
		Occupation:            "Teacher",
		FourPs:                "No",
	}
}

func TestInsertAndGetResident(t *testing.T) {
	db := setupTestDB(t)

	r := sampleResident()
	require.NoError(t, db.InsertResident(r))
	assert.NotEmpty(t, r.ID, "insert assigns an ID")
	assert.False(t, r.CreatedAt.IsZero(), "insert assigns a creation time")

	got, err := db.GetResident(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dela Cruz", got.Surname)
	assert.Equal(t, "3", got.Purok)
	assert.Equal(t, 34, got.Age)
}

func TestGetResidentNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetResident("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateResident(t *testing.T) {
	db := setupTestDB(t)

	r := sampleResident()
	require.NoError(t, db.InsertResident(r))

	r.CivilStatus = "Widowed"
	r.Occupation = "Vendor"
	require.NoError(t, db.UpdateResident(r))

	got, err := db.GetResident(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widowed", got.CivilStatus)
	assert.Equal(t, "Vendor", got.Occupation)
}

func TestUpdateResidentNotFound(t *testing.T) {
	db := setupTestDB(t)

	r := sampleResident()
	r.ID = "missing"
	assert.ErrorIs(t, db.UpdateResident(r), sql.ErrNoRows)
}

func TestDeleteResident(t *testing.T) {
	db := setupTestDB(t)

	r := sampleResident()
	require.NoError(t, db.InsertResident(r))
	require.NoError(t, db.DeleteResident(r.ID))

	_, err := db.GetResident(r.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.ErrorIs(t, db.DeleteResident(r.ID), sql.ErrNoRows)
}

func TestInsertResidentsBatch(t *testing.T) {
	db := setupTestDB(t)

	batch := []*Resident{sampleResident(), sampleResident(), sampleResident()}
	require.NoError(t, db.InsertResidents(batch))

	count, err := db.CountResidents()
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListSurveyRecordsProjection(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.InsertResident(sampleResident()))

	records, err := db.ListSurveyRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "3", records[0].Purok)
	assert.Equal(t, "Female", records[0].Sex)
	assert.Equal(t, "Roman Catholic", records[0].Religion)
}

func TestNextHouseholdNumbers(t *testing.T) {
	db := setupTestDB(t)

	// Empty store starts both sequences at 1.
	household, families, err := db.NextHouseholdNumbers()
	require.NoError(t, err)
	assert.Equal(t, 1, household)
	assert.Equal(t, 1, families)

	r := sampleResident()
	r.HouseholdNumber = "45"
	r.NumberOfFamilies = "12"
	require.NoError(t, db.InsertResident(r))

	household, families, err = db.NextHouseholdNumbers()
	require.NoError(t, err)
	assert.Equal(t, 46, household)
	assert.Equal(t, 13, families)
}

func TestFindFamilyMembers(t *testing.T) {
	db := setupTestDB(t)

	a := sampleResident()
	b := sampleResident()
	b.GivenName = "Jose"
	b.Age = 40
	other := sampleResident()
	other.NumberOfFamilies = "99"
	require.NoError(t, db.InsertResidents([]*Resident{a, b, other}))

	members, err := db.FindFamilyMembers("3", "12")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Jose", members[0].GivenName, "ordered by age descending")
}

func TestFindResidentByName(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, db.InsertResident(sampleResident()))

	got, err := db.FindResidentByName("3", "maria", "", "DELA CRUZ", "")
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.GivenName)

	_, err = db.FindResidentByName("3", "Pedro", "", "Dela Cruz", "")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRecommendationSnapshotUpsert(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetRecommendationSnapshot()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	first := &RecommendationSnapshot{
		GeneratedAt:     time.Now().UTC(),
		TotalHouseholds: 10,
		Recommendations: []Recommendation{{Title: "Road Repair", Priority: "High"}},
	}
	require.NoError(t, db.SaveRecommendationSnapshot(first))

	second := &RecommendationSnapshot{
		GeneratedAt:     time.Now().UTC(),
		TotalHouseholds: 12,
		Recommendations: []Recommendation{
			{Title: "Health Clinic"},
			{Title: "Daycare Center"},
		},
	}
	require.NoError(t, db.SaveRecommendationSnapshot(second))

	got, err := db.GetRecommendationSnapshot()
	require.NoError(t, err)
	assert.Equal(t, SnapshotKey, got.ID)
	assert.Equal(t, 12, got.TotalHouseholds)
	require.Len(t, got.Recommendations, 2, "second run replaces the first wholesale")
	assert.Equal(t, "Health Clinic", got.Recommendations[0].Title)
}

func TestTotalBudget(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.GetLatestTotalBudget()
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, db.SetTotalBudget(2024, "1,200,000"))
	require.NoError(t, db.SetTotalBudget(2025, "₱1,500,000.50"))

	got, err := db.GetLatestTotalBudget()
	require.NoError(t, err)
	assert.Equal(t, 2025, got.Year)

	amount, err := got.ParseAmount()
	require.NoError(t, err)
	assert.Equal(t, "1500000.5", amount.String())
}
