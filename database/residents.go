package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barangayserver/demographics"
)

// Resident is one person's record as captured by the barangay survey form.
// Survey fields keep the operator-entered text untouched; normalization
// happens only inside the aggregation pipeline.
type Resident struct {
	ID                    string    `json:"id"`
	Purok                 string    `json:"purok"`
	NumberOfFamilies      string    `json:"numberOfFamilies"`
	HouseholdNumber       string    `json:"householdNumber"`
	Surname               string    `json:"surname"`
	GivenName             string    `json:"givenName"`
	MiddleName            string    `json:"middleName"`
	Suffix                string    `json:"suffix"`
	Prefix                string    `json:"prefix"`
	Age                   int       `json:"age"`
	Sex                   string    `json:"sex"`
	CivilStatus           string    `json:"civilStatus"`
	Birthdate             string    `json:"birthdate"`
	Birthplace            string    `json:"birthplace"`
	FamilyPlanning        string    `json:"familyPlanning"`
	Religion              string    `json:"religion"`
	CommunityGroup        string    `json:"communityGroup"`
	EducationalAttainment string    `json:"educationalAttainment"`
	Occupation            string    `json:"occupation"`
	FourPs                string    `json:"fourPs"`
	IPHousehold           string    `json:"ipHousehold"`
	HaveToilet            string    `json:"haveToilet"`
	MRFSegregation        string    `json:"mrfSegregation"`
	Garden                string    `json:"garden"`
	Smoker                string    `json:"smoker"`
	Classification        string    `json:"classification"`
	CreatedAt             time.Time `json:"createdAt"`
}

const residentColumns = `id, purok, number_of_families, household_number, surname, given_name,
	middle_name, suffix, prefix, age, sex, civil_status, birthdate, birthplace,
	family_planning, religion, community_group, educational_attainment, occupation,
	four_ps, ip_household, have_toilet, mrf_segregation, garden, smoker,
	classification, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResident(row rowScanner) (*Resident, error) {
	var r Resident
	var createdAt sql.NullTime
	err := row.Scan(
		&r.ID, &r.Purok, &r.NumberOfFamilies, &r.HouseholdNumber, &r.Surname,
		&r.GivenName, &r.MiddleName, &r.Suffix, &r.Prefix, &r.Age, &r.Sex,
		&r.CivilStatus, &r.Birthdate, &r.Birthplace, &r.FamilyPlanning,
		&r.Religion, &r.CommunityGroup, &r.EducationalAttainment, &r.Occupation,
		&r.FourPs, &r.IPHousehold, &r.HaveToilet, &r.MRFSegregation, &r.Garden,
		&r.Smoker, &r.Classification, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	if createdAt.Valid {
		r.CreatedAt = createdAt.Time
	}
	return &r, nil
}

// ListResidents returns every resident record, newest first.
func (db *DB) ListResidents() ([]*Resident, error) {
	rows, err := db.conn.Query(
		`SELECT ` + residentColumns + ` FROM residents ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query residents: %w", err)
	}
	defer rows.Close()

	residents := make([]*Resident, 0)
	for rows.Next() {
		r, err := scanResident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resident: %w", err)
		}
		residents = append(residents, r)
	}
	return residents, rows.Err()
}

// ListSurveyRecords returns the field projection the aggregation pipeline
// needs, avoiding the full record load on every dashboard refresh.
func (db *DB) ListSurveyRecords() ([]demographics.SurveyRecord, error) {
	rows, err := db.conn.Query(`SELECT purok, number_of_families, household_number,
		sex, civil_status, family_planning, religion, community_group,
		educational_attainment, occupation FROM residents`)
	if err != nil {
		return nil, fmt.Errorf("failed to query survey records: %w", err)
	}
	defer rows.Close()

	records := make([]demographics.SurveyRecord, 0)
	for rows.Next() {
		var rec demographics.SurveyRecord
		if err := rows.Scan(
			&rec.Purok, &rec.NumberOfFamilies, &rec.HouseholdNumber, &rec.Sex,
			&rec.CivilStatus, &rec.FamilyPlanning, &rec.Religion,
			&rec.CommunityGroup, &rec.EducationalAttainment, &rec.Occupation,
		); err != nil {
			return nil, fmt.Errorf("failed to scan survey record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountResidents returns the number of stored resident records.
func (db *DB) CountResidents() (int, error) {
	var count int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM residents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count residents: %w", err)
	}
	return count, nil
}

// GetResident returns one record by ID, or sql.ErrNoRows.
func (db *DB) GetResident(id string) (*Resident, error) {
	row := db.conn.QueryRow(
		`SELECT `+residentColumns+` FROM residents WHERE id = ?`, id)
	return scanResident(row)
}

// InsertResident stores one record, assigning an ID and creation time when
// they are missing.
func (db *DB) InsertResident(r *Resident) error {
	return db.insertResident(db.conn, r)
}

type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func (db *DB) insertResident(ex execer, r *Resident) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}

	_, err := ex.Exec(`INSERT INTO residents (`+residentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Purok, r.NumberOfFamilies, r.HouseholdNumber, r.Surname,
		r.GivenName, r.MiddleName, r.Suffix, r.Prefix, r.Age, r.Sex,
		r.CivilStatus, r.Birthdate, r.Birthplace, r.FamilyPlanning, r.Religion,
		r.CommunityGroup, r.EducationalAttainment, r.Occupation, r.FourPs,
		r.IPHousehold, r.HaveToilet, r.MRFSegregation, r.Garden, r.Smoker,
		r.Classification, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert resident: %w", err)
	}
	return nil
}

// InsertResidents stores a batch of records in one transaction so a partial
// household intake never persists.
func (db *DB) InsertResidents(residents []*Resident) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	for _, r := range residents {
		if err := db.insertResident(tx, r); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit resident batch: %w", err)
	}
	return nil
}

// NextHouseholdNumbers returns the household and family numbers to assign to
// a new intake: one past the highest stored value, starting at 1.
func (db *DB) NextHouseholdNumbers() (household int, families int, err error) {
	var maxHousehold, maxFamilies sql.NullInt64
	err = db.conn.QueryRow(`SELECT
		MAX(CAST(household_number AS INTEGER)),
		MAX(CAST(number_of_families AS INTEGER))
		FROM residents`).Scan(&maxHousehold, &maxFamilies)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query household numbers: %w", err)
	}
	return int(maxHousehold.Int64) + 1, int(maxFamilies.Int64) + 1, nil
}

// UpdateResident overwrites the survey fields of one record by ID.
func (db *DB) UpdateResident(r *Resident) error {
	result, err := db.conn.Exec(`UPDATE residents SET
		purok = ?, number_of_families = ?, household_number = ?, surname = ?,
		given_name = ?, middle_name = ?, suffix = ?, prefix = ?, age = ?,
		sex = ?, civil_status = ?, birthdate = ?, birthplace = ?,
		family_planning = ?, religion = ?, community_group = ?,
		educational_attainment = ?, occupation = ?, four_ps = ?,
		ip_household = ?, have_toilet = ?, mrf_segregation = ?, garden = ?,
		smoker = ?, classification = ?
		WHERE id = ?`,
		r.Purok, r.NumberOfFamilies, r.HouseholdNumber, r.Surname, r.GivenName,
		r.MiddleName, r.Suffix, r.Prefix, r.Age, r.Sex, r.CivilStatus,
		r.Birthdate, r.Birthplace, r.FamilyPlanning, r.Religion,
		r.CommunityGroup, r.EducationalAttainment, r.Occupation, r.FourPs,
		r.IPHousehold, r.HaveToilet, r.MRFSegregation, r.Garden, r.Smoker,
		r.Classification, r.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update resident: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteResident removes one record by ID, or sql.ErrNoRows when absent.
func (db *DB) DeleteResident(id string) error {
	result, err := db.conn.Exec(`DELETE FROM residents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resident: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// FindFamilyMembers returns every record sharing a purok and family number.
func (db *DB) FindFamilyMembers(purok, familyNo string) ([]*Resident, error) {
	rows, err := db.conn.Query(
		`SELECT `+residentColumns+` FROM residents
		WHERE purok = ? AND number_of_families = ?
		ORDER BY age DESC, surname`, purok, familyNo)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	members := make([]*Resident, 0)
	for rows.Next() {
		r, err := scanResident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, r)
	}
	return members, rows.Err()
}

// FindResidentByName looks up one record by purok and name. Name parts match
// case-insensitively; middle name and suffix narrow the match when given.
func (db *DB) FindResidentByName(purok, givenName, middleName, surname, suffix string) (*Resident, error) {
	query := `SELECT ` + residentColumns + ` FROM residents
		WHERE purok = ? AND given_name = ? COLLATE NOCASE AND surname = ? COLLATE NOCASE`
	args := []interface{}{purok, givenName, surname}

	if middleName != "" {
		query += ` AND middle_name = ? COLLATE NOCASE`
		args = append(args, middleName)
	}
	if suffix != "" {
		query += ` AND suffix = ? COLLATE NOCASE`
		args = append(args, suffix)
	}

	row := db.conn.QueryRow(query+` LIMIT 1`, args...)
	return scanResident(row)
}
