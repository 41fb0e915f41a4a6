package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"barangayserver/database"
	apperrors "barangayserver/server/errors"
)

// ResidentService manages survey resident records.
type ResidentService struct {
	db *database.DB
}

// NewResidentService creates a new resident service.
func NewResidentService(db *database.DB) *ResidentService {
	return &ResidentService{db: db}
}

// List returns every resident record.
func (rs *ResidentService) List() ([]*database.Resident, error) {
	residents, err := rs.db.ListResidents()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list residents", err)
	}
	return residents, nil
}

// Get returns one resident by ID.
func (rs *ResidentService) Get(id string) (*database.Resident, error) {
	resident, err := rs.db.GetResident(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("resident not found", err)
		}
		return nil, apperrors.NewInternalError("failed to load resident", err)
	}
	return resident, nil
}

// Create validates and stores a new resident.
func (rs *ResidentService) Create(r *database.Resident) (*database.Resident, error) {
	if err := validateResident(r); err != nil {
		return nil, err
	}

	if err := rs.db.InsertResident(r); err != nil {
		return nil, apperrors.NewInternalError("failed to insert resident", err)
	}
	return r, nil
}

// Update replaces an existing resident record.
func (rs *ResidentService) Update(r *database.Resident) (*database.Resident, error) {
	if r.ID == "" {
		return nil, apperrors.NewValidationError("resident id is required", nil)
	}
	if err := validateResident(r); err != nil {
		return nil, err
	}

	if err := rs.db.UpdateResident(r); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("resident not found", err)
		}
		return nil, apperrors.NewInternalError("failed to update resident", err)
	}
	return r, nil
}

// Delete removes a resident by ID.
func (rs *ResidentService) Delete(id string) error {
	if err := rs.db.DeleteResident(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NewNotFoundError("resident not found", err)
		}
		return apperrors.NewInternalError("failed to delete resident", err)
	}
	return nil
}

// Intake stores one survey form submission: all members of a household
// entered together. The household and family numbers come from the store
// (max + 1) so numbering keeps up with concurrent operators, and birthdates
// are normalized to MM/DD/YYYY.
func (rs *ResidentService) Intake(members []*database.Resident) ([]*database.Resident, error) {
	if len(members) == 0 {
		return nil, apperrors.NewValidationError("at least one household member is required", nil)
	}

	household, families, err := rs.db.NextHouseholdNumbers()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to assign household number", err)
	}

	for _, m := range members {
		if err := validateResident(m); err != nil {
			return nil, err
		}
		m.HouseholdNumber = strconv.Itoa(household)
		m.NumberOfFamilies = strconv.Itoa(families)
		m.Birthdate = formatBirthdate(m.Birthdate)
	}

	if err := rs.db.InsertResidents(members); err != nil {
		return nil, apperrors.NewInternalError("failed to store household", err)
	}
	return members, nil
}

// FamilyQuery is a family lookup request. Either FamilyNumber or the name
// triple identifies the family; purok is always required.
type FamilyQuery struct {
	Purok        string `json:"purok"`
	FamilyNumber string `json:"familyNumber"`
	GivenName    string `json:"givenName"`
	MiddleName   string `json:"middleName"`
	Surname      string `json:"surname"`
	Suffix       string `json:"suffix"`
}

// FindFamily returns the members of one family. With a family number the
// lookup is direct; otherwise a case-insensitive name match locates a
// member first and the family is read through that member's numbers.
func (rs *ResidentService) FindFamily(q FamilyQuery) ([]*database.Resident, error) {
	if strings.TrimSpace(q.Purok) == "" {
		return nil, apperrors.NewValidationError("purok is required", nil)
	}

	familyNo := strings.TrimSpace(q.FamilyNumber)
	if familyNo == "" {
		if strings.TrimSpace(q.Surname) == "" || strings.TrimSpace(q.GivenName) == "" {
			return nil, apperrors.NewValidationError("either a family number or a given name and surname is required", nil)
		}

		member, err := rs.db.FindResidentByName(q.Purok, q.GivenName, q.MiddleName, q.Surname, q.Suffix)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, apperrors.NewNotFoundError("no resident matches that name", err)
			}
			return nil, apperrors.NewInternalError("failed to look up resident", err)
		}
		familyNo = member.NumberOfFamilies
	}

	members, err := rs.db.FindFamilyMembers(q.Purok, familyNo)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load family members", err)
	}
	if len(members) == 0 {
		return nil, apperrors.NewNotFoundError("family not found", nil)
	}
	return members, nil
}

// UpdateFamily applies edits to each listed member record.
func (rs *ResidentService) UpdateFamily(members []*database.Resident) ([]*database.Resident, error) {
	if len(members) == 0 {
		return nil, apperrors.NewValidationError("at least one member is required", nil)
	}

	for _, m := range members {
		if _, err := rs.Update(m); err != nil {
			return nil, apperrors.WrapError(err, fmt.Sprintf("member %s", m.ID))
		}
	}
	return members, nil
}

func validateResident(r *database.Resident) error {
	if strings.TrimSpace(r.Surname) == "" {
		return apperrors.NewValidationError("surname is required", nil)
	}
	if strings.TrimSpace(r.GivenName) == "" {
		return apperrors.NewValidationError("given name is required", nil)
	}
	if strings.TrimSpace(r.Purok) == "" {
		return apperrors.NewValidationError("purok is required", nil)
	}
	if r.Age < 0 || r.Age > 150 {
		return apperrors.NewValidationError("age is out of range", nil)
	}
	return nil
}

// formatBirthdate normalizes a birthdate to MM/DD/YYYY. Inputs that match
// neither the ISO nor the slash form pass through untouched.
func formatBirthdate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	for _, layout := range []string{"2006-01-02", "01/02/2006", "1/2/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("01/02/2006")
		}
	}
	return s
}
