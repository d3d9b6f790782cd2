package models

import (
	"fmt"
	"strings"
)

// Resident is a single resident record keyed by national identity number.
// Optional fields are nil when absent.
type Resident struct {
	ID                  int64   `db:"id" json:"id"`
	HouseholdNumber     string  `db:"household_number" json:"household_number"`
	NationalID          string  `db:"national_id" json:"national_id"`
	FullName            string  `db:"full_name" json:"full_name"`
	Sex                 *string `db:"sex" json:"sex"`
	BirthDate           *Date   `db:"birth_date" json:"birth_date"`
	Religion            *string `db:"religion" json:"religion"`
	Education           *string `db:"education" json:"education"`
	Occupation          *string `db:"occupation" json:"occupation"`
	BloodType           *string `db:"blood_type" json:"blood_type"`
	MaritalStatus       *string `db:"marital_status" json:"marital_status"`
	MarriageDate        *Date   `db:"marriage_date" json:"marriage_date"`
	FatherName          *string `db:"father_name" json:"father_name"`
	MotherName          *string `db:"mother_name" json:"mother_name"`
	HeadOfHouseholdName *string `db:"head_of_household_name" json:"head_of_household_name"`
	Address             *string `db:"address" json:"address"`
	RT                  *string `db:"rt" json:"rt"`
	RW                  *string `db:"rw" json:"rw"`
	DateIssued          *Date   `db:"date_issued" json:"date_issued"`
}

// Normalize trims surrounding whitespace from the mandatory fields.
func (r Resident) Normalize() Resident {
	r.HouseholdNumber = strings.TrimSpace(r.HouseholdNumber)
	r.NationalID = strings.TrimSpace(r.NationalID)
	r.FullName = strings.TrimSpace(r.FullName)
	return r
}

// Validate checks the fields that are mandatory at creation.
func (r Resident) Validate() error {
	var missing []string
	if strings.TrimSpace(r.HouseholdNumber) == "" {
		missing = append(missing, "household_number")
	}
	if strings.TrimSpace(r.NationalID) == "" {
		missing = append(missing, "national_id")
	}
	if strings.TrimSpace(r.FullName) == "" {
		missing = append(missing, "full_name")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

// Values returns the data fields in ResidentColumns order.
func (r Resident) Values() []any {
	return []any{
		r.HouseholdNumber, r.NationalID, r.FullName, r.Sex, r.BirthDate,
		r.Religion, r.Education, r.Occupation, r.BloodType, r.MaritalStatus,
		r.MarriageDate, r.FatherName, r.MotherName, r.HeadOfHouseholdName,
		r.Address, r.RT, r.RW, r.DateIssued,
	}
}

// ResidentColumns lists the data columns of the residents table.
var ResidentColumns = []string{
	"household_number", "national_id", "full_name", "sex", "birth_date",
	"religion", "education", "occupation", "blood_type", "marital_status",
	"marriage_date", "father_name", "mother_name", "head_of_household_name",
	"address", "rt", "rw", "date_issued",
}

// ResidentPatch carries a partial update. A nil field is left unchanged.
type ResidentPatch struct {
	HouseholdNumber     *string `json:"household_number"`
	NationalID          *string `json:"national_id"`
	FullName            *string `json:"full_name"`
	Sex                 *string `json:"sex"`
	BirthDate           *Date   `json:"birth_date"`
	Religion            *string `json:"religion"`
	Education           *string `json:"education"`
	Occupation          *string `json:"occupation"`
	BloodType           *string `json:"blood_type"`
	MaritalStatus       *string `json:"marital_status"`
	MarriageDate        *Date   `json:"marriage_date"`
	FatherName          *string `json:"father_name"`
	MotherName          *string `json:"mother_name"`
	HeadOfHouseholdName *string `json:"head_of_household_name"`
	Address             *string `json:"address"`
	RT                  *string `json:"rt"`
	RW                  *string `json:"rw"`
	DateIssued          *Date   `json:"date_issued"`
}

// Assignment is one column set by a patch.
type Assignment struct {
	Column string
	Value  any
}

// Assignments returns the supplied fields in ResidentColumns order.
func (p ResidentPatch) Assignments() []Assignment {
	fields := []struct {
		column string
		set    bool
		value  any
	}{
		{"household_number", p.HouseholdNumber != nil, p.HouseholdNumber},
		{"national_id", p.NationalID != nil, p.NationalID},
		{"full_name", p.FullName != nil, p.FullName},
		{"sex", p.Sex != nil, p.Sex},
		{"birth_date", p.BirthDate != nil, p.BirthDate},
		{"religion", p.Religion != nil, p.Religion},
		{"education", p.Education != nil, p.Education},
		{"occupation", p.Occupation != nil, p.Occupation},
		{"blood_type", p.BloodType != nil, p.BloodType},
		{"marital_status", p.MaritalStatus != nil, p.MaritalStatus},
		{"marriage_date", p.MarriageDate != nil, p.MarriageDate},
		{"father_name", p.FatherName != nil, p.FatherName},
		{"mother_name", p.MotherName != nil, p.MotherName},
		{"head_of_household_name", p.HeadOfHouseholdName != nil, p.HeadOfHouseholdName},
		{"address", p.Address != nil, p.Address},
		{"rt", p.RT != nil, p.RT},
		{"rw", p.RW != nil, p.RW},
		{"date_issued", p.DateIssued != nil, p.DateIssued},
	}
	out := make([]Assignment, 0, len(fields))
	for _, f := range fields {
		if f.set {
			out = append(out, Assignment{Column: f.column, Value: f.value})
		}
	}
	return out
}

// Normalize trims surrounding whitespace from supplied mandatory fields.
func (p ResidentPatch) Normalize() ResidentPatch {
	trim := func(s *string) *string {
		if s == nil {
			return nil
		}
		t := strings.TrimSpace(*s)
		return &t
	}
	p.HouseholdNumber = trim(p.HouseholdNumber)
	p.NationalID = trim(p.NationalID)
	p.FullName = trim(p.FullName)
	return p
}

// Validate rejects patches that would blank a mandatory field.
func (p ResidentPatch) Validate() error {
	var blank []string
	if p.HouseholdNumber != nil && strings.TrimSpace(*p.HouseholdNumber) == "" {
		blank = append(blank, "household_number")
	}
	if p.NationalID != nil && strings.TrimSpace(*p.NationalID) == "" {
		blank = append(blank, "national_id")
	}
	if p.FullName != nil && strings.TrimSpace(*p.FullName) == "" {
		blank = append(blank, "full_name")
	}
	if len(blank) > 0 {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidation, strings.Join(blank, ", "))
	}
	return nil
}
