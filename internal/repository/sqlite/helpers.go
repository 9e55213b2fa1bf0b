package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"voterroll/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// boolToInt stores a flag as 0 or 1
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ============================================================================
// Date Helpers
// ============================================================================

// Dates are stored as YYYY-MM-DD text so ordering and equality survive the
// driver untouched.

func formatDate(t time.Time) string {
	return t.Format(domain.DateLayout)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(domain.DateLayout, s)
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to the voters table:
// 1. Add field to voterRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update voterColumns constant - APPEND to end
// 4. Update toDomain() to map new field to domain.Voter
// 5. Update voterInsertArgs() and the INSERT in ReplaceAll
//    (derived columns such as birth_year and party_folded go last)
// 6. Add the column to the schema in sqlite.go migrate()
// 7. Update relevant tests
//
// CRITICAL: Column order must match between:
// - voterColumns constant
// - scanArgs() return slice
// - voterInsertArgs() return slice

// ============================================================================
// Voter Row Scanner
// ============================================================================

// voterRow holds all columns from a voter query for scanning
type voterRow struct {
	ID                 string
	LastName           string
	FirstName          string
	StreetNumber       string
	StreetName         string
	Apartment          sql.NullString
	ZipCode            string
	DateOfBirth        string
	DateOfRegistration string
	Party              string
	Precinct           string
	V20State           int
	V21Town            int
	V21Primary         int
	V22General         int
	V23Town            int
	Score              int
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match voterColumns order exactly
func (r *voterRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,                 // 1
		&r.LastName,           // 2
		&r.FirstName,          // 3
		&r.StreetNumber,       // 4
		&r.StreetName,         // 5
		&r.Apartment,          // 6
		&r.ZipCode,            // 7
		&r.DateOfBirth,        // 8
		&r.DateOfRegistration, // 9
		&r.Party,              // 10
		&r.Precinct,           // 11
		&r.V20State,           // 12
		&r.V21Town,            // 13
		&r.V21Primary,         // 14
		&r.V22General,         // 15
		&r.V23Town,            // 16
		&r.Score,              // 17
	}
}

// toDomain converts the scanned row to a domain.Voter
func (r *voterRow) toDomain() (domain.Voter, error) {
	dob, err := parseDate(r.DateOfBirth)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("parse date_of_birth for %s: %w", r.ID, err)
	}
	dor, err := parseDate(r.DateOfRegistration)
	if err != nil {
		return domain.Voter{}, fmt.Errorf("parse date_of_registration for %s: %w", r.ID, err)
	}

	return domain.Voter{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Address: domain.Address{
			StreetNumber: r.StreetNumber,
			StreetName:   r.StreetName,
			Apartment:    nullToString(r.Apartment),
			ZipCode:      r.ZipCode,
		},
		DateOfBirth:        dob,
		DateOfRegistration: dor,
		Party:              r.Party,
		Precinct:           r.Precinct,
		Voted: domain.Participation{
			State2020:   r.V20State != 0,
			Town2021:    r.V21Town != 0,
			Primary2021: r.V21Primary != 0,
			General2022: r.V22General != 0,
			Town2023:    r.V23Town != 0,
		},
		Score: r.Score,
	}, nil
}

// voterColumns is the SELECT column list for voter queries
const voterColumns = `id, last_name, first_name, street_number, street_name,
	apartment_number, zip_code, date_of_birth, date_of_registration,
	party_affiliation, precinct_number,
	v20state, v21town, v21primary, v22general, v23town, voter_score`

// ============================================================================
// Voter Write Helpers
// ============================================================================

// voterInsertArgs prepares arguments for the voter INSERT.
// Order is voterColumns followed by birth_year and party_folded.
func voterInsertArgs(v domain.Voter) []interface{} {
	return []interface{}{
		v.ID,
		v.LastName,
		v.FirstName,
		v.Address.StreetNumber,
		v.Address.StreetName,
		stringToNull(v.Address.Apartment),
		v.Address.ZipCode,
		formatDate(v.DateOfBirth),
		formatDate(v.DateOfRegistration),
		v.Party,
		v.Precinct,
		boolToInt(v.Voted.State2020),
		boolToInt(v.Voted.Town2021),
		boolToInt(v.Voted.Primary2021),
		boolToInt(v.Voted.General2022),
		boolToInt(v.Voted.Town2023),
		v.Score,
		v.BirthYear(),
		domain.FoldParty(v.Party),
	}
}
