package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrVoterNotFound is returned when a voter id is not in the store.
var ErrVoterNotFound = errors.New("voter not found")

// DateLayout is the calendar date format used by the roll file and storage.
const DateLayout = "2006-01-02"

// Election identifies one of the tracked elections.
type Election string

const (
	ElectionState2020   Election = "v20state"
	ElectionTown2021    Election = "v21town"
	ElectionPrimary2021 Election = "v21primary"
	ElectionGeneral2022 Election = "v22general"
	ElectionTown2023    Election = "v23town"
)

// Elections lists every tracked election in display order.
var Elections = []Election{
	ElectionState2020,
	ElectionTown2021,
	ElectionPrimary2021,
	ElectionGeneral2022,
	ElectionTown2023,
}

var electionLabels = map[Election]string{
	ElectionState2020:   "2020 State",
	ElectionTown2021:    "2021 Town",
	ElectionPrimary2021: "2021 Primary",
	ElectionGeneral2022: "2022 General",
	ElectionTown2023:    "2023 Town",
}

// Label returns the human-readable election name
func (e Election) Label() string {
	if label, ok := electionLabels[e]; ok {
		return label
	}
	return string(e)
}

// Valid reports whether e is one of the tracked elections
func (e Election) Valid() bool {
	_, ok := electionLabels[e]
	return ok
}

// ParseElection converts a field name such as "v22general" into an Election
func ParseElection(s string) (Election, bool) {
	e := Election(s)
	return e, e.Valid()
}

// Address is a voter's residential address
type Address struct {
	StreetNumber string `json:"street_number"`
	StreetName   string `json:"street_name"`
	Apartment    string `json:"apartment,omitempty"` // empty when the voter has none
	ZipCode      string `json:"zip_code"`
}

// String formats the address on one line
func (a Address) String() string {
	s := a.StreetNumber + " " + a.StreetName
	if a.Apartment != "" {
		s += " Apt " + a.Apartment
	}
	return s + ", " + a.ZipCode
}

// Participation records which tracked elections a voter took part in
type Participation struct {
	State2020   bool `json:"v20state"`
	Town2021    bool `json:"v21town"`
	Primary2021 bool `json:"v21primary"`
	General2022 bool `json:"v22general"`
	Town2023    bool `json:"v23town"`
}

// Voted reports whether the voter participated in e
func (p Participation) Voted(e Election) bool {
	switch e {
	case ElectionState2020:
		return p.State2020
	case ElectionTown2021:
		return p.Town2021
	case ElectionPrimary2021:
		return p.Primary2021
	case ElectionGeneral2022:
		return p.General2022
	case ElectionTown2023:
		return p.Town2023
	}
	return false
}

// With returns a copy of p with the flag for e set to voted
func (p Participation) With(e Election, voted bool) Participation {
	switch e {
	case ElectionState2020:
		p.State2020 = voted
	case ElectionTown2021:
		p.Town2021 = voted
	case ElectionPrimary2021:
		p.Primary2021 = voted
	case ElectionGeneral2022:
		p.General2022 = voted
	case ElectionTown2023:
		p.Town2023 = voted
	}
	return p
}

// Count returns the number of tracked elections voted in
func (p Participation) Count() int {
	n := 0
	for _, e := range Elections {
		if p.Voted(e) {
			n++
		}
	}
	return n
}

// Voter is a registered voter. Values are immutable once loaded.
type Voter struct {
	ID                 string        `json:"id"`
	FirstName          string        `json:"first_name"`
	LastName           string        `json:"last_name"`
	Address            Address       `json:"address"`
	DateOfBirth        time.Time     `json:"date_of_birth"`
	DateOfRegistration time.Time     `json:"date_of_registration"`
	Party              string        `json:"party"` // may be empty
	Precinct           string        `json:"precinct"`
	Voted              Participation `json:"voted"`
	Score              int           `json:"score"`
}

// BirthYear returns the calendar year of the date of birth
func (v Voter) BirthYear() int {
	return v.DateOfBirth.Year()
}

// PartyLabel returns the party code, or PartyNone when it is empty
func (v Voter) PartyLabel() string {
	if v.Party == "" {
		return PartyNone
	}
	return v.Party
}

// FullName returns "First Last"
func (v Voter) FullName() string {
	return v.FirstName + " " + v.LastName
}

func (v Voter) String() string {
	return fmt.Sprintf("%s %s (%s) - Precinct %s", v.FirstName, v.LastName, v.Party, v.Precinct)
}

// Less orders voters by last name, then id. This is the store's default order.
func Less(a, b Voter) bool {
	if a.LastName != b.LastName {
		return a.LastName < b.LastName
	}
	return a.ID < b.ID
}
