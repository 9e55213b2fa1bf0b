package domain

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Query parameter names used by the filter form
const (
	ParamParty   = "party_affiliation"
	ParamMinYear = "min_dob"
	ParamMaxYear = "max_dob"
	ParamScore   = "voter_score"
)

// Optional holds a value together with whether it was supplied.
// The zero value is unset.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a set Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Get returns the value and whether it is set
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether a value was supplied
func (o Optional[T]) IsSet() bool {
	return o.set
}

// FilterSpec is a conjunction of optional constraints over voters.
// Unset fields impose no constraint.
type FilterSpec struct {
	Party   Optional[string] // exact match, case-insensitive
	MinYear Optional[int]    // inclusive
	MaxYear Optional[int]    // inclusive
	Score   Optional[int]

	// Elections that must all have been voted in. Order is not significant.
	Elections []Election
}

// IsEmpty reports whether the filter matches every voter
func (f FilterSpec) IsEmpty() bool {
	return !f.Party.IsSet() && !f.MinYear.IsSet() && !f.MaxYear.IsSet() &&
		!f.Score.IsSet() && len(f.Elections) == 0
}

// RequiresElection reports whether e is in the required set
func (f FilterSpec) RequiresElection(e Election) bool {
	for _, req := range f.Elections {
		if req == e {
			return true
		}
	}
	return false
}

// ParseFilter builds a FilterSpec from form values.
// Empty, blank or malformed values are treated as unset; it never fails.
func ParseFilter(values url.Values) FilterSpec {
	var f FilterSpec

	if party := strings.TrimSpace(values.Get(ParamParty)); party != "" {
		f.Party = Some(party)
	}
	f.MinYear = parseOptionalInt(values.Get(ParamMinYear))
	f.MaxYear = parseOptionalInt(values.Get(ParamMaxYear))
	f.Score = parseOptionalInt(values.Get(ParamScore))

	for _, e := range Elections {
		if isChecked(values.Get(string(e))) {
			f.Elections = append(f.Elections, e)
		}
	}

	return f
}

// Values encodes the filter back into form values; the inverse of ParseFilter
func (f FilterSpec) Values() url.Values {
	values := url.Values{}
	if party, ok := f.Party.Get(); ok {
		values.Set(ParamParty, party)
	}
	if year, ok := f.MinYear.Get(); ok {
		values.Set(ParamMinYear, strconv.Itoa(year))
	}
	if year, ok := f.MaxYear.Get(); ok {
		values.Set(ParamMaxYear, strconv.Itoa(year))
	}
	if score, ok := f.Score.Get(); ok {
		values.Set(ParamScore, strconv.Itoa(score))
	}
	for _, e := range Elections {
		if f.RequiresElection(e) {
			values.Set(string(e), "on")
		}
	}
	return values
}

func parseOptionalInt(s string) Optional[int] {
	s = strings.TrimSpace(s)
	if s == "" {
		return Optional[int]{}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return Optional[int]{}
	}
	return Some(n)
}

// isChecked follows HTML checkbox semantics: a non-empty value means checked
// unless it spells out false.
func isChecked(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "off", "no":
		return false
	}
	return true
}

// FoldParty returns the case-folded form used to compare party codes
func FoldParty(party string) string {
	// cases.Caser is stateful, so one is built per call
	return cases.Fold().String(party)
}

// Predicate reports whether a voter satisfies a filter
type Predicate func(v Voter) bool

// MatchAll is the unconstrained predicate
func MatchAll(Voter) bool { return true }

// And combines predicates; the result holds only when all of them hold
func And(preds ...Predicate) Predicate {
	switch len(preds) {
	case 0:
		return MatchAll
	case 1:
		return preds[0]
	}
	return func(v Voter) bool {
		for _, p := range preds {
			if !p(v) {
				return false
			}
		}
		return true
	}
}

// Predicate compiles the filter into a conjunction of its active constraints
func (f FilterSpec) Predicate() Predicate {
	var preds []Predicate

	if party, ok := f.Party.Get(); ok {
		want := FoldParty(party)
		preds = append(preds, func(v Voter) bool {
			return FoldParty(v.Party) == want
		})
	}
	if minYear, ok := f.MinYear.Get(); ok {
		preds = append(preds, func(v Voter) bool {
			return v.BirthYear() >= minYear
		})
	}
	if maxYear, ok := f.MaxYear.Get(); ok {
		preds = append(preds, func(v Voter) bool {
			return v.BirthYear() <= maxYear
		})
	}
	if score, ok := f.Score.Get(); ok {
		preds = append(preds, func(v Voter) bool {
			return v.Score == score
		})
	}
	for _, e := range f.Elections {
		preds = append(preds, func(v Voter) bool {
			return v.Voted.Voted(e)
		})
	}

	return And(preds...)
}

// FilterVoters returns the voters matching f, preserving input order.
// The input slice is not modified.
func FilterVoters(voters []Voter, f FilterSpec) []Voter {
	pred := f.Predicate()
	out := make([]Voter, 0, len(voters))
	for _, v := range voters {
		if pred(v) {
			out = append(out, v)
		}
	}
	return out
}
