package domain

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  FilterSpec
	}{
		{
			name:  "no parameters",
			query: "",
			want:  FilterSpec{},
		},
		{
			name:  "empty strings are unset",
			query: "party_affiliation=&min_dob=&max_dob=&voter_score=",
			want:  FilterSpec{},
		},
		{
			name:  "blank party is unset",
			query: "party_affiliation=+++",
			want:  FilterSpec{},
		},
		{
			name:  "malformed numbers are unset",
			query: "min_dob=19x0&max_dob=abc&voter_score=3.5",
			want:  FilterSpec{},
		},
		{
			name:  "all fields",
			query: "party_affiliation=D&min_dob=1950&max_dob=1990&voter_score=4&v20state=on&v23town=on",
			want: FilterSpec{
				Party:     Some("D"),
				MinYear:   Some(1950),
				MaxYear:   Some(1990),
				Score:     Some(4),
				Elections: []Election{ElectionState2020, ElectionTown2023},
			},
		},
		{
			name:  "unchecked elections",
			query: "v20state=false&v21town=0&v22general=",
			want:  FilterSpec{},
		},
		{
			name:  "unknown parameters ignored",
			query: "page=3&v99future=on",
			want:  FilterSpec{},
		},
		{
			name:  "zero score is a real value",
			query: "voter_score=0",
			want:  FilterSpec{Score: Some(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatalf("bad test query: %v", err)
			}
			got := ParseFilter(values)
			if !reflect.DeepEqual(tt.want, got) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestFilterValuesRoundTrip(t *testing.T) {
	f := FilterSpec{
		Party:     Some("R"),
		MinYear:   Some(1940),
		Score:     Some(2),
		Elections: []Election{ElectionPrimary2021},
	}

	values := f.Values()
	if values.Has("page") {
		t.Error("filter values must not carry pagination")
	}
	got := ParseFilter(values)
	if !reflect.DeepEqual(f, got) {
		t.Errorf("expected %+v after round trip, got %+v", f, got)
	}

	if len(FilterSpec{}.Values()) != 0 {
		t.Error("empty filter should encode to no values")
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !(FilterSpec{}).IsEmpty() {
		t.Error("zero filter should be empty")
	}
	if (FilterSpec{Score: Some(0)}).IsEmpty() {
		t.Error("a set zero score is still a constraint")
	}
	if (FilterSpec{Elections: []Election{ElectionTown2021}}).IsEmpty() {
		t.Error("required election is a constraint")
	}
}

func TestFilterVotersUnsetReturnsAll(t *testing.T) {
	voters := scenarioVoters()
	got := FilterVoters(voters, FilterSpec{})
	if !reflect.DeepEqual(ids(voters), ids(got)) {
		t.Errorf("expected all voters in order, got %v", ids(got))
	}
}

func TestFilterVotersScenario(t *testing.T) {
	voters := scenarioVoters()

	tests := []struct {
		name   string
		filter FilterSpec
		want   []string
	}{
		{"min year inclusive", FilterSpec{MinYear: Some(1980)}, []string{"1", "2", "3"}},
		{"max year inclusive", FilterSpec{MaxYear: Some(1980)}, []string{"1", "3"}},
		{"lower case party", FilterSpec{Party: Some("d")}, []string{"1"}},
		{"upper case party", FilterSpec{Party: Some("D")}, []string{"1"}},
		{"party is not a substring match", FilterSpec{Party: Some("DR")}, []string{}},
		{"score", FilterSpec{Score: Some(3)}, []string{"1", "3"}},
		{"election", FilterSpec{Elections: []Election{ElectionState2020}}, []string{"1", "3"}},
		{"conjunction", FilterSpec{Score: Some(3), Party: Some("d")}, []string{"1"}},
		{"inverted range", FilterSpec{MinYear: Some(1991), MaxYear: Some(1979)}, []string{}},
		{
			"all elections required",
			FilterSpec{Elections: []Election{ElectionState2020, ElectionTown2021}},
			[]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterVoters(voters, tt.filter))
			if !reflect.DeepEqual(tt.want, got) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPartyFilterMatchesOwnParty(t *testing.T) {
	voters := []Voter{
		testVoter("1", "A", "D", 1970, 1),
		testVoter("2", "B", "r", 1970, 1),
		testVoter("3", "C", "Cc", 1970, 1),
		testVoter("4", "D", "U", 1970, 1),
	}

	variants := func(s string) []string {
		return []string{s, FoldParty(s), swapCase(s)}
	}

	for _, v := range voters {
		for _, party := range variants(v.Party) {
			got := FilterVoters(voters, FilterSpec{Party: Some(party)})
			found := false
			for _, g := range got {
				if g.ID == v.ID {
					found = true
				}
			}
			if !found {
				t.Errorf("party filter %q did not include voter %s (party %q)", party, v.ID, v.Party)
			}
		}
	}
}

func swapCase(s string) string {
	b := []byte(s)
	for i, c := range b {
		switch {
		case c >= 'a' && c <= 'z':
			b[i] = c - 'a' + 'A'
		case c >= 'A' && c <= 'Z':
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}

func TestFilterVotersDoesNotMutateInput(t *testing.T) {
	voters := scenarioVoters()
	before := ids(voters)
	_ = FilterVoters(voters, FilterSpec{Party: Some("R")})
	if !reflect.DeepEqual(before, ids(voters)) {
		t.Error("FilterVoters modified its input")
	}
}

func TestAnd(t *testing.T) {
	v := testVoter("1", "A", "D", 1970, 1)
	yes := func(Voter) bool { return true }
	no := func(Voter) bool { return false }

	if !And()(v) {
		t.Error("empty conjunction should match")
	}
	if !And(yes, yes)(v) {
		t.Error("expected true")
	}
	if And(yes, no, yes)(v) {
		t.Error("expected false")
	}
}
