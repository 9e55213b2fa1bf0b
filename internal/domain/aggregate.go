package domain

// PartyNone labels voters with no party affiliation
const PartyNone = "None"

// AggregationResult holds the three frequency tables for a voter sequence
type AggregationResult struct {
	// BirthYears is sparse: only years that occur are present
	BirthYears map[int]int `json:"birth_years"`
	// Parties groups empty party codes under PartyNone
	Parties map[string]int `json:"parties"`
	// Participation always has one entry per tracked election
	Participation map[Election]int `json:"participation"`
}

// Aggregate computes all three frequency tables
func Aggregate(voters []Voter) AggregationResult {
	return AggregationResult{
		BirthYears:    BirthYearHistogram(voters),
		Parties:       PartyHistogram(voters),
		Participation: ParticipationCounts(voters),
	}
}

// BirthYearHistogram counts voters per birth year
func BirthYearHistogram(voters []Voter) map[int]int {
	counts := make(map[int]int)
	for _, v := range voters {
		counts[v.BirthYear()]++
	}
	return counts
}

// PartyHistogram counts voters per party code
func PartyHistogram(voters []Voter) map[string]int {
	counts := make(map[string]int)
	for _, v := range voters {
		counts[v.PartyLabel()]++
	}
	return counts
}

// ParticipationCounts counts, for each tracked election, the voters who took part
func ParticipationCounts(voters []Voter) map[Election]int {
	counts := make(map[Election]int, len(Elections))
	for _, e := range Elections {
		counts[e] = 0
	}
	for _, v := range voters {
		for _, e := range Elections {
			if v.Voted.Voted(e) {
				counts[e]++
			}
		}
	}
	return counts
}

// Total returns the number of voters aggregated
func (r AggregationResult) Total() int {
	n := 0
	for _, c := range r.BirthYears {
		n += c
	}
	return n
}
