package domain

import "time"

// testVoter builds a voter with the fields filters look at
func testVoter(id, last, party string, birthYear, score int, voted ...Election) Voter {
	var p Participation
	for _, e := range voted {
		p = p.With(e, true)
	}
	return Voter{
		ID:                 id,
		FirstName:          "Test",
		LastName:           last,
		Address:            Address{StreetNumber: "1", StreetName: "Main St", ZipCode: "02458"},
		DateOfBirth:        time.Date(birthYear, time.June, 15, 0, 0, 0, 0, time.UTC),
		DateOfRegistration: time.Date(2010, time.January, 2, 0, 0, 0, 0, time.UTC),
		Party:              party,
		Precinct:           "3",
		Voted:              p,
		Score:              score,
	}
}

// scenarioVoters is the three-record roll used across tests
func scenarioVoters() []Voter {
	return []Voter{
		testVoter("1", "Adams", "D", 1980, 3, ElectionState2020),
		testVoter("2", "Baker", "R", 1990, 5),
		testVoter("3", "Clark", "", 1980, 3, ElectionState2020),
	}
}

func ids(voters []Voter) []string {
	out := make([]string, 0, len(voters))
	for _, v := range voters {
		out = append(out, v.ID)
	}
	return out
}
