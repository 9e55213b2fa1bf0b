package sqlite

import (
	"strings"

	"voterroll/internal/domain"
)

// sqlCondition is a WHERE clause fragment with its positional parameters.
type sqlCondition struct {
	Clause string
	Params []any
}

// electionColumns maps elections to their flag columns.
var electionColumns = map[domain.Election]string{
	domain.ElectionState2020:   "v20state",
	domain.ElectionTown2021:    "v21town",
	domain.ElectionPrimary2021: "v21primary",
	domain.ElectionGeneral2022: "v22general",
	domain.ElectionTown2023:    "v23town",
}

// buildCondition compiles a filter into a conjunction of column predicates.
// An empty filter yields an empty clause.
func buildCondition(f domain.FilterSpec) sqlCondition {
	var (
		clauses []string
		params  []any
	)

	if party, ok := f.Party.Get(); ok {
		// party_folded holds domain.FoldParty of the stored code
		clauses = append(clauses, "party_folded = ?")
		params = append(params, domain.FoldParty(party))
	}
	if year, ok := f.MinYear.Get(); ok {
		clauses = append(clauses, "birth_year >= ?")
		params = append(params, year)
	}
	if year, ok := f.MaxYear.Get(); ok {
		clauses = append(clauses, "birth_year <= ?")
		params = append(params, year)
	}
	if score, ok := f.Score.Get(); ok {
		clauses = append(clauses, "voter_score = ?")
		params = append(params, score)
	}
	for _, e := range f.Elections {
		col, ok := electionColumns[e]
		if !ok {
			// Unknown elections cannot be satisfied
			clauses = append(clauses, "0")
			continue
		}
		clauses = append(clauses, col+" = 1")
	}

	return sqlCondition{
		Clause: strings.Join(clauses, " AND "),
		Params: params,
	}
}

// where returns the clause prefixed with WHERE, or "" when unconstrained
func (c sqlCondition) where() string {
	if c.Clause == "" {
		return ""
	}
	return " WHERE " + c.Clause
}
