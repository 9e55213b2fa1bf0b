// Package domain defines the core types of the voter roll browser.
//
// This package contains the voter record, the election participation flags,
// the optional-field filter used to narrow the roll, and the pure
// aggregation functions that back the analytics charts.
//
// # Core Types
//
// Voter is one registered voter as loaded from the roll file. Records are
// created in bulk by the ingest package and never mutated afterwards.
//
// Election names one of the five tracked elections. The set is fixed and is
// not derived from data.
//
// FilterSpec is a conjunction of optional constraints (party, birth year
// range, voter score, required elections). An unset field imposes no
// constraint.
//
// # Filtering
//
// FilterSpec.Predicate compiles a filter into a Predicate over Voter.
// Storage backends that cannot evaluate Go predicates (SQLite) compile the
// same FilterSpec into their own query language and must agree with
// Predicate on every record.
//
// # Aggregation
//
// BirthYearHistogram, PartyHistogram and ParticipationCounts are independent
// pure functions over a filtered sequence. Aggregate runs all three.
//
// # Design Principles
//
// - Immutable value objects
// - No database or external dependencies beyond text folding
// - Total functions: filtering and aggregation never fail
package domain
