// Package repository defines the record store contract for the voter roll.
//
// The store holds the full set of voters loaded from the roll file. It is
// read-mostly: queries filter the collection with a domain.FilterSpec, and
// the only write is ReplaceAll, which atomically swaps the whole roll for a
// freshly ingested one.
//
// # Ordering
//
// Query results are ordered by last name, then voter id, so pages stay
// stable across requests.
//
// # Implementations
//
// The sqlite subpackage persists the roll with modernc.org/sqlite and
// compiles filters into SQL. The memory subpackage keeps the roll in a slice
// and evaluates domain.FilterSpec.Predicate directly. Both must return the
// same voters for the same filter.
//
// # Consistency
//
// A reload running concurrently with a query is not coordinated with it;
// readers see either the previous roll or the new one, never a mix.
package repository
