// Package handler implements the HTTP layer for the voter roll.
//
// # Handlers
//
// VoterHandler serves the browsable pages (voter list, voter detail and
// graphs) and the JSON API that backs them.
//
// Middleware provides request logging, panic recovery, and CORS support.
//
// # Filtering
//
// Every list, analytics and export endpoint accepts the same query
// parameters: party_affiliation, min_dob, max_dob, voter_score and one
// checkbox per election (v20state, v21town, v21primary, v22general,
// v23town). Unparseable values are ignored rather than rejected.
//
// # Response Format
//
// Success responses return JSON data with status 200.
// Error responses return JSON with {error, details} structure.
package handler
