// Package service implements the voter roll's query and reload logic.
//
// VoterService sits between the HTTP handlers and the repository. It
// exposes the two core operations, FilterVoters and Aggregate, plus the
// list, detail and reload operations the pages need.
//
// # Event System
//
// Reloads publish events on an EventBus so other components (logging,
// cached form choices) can react to a new roll without polling.
//
// # Design Principles
//
// - Filtering and aggregation never fail on caller input
// - Repository pattern for data access
// - One reload at a time; queries are never blocked by a reload
package service
