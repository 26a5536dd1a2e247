// Package metrics provides Prometheus collectors for the agent.
//
// Collectors are package-level and registered once with Register. The
// serve command exposes them on /metrics; one-shot commands record into
// them without exposing anything.
package metrics
