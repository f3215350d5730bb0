// Package ports defines interfaces between layers in the hexagonal architecture.
// Service ports are implemented by the application layer and called by handlers.
// Outbound collaborators (remote actors) are reached through actor.Caller, so
// the only other port here is health reporting.
package ports
