// Package domain holds the sentinel errors shared by the gateway's layers.
// Adapters map them to transport status codes; actor-level signals
// (failures, argument errors) live in pkg/actor.
package domain
