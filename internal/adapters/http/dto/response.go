// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"github.com/jsamuelsen11/go-actor/internal/ports"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

// AttributeResponse describes one declared input or output.
type AttributeResponse struct {
	Name       string   `json:"name"`
	Types      []string `json:"types,omitempty"`
	Required   bool     `json:"required"`
	HasDefault bool     `json:"has_default"`
	NilAllowed bool     `json:"nil_allowed"`
}

// ActorResponse describes one actor in HTTP responses.
type ActorResponse struct {
	Name    string              `json:"name"`
	Inputs  []AttributeResponse `json:"inputs"`
	Outputs []AttributeResponse `json:"outputs"`
}

// ActorListResponse represents the actor catalog in HTTP responses.
type ActorListResponse struct {
	Actors []ActorResponse `json:"actors"`
	Count  int             `json:"count"`
}

// ResultResponse represents the outcome of an actor run. Values keep the
// order in which the actors wrote them.
type ResultResponse struct {
	ID      string        `json:"id"`
	Failure bool          `json:"failure"`
	Success bool          `json:"success"`
	Values  *actor.Result `json:"values"`
}

// ToActorListResponse converts actor descriptions to an HTTP list response.
func ToActorListResponse(infos []ports.ActorInfo) ActorListResponse {
	items := make([]ActorResponse, len(infos))
	for i, info := range infos {
		items[i] = ActorResponse{
			Name:    info.Name,
			Inputs:  toAttributeResponses(info.Inputs),
			Outputs: toAttributeResponses(info.Outputs),
		}
	}
	return ActorListResponse{
		Actors: items,
		Count:  len(items),
	}
}

// ToResultResponse converts an actor result to an HTTP response DTO.
func ToResultResponse(r *actor.Result) ResultResponse {
	return ResultResponse{
		ID:      r.ID(),
		Failure: r.IsFailure(),
		Success: r.IsSuccess(),
		Values:  r,
	}
}

func toAttributeResponses(attrs []ports.AttributeInfo) []AttributeResponse {
	out := make([]AttributeResponse, len(attrs))
	for i, a := range attrs {
		out[i] = AttributeResponse{
			Name:       a.Name,
			Types:      a.Types,
			Required:   a.Required,
			HasDefault: a.HasDefault,
			NilAllowed: a.NilAllowed,
		}
	}
	return out
}
