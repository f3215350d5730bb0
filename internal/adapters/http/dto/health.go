package dto

import (
	"maps"
	"slices"
)

// Readiness states.
const (
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	checkOK        = "ok"
)

// ReadinessResponse is the body of GET /health/ready. Checks maps every
// registered checker to "ok" or its error; Failing names the failed ones,
// sorted.
type ReadinessResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Failing []string          `json:"failing,omitempty"`
}

// NewReadinessResponse summarizes the results of a health registry run.
func NewReadinessResponse(results map[string]error) ReadinessResponse {
	resp := ReadinessResponse{Status: StatusReady, Checks: make(map[string]string, len(results))}
	for _, name := range slices.Sorted(maps.Keys(results)) {
		if err := results[name]; err != nil {
			resp.Checks[name] = err.Error()
			resp.Failing = append(resp.Failing, name)
			continue
		}
		resp.Checks[name] = checkOK
	}
	if len(resp.Failing) > 0 {
		resp.Status = StatusNotReady
	}
	return resp
}

// Ready reports whether every check passed.
func (r ReadinessResponse) Ready() bool {
	return r.Status == StatusReady
}
