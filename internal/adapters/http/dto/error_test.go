package dto_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/domain"
	"github.com/jsamuelsen11/go-actor/pkg/actor"
)

func TestNewErrorResponse(t *testing.T) {
	t.Parallel()

	inputErr := &actor.ArgumentError{
		Actor:  "ChargeCard",
		Origin: actor.OriginInput,
		Violations: []actor.Violation{
			{Origin: actor.OriginInput, Key: "card_number", Message: "must be 16 digits"},
			{Origin: actor.OriginInput, Key: "amount_cents", Message: "is required"},
		},
	}
	outputErr := &actor.ArgumentError{
		Actor:      "ReserveStock",
		Origin:     actor.OriginOutput,
		Violations: []actor.Violation{{Origin: actor.OriginOutput, Key: "reserved", Message: "is required"}},
	}

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantActor  string
		wantErrors []dto.ErrorDetail
	}{
		{name: "not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "forbidden", err: domain.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "conflict", err: domain.ErrConflict, wantStatus: http.StatusConflict},
		{name: "remote unreachable", err: fmt.Errorf("calling ChargeCard: %w", domain.ErrUnavailable), wantStatus: http.StatusBadGateway},
		{name: "deadline", err: fmt.Errorf("ChargeCard: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout},
		{name: "unknown", err: errors.New("oops"), wantStatus: http.StatusInternalServerError},
		{name: "failure", err: &actor.Failure{Result: actor.NewResult(nil)}, wantStatus: http.StatusUnprocessableEntity},
		{
			name:       "input violations keep their order",
			err:        fmt.Errorf("PlaceOrder: %w", inputErr),
			wantStatus: http.StatusBadRequest,
			wantActor:  "ChargeCard",
			wantErrors: []dto.ErrorDetail{
				{Location: "input.card_number", Message: "must be 16 digits"},
				{Location: "input.amount_cents", Message: "is required"},
			},
		},
		{
			name:       "output violations blame the actor",
			err:        outputErr,
			wantStatus: http.StatusInternalServerError,
			wantActor:  "ReserveStock",
			wantErrors: []dto.ErrorDetail{{Location: "output.reserved", Message: "is required"}},
		},
		{
			name:       "unreadable body",
			err:        &domain.ValidationError{Fields: map[string]string{"body": "invalid JSON"}},
			wantStatus: http.StatusBadRequest,
			wantErrors: []dto.ErrorDetail{{Location: "body", Message: "invalid JSON"}},
		},
		{
			name: "request fields are sorted",
			err: &domain.ValidationError{Fields: map[string]string{
				"sku":      "unknown",
				"quantity": "must be positive",
			}},
			wantStatus: http.StatusBadRequest,
			wantErrors: []dto.ErrorDetail{
				{Location: "body.quantity", Message: "must be positive"},
				{Location: "body.sku", Message: "unknown"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodPost, "/api/v1/actors/PlaceOrder/call?trace=1", nil)
			got := dto.NewErrorResponse(r, tt.err)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, http.StatusText(tt.wantStatus), got.Title)
			assert.Equal(t, "about:blank", got.Type)
			assert.Equal(t, tt.err.Error(), got.Detail)
			assert.Equal(t, "/api/v1/actors/PlaceOrder/call?trace=1", got.Instance)
			assert.Equal(t, tt.wantActor, got.Actor)
			assert.Equal(t, tt.wantErrors, got.Errors)
			if !errors.Is(tt.err, actor.ErrFailure) {
				assert.Nil(t, got.Result)
			}
		})
	}
}

func TestWriteErrorResponse_FailureCarriesResult(t *testing.T) {
	t.Parallel()

	result := actor.NewResult(actor.Values{"sku": "apple", "stock_released": true})
	result.Set("error", "card declined")
	err := fmt.Errorf("order rejected: %w", &actor.Failure{Result: result})

	w := httptest.NewRecorder()
	dto.WriteErrorResponse(w, httptest.NewRequest(http.MethodPost, "/api/v1/actors/PlaceOrder/call", nil), err)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body struct {
		Result map[string]any `json:"result"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "card declined", body.Result["error"])
	assert.Equal(t, true, body.Result["stock_released"])
}

func TestWriteProblem(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodDelete, "/api/v1/actors", nil)
	dto.WriteProblem(w, r, http.StatusMethodNotAllowed, "DELETE is not allowed on /api/v1/actors")

	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var got dto.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, dto.ErrorResponse{
		Type:     "about:blank",
		Title:    "Method Not Allowed",
		Status:   http.StatusMethodNotAllowed,
		Detail:   "DELETE is not allowed on /api/v1/actors",
		Instance: "/api/v1/actors",
	}, got)
}
