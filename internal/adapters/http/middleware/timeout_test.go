package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/middleware"
)

func TestTimeout_ZeroDisablesDeadline(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	h := middleware.Timeout(0)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", http.NoBody))

	assert.False(t, hasDeadline)
}

func TestTimeout_CopiesFinishedResponse(t *testing.T) {
	t.Parallel()

	var hasDeadline bool
	h := middleware.Timeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"counter":2}`))
	}))

	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-ID", "req-1")
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", http.NoBody))

	assert.True(t, hasDeadline)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"counter":2}`, rec.Body.String())
}

func TestTimeout_DropsLateWrites(t *testing.T) {
	t.Parallel()

	lateErr := make(chan error, 1)
	h := middleware.Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		time.Sleep(10 * time.Millisecond)
		_, err := w.Write([]byte("late"))
		lateErr <- err
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", http.NoBody))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	select {
	case err := <-lateErr:
		require.ErrorIs(t, err, http.ErrHandlerTimeout)
	case <-time.After(time.Second):
		t.Fatal("handler did not finish")
	}
	assert.NotContains(t, rec.Body.String(), "late")
}
