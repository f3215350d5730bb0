package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-actor/internal/platform/httpclient"
)

// errPanicked is all a client learns about a panic.
var errPanicked = errors.New("internal server error")

// Recovery turns a panic below it into a 500 problem response, unless the
// response had already started, and logs the panic with its stack, the
// request ID and the actor the request was for. http.ErrAbortHandler is
// passed on so net/http can abort the connection.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := record(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if v == http.ErrAbortHandler {
					panic(v)
				}

				_, name := route(r)
				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("panic", fmt.Sprint(v)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("actor", name),
					slog.String("request_id", rec.Header().Get(httpclient.HeaderRequestID)),
				)
				if rec.started() {
					return
				}
				dto.SetRunHeaders(rec.Header(), nil, errPanicked)
				dto.WriteErrorResponse(rec, r, errPanicked)
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
