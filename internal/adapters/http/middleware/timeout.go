package middleware

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-actor/internal/adapters/http/dto"
)

// Timeout gives each request a deadline of d. The handler runs on its own
// goroutine against a buffered response; if it has not returned by the
// deadline the client gets a 504 problem response with the timeout outcome
// and whatever the handler writes later is dropped. A panic in the handler
// is raised again on the serving goroutine so Recovery sees it. A zero d
// disables the deadline.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			r = r.WithContext(ctx)

			buf := &bufferedResponse{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)
			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
						return
					}
					close(done)
				}()
				next.ServeHTTP(buf, r)
			}()

			select {
			case v := <-panicked:
				panic(v)
			case <-done:
				buf.copyTo(w)
			case <-ctx.Done():
				buf.abandon()
				err := fmt.Errorf("%s %s: %w", r.Method, r.URL.Path, ctx.Err())
				dto.SetRunHeaders(w.Header(), nil, err)
				dto.WriteErrorResponse(w, r, err)
			}
		})
	}
}

// bufferedResponse holds a handler's answer until Timeout decides whether
// it is sent.
type bufferedResponse struct {
	header http.Header

	mu        sync.Mutex
	status    int
	body      bytes.Buffer
	abandoned bool
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.abandoned {
		return 0, http.ErrHandlerTimeout
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

func (b *bufferedResponse) abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.abandoned = true
}

// copyTo sends the buffered answer. Only called once the handler returned.
func (b *bufferedResponse) copyTo(w http.ResponseWriter) {
	maps.Copy(w.Header(), b.header)
	if b.status == 0 {
		b.status = http.StatusOK
	}
	w.WriteHeader(b.status)
	_, _ = w.Write(b.body.Bytes())
}
