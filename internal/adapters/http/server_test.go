package http_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapthttp "github.com/jsamuelsen11/go-actor/internal/adapters/http"
	"github.com/jsamuelsen11/go-actor/internal/platform/config"
)

func serverConfig(drain time.Duration) config.ServerConfig {
	return config.ServerConfig{
		Host:         "127.0.0.1",
		ReadTimeout:  time.Second,
		WriteTimeout: 2 * time.Second,
		DrainTimeout: drain,
	}
}

func listen(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	return ln
}

func TestServer_Addr(t *testing.T) {
	t.Parallel()

	cfg := serverConfig(time.Second)
	cfg.Port = 9090
	assert.Equal(t, "127.0.0.1:9090", adapthttp.NewServer(cfg, http.NotFoundHandler(), nil).Addr())
}

func TestServer_DrainsInFlightCall(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		// Shutdown must not cancel the call it is draining.
		if r.Context().Err() != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, `{"counter":2}`)
	})

	ln := listen(t)
	ctx, stop := context.WithCancel(t.Context())
	s := adapthttp.NewServer(serverConfig(5*time.Second), handler, nil)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	type reply struct {
		status int
		body   string
		err    error
	}
	replies := make(chan reply, 1)
	go func() {
		resp, err := http.Post("http://"+ln.Addr().String()+"/api/v1/actors/Increment/call", "application/json", nil) //nolint:noctx // test client
		if err != nil {
			replies <- reply{err: err}
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		replies <- reply{status: resp.StatusCode, body: string(body)}
	}()

	<-started
	stop()
	time.Sleep(20 * time.Millisecond)
	close(release)

	got := <-replies
	require.NoError(t, got.err)
	assert.Equal(t, http.StatusOK, got.status)
	assert.JSONEq(t, `{"counter":2}`, got.body)
	require.NoError(t, <-done)
}

func TestServer_DrainTimeoutExceeded(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		close(started)
		<-release
	})

	ln := listen(t)
	ctx, stop := context.WithCancel(t.Context())
	s := adapthttp.NewServer(serverConfig(20*time.Millisecond), handler, nil)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/") //nolint:noctx // test client
		if err == nil {
			resp.Body.Close()
		}
	}()

	<-started
	stop()
	err := <-done
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), "draining")
}

func TestServer_RunFailsOnBusyAddress(t *testing.T) {
	t.Parallel()

	ln := listen(t)
	t.Cleanup(func() { _ = ln.Close() })

	tcp, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	cfg := serverConfig(time.Second)
	cfg.Port = tcp.Port

	err := adapthttp.NewServer(cfg, http.NotFoundHandler(), nil).Run(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}
