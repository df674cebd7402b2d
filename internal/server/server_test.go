package server

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestNormalizeAddr(t *testing.T) {
	cases := map[string]string{
		"":               ":8080",
		"9090":           ":9090",
		":9090":          ":9090",
		"127.0.0.1:9090": "127.0.0.1:9090",
		" 7000 ":         ":7000",
	}
	for in, want := range cases {
		if got := normalizeAddr(in); got != want {
			t.Fatalf("normalizeAddr(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNew_AppliesTimeoutDefaults(t *testing.T) {
	s := New(Timeouts{Write: 3 * time.Second})
	if s.timeouts.Write != 3*time.Second {
		t.Fatalf("write timeout overridden: %v", s.timeouts.Write)
	}
	if s.timeouts.ReadHeader != defaultReadHeaderTimeout || s.timeouts.Idle != defaultIdleTimeout {
		t.Fatalf("defaults not applied: %+v", s.timeouts)
	}

	hs := newHTTPServer(":0", http.NotFoundHandler(), s.timeouts)
	if hs.WriteTimeout != 3*time.Second || hs.MaxHeaderBytes != maxHeaderBytes {
		t.Fatalf("unexpected http.Server: %+v", hs)
	}
}

func TestRunAndShutdown(t *testing.T) {
	s := New(Timeouts{})
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown before run: %v", err)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Run("127.0.0.1:0", http.NotFoundHandler()) }()

	// give ListenAndServe a moment to start
	time.Sleep(50 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned %v after graceful shutdown", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Run did not return")
	}
}
