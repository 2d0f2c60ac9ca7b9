package metrics

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveRequest("GET", "doctors", 200, 10*time.Millisecond)
	r.ObserveRequest("GET", "doctors", 200, 20*time.Millisecond)
	r.ObserveRequest("POST", "auth", 401, time.Millisecond)
	r.ObserveRequest("GET", "patients", 0, time.Second)

	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "doctors", "200")); got != 2 {
		t.Errorf("doctors 200 = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("POST", "auth", "401")); got != 1 {
		t.Errorf("auth 401 = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.RequestsTotal.WithLabelValues("GET", "patients", "error")); got != 1 {
		t.Errorf("patients error = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.RequestDuration); got != 3 {
		t.Errorf("duration series = %d, want 3", got)
	}
}

func TestServe(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg).ObserveRequest("GET", "doctors", 200, time.Millisecond)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, reg) }()

	var body string
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get("http://" + addr + "/metrics")
		if err == nil {
			data, _ := io.ReadAll(resp.Body) //nolint:errcheck
			resp.Body.Close()                //nolint:errcheck
			body = string(data)
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve() error: %v", err)
	}
	if !strings.Contains(body, "mediconnect_client_requests_total") {
		t.Errorf("metrics body missing counter:\n%s", body)
	}
}
