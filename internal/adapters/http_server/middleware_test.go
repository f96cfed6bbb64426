package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	httpserver "hotel_booking/internal/adapters/http_server"
)

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := httpserver.RateLimit(1, 2)(ok)

	get := func() int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		return rr.Code
	}

	if c := get(); c != http.StatusOK {
		t.Fatalf("first request status = %d", c)
	}
	if c := get(); c != http.StatusOK {
		t.Fatalf("second request status = %d", c)
	}
	if c := get(); c != http.StatusTooManyRequests {
		t.Fatalf("burst exceeded status = %d", c)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	limited.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("fresh client status = %d", rr.Code)
	}
}
