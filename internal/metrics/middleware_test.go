package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_RecordsDurationAndCount(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest("GET", "/search", http.NoBody)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != 200 {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	requestsVal := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/search", "200"))
	if requestsVal < 1 {
		t.Errorf("expected http_requests_total >= 1, got %f", requestsVal)
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds to have observations")
	}
	if v := testutil.ToFloat64(httpRequestsInFlight); v != 0 {
		t.Errorf("in-flight gauge = %f after request, want 0", v)
	}
}

func TestMetricsMiddleware_RoutePatternLabel(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/sounds/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest("GET", "/sounds/"+id, http.NoBody)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/sounds/{id}", "404"))
	if val < 3 {
		t.Errorf("expected requests_total for /sounds/{id} >= 3, got %f", val)
	}
}

func TestMetricsMiddleware_DifferentStatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())

	r.Get("/ok", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/quota", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
	})
	r.Get("/error", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{"/ok", "200"},
		{"/quota", "402"},
		{"/error", "500"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tc.path, http.NoBody)
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", tc.path, tc.expectedStatus))
			if val < 1 {
				t.Errorf("expected requests_total for %s with status %s >= 1, got %f", tc.path, tc.expectedStatus, val)
			}
		})
	}
}

func TestRouteLabel_NoChiContext(t *testing.T) {
	req := httptest.NewRequest("GET", "/raw", http.NoBody)
	if got := routeLabel(req); got != "unknown" {
		t.Errorf("routeLabel() = %q, want unknown", got)
	}
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &statusWriter{ResponseWriter: rr, status: http.StatusOK}
	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusTeapot)
	if w.status != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.status)
	}
}
