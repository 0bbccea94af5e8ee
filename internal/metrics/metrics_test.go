package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByTemplate(t *testing.T) {
	m := New()

	r := mux.NewRouter()
	r.Use(m.Middleware)
	r.HandleFunc("/slots/{slot}/next", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusSeeOther)
	})

	for _, s := range []string{"brunch", "dinner"} {
		req := httptest.NewRequest("POST", "/slots/"+s+"/next", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(m.httpRequests.WithLabelValues("/slots/{slot}/next", "POST", "303"))
	if got != 2 {
		t.Errorf("requests = %v, want 2", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New()
	m.Generated()
	m.Generated()
	m.Navigated("brunch", "next")
	m.Failed("resolution")

	if got := testutil.ToFloat64(m.itineraries); got != 2 {
		t.Errorf("itineraries = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.navigations.WithLabelValues("brunch", "next")); got != 1 {
		t.Errorf("navigations = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.failures.WithLabelValues("resolution")); got != 1 {
		t.Errorf("failures = %v, want 1", got)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	m := New()
	m.Generated()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if !strings.Contains(w.Body.String(), "itineraries_generated_total 1") {
		t.Errorf("metrics output missing counter:\n%s", w.Body.String())
	}
}
