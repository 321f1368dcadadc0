package wptgen

import (
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	endpointTestLog = "testlog"
	endpointResult  = "result"
)

// Handler serves f with the two endpoint shapes of a WebPageTest instance:
// /testlog.php for the log and /xmlResult/{id}/ for each result. Unknown
// ids answer 404.
func Handler(f *Fixture) http.Handler {
	return newMux(f, func(endpoint string, h http.HandlerFunc) http.Handler {
		return h
	})
}

// InstrumentedHandler is Handler with a request counter per endpoint and
// status code, registered on reg and exposed on /metrics.
func InstrumentedHandler(f *Fixture, reg *prometheus.Registry) http.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wptgen_requests_total",
		Help: "Requests answered by the fixture server, by endpoint and status code.",
	}, []string{"endpoint", "code"})
	reg.MustRegister(requests)

	mux := newMux(f, func(endpoint string, h http.HandlerFunc) http.Handler {
		return promhttp.InstrumentHandlerCounter(
			requests.MustCurryWith(prometheus.Labels{"endpoint": endpoint}), h)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return mux
}

func newMux(f *Fixture, wrap func(endpoint string, h http.HandlerFunc) http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.Handle("GET /testlog.php", wrap(endpointTestLog, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, f.ListingHTML)
	}))

	mux.Handle("GET /xmlResult/{id}/", wrap(endpointResult, func(w http.ResponseWriter, r *http.Request) {
		doc, ok := f.Result(r.PathValue("id"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		io.WriteString(w, doc)
	}))

	return mux
}
