package metrics

import (
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupPrometheus starts an HTTP server exporting /metrics on addr and
// returns it; addr may use port 0 to let the OS choose a free port, in
// which case server.Addr is replaced with the actual bound address. The
// caller is responsible for calling Shutdown.
func SetupPrometheus(addr string) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: ln.Addr().String(), Handler: mux}
	go server.Serve(ln)
	return server, nil
}
