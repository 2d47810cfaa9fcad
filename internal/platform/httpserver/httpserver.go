package httpserver

import (
	"net/http"
	"time"
)

// The admin server only answers health probes, metric scrapes and dry-run
// resolutions. Reads are small JSON bodies, so the read limits are tight. The
// write limit leaves room for a dry run over a large team roster.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
)

// New returns the admin HTTP server listening on addr.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}
