// Package profiling starts the optional pprof listener and Pyroscope
// continuous profiler.
package profiling

import (
	"errors"
	"net"
	"net/http"
	"net/http/pprof"
	"strconv"
	"time"

	"github.com/sohaib12raza2-cpu/SEO-Sitemap/internal/logger"
)

const pprofReadHeaderTimeout = 10 * time.Second

// PprofConfig configures the pprof listener.
type PprofConfig struct {
	Enabled bool
	Port    int
}

// NewPprofHandler returns a mux serving the /debug/pprof endpoints.
func NewPprofHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	return mux
}

// StartPprofServer serves pprof on localhost only. It returns nil when
// disabled.
func StartPprofServer(cfg PprofConfig, log logger.Logger) *http.Server {
	if !cfg.Enabled {
		return nil
	}

	addr := net.JoinHostPort("localhost", strconv.Itoa(cfg.Port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewPprofHandler(),
		ReadHeaderTimeout: pprofReadHeaderTimeout,
	}

	go func() {
		log.Info("Starting pprof server",
			logger.String("address", addr),
			logger.String("profiles", "http://"+addr+"/debug/pprof/"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("pprof server error", logger.Error(err))
		}
	}()

	return srv
}
