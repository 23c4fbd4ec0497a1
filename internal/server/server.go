package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"Beamcalc/internal/auth"
	"Beamcalc/internal/calc/batch"
	"Beamcalc/internal/calc/beam"
	"Beamcalc/internal/calc/importer"
	"Beamcalc/internal/calc/report"
	"Beamcalc/internal/config"
	"Beamcalc/internal/logging"
	"Beamcalc/internal/metrics"
	"Beamcalc/internal/version"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

const (
	limiterSweep   = time.Minute
	limiterMaxIdle = 10 * time.Minute
	// unzipRatio bounds an uploaded workbook's unpacked size relative to
	// the request body limit.
	unzipRatio = 10
)

type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	limiter *auth.IPRateLimiter
	handler http.Handler
}

// New builds the engine from cfg and wires every route. Metrics are
// registered on reg and served from it.
func New(cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (*Server, error) {
	engine, err := beam.NewEngine(cfg.Section.Model(),
		beam.WithNegativeLoad(cfg.Policy.AllowNegativeLoad),
		beam.WithDeflectionLimitRatio(cfg.Section.DeflectionLimitRatio),
		beam.WithProfileSamples(cfg.Limits.ProfileSamples),
	)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		limiter: auth.NewIPRateLimiter(rate.Limit(cfg.Limits.Rate), cfg.Limits.Burst),
	}
	router := mux.NewRouter()
	s.HandleList(router, engine, metrics.New(reg), reg)
	s.handler = logging.Middleware(logger)(CORS(cfg.Server.CORSOrigin, router))
	return s, nil
}

func (s *Server) Handler() http.Handler { return s.handler }

// HandleList registers the routes on r.
func (s *Server) HandleList(r *mux.Router, engine *beam.Engine, m *metrics.Metrics, g prometheus.Gatherer) {
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beam.WriteError(w, http.StatusNotFound, "not_found", "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		beam.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
	})
	r.Use(m.Middleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		beam.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.Version})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler(g)).Methods(http.MethodGet)

	api := r.PathPrefix("/beam").Subrouter()
	api.Use(s.limiter.LimitMiddleware)
	if key := s.cfg.Auth.TokenKey; key != "" {
		api.Use((&auth.TokenAuth{Key: []byte(key)}).Middleware)
	}
	api.Use(bodyLimit(s.cfg.Limits.MaxBodyBytes))

	beamH := &beam.Handler{Engine: engine, Recorder: m}
	reportH := &report.Handler{Generator: &report.Generator{Engine: engine}, Recorder: m}
	batchH := &batch.Handler{Calculator: engine, MaxItems: s.cfg.Limits.MaxBatchItems, Recorder: m}
	importH := &importer.Handler{
		Calculator: engine,
		Limits: importer.Limits{
			MaxRows:       s.cfg.Limits.MaxBatchItems,
			MaxUnzipBytes: s.cfg.Limits.MaxBodyBytes * unzipRatio,
		},
		Recorder: m,
	}

	api.HandleFunc("/calculate", beamH.Calc).Methods(http.MethodPost)
	api.HandleFunc("/profile", beamH.Profile).Methods(http.MethodPost)
	api.HandleFunc("/report", reportH.Generate).Methods(http.MethodPost)
	api.HandleFunc("/batch", batchH.Beam).Methods(http.MethodPost)
	api.HandleFunc("/import", importH.Beam).Methods(http.MethodPost)
}

func bodyLimit(n int64) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, n)
			next.ServeHTTP(w, r)
		})
	}
}

// CORS answers preflight requests and sets the allow headers on every
// response.
func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+logging.RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", logging.RequestIDHeader+", Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run listens on the configured address until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then drains
// in-flight requests for at most the shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: s.cfg.Server.ReadTimeout,
		WriteTimeout:      s.cfg.Server.WriteTimeout,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	var wg sync.WaitGroup
	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(limiterSweep)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				if n := s.limiter.Cleanup(limiterMaxIdle); n > 0 {
					s.logger.Debug("rate limiter sweep", "dropped", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	tls := s.cfg.Server.TLSCert != ""
	s.logger.Info("starting server", "addr", ln.Addr().String(), "tls", tls, "version", version.Version)
	go func() {
		if tls {
			errCh <- srv.ServeTLS(ln, s.cfg.Server.TLSCert, s.cfg.Server.TLSKey)
			return
		}
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		stopSweep()
		wg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutdown signal received, closing active connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	wg.Wait()
	if err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}
