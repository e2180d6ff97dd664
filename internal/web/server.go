package web

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zombor/billed/internal/identity"
	"github.com/zombor/billed/internal/scanning"
	"github.com/zombor/billed/internal/store"
)

// Server hosts the bill pages
type Server struct {
	store     store.Store
	identity  identity.KeyValue
	scanner   scanning.Scanner
	basicAuth BasicAuth
	mux       *http.ServeMux
	http      *http.Server
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// NewServer creates a new Server with default mux. scanner may be nil.
func NewServer(st store.Store, kv identity.KeyValue, scanner scanning.Scanner, basicAuth BasicAuth) *Server {
	return NewServerWithMux(st, kv, scanner, basicAuth, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(st store.Store, kv identity.KeyValue, scanner scanning.Scanner, basicAuth BasicAuth, mux *http.ServeMux) *Server {
	s := &Server{
		store:     st,
		identity:  kv,
		scanner:   scanner,
		basicAuth: basicAuth,
		mux:       mux,
	}
	s.registerRoutes()
	s.http = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="Billed"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// requireUser sends visitors without a logged in employee to the login page
func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		_, err := identity.CurrentUser(s.identity)
		if errors.Is(err, identity.ErrNoUser) {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err != nil {
			slog.Error("Error reading current user", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		next(w, r)
	})
}

// registerRoutes registers all routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /static/app.css", s.handleStaticCSS)
	s.mux.Handle("GET /metrics", promhttp.Handler())

	if _, ok := s.store.(store.ReceiptSource); ok {
		s.mux.HandleFunc("GET /receipts/{id}", s.requireAuth(s.handleReceiptFile))
	}

	s.mux.HandleFunc("GET /login", s.requireAuth(s.handleLoginForm))
	s.mux.HandleFunc("POST /login", s.requireAuth(s.handleLogin))
	s.mux.HandleFunc("POST /logout", s.requireAuth(s.handleLogout))

	s.mux.HandleFunc("GET /bills/{id}/receipt", s.requireUser(s.handlePreview))
	s.mux.HandleFunc("GET /bills/new", s.requireUser(s.handleNewBillForm))
	s.mux.HandleFunc("POST /bills/new/receipt", s.requireUser(s.handleAttachReceipt))
	s.mux.HandleFunc("POST /bills/new", s.requireUser(s.handleSubmitNewBill))
	s.mux.HandleFunc("GET /bills", s.requireUser(s.handleBills))

	s.mux.HandleFunc("GET /{$}", s.requireUser(s.handleIndex))
}

// handler wraps the mux with request metrics
func (s *Server) handler() http.Handler {
	return metricsMiddleware(s.mux)
}

// Start serves on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	s.http.Addr = addr
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops a server started with Start
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler().ServeHTTP(w, r)
}
