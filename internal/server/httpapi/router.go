// Package httpapi exposes the HTTP/JSON boundary: it routes requests into
// the account registry and the payment bridge and serializes responses.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ktkar/maintron/internal/logging"
	"github.com/ktkar/maintron/internal/server/accounts"
	"github.com/ktkar/maintron/internal/server/config"
	"github.com/ktkar/maintron/internal/server/payments"
	"github.com/ktkar/maintron/internal/shared"
)

var (
	httpReqTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "maintron_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "maintron_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})
)

type Router struct {
	accounts      *accounts.Service
	payments      *payments.Client
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	gatewaySecret string
	allowedOrigin string
}

func NewRouter(accountSvc *accounts.Service, paymentClient *payments.Client, cfg *config.Config, logger logging.Logger) http.Handler {
	r := &Router{
		accounts:      accountSvc,
		payments:      paymentClient,
		logger:        logger.With("module", "httpapi"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		gatewaySecret: cfg.RazorpayKeySecret,
		allowedOrigin: cfg.AllowedOrigin,
	}

	mux := chi.NewRouter()

	mux.Use(r.securityHeaders)
	mux.Use(r.corsMiddleware)

	mux.Get("/health", r.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.Post("/api/register", r.handleRegister)
	mux.Post("/api/login", r.handleLogin)

	mux.Group(func(pr chi.Router) {
		pr.Use(r.authMiddleware)
		pr.Put("/api/user/profile", r.handleUpdateProfile)
		pr.Put("/api/user/password", r.handleUpdatePassword)
	})

	mux.Post("/create-order", r.handleCreateOrder)
	mux.Post("/verify-payment", r.handleVerifyPayment)

	return mux
}

func (rt *Router) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "GET", "/health")
}

func writeJSON(w http.ResponseWriter, status int, v any, method, endpoint string) {
	httpReqTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// respondError maps domain errors to statuses and safe messages. Nothing
// secret ever reaches the response body.
func (rt *Router) respondError(w http.ResponseWriter, req *http.Request, err error, method, endpoint string) {
	var ve *shared.ValidationError
	var gwErr *shared.GatewayError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Validation failed", Errors: ve.Fields}, method, endpoint)

	case errors.Is(err, shared.ErrPhoneTaken):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Phone number already registered"}, method, endpoint)

	case errors.Is(err, shared.ErrInvalidCredentials):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid credentials"}, method, endpoint)

	case errors.Is(err, shared.ErrMissingToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "No token provided"}, method, endpoint)

	case errors.Is(err, shared.ErrInvalidToken), errors.Is(err, shared.ErrTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: "Invalid token"}, method, endpoint)

	case errors.Is(err, shared.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "User not found"}, method, endpoint)

	case errors.Is(err, shared.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Service temporarily unavailable, please retry"}, method, endpoint)

	case errors.As(err, &gwErr):
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": gwErr.Message}, method, endpoint)

	default:
		rt.logger.Error(req.Context(), "request failed", "endpoint", endpoint, "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Server error"}, method, endpoint)
	}
}
