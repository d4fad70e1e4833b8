package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ktkar/maintron/internal/server/accounts"
	"github.com/ktkar/maintron/internal/server/auth"
	"github.com/ktkar/maintron/internal/shared"
)

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (rt *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/api/register"))
	defer timer.ObserveDuration()

	var body accounts.RegisterParams
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"}, "POST", "/api/register")
		return
	}

	acc, err := rt.accounts.Register(req.Context(), body)
	if err != nil {
		rt.respondError(w, req, err, "POST", "/api/register")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Registration successful",
		"userId":  acc.ID,
	}, "POST", "/api/register")
}

func (rt *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/api/login"))
	defer timer.ObserveDuration()

	var body loginRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"}, "POST", "/api/login")
		return
	}

	acc, err := rt.accounts.Login(req.Context(), body.Phone, body.Password)
	if err != nil {
		rt.respondError(w, req, err, "POST", "/api/login")
		return
	}

	token, err := auth.GenerateToken(acc.ID, rt.jwtSecret, rt.tokenValidity)
	if err != nil {
		rt.respondError(w, req, err, "POST", "/api/login")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    acc,
	}, "POST", "/api/login")
}

func (rt *Router) handleUpdateProfile(w http.ResponseWriter, req *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("PUT", "/api/user/profile"))
	defer timer.ObserveDuration()

	var body accounts.ProfileParams
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"}, "PUT", "/api/user/profile")
		return
	}

	accountID := accountIDFrom(req.Context())
	if accountID == "" {
		rt.respondError(w, req, shared.ErrInvalidToken, "PUT", "/api/user/profile")
		return
	}

	acc, err := rt.accounts.UpdateProfile(req.Context(), accountID, body)
	if err != nil {
		rt.respondError(w, req, err, "PUT", "/api/user/profile")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    acc,
	}, "PUT", "/api/user/profile")
}

func (rt *Router) handleUpdatePassword(w http.ResponseWriter, req *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("PUT", "/api/user/password"))
	defer timer.ObserveDuration()

	var body passwordRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"}, "PUT", "/api/user/password")
		return
	}

	accountID := accountIDFrom(req.Context())
	if accountID == "" {
		rt.respondError(w, req, shared.ErrInvalidToken, "PUT", "/api/user/password")
		return
	}

	if err := rt.accounts.UpdatePassword(req.Context(), accountID, body.CurrentPassword, body.NewPassword); err != nil {
		rt.respondError(w, req, err, "PUT", "/api/user/password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true}, "PUT", "/api/user/password")
}
