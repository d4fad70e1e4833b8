package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ktkar/maintron/internal/server/payments"
)

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type verifyPaymentRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

func (rt *Router) handleCreateOrder(w http.ResponseWriter, req *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/create-order"))
	defer timer.ObserveDuration()

	var body createOrderRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"}, "POST", "/create-order")
		return
	}

	order, err := rt.payments.CreateOrder(req.Context(), body.Amount, body.Currency)
	if err != nil {
		rt.respondError(w, req, err, "POST", "/create-order")
		return
	}

	// the gateway order object is returned to the caller verbatim
	writeJSON(w, http.StatusOK, order, "POST", "/create-order")
}

func (rt *Router) handleVerifyPayment(w http.ResponseWriter, req *http.Request) {
	timer := prometheus.NewTimer(httpLatency.WithLabelValues("POST", "/verify-payment"))
	defer timer.ObserveDuration()

	var body verifyPaymentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"}, "POST", "/verify-payment")
		return
	}

	if !payments.VerifySignature(body.OrderID, body.PaymentID, body.Signature, rt.gatewaySecret) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "Payment verification failed",
		}, "POST", "/verify-payment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Payment verified successfully",
	}, "POST", "/verify-payment")
}
