package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"agriai-be/internal/logger"
	"agriai-be/internal/order"

	"go.uber.org/zap"
)

type errorBody struct {
	Message  string `json:"message"`
	ErrStack string `json:"errStack,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError is the single translation point from service errors to HTTP
// responses. The stack detail is exposed only outside production.
func (h *OrdersHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var code int
	message := err.Error()

	switch {
	case errors.Is(err, order.ErrInvalidInput), errors.Is(err, order.ErrInvalidState):
		code = http.StatusBadRequest
	case errors.Is(err, order.ErrOrderNotFound):
		code = http.StatusNotFound
	case errors.Is(err, order.ErrForbidden):
		code = http.StatusForbidden
	default:
		code = http.StatusInternalServerError
		message = "internal server error"
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("path", r.URL.Path), zap.Error(err))
	}

	body := errorBody{Message: message}
	if h.Dev && code == http.StatusInternalServerError {
		body.ErrStack = err.Error()
	}
	writeJSON(w, code, body)
}
