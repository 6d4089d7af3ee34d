package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"agriai-be/internal/logger"
	"agriai-be/internal/middleware"
	"agriai-be/internal/order"
	"agriai-be/internal/redisx"
	"agriai-be/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const dashboardRecentOrders = 5

// Cache is the subset of redis.Client the handlers use. *redis.Client
// satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type OrdersHandler struct {
	Service order.Service
	Redis   Cache // nil disables the dashboard cache
	Dev     bool
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/", h.createOrder)
	r.Get("/", h.listUserOrders)
	r.Get("/user", h.listUserOrders)
	r.Get("/{id}", h.getOrder)
	r.Patch("/{id}/cancel", h.cancelOrder)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAdmin)
		r.Put("/{id}/status", h.updateStatus)
		r.Get("/admin/dashboard", h.adminDashboard)
		r.Get("/admin/all", h.adminList)
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	var input order.CreateOrderInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid json", order.ErrInvalidInput))
		return
	}

	o, err := h.Service.Create(r.Context(), userID, input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.invalidateDashboard(r.Context())

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) listUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, _ := utils.GetUserIDFromContext(r.Context())

	orders, err := h.Service.ListForUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*order.Order{}
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	o, err := h.Service.Get(r.Context(), orderID, userID, utils.IsAdmin(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	userID, _ := utils.GetUserIDFromContext(r.Context())
	o, err := h.Service.Cancel(r.Context(), orderID, userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.invalidateDashboard(r.Context())

	writeJSON(w, http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := orderIDParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, fmt.Errorf("%w: invalid json", order.ErrInvalidInput))
		return
	}
	if req.Status == "" {
		h.writeError(w, r, fmt.Errorf("%w: status is required", order.ErrInvalidInput))
		return
	}

	o, err := h.Service.UpdateStatus(r.Context(), orderID, order.Status(req.Status))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.invalidateDashboard(r.Context())

	writeJSON(w, http.StatusOK, o)
}

type dashboardResponse struct {
	Counts       *order.DashboardStats `json:"counts"`
	RecentOrders []*order.Order        `json:"recentOrders"`
}

func (h *OrdersHandler) adminDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cached := h.cachedDashboard(ctx); cached != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(cached)
		return
	}

	counts, err := h.Service.DashboardCounts(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recent, err := h.Service.ListRecent(ctx, dashboardRecentOrders)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := dashboardResponse{Counts: counts, RecentOrders: recent}
	body, err := json.Marshal(resp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.Redis != nil {
		if err := h.Redis.Set(ctx, redisx.KeyAdminDashboard, body, redisx.TTLDashboard).Err(); err != nil {
			logger.FromCtx(ctx).Warn("failed to cache dashboard", zap.Error(err))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *OrdersHandler) cachedDashboard(ctx context.Context) []byte {
	if h.Redis == nil {
		return nil
	}
	body, err := h.Redis.Get(ctx, redisx.KeyAdminDashboard).Bytes()
	if err != nil {
		return nil
	}
	return body
}

// invalidateDashboard drops the cached dashboard after a write so admins
// never see stale counts within the TTL window.
func (h *OrdersHandler) invalidateDashboard(ctx context.Context) {
	if h.Redis == nil {
		return
	}
	if err := h.Redis.Del(ctx, redisx.KeyAdminDashboard).Err(); err != nil {
		logger.FromCtx(ctx).Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func (h *OrdersHandler) adminList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Non-numeric values fall back to the service defaults.
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.Service.ListAdmin(r.Context(), page, limit, q.Get("status"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func orderIDParam(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid order id", order.ErrInvalidInput)
	}
	return uint(id), nil
}
