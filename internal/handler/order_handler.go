package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"fsanano/order-tracker/internal/model"
	"fsanano/order-tracker/internal/service"
)

type OrderHandler struct {
	svc *service.OrderService
	log *slog.Logger
}

func NewOrderHandler(svc *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{svc: svc, log: log}
}

type SubmitOrderRequest struct {
	ID       int    `json:"id"` // Optional: set to update an existing order
	UserID   int    `json:"userId"`
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

func (h *OrderHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Users())
}

func (h *OrderHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.Items())
}

func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.AllOrders())
}

func (h *OrderHandler) GetOrdersForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "userID must be an integer")
		return
	}
	h.writeJSON(w, http.StatusOK, h.svc.OrdersForUser(userID))
}

func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snapshot, err := h.svc.SubmitOrder(model.Order{
		ID:       req.ID,
		UserID:   req.UserID,
		Item:     req.Item,
		Quantity: req.Quantity,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			h.writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		h.log.Error("submit order failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, snapshot)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := strconv.Atoi(chi.URLParam(r, "orderID"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "orderID must be an integer")
		return
	}
	h.writeJSON(w, http.StatusOK, h.svc.DeleteOrder(orderID))
}

func (h *OrderHandler) DeleteAllOrders(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.svc.DeleteAllOrders())
}

func (h *OrderHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to write response", "error", err)
	}
}

func (h *OrderHandler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
