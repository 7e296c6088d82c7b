package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/northwind-orders/internal/order"
)

const (
	defaultSkip  = 0
	defaultCount = 10
)

// OrderHandler translates HTTP requests into repository calls and repository
// results into wire responses. It holds no business rules of its own.
type OrderHandler struct {
	repo     order.Repository
	validate *validator.Validate
}

func NewOrderHandler(repo order.Repository) *OrderHandler {
	return &OrderHandler{
		repo:     repo,
		validate: validator.New(),
	}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router) {
	router.Get("/api/orders", h.handleListOrders)
	router.Get("/api/orders/{orderId}", h.handleGetOrder)
	router.Post("/api/orders", h.handleAddOrder)
	router.Put("/api/orders/{orderId}", h.handleUpdateOrder)
	router.Delete("/api/orders/{orderId}", h.handleRemoveOrder)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", defaultSkip)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid skip parameter")
		return
	}
	count, err := queryInt(r, "count", defaultCount)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid count parameter")
		return
	}

	orders, err := h.repo.ListOrders(r.Context(), skip, count)
	if err != nil {
		log.Error().Err(err).Int("skip", skip).Int("count", count).Msg("Failed to list orders")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to list orders")
		return
	}

	briefOrders := make([]briefOrder, 0, len(orders))
	for _, ord := range orders {
		briefOrders = append(briefOrders, briefFromDomain(ord))
	}

	respondWithJSON(w, http.StatusOK, briefOrders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDParam(w, r)
	if !ok {
		return
	}

	ord, err := h.repo.GetOrder(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to get order")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, fullFromDomain(*ord))
}

func (h *OrderHandler) handleAddOrder(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decodeBriefOrder(w, r)
	if !ok {
		return
	}

	// The id is assigned by storage; whatever the client sent is discarded.
	ord, err := payload.toDomain(0)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	orderID, err := h.repo.AddOrder(r.Context(), ord)
	if err != nil {
		log.Error().Err(err).Msg("Failed to add order")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to add order")
		return
	}

	respondWithJSON(w, http.StatusOK, addOrderResponse{OrderID: orderID})
}

func (h *OrderHandler) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDParam(w, r)
	if !ok {
		return
	}

	payload, ok := h.decodeBriefOrder(w, r)
	if !ok {
		return
	}

	ord, err := payload.toDomain(orderID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.repo.UpdateOrder(r.Context(), ord); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to update order")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to update order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) handleRemoveOrder(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderIDParam(w, r)
	if !ok {
		return
	}

	if err := h.repo.RemoveOrder(r.Context(), orderID); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			respondWithError(w, http.StatusNotFound, "Order not found")
			return
		}
		log.Error().Err(err).Int64("order_id", orderID).Msg("Failed to remove order")
		respondWithError(w, mapErrorToStatusCode(err), "Failed to remove order")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) orderIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idParam := chi.URLParam(r, "orderId")
	orderID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		log.Warn().Err(err).Str("order_id", idParam).Msg("Failed to parse orderId parameter from URL")
		respondWithError(w, http.StatusBadRequest, "Invalid orderId parameter")
		return 0, false
	}
	return orderID, true
}

func (h *OrderHandler) decodeBriefOrder(w http.ResponseWriter, r *http.Request) (briefOrder, bool) {
	var payload briefOrder

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		log.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return briefOrder{}, false
	}

	if err := h.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			respondWithError(w, http.StatusBadRequest, "Validation failed: "+validationErrors.Error())
		} else {
			log.Error().Err(err).Msg("Unexpected error type during validation")
			respondWithError(w, http.StatusInternalServerError, "Internal validation error")
		}
		return briefOrder{}, false
	}

	return payload, true
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
