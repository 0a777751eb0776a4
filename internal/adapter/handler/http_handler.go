package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mintdrop/inventory/internal/core/domain"
	"github.com/mintdrop/inventory/internal/core/pricing"
	"github.com/mintdrop/inventory/internal/core/service"
)

// Machine-readable error codes. Clients branch on these, never on messages.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeCSRFInvalid           = "CSRF_INVALID"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeDecrementError        = "INVENTORY_DECREMENT_ERROR"
	CodeStoreUnavailable      = "STORE_UNAVAILABLE"
	CodeMethodNotAllowed      = "METHOD_NOT_ALLOWED"
)

type HTTPHandler struct {
	ledger           *service.Ledger
	decrementTimeout time.Duration
}

func NewHTTPHandler(ledger *service.Ledger, decrementTimeout time.Duration) *HTTPHandler {
	return &HTTPHandler{ledger: ledger, decrementTimeout: decrementTimeout}
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Available *int   `json:"available,omitempty"`
	Attempts  *int   `json:"attempts,omitempty"`
}

type productView struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Description    string        `json:"description,omitempty"`
	Limited        bool          `json:"limited"`
	Quantity       *int          `json:"quantity,omitempty"`
	UnitPriceCents int64         `json:"unitPriceCents"`
	Version        int           `json:"version"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	PricingTiers   []domain.Tier `json:"pricingTiers"`
}

type adminUpdateRequest struct {
	ProductID      string `json:"productId"`
	Quantity       *int   `json:"quantity"`
	UnitPriceCents *int64 `json:"unitPriceCents"`
}

type decrementRequest struct {
	ProductID   string `json:"productId"`
	DecrementBy int    `json:"decrementBy"`
}

type decrementResponse struct {
	PreviousQuantity int `json:"previousQuantity"`
	NewQuantity      int `json:"newQuantity"`
	Version          int `json:"version"`
	Attempt          int `json:"attempt"`
}

// Inventory dispatches /inventory by verb: GET query, POST admin update,
// PATCH decrement. Everything else is 405.
func (h *HTTPHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.query(w, r)
	case http.MethodPost:
		h.adminUpdate(w, r)
	case http.MethodPatch:
		h.decrement(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, errorResponse{
			Code:    CodeMethodNotAllowed,
			Message: "unsupported method " + r.Method,
		})
	}
}

func (h *HTTPHandler) query(w http.ResponseWriter, r *http.Request) {
	products, err := h.ledger.Snapshot(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, errorResponse{
			Code:    CodeStoreUnavailable,
			Message: "catalog store unavailable",
		})
		return
	}

	resp := make(map[string]productView, len(products))
	for id, p := range products {
		resp[id] = newProductView(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	if !validCSRF(r) {
		writeError(w, http.StatusForbidden, errorResponse{
			Code:    CodeCSRFInvalid,
			Message: "missing or mismatched anti-forgery token",
		})
		return
	}

	var req adminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    CodeValidation,
			Message: "invalid request body",
		})
		return
	}

	updated, err := h.ledger.AdminUpdate(r.Context(), req.ProductID, req.Quantity, req.UnitPriceCents)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductView(updated))
}

func (h *HTTPHandler) decrement(w http.ResponseWriter, r *http.Request) {
	if !validCSRF(r) {
		writeError(w, http.StatusForbidden, errorResponse{
			Code:    CodeCSRFInvalid,
			Message: "missing or mismatched anti-forgery token",
		})
		return
	}

	var req decrementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" || req.DecrementBy <= 0 {
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    CodeValidation,
			Message: "productId and a positive decrementBy are required",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.decrementTimeout)
	defer cancel()

	result, err := h.ledger.Decrement(ctx, RequestIDFromContext(r.Context()), req.ProductID, req.DecrementBy)
	if err != nil {
		h.writeLedgerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decrementResponse{
		PreviousQuantity: result.PreviousQuantity,
		NewQuantity:      result.NewQuantity,
		Version:          result.Version,
		Attempt:          result.Attempt,
	})
}

// CSRFToken issues a token pair: cookie plus body, for clients to echo back
// in the X-CSRF-Token header on mutating calls.
func (h *HTTPHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, errorResponse{
			Code:    CodeMethodNotAllowed,
			Message: "unsupported method " + r.Method,
		})
		return
	}
	token, err := issueCSRFToken(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{
			Code:    CodeValidation,
			Message: "failed to issue token",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) writeLedgerError(w http.ResponseWriter, err error) {
	var insufficient *service.InsufficientInventoryError
	var exhausted *service.ConcurrencyExhaustedError

	switch {
	case errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrUnlimitedProduct),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice):
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:    CodeValidation,
			Message: err.Error(),
		})
	case errors.As(err, &insufficient):
		writeError(w, http.StatusBadRequest, errorResponse{
			Code:      CodeInsufficientInventory,
			Message:   err.Error(),
			Available: &insufficient.Available,
		})
	case errors.As(err, &exhausted):
		writeError(w, http.StatusInternalServerError, errorResponse{
			Code:     CodeDecrementError,
			Message:  err.Error(),
			Attempts: &exhausted.Attempts,
		})
	default:
		writeError(w, http.StatusBadGateway, errorResponse{
			Code:    CodeStoreUnavailable,
			Message: "catalog store unavailable",
		})
	}
}

func newProductView(p *domain.Product) productView {
	view := productView{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		Limited:        p.Limited,
		UnitPriceCents: p.UnitPriceCents,
		Version:        p.Version,
		UpdatedAt:      p.UpdatedAt,
		PricingTiers:   pricing.Tiers(p.UnitPriceCents, domain.Catalog[p.ID].Schedule),
	}
	if p.Limited {
		q := p.Quantity
		view.Quantity = &q
	}
	return view
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	writeJSON(w, status, body)
}
