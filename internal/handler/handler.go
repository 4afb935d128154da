package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angeloszaimis/chain-router/internal/router"
	"github.com/angeloszaimis/chain-router/internal/rule"
)

const maxBodyBytes = 1 << 16

type RouteHandler struct {
	logger *slog.Logger
	router *router.Router
}

type routeRequest struct {
	ID     string   `json:"id"`
	Amount *float64 `json:"amount"`
}

type routeResponse struct {
	RequestID string         `json:"request_id"`
	Chain     string         `json:"chain"`
	Handled   bool           `json:"handled"`
	Handler   string         `json:"handler,omitempty"`
	Position  int            `json:"position"`
	Evaluated int            `json:"evaluated"`
	Decision  *rule.Decision `json:"decision,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewRouteHandler(logger *slog.Logger, r *router.Router) *RouteHandler {
	return &RouteHandler{
		logger: logger,
		router: r,
	}
}

// Route handles POST /chains/{chain}/route.
func (h *RouteHandler) Route(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "chain")

	var body routeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&body); err != nil {
		h.logger.Warn("Rejected malformed request",
			slog.String("chain", name),
			slog.Any("err", err))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.logger.Warn("Rejected request with trailing data", slog.String("chain", name))
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must contain a single JSON object"})
		return
	}

	if body.Amount == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "amount is required"})
		return
	}

	out, err := h.router.Route(name, rule.Request{ID: body.ID, Amount: *body.Amount})
	if errors.Is(err, router.ErrUnknownChain) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("Routing failed", slog.String("chain", name), slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "routing failed"})
		return
	}

	resp := routeResponse{
		RequestID: out.RequestID,
		Chain:     out.Chain,
		Handled:   out.Handled(),
		Handler:   out.Result.Handler,
		Position:  out.Result.Position,
		Evaluated: out.Result.Evaluated,
	}
	if out.Handled() {
		decision := out.Result.Output
		resp.Decision = &decision
	}

	w.Header().Set("X-Request-ID", out.RequestID)
	writeJSON(w, http.StatusOK, resp)
}

// Chains handles GET /chains.
func (h *RouteHandler) Chains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.router.Chains())
}

// Health handles GET /health.
func (h *RouteHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
