package router

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/angeloszaimis/chain-router/internal/metrics"
	"github.com/angeloszaimis/chain-router/internal/rule"
)

var (
	ErrUnknownChain   = errors.New("unknown chain")
	ErrDuplicateChain = errors.New("chain already registered")
	ErrUnnamedChain   = errors.New("chain has no name")
	ErrNilChain       = errors.New("chain is nil")
)

// Outcome is a routing result tagged with the chain and request it belongs to.
type Outcome struct {
	Chain     string
	RequestID string
	Result    rule.Result
}

// Handled reports whether a handler accepted the request.
func (o Outcome) Handled() bool {
	return o.Result.Handled()
}

// ChainInfo describes a registered chain in routing order.
type ChainInfo struct {
	Name     string   `json:"name"`
	Handlers []string `json:"handlers"`
}

type Router struct {
	mutex     sync.RWMutex
	logger    *slog.Logger
	collector *metrics.Collector
	chains    map[string]*rule.Chain
	order     []string
}

// New creates a router. The collector may be nil.
func New(logger *slog.Logger, collector *metrics.Collector) *Router {
	return &Router{
		logger:    logger,
		collector: collector,
		chains:    make(map[string]*rule.Chain),
	}
}

func (r *Router) Register(name string, c *rule.Chain) error {
	if name == "" {
		return ErrUnnamedChain
	}
	if c == nil {
		return fmt.Errorf("%w: %q", ErrNilChain, name)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.chains[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateChain, name)
	}

	r.chains[name] = c
	r.order = append(r.order, name)

	r.logger.Info("Registered chain",
		slog.String("chain", name),
		slog.Any("handlers", c.Handlers()))

	return nil
}

// Route sends req through the named chain. A request that no handler accepts
// is returned as an exhausted result, not as an error. The router never
// retries; resubmitting to another chain is up to the caller.
func (r *Router) Route(name string, req rule.Request) (Outcome, error) {
	r.mutex.RLock()
	c, ok := r.chains[name]
	r.mutex.RUnlock()

	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
	}

	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	r.emit(metrics.RouteEvent{Type: metrics.EventRequestReceived, Chain: name})

	start := time.Now()
	res := c.Route(req)
	elapsed := time.Since(start)

	out := Outcome{Chain: name, RequestID: req.ID, Result: res}

	if !res.Handled() {
		r.logger.Warn("Request not handled by any handler",
			slog.String("chain", name),
			slog.String("request_id", req.ID),
			slog.Float64("amount", req.Amount),
			slog.Int("evaluated", res.Evaluated))

		r.emit(metrics.RouteEvent{
			Type:     metrics.EventRequestUnhandled,
			Chain:    name,
			Duration: elapsed,
		})
		return out, nil
	}

	r.logger.Debug("Request routed",
		slog.String("chain", name),
		slog.String("request_id", req.ID),
		slog.String("handler", res.Handler),
		slog.Int("position", res.Position))

	r.emit(metrics.RouteEvent{
		Type:     metrics.EventRequestHandled,
		Chain:    name,
		Handler:  res.Handler,
		Duration: elapsed,
	})

	return out, nil
}

// Chains lists the registered chains in registration order.
func (r *Router) Chains() []ChainInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	infos := make([]ChainInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, ChainInfo{
			Name:     name,
			Handlers: r.chains[name].Handlers(),
		})
	}
	return infos
}

func (r *Router) emit(event metrics.RouteEvent) {
	if r.collector == nil {
		return
	}

	if !r.collector.Emit(event) {
		r.logger.Debug("Metrics buffer full, dropping event", slog.String("type", string(event.Type)))
	}
}
