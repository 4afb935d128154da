package rule

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/angeloszaimis/chain-router/internal/chain"
)

type Kind string

const (
	KindMax   Kind = "max"
	KindRange Kind = "range"
	KindAny   Kind = "any"
)

var ErrUnknownKind = errors.New("unknown rule kind")

// Request is the value routed through a chain. It must not be modified while
// it is being routed.
type Request struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

// Decision is produced by the rule that accepted a request.
type Decision struct {
	Approver string  `json:"approver"`
	Kind     Kind    `json:"kind"`
	Amount   float64 `json:"amount"`
	Message  string  `json:"message"`
}

// Spec describes a single rule. Min is only used by range rules.
type Spec struct {
	Name string
	Kind Kind
	Min  float64
	Max  float64
}

type Handler = chain.Handler[Request, Decision]
type Chain = chain.Chain[Request, Decision]
type Result = chain.Result[Decision]

type approver struct {
	name   string
	kind   Kind
	logger *slog.Logger
}

func (a *approver) Name() string {
	return a.name
}

func (a *approver) Handle(req Request) Decision {
	a.logger.Info("Request approved",
		slog.String("approver", a.name),
		slog.String("kind", string(a.kind)),
		slog.String("request_id", req.ID),
		slog.Float64("amount", req.Amount))

	return Decision{
		Approver: a.name,
		Kind:     a.kind,
		Amount:   req.Amount,
		Message:  fmt.Sprintf("%s approved request of %g", a.name, req.Amount),
	}
}

// New creates the handler described by spec.
func New(spec Spec, logger *slog.Logger) (Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	base := approver{name: spec.Name, kind: spec.Kind, logger: logger}

	switch spec.Kind {
	case KindMax:
		return &maxRule{approver: base, max: spec.Max}, nil
	case KindRange:
		if spec.Min > spec.Max {
			return nil, fmt.Errorf("rule %q: min %g is greater than max %g", spec.Name, spec.Min, spec.Max)
		}
		return &rangeRule{approver: base, min: spec.Min, max: spec.Max}, nil
	case KindAny:
		return &anyRule{approver: base}, nil
	default:
		return nil, fmt.Errorf("rule %q: %w: %q", spec.Name, ErrUnknownKind, spec.Kind)
	}
}

// BuildChain creates one handler per spec and chains them in order.
func BuildChain(specs []Spec, logger *slog.Logger) (*Chain, error) {
	handlers := make([]Handler, 0, len(specs))

	for _, spec := range specs {
		h, err := New(spec, logger)
		if err != nil {
			return nil, err
		}
		handlers = append(handlers, h)
	}

	return chain.Build(handlers...)
}

// ApprovalSpecs is the classic purchase approval chain.
func ApprovalSpecs() []Spec {
	return []Spec{
		{Name: "TeamLead", Kind: KindMax, Max: 2},
		{Name: "ProjectManager", Kind: KindMax, Max: 5},
		{Name: "Director", Kind: KindMax, Max: 10},
	}
}

// ApprovalChain builds the chain described by ApprovalSpecs.
func ApprovalChain(logger *slog.Logger) (*Chain, error) {
	return BuildChain(ApprovalSpecs(), logger)
}
