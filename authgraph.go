package authgraph

import (
	"context"

	authz "github.com/hanpama/authgraph/internal/authz"
	eventbus "github.com/hanpama/authgraph/internal/eventbus"
	grpcpred "github.com/hanpama/authgraph/internal/grpcpred"
	grpctp "github.com/hanpama/authgraph/internal/grpctp"
	metadata "github.com/hanpama/authgraph/internal/metadata"
	otel "github.com/hanpama/authgraph/internal/otel"
	passid "github.com/hanpama/authgraph/internal/passid"
	result "github.com/hanpama/authgraph/internal/result"
	rules "github.com/hanpama/authgraph/internal/rules"
)

// Result tree surface consumed from the execution engine.
type (
	Node         = result.Node
	Kind         = result.Kind
	Record       = result.Record
	Execution    = result.Execution
	Response     = result.Response
	GraphQLError = result.GraphQLError
	Location     = result.Location
)

const (
	KindRoot          = result.KindRoot
	KindObject        = result.KindObject
	KindList          = result.KindList
	KindLeaf          = result.KindLeaf
	KindIntrospection = result.KindIntrospection
)

var (
	NewRoot          = result.NewRoot
	NewObject        = result.NewObject
	NewList          = result.NewList
	NewLeaf          = result.NewLeaf
	NewIntrospection = result.NewIntrospection
	NewRecord        = result.NewRecord
)

// Scoping declarations and the pass itself.
type (
	Context       = authz.Context
	Predicate     = authz.Predicate
	PredicateFunc = authz.PredicateFunc
	FieldValue    = authz.FieldValue
	ConfigError   = authz.ConfigError

	TypeMetadata = metadata.TypeMetadata
	ScopeBy      = metadata.ScopeBy
	Registry     = metadata.Registry
)

var (
	NewRegistry  = metadata.NewRegistry
	BuildFromSDL = metadata.BuildFromSDL
)

// Authorize runs the scoping pass over an execution; see internal/authz for
// the walk semantics. A fresh pass ID is stored on the context so telemetry
// subscribers can correlate the pass's events.
func Authorize(ctx context.Context, exec *Execution, actx *Context) (*Execution, error) {
	ctx, _ = passid.NewContext(ctx)
	return authz.Authorize(ctx, exec, actx)
}

// Walk authorizes a single subtree without the execution-level wrapping.
func Walk(ctx context.Context, node *Node, actx *Context) (*Node, error) {
	return authz.Walk(ctx, node, actx)
}

// NewRulesEngine compiles the given CEL rule expressions into a Predicate.
// Every expression sees the variables actor, subject and field and must
// produce a bool; see internal/rules for the exact contract.
func NewRulesEngine(exprs map[string]string) (Predicate, error) {
	return rules.NewEngine(exprs)
}

// NewGRPCPredicate builds a Predicate that delegates decisions to a remote
// Authorizer service. endpoints maps the fully-qualified service name
// ("authgraph.v1.Authorizer") to reachable host:port addresses. The returned
// close function releases the underlying connections.
func NewGRPCPredicate(endpoints map[string][]string) (Predicate, func() error, error) {
	tp := grpctp.New(grpctp.WithProvider(grpctp.NewStaticEndpoints(endpoints)))
	pred, err := grpcpred.New(tp)
	if err != nil {
		_ = tp.Close()
		return nil, nil, err
	}
	return pred, tp.Close, nil
}

// UseEventBus installs b as the process-wide event bus. Passing nil disables
// event publishing.
func UseEventBus(b *eventbus.Bus) { eventbus.Use(b) }

// NewEventBus creates an event bus for UseEventBus.
func NewEventBus() *eventbus.Bus { return eventbus.New() }

// SetupTelemetry configures OpenTelemetry export and span generation for
// passes and predicate RPCs. It returns a shutdown function.
func SetupTelemetry(endpoint, service string) (func(context.Context) error, error) {
	return otel.Setup(endpoint, service)
}
