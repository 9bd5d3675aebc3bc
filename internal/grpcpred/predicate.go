// Package grpcpred delegates authorization decisions to a host-run gRPC
// service. The Check RPC is described by dynamically built proto
// descriptors, so the host side only has to implement the documented
// service shape.
package grpcpred

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	authz "github.com/hanpama/authgraph/internal/authz"
)

// Transport executes one dynamic gRPC call. internal/grpctp provides the
// production implementation; tests substitute fakes.
type Transport interface {
	Call(ctx context.Context, method protoreflect.MethodDescriptor, request protoreflect.Message) (protoreflect.Message, error)
}

// Predicate is an authz.Predicate backed by a remote Authorizer service.
type Predicate struct {
	transport Transport
	method    protoreflect.MethodDescriptor
}

var _ authz.Predicate = (*Predicate)(nil)

type config struct {
	pkg string
}

type Option func(*config)

// WithPackage overrides the proto package the Authorizer service is looked
// up under. The default is "authgraph.v1".
func WithPackage(pkg string) Option { return func(c *config) { c.pkg = pkg } }

func New(transport Transport, opts ...Option) (*Predicate, error) {
	c := &config{pkg: defaultPackage}
	for _, f := range opts {
		f(c)
	}
	method, err := buildCheckMethod(c.pkg)
	if err != nil {
		return nil, err
	}
	return &Predicate{transport: transport, method: method}, nil
}

// Authorize issues one Check call per node under decision. The actor and
// field value cross the wire JSON-encoded; a nil field value is sent as
// JSON null, preserving the distinction from an empty string.
func (p *Predicate) Authorize(ctx context.Context, actor any, subject string, field authz.FieldValue, rule string) (bool, error) {
	actorJSON, err := json.Marshal(actor)
	if err != nil {
		return false, fmt.Errorf("grpcpred: failed to encode actor: %w", err)
	}
	valueJSON, err := json.Marshal(field.Value)
	if err != nil {
		return false, fmt.Errorf("grpcpred: failed to encode field value: %w", err)
	}

	in := p.method.Input()
	req := dynamicpb.NewMessage(in)
	req.Set(in.Fields().ByName("actor"), protoreflect.ValueOfString(string(actorJSON)))
	req.Set(in.Fields().ByName("subject"), protoreflect.ValueOfString(subject))
	req.Set(in.Fields().ByName("field_key"), protoreflect.ValueOfString(field.Key))
	req.Set(in.Fields().ByName("field_value"), protoreflect.ValueOfString(string(valueJSON)))
	req.Set(in.Fields().ByName("rule"), protoreflect.ValueOfString(rule))

	resp, err := p.transport.Call(ctx, p.method, req)
	if err != nil {
		return false, err
	}
	out := p.method.Output()
	return resp.Get(out.Fields().ByName("allowed")).Bool(), nil
}
