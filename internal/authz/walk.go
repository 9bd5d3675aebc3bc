package authz

import (
	"context"
	"time"

	eventbus "github.com/hanpama/authgraph/internal/eventbus"
	events "github.com/hanpama/authgraph/internal/events"
	metadata "github.com/hanpama/authgraph/internal/metadata"
	result "github.com/hanpama/authgraph/internal/result"
)

// Authorize runs the scoping pass over an execution. Executions that already
// carry validation errors are returned untouched: there is nothing to
// authorize on an invalid result. On success the returned execution shares
// node identity with the input on every branch the pass did not rewrite.
// A ConfigError (or a predicate error) aborts the pass with no tree.
func Authorize(ctx context.Context, exec *result.Execution, actx *Context) (*result.Execution, error) {
	if exec == nil || exec.Root == nil {
		return exec, nil
	}
	if len(exec.Errors) > 0 {
		return exec, nil
	}

	start := time.Now()
	eventbus.Publish(ctx, events.AuthzStart{Operation: string(exec.Root.Operation)})

	w := &walker{ctx: ctx, actx: actx}
	root, err := w.walk(exec.Root)

	eventbus.Publish(ctx, events.AuthzFinish{
		Operation: string(exec.Root.Operation),
		Denied:    w.denied,
		Err:       err,
		Duration:  time.Since(start),
	})
	if err != nil {
		return nil, err
	}
	if root == exec.Root {
		return exec, nil
	}
	return &result.Execution{Root: root, Errors: exec.Errors}, nil
}

// Walk authorizes a single subtree. Callers embedding the pass in their own
// pipeline can use it directly; Authorize is the execution-level entry.
func Walk(ctx context.Context, node *result.Node, actx *Context) (*result.Node, error) {
	w := &walker{ctx: ctx, actx: actx}
	return w.walk(node)
}

type walker struct {
	ctx    context.Context
	actx   *Context
	denied int
}

// walk dispatches on the node variant. Leaves and introspection nodes pass
// through unchanged; root and list nodes recurse into their children
// independently so one child's denial never touches its siblings; object
// nodes go through scope resolution and the gate.
func (w *walker) walk(n *result.Node) (*result.Node, error) {
	switch n.Kind {
	case result.KindLeaf, result.KindIntrospection:
		return n, nil
	case result.KindRoot:
		fields, changed, err := w.walkAll(n.Fields)
		if err != nil {
			return nil, err
		}
		if !changed {
			return n, nil
		}
		out := *n
		out.Fields = fields
		return &out, nil
	case result.KindList:
		values, changed, err := w.walkAll(n.Values)
		if err != nil {
			return nil, err
		}
		if !changed {
			return n, nil
		}
		out := *n
		out.Values = values
		return &out, nil
	case result.KindObject:
		return w.walkObject(n)
	}
	return n, nil
}

// walkAll walks an ordered child sequence, preserving order. The changed
// flag reports whether any child was rewritten.
func (w *walker) walkAll(nodes []*result.Node) ([]*result.Node, bool, error) {
	out := make([]*result.Node, len(nodes))
	changed := false
	for i, child := range nodes {
		walked, err := w.walk(child)
		if err != nil {
			return nil, false, err
		}
		if walked != child {
			changed = true
		}
		out[i] = walked
	}
	return out, changed, nil
}

func (w *walker) walkObject(n *result.Node) (*result.Node, error) {
	meta := w.actx.Metadata.Lookup(n.TypeName)
	scope, err := resolveScope(meta, n.TypeName)
	if err != nil {
		return nil, err
	}

	authorized, err := w.gate(n, meta, scope)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return w.deny(n, meta), nil
	}

	fields, changed, err := w.walkAll(n.Fields)
	if err != nil {
		return nil, err
	}
	if !changed {
		return n, nil
	}
	out := *n
	out.Fields = fields
	return &out, nil
}

// gate evaluates the access decision for one object node. An exempt scope
// always passes without touching the predicate; otherwise the predicate's
// verdict is returned verbatim.
func (w *walker) gate(n *result.Node, meta *metadata.TypeMetadata, scope scopeSelector) (bool, error) {
	if scope.none {
		return true, nil
	}
	subject, field, err := extractScope(n, scope)
	if err != nil {
		return false, err
	}
	rule := effectiveRule(meta, w.actx)
	return w.actx.Predicate.Authorize(w.ctx, w.actx.Actor, subject, field, rule)
}

// deny prunes the node's subtree and attaches the denial error. The
// children are dropped before anything below the node is inspected, so
// nothing from the pruned subtree can leak into the output.
func (w *walker) deny(n *result.Node, meta *metadata.TypeMetadata) *result.Node {
	w.denied++

	ev := events.AuthzDenied{TypeName: n.TypeName, Rule: effectiveRule(meta, w.actx)}
	if n.Position != nil {
		ev.Line, ev.Column = n.Position.Line, n.Position.Column
	}
	eventbus.Publish(w.ctx, ev)

	out := *n
	out.Fields = nil
	out.Errors = append(append([]result.GraphQLError(nil), n.Errors...), notAuthorizedError(n))
	return &out
}
