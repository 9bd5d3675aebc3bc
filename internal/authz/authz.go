package authz

import (
	"context"

	metadata "github.com/hanpama/authgraph/internal/metadata"
)

// FieldValue is the (key, value) pair handed to the predicate: the resolved
// scope field name and the value read from the backing record. Value may be
// nil when the record has no entry under the key; that is a legitimate input
// and is passed through rather than defaulted.
type FieldValue struct {
	Key   string
	Value any
}

// Predicate is the host-supplied access decision. The pass calls it fresh
// per object node and never caches its result. A non-nil error aborts the
// pass and is returned to the caller unchanged; deciding how to surface it
// belongs to the host.
type Predicate interface {
	Authorize(ctx context.Context, actor any, subject string, field FieldValue, rule string) (bool, error)
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(ctx context.Context, actor any, subject string, field FieldValue, rule string) (bool, error)

func (f PredicateFunc) Authorize(ctx context.Context, actor any, subject string, field FieldValue, rule string) (bool, error) {
	return f(ctx, actor, subject, field, rule)
}

// Context carries everything one authorization pass needs. It is built once
// per query execution and is read-only while the walk runs.
type Context struct {
	// Actor is the authenticated principal making the request.
	Actor any
	// DefaultRule applies to types that declare no rule of their own.
	DefaultRule string
	// Predicate decides access for scoped object nodes.
	Predicate Predicate
	// Metadata resolves per-type scoping declarations.
	Metadata *metadata.Registry
}
