package authz

import (
	metadata "github.com/hanpama/authgraph/internal/metadata"
	result "github.com/hanpama/authgraph/internal/result"
)

// scopeSelector is the resolved scope source of a type: either a field name
// or the explicit exemption marker.
type scopeSelector struct {
	field string
	none  bool
}

// resolveScope applies the declaration decision table to a type's metadata.
// Exactly one of the general (@scope) and override (@scopeObject) slots must
// be declared; anything else is a configuration error that aborts the pass.
// Resolution runs on every object visit and is deliberately uncached.
func resolveScope(meta *metadata.TypeMetadata, typeName string) (scopeSelector, error) {
	if meta == nil {
		return scopeSelector{}, errNoScopeDeclared(typeName)
	}
	general := meta.ScopeBy
	override := meta.ScopeObjectBy

	switch {
	case general == nil && override == "":
		return scopeSelector{}, errNoScopeDeclared(typeName)
	case general != nil && override != "":
		return scopeSelector{}, errConflictingScopeDeclarations(typeName)
	case general != nil:
		if general.None {
			return scopeSelector{none: true}, nil
		}
		return scopeSelector{field: general.Field}, nil
	default:
		return scopeSelector{field: override}, nil
	}
}

// extractScope reads the scope subject and field value off the object's
// backing instance. The subject is the record's tag; a backing instance that
// is not a tagged record means the schema declaration and the resolver
// output disagree, which is fatal rather than an authorization failure.
// An absent field value extracts as nil.
func extractScope(n *result.Node, scope scopeSelector) (subject string, field FieldValue, err error) {
	rec, ok := n.Instance.(*result.Record)
	if !ok {
		return "", FieldValue{}, errUntaggedInstance(n.TypeName, n.Instance)
	}
	value, _ := rec.Field(scope.field)
	return rec.Tag(), FieldValue{Key: scope.field, Value: value}, nil
}

// effectiveRule picks the type's declared rule over the context default.
func effectiveRule(meta *metadata.TypeMetadata, actx *Context) string {
	if meta != nil && meta.Rule != "" {
		return meta.Rule
	}
	return actx.DefaultRule
}
