package metadata

// ScopeBy is the general scope declaration of a type. None set means the
// type was explicitly declared unscoped and is always authorized.
type ScopeBy struct {
	Field string
	None  bool
}

// TypeMetadata carries the scoping declarations of one schema type. Each
// slot distinguishes "not declared" (nil ScopeBy, empty string) from a
// declared value. The slots are stored as declared; cross-slot rules such as
// the mutual exclusion of ScopeBy and ScopeObjectBy are enforced by the
// authorization pass when the type is visited, not here.
type TypeMetadata struct {
	ScopeBy       *ScopeBy
	ScopeObjectBy string
	Rule          string
}

// Registry maps schema type names to their declared metadata. It is built
// once before execution and is read-only during a pass.
type Registry struct {
	types map[string]*TypeMetadata
}

// NewRegistry builds a Registry over the given declarations.
func NewRegistry(types map[string]*TypeMetadata) *Registry {
	if types == nil {
		types = map[string]*TypeMetadata{}
	}
	return &Registry{types: types}
}

// Lookup returns the metadata declared for typeName, or nil when the type
// has no declarations.
func (r *Registry) Lookup(typeName string) *TypeMetadata {
	return r.types[typeName]
}
