// Package authz implements the scoping authorization pass over an execution
// result tree.
//
// # Overview
//
// The pass walks the tree produced by the execution engine exactly once,
// depth-first and synchronously, and decides for every object node whether
// the current actor may see the data instance backing it. The decision is
// driven by per-type declarations (see internal/metadata): which field
// identifies the scope of an instance, and which rule the predicate should
// apply. The walk dispatches on the node variant:
//
//   - Root operation nodes (query, mutation, subscription) walk each field
//     independently and in order; one field's denial never stops the next.
//   - Introspection nodes and leaves pass through unchanged.
//   - List nodes walk each element independently, preserving order, so a
//     list may hold authorized and denied entries side by side.
//   - Object nodes resolve their scope declaration, extract the scope
//     subject and field value from the backing record, and ask the
//     predicate. An authorized node recurses into its children; a denied
//     node is pruned: its children are discarded before inspection and a
//     single located error is attached in their place.
//
// # Scope resolution
//
// A type declares its scope through at most one of two slots: the general
// @scope declaration (a field name, or an explicit exemption) and the
// per-object @scopeObject override. Declaring neither, or both, is a
// configuration mistake. Exempt types are authorized without consulting the
// predicate at all.
//
// # Error classes
//
// The pass keeps two disjoint error classes. Configuration and data errors
// (no declaration, conflicting declarations, a backing instance that is not
// a tagged record) abort the pass immediately and surface as a *ConfigError
// with no tree attached. Denials are local: they are recorded on the
// offending node and the rest of the pass completes normally.
//
// # Predicate contract
//
// The predicate is a capability boundary. It receives the actor, the
// record's tag as the scope subject, the (field key, field value) pair and
// the effective rule, and returns a verdict. The pass calls it fresh for
// every scoped node, never caches, and assumes nothing about its internals;
// an error returned by it is handed to the caller unchanged.
package authz
