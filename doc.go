// Package authgraph authorizes GraphQL execution results by scope.
//
// It is the pass a GraphQL pipeline runs between validation and response
// serialization: given the result tree of an executed operation, it checks
// for every object node that the authenticated actor is allowed to see the
// data instance backing it, prunes the subtrees of denied nodes and attaches
// located errors in their place. Scoping is declarative: each schema type
// names the field that identifies the scope of its instances (or opts out)
// and optionally the rule the decision point should apply.
//
// The access decision itself is pluggable. internal/rules provides a
// CEL-expression engine and internal/grpcpred a remote decision service
// client; any implementation of the Predicate interface works.
//
//	reg, err := authgraph.BuildFromSDL("schema.graphql", sdl)
//	...
//	authorized, err := authgraph.Authorize(ctx, exec, &authgraph.Context{
//		Actor:       actor,
//		DefaultRule: "default",
//		Predicate:   engine,
//		Metadata:    reg,
//	})
//
// Denials are local: siblings of a denied node are untouched and the pass
// completes normally. Configuration mistakes (a visited type without a scope
// declaration, conflicting declarations, a backing instance that is not a
// tagged record) abort the pass with an error instead of producing a tree.
package authgraph
