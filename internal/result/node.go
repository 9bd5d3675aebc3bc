package result

import (
	language "github.com/hanpama/authgraph/internal/language"
)

// Kind discriminates the node variants of an execution result tree.
type Kind int

const (
	// KindRoot is the root operation node (query, mutation or subscription).
	KindRoot Kind = iota
	// KindObject is a composite node backed by a data instance.
	KindObject
	// KindList is an ordered sequence of homogeneous nodes.
	KindList
	// KindLeaf is a scalar or enum value.
	KindLeaf
	// KindIntrospection is a node produced by an introspection selection.
	KindIntrospection
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindLeaf:
		return "leaf"
	case KindIntrospection:
		return "introspection"
	}
	return "unknown"
}

// IntrospectionKind identifies what an introspection node was produced for.
type IntrospectionKind string

const (
	IntrospectionNone      IntrospectionKind = "none"
	IntrospectionQueryType IntrospectionKind = "query_type"
)

// Node is one node of an execution result tree. The engine produces the tree;
// the authorization pass consumes it exactly once and returns a rewritten
// tree of the same shape. Which fields are meaningful depends on Kind:
//
//   - KindRoot: Operation, Fields
//   - KindObject: Name, TypeName, Instance, Position, Fields, Errors
//   - KindList: Name, Values
//   - KindLeaf: Name, Value
//   - KindIntrospection: Name, Introspection, Value
//
// Name is the response key under which the node is written when the tree is
// materialized; it is empty on the root.
type Node struct {
	Kind Kind
	Name string

	// Root
	Operation language.Operation

	// Object. Instance is the backing data instance as produced by the
	// resolver; a scoped type requires it to be a *Record.
	TypeName string
	Instance any
	Position *language.Position
	Errors   []GraphQLError

	// Root and Object children, in response order.
	Fields []*Node

	// List elements, in response order.
	Values []*Node

	// Leaf value, and the engine-resolved payload of introspection nodes.
	Value any

	// Introspection
	Introspection IntrospectionKind
}

// NewRoot builds a root operation node.
func NewRoot(op language.Operation, fields ...*Node) *Node {
	return &Node{Kind: KindRoot, Operation: op, Fields: fields}
}

// NewObject builds an object node backed by instance. pos may be nil when
// the engine has no source location for the selection.
func NewObject(name, typeName string, instance any, pos *language.Position, fields ...*Node) *Node {
	return &Node{Kind: KindObject, Name: name, TypeName: typeName, Instance: instance, Position: pos, Fields: fields}
}

// NewList builds a list node.
func NewList(name string, values ...*Node) *Node {
	return &Node{Kind: KindList, Name: name, Values: values}
}

// NewLeaf builds a scalar node.
func NewLeaf(name string, value any) *Node {
	return &Node{Kind: KindLeaf, Name: name, Value: value}
}

// NewIntrospection builds an introspection node.
func NewIntrospection(name string, ik IntrospectionKind) *Node {
	return &Node{Kind: KindIntrospection, Name: name, Introspection: ik}
}

// Execution pairs a result tree with the errors accumulated by the upstream
// engine stages. A non-empty Errors slice means the execution is already
// invalid and downstream passes must leave the tree untouched.
type Execution struct {
	Root   *Node
	Errors []GraphQLError
}
