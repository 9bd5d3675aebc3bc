package language

import "github.com/vektah/gqlparser/v2/ast"

type (
	SchemaDocument = ast.SchemaDocument
	Definition     = ast.Definition
	DefinitionList = ast.DefinitionList
	Directive      = ast.Directive
	DirectiveList  = ast.DirectiveList
	Argument       = ast.Argument
	ArgumentList   = ast.ArgumentList
	Value          = ast.Value
	Position       = ast.Position
	Source         = ast.Source
)

type DefinitionKind = ast.DefinitionKind

type Operation = ast.Operation

type ValueKind = ast.ValueKind

const (
	Query        Operation = ast.Query
	Mutation     Operation = ast.Mutation
	Subscription Operation = ast.Subscription

	Object      DefinitionKind = ast.Object
	Interface   DefinitionKind = ast.Interface
	Union       DefinitionKind = ast.Union
	Scalar      DefinitionKind = ast.Scalar
	Enum        DefinitionKind = ast.Enum
	InputObject DefinitionKind = ast.InputObject

	StringValue  ValueKind = ast.StringValue
	BlockValue   ValueKind = ast.BlockValue
	BooleanValue ValueKind = ast.BooleanValue
)
