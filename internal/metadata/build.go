package metadata

import (
	language "github.com/hanpama/authgraph/internal/language"
)

// Directive names recognized on object types.
const (
	DirectiveScope       = "scope"
	DirectiveScopeObject = "scopeObject"
	DirectiveRule        = "rule"
)

// BuildFromSDL parses the given SDL source and collects scoping declarations
// into a Registry. Recognized directives:
//
//	type Wallet @scope(by: "ownerId") { ... }
//	type PublicProfile @scope(none: true) { ... }
//	type Invoice @scopeObject(by: "id") { ... }
//	type Wallet @rule(name: "read_only") { ... }
//
// Malformed declarations are collected as violations and returned together
// as a ValidationError; a partial registry is never returned alongside one.
// Unknown directives are ignored so the same SDL can carry declarations for
// other tooling.
func BuildFromSDL(name, source string) (*Registry, error) {
	doc, err := language.ParseSchema(name, source)
	if err != nil {
		return nil, err
	}
	return BuildFromDocument(doc)
}

// BuildFromDocument collects scoping declarations from an already parsed
// schema document.
func BuildFromDocument(doc *language.SchemaDocument) (*Registry, error) {
	b := &builder{types: map[string]*TypeMetadata{}}
	for _, def := range doc.Definitions {
		b.processDefinition(def)
	}
	for _, def := range doc.Extensions {
		b.processDefinition(def)
	}
	if len(b.violations) > 0 {
		return nil, ValidationError(b.violations)
	}
	return NewRegistry(b.types), nil
}

type builder struct {
	types      map[string]*TypeMetadata
	violations []*Violation
}

func (b *builder) addViolation(v *Violation) {
	b.violations = append(b.violations, v)
}

func (b *builder) processDefinition(def *language.Definition) {
	for _, dir := range def.Directives {
		switch dir.Name {
		case DirectiveScope, DirectiveScopeObject, DirectiveRule:
			if def.Kind != language.Object {
				b.addViolation(violationDirectiveOnNonObject(dir.Name, def.Kind, def.Name, dir.Position))
				continue
			}
		default:
			// Not ours.
			continue
		}

		meta := b.types[def.Name]
		if meta == nil {
			meta = &TypeMetadata{}
			b.types[def.Name] = meta
		}

		switch dir.Name {
		case DirectiveScope:
			b.processScope(def.Name, meta, dir)
		case DirectiveScopeObject:
			b.processScopeObject(def.Name, meta, dir)
		case DirectiveRule:
			b.processRule(def.Name, meta, dir)
		}
	}
}

func (b *builder) processScope(typeName string, meta *TypeMetadata, dir *language.Directive) {
	if meta.ScopeBy != nil {
		b.addViolation(violationDuplicateDirective(DirectiveScope, typeName, dir.Position))
		return
	}

	var by string
	var hasBy, none bool
	for _, arg := range dir.Arguments {
		switch arg.Name {
		case "by":
			v, ok := stringArg(arg)
			if !ok {
				b.addViolation(violationDirectiveArgumentNotString(DirectiveScope, "by", arg.Position))
				return
			}
			by, hasBy = v, true
		case "none":
			v, ok := booleanArg(arg)
			if !ok {
				b.addViolation(violationDirectiveArgumentNotBoolean(DirectiveScope, "none", arg.Position))
				return
			}
			none = v
		default:
			b.addViolation(violationUnknownDirectiveArgument(DirectiveScope, arg.Name, arg.Position))
			return
		}
	}

	switch {
	case hasBy && none:
		b.addViolation(violationScopeByAndNone(typeName, dir.Position))
	case hasBy:
		meta.ScopeBy = &ScopeBy{Field: by}
	case none:
		meta.ScopeBy = &ScopeBy{None: true}
	default:
		b.addViolation(violationScopeEmpty(typeName, dir.Position))
	}
}

func (b *builder) processScopeObject(typeName string, meta *TypeMetadata, dir *language.Directive) {
	if meta.ScopeObjectBy != "" {
		b.addViolation(violationDuplicateDirective(DirectiveScopeObject, typeName, dir.Position))
		return
	}
	by, pos := b.singleStringArgument(DirectiveScopeObject, "by", typeName, dir)
	if pos != nil {
		return
	}
	meta.ScopeObjectBy = by
}

func (b *builder) processRule(typeName string, meta *TypeMetadata, dir *language.Directive) {
	if meta.Rule != "" {
		b.addViolation(violationDuplicateDirective(DirectiveRule, typeName, dir.Position))
		return
	}
	name, pos := b.singleStringArgument(DirectiveRule, "name", typeName, dir)
	if pos != nil {
		return
	}
	meta.Rule = name
}

// singleStringArgument reads the directive's single required string argument.
// On a violation it records it and returns the offending position.
func (b *builder) singleStringArgument(directive, argName, typeName string, dir *language.Directive) (string, *language.Position) {
	var value string
	var found bool
	for _, arg := range dir.Arguments {
		if arg.Name != argName {
			b.addViolation(violationUnknownDirectiveArgument(directive, arg.Name, arg.Position))
			return "", arg.Position
		}
		v, ok := stringArg(arg)
		if !ok {
			b.addViolation(violationDirectiveArgumentNotString(directive, argName, arg.Position))
			return "", arg.Position
		}
		value, found = v, true
	}
	if !found || value == "" {
		b.addViolation(violationMissingDirectiveArgument(directive, argName, typeName, dir.Position))
		return "", dir.Position
	}
	return value, nil
}

func stringArg(arg *language.Argument) (string, bool) {
	if arg.Value == nil {
		return "", false
	}
	if arg.Value.Kind != language.StringValue && arg.Value.Kind != language.BlockValue {
		return "", false
	}
	return arg.Value.Raw, true
}

func booleanArg(arg *language.Argument) (bool, bool) {
	if arg.Value == nil || arg.Value.Kind != language.BooleanValue {
		return false, false
	}
	return arg.Value.Raw == "true", true
}
