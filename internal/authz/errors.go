package authz

import (
	"fmt"
	"strings"

	result "github.com/hanpama/authgraph/internal/result"
)

// ConfigError reports a schema or engine-integration mistake discovered
// while walking the tree. It aborts the whole pass: unlike a denial it is
// never folded into the result tree.
type ConfigError struct {
	TypeName string
	Message  string
}

func (e *ConfigError) Error() string { return e.Message }

func errNoScopeDeclared(typeName string) *ConfigError {
	return &ConfigError{
		TypeName: typeName,
		Message:  fmt.Sprintf("no @scope or @scopeObject declared for type %s", typeName),
	}
}

func errConflictingScopeDeclarations(typeName string) *ConfigError {
	return &ConfigError{
		TypeName: typeName,
		Message:  fmt.Sprintf("@scope and @scopeObject must not both be declared for type %s", typeName),
	}
}

func errUntaggedInstance(typeName string, instance any) *ConfigError {
	return &ConfigError{
		TypeName: typeName,
		Message:  fmt.Sprintf("expected a tagged record instance for type %s, got %v", typeName, instance),
	}
}

// notAuthorizedError builds the single error attached to a denied object
// node. The type identifier is reported in snake_case, matching how the
// schema types surface in client-facing messages.
func notAuthorizedError(n *result.Node) result.GraphQLError {
	return result.GraphQLError{
		Message:   fmt.Sprintf("not authorized to access object %s", snakeCase(n.TypeName)),
		Locations: result.LocationsAt(n.Position),
		Phase:     result.PhaseAuthorization,
	}
}

// snakeCase converts a type name from CamelCase or PascalCase to snake_case.
func snakeCase(s string) string {
	out := ""
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			out += "_"
		}
		out += string(r)
	}
	return strings.ToLower(out)
}
