package metadata

import (
	"fmt"

	language "github.com/hanpama/authgraph/internal/language"
)

type Violation struct {
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

type ValidationError []*Violation

func (e ValidationError) Error() string {
	msg := "violations found:\n"
	for _, v := range e {
		line := "- " + v.Message
		if v.File != "" {
			line += fmt.Sprintf(" %s:%d:%d", v.File, v.Line, v.Column)
		}
		msg += line + "\n"
	}
	return msg
}

func violationWithPosition(message string, pos *language.Position) *Violation {
	v := &Violation{Message: message}
	if pos != nil {
		if pos.Src != nil {
			v.File = pos.Src.Name
		}
		v.Line = pos.Line
		v.Column = pos.Column
	}
	return v
}

func violationUnknownDirectiveArgument(directive, arg string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Unknown argument '%s' in @%s directive", arg, directive),
		pos,
	)
}

func violationDirectiveArgumentNotString(directive, arg string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Argument '%s' of @%s must be a string", arg, directive),
		pos,
	)
}

func violationDirectiveArgumentNotBoolean(directive, arg string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Argument '%s' of @%s must be a boolean", arg, directive),
		pos,
	)
}

func violationScopeByAndNone(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@scope on type %q must declare either 'by' or 'none', not both", typeName),
		pos,
	)
}

func violationScopeEmpty(typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@scope on type %q declares neither 'by' nor 'none'", typeName),
		pos,
	)
}

func violationMissingDirectiveArgument(directive, arg, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@%s on type %q is missing required argument '%s'", directive, typeName, arg),
		pos,
	)
}

func violationDuplicateDirective(directive, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("Duplicate @%s directive on type %q", directive, typeName),
		pos,
	)
}

func violationDirectiveOnNonObject(directive string, kind language.DefinitionKind, typeName string, pos *language.Position) *Violation {
	return violationWithPosition(
		fmt.Sprintf("@%s is only allowed on object types, found on %s type %q", directive, kind, typeName),
		pos,
	)
}
