// Package rules provides a CEL-backed Predicate implementation. Each rule
// name maps to a boolean CEL expression evaluated against the actor, the
// scope subject and the scope field of the node under check.
package rules

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common"

	authz "github.com/hanpama/authgraph/internal/authz"
)

// CompilationError reports a rule expression that failed to compile.
type CompilationError struct {
	Rule  string
	Cause error
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("failed to compile rule '%s': %v", e.Rule, e.Cause)
}

func (e *CompilationError) Unwrap() error { return e.Cause }

// EvaluationError reports a rule that could not produce a verdict.
type EvaluationError struct {
	Rule  string
	Cause error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("failed to evaluate rule '%s': %v", e.Rule, e.Cause)
}

func (e *EvaluationError) Unwrap() error { return e.Cause }

// Engine holds the compiled rule programs. It is safe for concurrent use
// once built.
type Engine struct {
	programs map[string]cel.Program
}

var _ authz.Predicate = (*Engine)(nil)

// NewEngine compiles the given rule expressions. Every expression sees the
// variables
//
//	actor:   the principal on the authorization context
//	subject: the tag of the backing record
//	field:   map with 'key' and 'value' of the resolved scope field
//
// and must produce a bool. Compilation failures and non-bool expressions
// are rejected up front so a misdeclared rule never reaches a walk.
func NewEngine(exprs map[string]string) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("actor", cel.DynType),
		cel.Variable("subject", cel.StringType),
		cel.Variable("field", cel.DynType),
		cel.EagerlyValidateDeclarations(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to construct rule env: %w", err)
	}

	programs := make(map[string]cel.Program, len(exprs))
	for rule, expr := range exprs {
		source := common.NewStringSource(expr, rule)
		ast, issues := env.CompileSource(source)
		if issues != nil && issues.Err() != nil {
			return nil, &CompilationError{Rule: rule, Cause: issues.Err()}
		}
		if !reflect.DeepEqual(ast.OutputType(), cel.BoolType) {
			return nil, &CompilationError{
				Rule:  rule,
				Cause: fmt.Errorf("expected a bool expression output, but got '%s'", ast.OutputType()),
			}
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, &CompilationError{Rule: rule, Cause: err}
		}
		programs[rule] = prg
	}
	return &Engine{programs: programs}, nil
}

// Authorize evaluates the program registered under rule. An unknown rule is
// an evaluation error: it aborts the pass rather than silently denying.
func (e *Engine) Authorize(ctx context.Context, actor any, subject string, field authz.FieldValue, rule string) (bool, error) {
	prg, ok := e.programs[rule]
	if !ok {
		return false, &EvaluationError{Rule: rule, Cause: fmt.Errorf("rule is not defined")}
	}

	out, _, err := prg.ContextEval(ctx, map[string]any{
		"actor":   actor,
		"subject": subject,
		"field":   map[string]any{"key": field.Key, "value": field.Value},
	})
	if err != nil {
		return false, &EvaluationError{Rule: rule, Cause: err}
	}
	verdict, ok := out.Value().(bool)
	if !ok {
		return false, &EvaluationError{Rule: rule, Cause: fmt.Errorf("expected bool verdict, got %T", out.Value())}
	}
	return verdict, nil
}
