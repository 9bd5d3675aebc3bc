package authz

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	language "github.com/hanpama/authgraph/internal/language"
	metadata "github.com/hanpama/authgraph/internal/metadata"
	result "github.com/hanpama/authgraph/internal/result"
)

func newRegistry(types map[string]*metadata.TypeMetadata) *metadata.Registry {
	return metadata.NewRegistry(types)
}

func scopeByField(field string) *metadata.TypeMetadata {
	return &metadata.TypeMetadata{ScopeBy: &metadata.ScopeBy{Field: field}}
}

func ownerPredicate() *MockPredicate {
	return NewMockPredicate(func(actor any, subject string, field FieldValue, rule string) (bool, error) {
		return actor.(map[string]any)["id"] == field.Value, nil
	})
}

func pos(line, column int) *language.Position {
	return &language.Position{Line: line, Column: column, Src: &language.Source{Name: "query.graphql"}}
}

func userNode(id int) *result.Node {
	return result.NewObject("user", "User",
		result.NewRecord("user", map[string]any{"id": id, "name": "Ada"}),
		pos(2, 3),
		result.NewLeaf("id", id),
		result.NewLeaf("name", "Ada"),
	)
}

func TestAuthorize_OwnerMatch(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	pred := ownerPredicate()
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	exec := &result.Execution{Root: result.NewRoot(language.Query, userNode(1))}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	// Nothing was rewritten, so the pass hands back the same execution.
	require.Same(t, exec, got)

	wantResp := &result.Response{
		Data: map[string]any{"user": map[string]any{"id": 1, "name": "Ada"}},
	}
	if diff := cmp.Diff(wantResp, got.Response()); diff != "" {
		t.Fatalf("Response mismatch (-want +got):\n%s", diff)
	}

	calls := pred.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "user", calls[0].Subject)
	require.Equal(t, FieldValue{Key: "id", Value: 1}, calls[0].Field)
	require.Equal(t, "default", calls[0].Rule)
}

func TestAuthorize_OwnerMismatch(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 2}, DefaultRule: "default", Predicate: ownerPredicate(), Metadata: reg}

	exec := &result.Execution{Root: result.NewRoot(language.Query, userNode(1))}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)
	require.NotSame(t, exec, got)

	denied := got.Root.Fields[0]
	require.Empty(t, denied.Fields)
	wantErrs := []result.GraphQLError{{
		Message:   "not authorized to access object user",
		Locations: []result.Location{{Line: 2, Column: 3}},
		Phase:     result.PhaseAuthorization,
	}}
	if diff := cmp.Diff(wantErrs, denied.Errors); diff != "" {
		t.Fatalf("Errors mismatch (-want +got):\n%s", diff)
	}

	wantResp := &result.Response{
		Data:   map[string]any{"user": nil},
		Errors: wantErrs,
	}
	if diff := cmp.Diff(wantResp, got.Response()); diff != "" {
		t.Fatalf("Response mismatch (-want +got):\n%s", diff)
	}
}

func TestAuthorize_DeclaredRuleOverridesDefault(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{
		"Wallet": {ScopeBy: &metadata.ScopeBy{Field: "id"}, Rule: "read_only"},
	})
	pred := NewMockPredicate(func(actor any, subject string, field FieldValue, rule string) (bool, error) {
		return rule == "read_only", nil
	})
	actx := &Context{Actor: map[string]any{"id": 99}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	wallet := result.NewObject("wallet", "Wallet",
		result.NewRecord("wallet", map[string]any{"id": 7}),
		pos(3, 5),
		result.NewLeaf("id", 7),
	)
	exec := &result.Execution{Root: result.NewRoot(language.Query, wallet)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)
	require.Same(t, exec, got)

	calls := pred.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "read_only", calls[0].Rule)
}

func TestAuthorize_SiblingIndependence(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: ownerPredicate(), Metadata: reg}

	mine := result.NewObject("me", "User",
		result.NewRecord("user", map[string]any{"id": 1}), pos(2, 3),
		result.NewLeaf("id", 1))
	other := result.NewObject("other", "User",
		result.NewRecord("user", map[string]any{"id": 2}), pos(3, 3),
		result.NewLeaf("id", 2))

	exec := &result.Execution{Root: result.NewRoot(language.Query, mine, other)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	// Order preserved, authorized sibling untouched (same node identity).
	require.Len(t, got.Root.Fields, 2)
	require.Same(t, mine, got.Root.Fields[0])
	require.NotSame(t, other, got.Root.Fields[1])

	wantResp := &result.Response{
		Data: map[string]any{
			"me":    map[string]any{"id": 1},
			"other": nil,
		},
		Errors: []result.GraphQLError{{
			Message:   "not authorized to access object user",
			Locations: []result.Location{{Line: 3, Column: 3}},
			Phase:     result.PhaseAuthorization,
		}},
	}
	if diff := cmp.Diff(wantResp, got.Response()); diff != "" {
		t.Fatalf("Response mismatch (-want +got):\n%s", diff)
	}
}

func TestAuthorize_ListElementsIndependent(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: ownerPredicate(), Metadata: reg}

	list := result.NewList("users",
		result.NewObject("", "User", result.NewRecord("user", map[string]any{"id": 1}), pos(2, 3), result.NewLeaf("id", 1)),
		result.NewObject("", "User", result.NewRecord("user", map[string]any{"id": 2}), pos(2, 3), result.NewLeaf("id", 2)),
		result.NewObject("", "User", result.NewRecord("user", map[string]any{"id": 1}), pos(2, 3), result.NewLeaf("id", 1)),
	)
	exec := &result.Execution{Root: result.NewRoot(language.Query, list)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	walked := got.Root.Fields[0]
	require.Len(t, walked.Values, 3)
	require.Empty(t, walked.Values[0].Errors)
	require.Len(t, walked.Values[1].Errors, 1)
	require.Empty(t, walked.Values[1].Fields)
	require.Empty(t, walked.Values[2].Errors)
}

func TestAuthorize_UnscopedSkipsPredicate(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{
		"PublicProfile": {ScopeBy: &metadata.ScopeBy{None: true}},
	})
	pred := NewStaticPredicate(false)
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	profile := result.NewObject("profile", "PublicProfile", nil, pos(2, 3), result.NewLeaf("bio", "hello"))
	exec := &result.Execution{Root: result.NewRoot(language.Query, profile)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)
	require.Same(t, exec, got)
	require.Empty(t, pred.Calls())
}

func TestAuthorize_ScopeObjectOverride(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{
		"Invoice": {ScopeObjectBy: "accountId"},
	})
	pred := ownerPredicate()
	actx := &Context{Actor: map[string]any{"id": 5}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	invoice := result.NewObject("invoice", "Invoice",
		result.NewRecord("invoice", map[string]any{"id": 10, "accountId": 5}), pos(4, 3),
		result.NewLeaf("id", 10))
	exec := &result.Execution{Root: result.NewRoot(language.Query, invoice)}
	_, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	calls := pred.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, FieldValue{Key: "accountId", Value: 5}, calls[0].Field)
}

func TestAuthorize_NoScopeDeclaredIsFatal(t *testing.T) {
	reg := newRegistry(nil)
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: NewStaticPredicate(true), Metadata: reg}

	exec := &result.Execution{Root: result.NewRoot(language.Query, userNode(1))}
	got, err := Authorize(context.Background(), exec, actx)
	require.Nil(t, got)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "User", cfgErr.TypeName)
	require.Equal(t, "no @scope or @scopeObject declared for type User", cfgErr.Error())
}

func TestAuthorize_ConflictingDeclarationsAreFatal(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{
		"User": {ScopeBy: &metadata.ScopeBy{Field: "id"}, ScopeObjectBy: "id"},
	})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: NewStaticPredicate(true), Metadata: reg}

	exec := &result.Execution{Root: result.NewRoot(language.Query, userNode(1))}
	got, err := Authorize(context.Background(), exec, actx)
	require.Nil(t, got)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, "@scope and @scopeObject must not both be declared for type User", cfgErr.Error())
}

func TestAuthorize_UntaggedInstanceIsFatal(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: NewStaticPredicate(true), Metadata: reg}

	bare := result.NewObject("user", "User", map[string]any{"id": 1}, pos(2, 3))
	exec := &result.Execution{Root: result.NewRoot(language.Query, bare)}
	got, err := Authorize(context.Background(), exec, actx)
	require.Nil(t, got)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Contains(t, cfgErr.Error(), "expected a tagged record instance for type User")
}

func TestAuthorize_AbsentScopeFieldPassesNil(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("ownerId")})
	pred := NewMockPredicate(func(actor any, subject string, field FieldValue, rule string) (bool, error) {
		return field.Value == nil, nil
	})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	exec := &result.Execution{Root: result.NewRoot(language.Query, userNode(1))}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)
	require.Same(t, exec, got)

	calls := pred.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, FieldValue{Key: "ownerId", Value: nil}, calls[0].Field)
}

func TestAuthorize_ValidationErrorsBypassPass(t *testing.T) {
	reg := newRegistry(nil) // would be fatal if the walker ran
	pred := NewStaticPredicate(true)
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	exec := &result.Execution{
		Root:   result.NewRoot(language.Query, userNode(1)),
		Errors: []result.GraphQLError{{Message: "Cannot query field 'nope' on type 'Query'", Phase: result.PhaseValidation}},
	}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)
	require.Same(t, exec, got)
	require.Empty(t, pred.Calls())
}

func TestAuthorize_IntrospectionPassesThrough(t *testing.T) {
	reg := newRegistry(nil)
	pred := NewStaticPredicate(false)
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	intro := result.NewIntrospection("__schema", result.IntrospectionQueryType)
	exec := &result.Execution{Root: result.NewRoot(language.Query, intro)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)
	require.Same(t, exec, got)
	require.Same(t, intro, got.Root.Fields[0])
	require.Empty(t, pred.Calls())
}

func TestAuthorize_DeniedSubtreeNotRecursed(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{
		"User":   scopeByField("id"),
		"Wallet": scopeByField("ownerId"),
	})
	pred := NewMockPredicate(func(actor any, subject string, field FieldValue, rule string) (bool, error) {
		if subject == "user" {
			return false, nil
		}
		return false, fmt.Errorf("wallet must never be checked")
	})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	wallet := result.NewObject("wallet", "Wallet",
		result.NewRecord("wallet", map[string]any{"ownerId": 2}), pos(3, 5))
	user := result.NewObject("user", "User",
		result.NewRecord("user", map[string]any{"id": 2}), pos(2, 3), wallet)

	exec := &result.Execution{Root: result.NewRoot(language.Query, user)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	calls := pred.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, "user", calls[0].Subject)
	require.Empty(t, got.Root.Fields[0].Fields)
}

func TestAuthorize_DeterministicRerun(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: ownerPredicate(), Metadata: reg}

	build := func() *result.Execution {
		return &result.Execution{Root: result.NewRoot(language.Query, userNode(1), userNode(2))}
	}
	first, err := Authorize(context.Background(), build(), actx)
	require.NoError(t, err)
	second, err := Authorize(context.Background(), build(), actx)
	require.NoError(t, err)

	if diff := cmp.Diff(first.Response(), second.Response()); diff != "" {
		t.Fatalf("reruns disagree (-first +second):\n%s", diff)
	}
}

func TestAuthorize_PredicateErrorAborts(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	boom := fmt.Errorf("policy store unreachable")
	pred := NewMockPredicate(func(any, string, FieldValue, string) (bool, error) {
		return false, boom
	})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: pred, Metadata: reg}

	exec := &result.Execution{Root: result.NewRoot(language.Query, userNode(1))}
	got, err := Authorize(context.Background(), exec, actx)
	require.Nil(t, got)
	require.ErrorIs(t, err, boom)
}

func TestAuthorize_MutationFieldsWalkedIndependently(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 1}, DefaultRule: "default", Predicate: ownerPredicate(), Metadata: reg}

	denied := result.NewObject("updateOther", "User",
		result.NewRecord("user", map[string]any{"id": 2}), pos(2, 3), result.NewLeaf("id", 2))
	allowed := result.NewObject("updateMe", "User",
		result.NewRecord("user", map[string]any{"id": 1}), pos(3, 3), result.NewLeaf("id", 1))

	exec := &result.Execution{Root: result.NewRoot(language.Mutation, denied, allowed)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	// The first field's denial does not keep the second from being walked.
	require.Len(t, got.Root.Fields[0].Errors, 1)
	require.Same(t, allowed, got.Root.Fields[1])
}

func TestAuthorize_PreexistingNodeErrorsKept(t *testing.T) {
	reg := newRegistry(map[string]*metadata.TypeMetadata{"User": scopeByField("id")})
	actx := &Context{Actor: map[string]any{"id": 2}, DefaultRule: "default", Predicate: ownerPredicate(), Metadata: reg}

	user := userNode(1)
	prior := result.GraphQLError{Message: "partial resolve failure", Phase: result.PhaseExecution}
	user.Errors = []result.GraphQLError{prior}

	exec := &result.Execution{Root: result.NewRoot(language.Query, user)}
	got, err := Authorize(context.Background(), exec, actx)
	require.NoError(t, err)

	errs := got.Root.Fields[0].Errors
	require.Len(t, errs, 2)
	require.Equal(t, prior, errs[0])
	require.Equal(t, "not authorized to access object user", errs[1].Message)
}
