package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	metadata "github.com/hanpama/authgraph/internal/metadata"
	result "github.com/hanpama/authgraph/internal/result"
)

func TestResolveScope(t *testing.T) {
	t.Run("neither declared", func(t *testing.T) {
		_, err := resolveScope(&metadata.TypeMetadata{}, "Order")
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "no @scope or @scopeObject declared for type Order", cfgErr.Error())

		_, err = resolveScope(nil, "Order")
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("both declared", func(t *testing.T) {
		meta := &metadata.TypeMetadata{
			ScopeBy:       &metadata.ScopeBy{Field: "ownerId"},
			ScopeObjectBy: "id",
		}
		_, err := resolveScope(meta, "Order")
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "@scope and @scopeObject must not both be declared for type Order", cfgErr.Error())
	})

	t.Run("general field", func(t *testing.T) {
		sel, err := resolveScope(&metadata.TypeMetadata{ScopeBy: &metadata.ScopeBy{Field: "ownerId"}}, "Order")
		require.NoError(t, err)
		require.Equal(t, scopeSelector{field: "ownerId"}, sel)
	})

	t.Run("general none", func(t *testing.T) {
		sel, err := resolveScope(&metadata.TypeMetadata{ScopeBy: &metadata.ScopeBy{None: true}}, "Order")
		require.NoError(t, err)
		require.Equal(t, scopeSelector{none: true}, sel)
	})

	t.Run("override", func(t *testing.T) {
		sel, err := resolveScope(&metadata.TypeMetadata{ScopeObjectBy: "id"}, "Order")
		require.NoError(t, err)
		require.Equal(t, scopeSelector{field: "id"}, sel)
	})
}

func TestExtractScope(t *testing.T) {
	t.Run("tagged record", func(t *testing.T) {
		n := result.NewObject("order", "Order",
			result.NewRecord("order", map[string]any{"ownerId": 42}), nil)
		subject, field, err := extractScope(n, scopeSelector{field: "ownerId"})
		require.NoError(t, err)
		require.Equal(t, "order", subject)
		require.Equal(t, FieldValue{Key: "ownerId", Value: 42}, field)
	})

	t.Run("absent field extracts nil", func(t *testing.T) {
		n := result.NewObject("order", "Order", result.NewRecord("order", nil), nil)
		_, field, err := extractScope(n, scopeSelector{field: "ownerId"})
		require.NoError(t, err)
		require.Equal(t, FieldValue{Key: "ownerId", Value: nil}, field)
	})

	t.Run("untagged instance", func(t *testing.T) {
		n := result.NewObject("order", "Order", "just a string", nil)
		_, _, err := extractScope(n, scopeSelector{field: "ownerId"})
		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		require.Equal(t, "expected a tagged record instance for type Order, got just a string", cfgErr.Error())
	})
}

func TestNotAuthorizedErrorNaming(t *testing.T) {
	n := result.NewObject("w", "WalletAccount", nil, pos(7, 9))
	err := notAuthorizedError(n)
	require.Equal(t, "not authorized to access object wallet_account", err.Message)
	require.Equal(t, []result.Location{{Line: 7, Column: 9}}, err.Locations)
	require.Equal(t, result.PhaseAuthorization, err.Phase)
}
