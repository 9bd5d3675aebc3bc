package passid

import (
	"context"
	"math/rand/v2"
)

// key is the context key for the pass ID.
type key struct{}

// NewContext returns a copy of parent with a new random pass ID stored,
// along with the generated ID. Telemetry subscribers use the ID to correlate
// start and finish events of the same authorization pass.
func NewContext(parent context.Context) (context.Context, int64) {
	id := rand.Int64()
	return context.WithValue(parent, key{}, id), id
}

// FromContext extracts the pass ID from ctx.
func FromContext(ctx context.Context) (int64, bool) {
	v := ctx.Value(key{})
	id, ok := v.(int64)
	return id, ok
}
