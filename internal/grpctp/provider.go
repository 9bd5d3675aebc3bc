package grpctp

import (
	"context"
	"errors"
	"sync"
)

// ErrNoEndpoints indicates the provider knows no endpoints for a service.
var ErrNoEndpoints = errors.New("grpctp: no endpoints available")

// EndpointProvider maps a fully-qualified gRPC service name to reachable
// endpoints (host:port). Implementations may integrate with a discovery
// system and must be safe for concurrent use.
type EndpointProvider interface {
	Endpoints(ctx context.Context, service string) ([]string, error)
}

// StaticEndpoints is a provider backed by a fixed in-memory map.
type StaticEndpoints struct {
	mu   sync.RWMutex
	data map[string][]string
}

func NewStaticEndpoints(m map[string][]string) *StaticEndpoints {
	cp := make(map[string][]string, len(m))
	for k, v := range m {
		cp[k] = append([]string(nil), v...)
	}
	return &StaticEndpoints{data: cp}
}

func (s *StaticEndpoints) Endpoints(ctx context.Context, service string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	arr := s.data[service]
	if len(arr) == 0 {
		return nil, ErrNoEndpoints
	}
	return append([]string(nil), arr...), nil
}
