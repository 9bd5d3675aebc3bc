package grpctp

import (
	"time"

	"google.golang.org/grpc"
)

// Options configures the transport.
//
// Defaults:
// - RPCTimeout:  3s (applied only when the incoming context has no deadline)
// - DialOptions: insecure credentials with default backoff
//
// Provider must be set (use StaticEndpoints or a custom implementation);
// without one, Call errors.
type Options struct {
	Provider EndpointProvider

	RPCTimeout time.Duration

	DialOptions []grpc.DialOption
}

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{RPCTimeout: 3 * time.Second}
}

func WithProvider(p EndpointProvider) Option { return func(o *Options) { o.Provider = p } }
func WithRPCTimeout(d time.Duration) Option  { return func(o *Options) { o.RPCTimeout = d } }
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(o *Options) { o.DialOptions = opts }
}
