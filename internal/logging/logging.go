// Package logging provides the server's ambient logging split: a JSON
// handler for error-level request/session logs and a text handler for
// metrics-style per-call lines.
//
// Grounded on mcpsvr/main.go's errorLogger (slog.NewJSONHandler)/
// metricsLogger (slog.NewTextHandler) pair, with the per-call logging itself
// generalized from svrcore/policies/metrics.go's golden-signals request
// policy (traffic, latency, errors) to a grpc.UnaryServerInterceptor /
// grpc.StreamServerInterceptor pair installed alongside versiongate's.
package logging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Loggers bundles the error and metrics handlers.
type Loggers struct {
	// Err receives one structured entry per failed RPC (JSON).
	Err *slog.Logger
	// Metrics receives one line per completed RPC, success or failure (text).
	Metrics *slog.Logger
}

// New builds the JSON error / text metrics logger pair against stderr.
func New() Loggers {
	return Loggers{
		Err:     slog.New(slog.NewJSONHandler(os.Stderr, nil)),
		Metrics: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
}

// UnaryServerInterceptor logs every unary RPC's traffic/latency/error golden
// signals (spec's ambient stack).
func (l Loggers) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		l.record(info.FullMethod, time.Since(start), err)
		return resp, err
	}
}

// StreamServerInterceptor logs every streaming RPC (CallTool) the same way.
func (l Loggers) StreamServerInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		err := handler(srv, ss)
		l.record(info.FullMethod, time.Since(start), err)
		return err
	}
}

func (l Loggers) record(method string, duration time.Duration, err error) {
	code := codes.OK
	if err != nil {
		code = status.Code(err)
		l.Err.Error("rpc failed", "method", method, "code", code.String(), "ms", duration.Milliseconds(), "err", err.Error())
	}
	l.Metrics.Info("rpc completed", "method", method, "code", code.String(), "ms", duration.Milliseconds())
}
