package gateway

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/metrics"
	"github.com/dtroode/coined/internal/model"
)

// Logging is a unary client interceptor that logs gateway calls and
// observes their latency.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging interceptor.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status for each unary call.
func (l *Logging) HandleGRPC(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	start := time.Now()

	l.logger.Debug("gRPC call started", "method", method)

	err := invoker(ctx, method, req, reply, cc, opts...)

	duration := time.Since(start)

	statusCode := codes.OK
	if err != nil {
		if st, ok := status.FromError(err); ok {
			statusCode = st.Code()
		} else {
			statusCode = codes.Unknown
		}
	}

	metrics.GatewayDuration.WithLabelValues(method, statusCode.String()).Observe(duration.Seconds())

	l.logger.Debug("gRPC call completed",
		"method", method,
		"duration_ms", duration.Milliseconds(),
		"status", statusCode.String())

	if err != nil {
		l.logger.Warn("gRPC call failed",
			"method", method,
			"error", err.Error(),
			"status", statusCode.String())
	}

	return err
}

// Bearer attaches the session credential to outgoing calls.
type Bearer struct {
	tokens model.TokenSource
}

// NewBearer creates a new Bearer interceptor reading from tokens.
func NewBearer(tokens model.TokenSource) *Bearer {
	return &Bearer{tokens: tokens}
}

// HandleGRPC adds the authorization header when a credential is held.
func (b *Bearer) HandleGRPC(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if tok := b.tokens.Token(); tok != "" && method != methodLogin {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+tok)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// readOnly reports whether a method can be retried without side effects.
func readOnly(method string) bool {
	name := method[strings.LastIndex(method, "/")+1:]
	return strings.HasPrefix(name, "List") || name == "Me" || name == "MyAttempts"
}
