package gateway

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/timeout"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"

	"github.com/dtroode/coined/internal/config"
	"github.com/dtroode/coined/internal/logger"
	"github.com/dtroode/coined/internal/model"
)

const readRetries = 2

// SecurityLayer provides transport credentials for the connection.
type SecurityLayer interface {
	TransportCredentials() (credentials.TransportCredentials, error)
}

func retrySelect(_ context.Context, c interceptors.CallMeta) bool {
	return readOnly(c.FullMethod())
}

// Dial opens a client connection to the remote gateway. Every call
// carries the current credential and is bounded by cfg.Timeout; read
// calls are retried when the gateway is unavailable.
func Dial(cfg config.Gateway, tokens model.TokenSource, logger *logger.Logger, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	var security SecurityLayer = NewPlainCredentials()
	if cfg.EnableTLS {
		security = NewTLSCredentials(cfg.CAFile)
	}

	creds, err := security.TransportCredentials()
	if err != nil {
		return nil, fmt.Errorf("failed to build transport credentials: %w", err)
	}

	logging := NewLogging(logger)
	bearer := NewBearer(tokens)

	base := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})),
		grpc.WithChainUnaryInterceptor(
			bearer.HandleGRPC,
			logging.HandleGRPC,
			selector.UnaryClientInterceptor(
				retry.UnaryClientInterceptor(
					retry.WithMax(readRetries),
					retry.WithCodes(codes.Unavailable),
				),
				selector.MatchFunc(retrySelect),
			),
			timeout.UnaryClientInterceptor(cfg.Timeout),
		),
	}

	conn, err := grpc.NewClient(cfg.Address, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway client: %w", err)
	}

	return conn, nil
}
