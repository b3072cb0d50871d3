package gateway

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/coined/internal/model"
)

// mapError translates a gRPC failure into the model error taxonomy,
// keeping the server's message for display.
func mapError(method string, err error) error {
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return model.NewError(model.ErrNetwork, "Request timed out")
		}
		return fmt.Errorf("%s: %w", method, model.NewError(model.ErrNetwork, err.Error()))
	}

	var kind error
	switch st.Code() {
	case codes.Unauthenticated:
		kind = model.ErrUnauthorized
		if method == methodLogin {
			kind = model.ErrInvalidCredentials
		}
	case codes.InvalidArgument, codes.OutOfRange:
		kind = model.ErrValidation
	case codes.FailedPrecondition:
		kind = model.ErrInsufficientFunds
	case codes.NotFound:
		kind = model.ErrNotFound
	case codes.AlreadyExists:
		kind = model.ErrDuplicateEmail
	case codes.PermissionDenied:
		kind = model.ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled, codes.ResourceExhausted:
		kind = model.ErrNetwork
	default:
		msg := st.Message()
		if msg == "" {
			msg = fmt.Sprintf("Server error (%s)", st.Code())
		}
		return fmt.Errorf("%s: %w", method, model.NewError(model.ErrServer, msg))
	}

	return model.NewError(kind, st.Message())
}
