package handler

import (
	"context"
	"errors"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errInvalidRequest = errors.New("invalid request")

func toStatusError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, employee.ErrInvalidID),
		errors.Is(err, employee.ErrInvalidArgument),
		errors.Is(err, employee.ErrInvalidEmployee):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, employee.ErrUsernameDuplicated):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, employee.ErrEmployeeNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, employee.ErrUpdateConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, employee.ErrStoreUnavailable), errors.Is(err, structure.ErrLoad):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
