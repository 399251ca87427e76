package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mindbalance/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Unexpected errors
// are logged and hidden behind a generic message.
func (s *GRPCServer) toStatus(ctx context.Context, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrorIncorrectMetadata):
		return status.Error(codes.InvalidArgument, "invalid argument")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		s.logger.Error(ctx, op+" failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
