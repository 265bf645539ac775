package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrAlreadyStarted    = fmt.Errorf("already started")
	ErrUnknownIdentity   = fmt.Errorf("identity not found")
	ErrUnknownChannel    = fmt.Errorf("channel not found")
	ErrUnknownInvitation = fmt.Errorf("invitation not found")
	ErrNotMember         = fmt.Errorf("not a member of the channel")
	ErrInvalidEvent      = fmt.Errorf("invalid event payload")
	ErrInvalidToken      = fmt.Errorf("invalid or expired token")
	ErrMissingToken      = fmt.Errorf("authorization token is missing")
)

// Delivery failures. They stay local to one recipient and never reach the publisher's caller.
var (
	ErrHandleRemoved = fmt.Errorf("stream handle removed")
	ErrBackpressure  = fmt.Errorf("stream handle buffer full")
)

// MapToGRPCError translates domain errors into gRPC status errors.
func MapToGRPCError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrUnknownIdentity), errors.Is(err, ErrUnknownChannel), errors.Is(err, ErrUnknownInvitation):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrMissingToken):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, ErrNotMember):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, ErrInvalidEvent):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrHandleRemoved):
		return status.Error(codes.Aborted, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// MapToHTTPStatus is MapToGRPCError for the HTTP surface.
func MapToHTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnknownIdentity), errors.Is(err, ErrUnknownChannel), errors.Is(err, ErrUnknownInvitation):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotMember):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
