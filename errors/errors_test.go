package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapToGRPCError(t *testing.T) {
	req := require.New(t)

	req.Nil(MapToGRPCError(nil))

	wrapped := fmt.Errorf("register: %w", ErrUnknownIdentity)
	cases := []struct {
		err  error
		code codes.Code
	}{
		{wrapped, codes.NotFound},
		{ErrUnknownChannel, codes.NotFound},
		{ErrInvalidToken, codes.Unauthenticated},
		{ErrMissingToken, codes.Unauthenticated},
		{ErrNotMember, codes.PermissionDenied},
		{ErrInvalidEvent, codes.InvalidArgument},
		{ErrHandleRemoved, codes.Aborted},
		{fmt.Errorf("boom"), codes.Internal},
	}
	for _, c := range cases {
		st, ok := status.FromError(MapToGRPCError(c.err))
		req.True(ok)
		req.Equal(c.code, st.Code(), c.err.Error())
	}
}

func TestMapToHTTPStatus(t *testing.T) {
	req := require.New(t)

	cases := []struct {
		err    error
		status int
	}{
		{nil, http.StatusOK},
		{fmt.Errorf("accept: %w", ErrUnknownInvitation), http.StatusNotFound},
		{ErrMissingToken, http.StatusUnauthorized},
		{ErrNotMember, http.StatusForbidden},
		{fmt.Errorf("%w: empty name", ErrInvalidEvent), http.StatusBadRequest},
		{fmt.Errorf("badger closed"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		req.Equal(c.status, MapToHTTPStatus(c.err), fmt.Sprint(c.err))
	}
}
