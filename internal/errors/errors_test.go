package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "entity not found",
			expected: "NOT_FOUND: entity not found",
		},
		{
			name:     "invalid argument error",
			code:     errors.CodeInvalidArgument,
			message:  "Position must be an array of 3 numbers",
			expected: "INVALID_ARGUMENT: Position must be an array of 3 numbers",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, errors.GetMessage(err))
		})
	}
}

func (s *ErrorsTestSuite) TestWithMeta() {
	err := errors.NotFound("entity not found").
		WithMeta("entity_id", "e1").
		WithMeta("tick", 42)

	s.Equal("e1", errors.GetMeta(err)["entity_id"])
	s.Equal(42, errors.GetMeta(err)["tick"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to save snapshot")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to save snapshot", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCode() {
	baseErr := errors.NotFound("snapshot not found")
	wrapped := errors.Wrapf(baseErr, "failed to load %s", "e1")

	s.True(errors.IsNotFound(wrapped))
	s.Equal("failed to load e1", wrapped.Message)
	s.ErrorIs(wrapped, errors.NotFound("anything"))
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	wrapped := errors.WrapWithCode(errors.NotFound("node missing"), errors.CodeFailedPrecondition, "dialogue closed")
	s.True(errors.IsFailedPrecondition(wrapped))
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestGetCodeOnPlainError() {
	s.Equal(errors.CodeOK, errors.GetCode(nil))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("boom")))
	s.Equal("boom", errors.GetMessage(fmt.Errorf("boom")))
}

func (s *ErrorsTestSuite) TestGRPCRoundTrip() {
	err := errors.OutOfRangef("option %d out of range", 3).WithMeta("options", 2)

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Equal(codes.OutOfRange, st.Code())
	s.Equal("option 3 out of range", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.True(errors.IsOutOfRange(back))
	s.Equal(float64(2), errors.GetMeta(back)["options"])
}

func (s *ErrorsTestSuite) TestToGRPCErrorPlainError() {
	st, ok := status.FromError(errors.ToGRPCError(fmt.Errorf("boom")))
	s.Require().True(ok)
	s.Equal(codes.Internal, st.Code())
	s.Nil(errors.ToGRPCError(nil))
}
