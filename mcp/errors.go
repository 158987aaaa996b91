package mcp

import "fmt"

// ErrorCode is a protocol-level error code, distinct from gRPC transport
// status codes (see internal/versiongate and client/errors.go for the
// mapping between the two, spec §4.G).
type ErrorCode int

const (
	// CodeInternalError is surfaced for any non-categorized transport or
	// conversion failure.
	CodeInternalError ErrorCode = -32603
	// CodeParseError is surfaced for a wire<->protocol decoding failure.
	CodeParseError ErrorCode = -32700
	// CodeResourceNotFound is surfaced when the server replies NOT_FOUND on
	// ReadResource.
	CodeResourceNotFound ErrorCode = -32002
	// CodeRequestTimeout is surfaced when a DEADLINE_EXCEEDED status is
	// observed.
	CodeRequestTimeout ErrorCode = -32800
	// CodeRequestCancelled is surfaced on client cancel or a server
	// CANCELLED status.
	CodeRequestCancelled ErrorCode = -32801
	// CodeOutputValidation is surfaced when a tool's declared output
	// schema rejects its structured result, or the result's shape itself
	// is invalid (spec §4.A item 5).
	CodeOutputValidation ErrorCode = -32802
)

// Error is the protocol-level error type returned by client operations. It
// is distinct from the gRPC-level status error that produced it, if any.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return fmt.Sprintf("mcp: %s (code %d)", e.Message, e.Code) }

func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
