package authflow

import (
	"errors"
	"fmt"
)

// Error taxonomy for token acquisition and authenticated dispatch. Callers
// match with errors.Is to distinguish "fix your configuration" from "network
// issue" from "the server rejected the credential" without string matching.
var (
	ErrConfiguration        = errors.New("invalid configuration")
	ErrNetwork              = errors.New("network failure")
	ErrLoginFailed          = errors.New("login failed")
	ErrApprovalFailed       = errors.New("authorization approval failed")
	ErrTokenExchangeFailed  = errors.New("token exchange failed")
	ErrAuthenticationFailed = errors.New("authentication rejected")
	ErrUnexpectedResponse   = errors.New("unexpected response")
)

// Step names recorded on FlowError for diagnosis.
const (
	StepLogin     = "login"
	StepAuthorize = "authorize"
	StepApprove   = "approve"
	StepToken     = "token"
	StepUserInfo  = "userinfo"
	StepDispatch  = "dispatch"
)

const maxErrorBodyBytes = 512

// FlowError annotates a taxonomy sentinel with the failing step and, when a
// response was received, the HTTP status and a body excerpt.
type FlowError struct {
	Step   string
	Status int    // 0 when no response was received
	Body   string // response body excerpt, capped
	kind   error  // taxonomy sentinel
	cause  error  // underlying transport error, if any
}

// NewFlowError builds a FlowError for a response the server actually sent.
func NewFlowError(kind error, step string, status int, body string) *FlowError {
	if len(body) > maxErrorBodyBytes {
		body = body[:maxErrorBodyBytes]
	}
	return &FlowError{Step: step, Status: status, Body: body, kind: kind}
}

// NewNetworkError builds a FlowError for a transport-level failure (DNS,
// connect, timeout) where no HTTP response exists.
func NewNetworkError(step string, cause error) *FlowError {
	return &FlowError{Step: step, kind: ErrNetwork, cause: cause}
}

func (e *FlowError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Step, e.kind, e.cause)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s: %v (status %d): %s", e.Step, e.kind, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Step, e.kind)
}

// Unwrap exposes both the taxonomy sentinel and the transport cause so that
// errors.Is works against either.
func (e *FlowError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}
