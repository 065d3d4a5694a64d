package domain

import (
	"fmt"
	"strings"
)

// UploadRequest is a validated, non-empty list of image paths.
type UploadRequest struct {
	Paths []string
}

// OutcomeKind labels how an upload invocation ended.
type OutcomeKind string

const (
	OutcomeSucceeded        OutcomeKind = "succeeded"
	OutcomeLogicalFailure   OutcomeKind = "logical_failure"
	OutcomeTransportFailure OutcomeKind = "transport_failure"
	// OutcomeInvalidParams is only used for metrics; rejected requests never produce an UploadOutcome.
	OutcomeInvalidParams OutcomeKind = "invalid_params"
)

// UploadOutcome is the single result produced for an accepted upload request.
type UploadOutcome struct {
	Kind OutcomeKind
	Text string
}

func Succeeded(payload string) UploadOutcome {
	return UploadOutcome{Kind: OutcomeSucceeded, Text: payload}
}

func LogicalFailure(detail string) UploadOutcome {
	return UploadOutcome{Kind: OutcomeLogicalFailure, Text: detail}
}

func TransportFailure(detail string) UploadOutcome {
	return UploadOutcome{Kind: OutcomeTransportFailure, Text: detail}
}

// IsError reports whether the outcome must be flagged as a tool error.
func (o UploadOutcome) IsError() bool {
	return o.Kind != OutcomeSucceeded
}

// UploadReply is the raw 2xx response of the PicGo server.
type UploadReply struct {
	StatusCode int
	Body       []byte
}

// DownstreamError reports an HTTP exchange with PicGo that did not complete successfully.
// StatusCode is zero when no response was received.
type DownstreamError struct {
	Cause      error
	StatusCode int
	Body       []byte
}

func (e *DownstreamError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("picgo request failed")
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	if e.HasResponse() {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	return b.String()
}

func (e *DownstreamError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// HasResponse reports whether PicGo answered with an HTTP status.
func (e *DownstreamError) HasResponse() bool {
	return e != nil && e.StatusCode != 0
}
