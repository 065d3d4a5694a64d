package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"picgo-mcp/internal/domain"
)

const (
	logicalFailurePrefix = "PicGo upload failed: "
	unreachableHint      = "Is PicGo running and its server enabled?"
)

// Normalize classifies a forwarding result into exactly one UploadOutcome.
func Normalize(reply *domain.UploadReply, err error) domain.UploadOutcome {
	if err != nil {
		return transportFailure(err)
	}
	if reply == nil {
		return transportFailure(&domain.DownstreamError{Cause: errors.New("empty reply")})
	}

	// PicGo answered, so any body without success: true is a logical failure, even one that is not an object.
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(reply.Body, &fields); err != nil || !isJSONTrue(fields["success"]) {
		return domain.LogicalFailure(logicalFailurePrefix + renderBody(reply.Body))
	}

	payload := reply.Body
	if result, ok := fields["result"]; ok && truthy(result) {
		payload = result
	}
	return domain.Succeeded(indentJSON(payload))
}

func transportFailure(err error) domain.UploadOutcome {
	var downstream *domain.DownstreamError
	if !errors.As(err, &downstream) {
		return domain.TransportFailure(err.Error())
	}

	cause := "unknown error"
	if downstream.Cause != nil {
		cause = downstream.Cause.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "PicGo server request error: %s. %s", cause, unreachableHint)
	if downstream.HasResponse() {
		fmt.Fprintf(&b, " Status: %d, Data: %s", downstream.StatusCode, compactJSON(downstream.Body))
	}
	return domain.TransportFailure(b.String())
}

func isJSONTrue(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("true"))
}

// truthy mirrors how PicGo clients treat the result field: null, false, 0 and "" fall back to the full body.
func truthy(raw json.RawMessage) bool {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return false
	}
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v != ""
	default:
		return true
	}
}

func indentJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(raw), "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}

// renderBody indents a JSON body and quotes anything else as a JSON string.
func renderBody(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return indentJSON(trimmed)
	}
	return quoteJSON(raw)
}

func compactJSON(raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	var buf bytes.Buffer
	if len(trimmed) > 0 && json.Compact(&buf, trimmed) == nil {
		return buf.String()
	}
	return quoteJSON(raw)
}

func quoteJSON(raw []byte) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(string(raw)); err != nil {
		return string(raw)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
