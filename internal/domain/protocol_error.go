package domain

// JSON-RPC error codes surfaced to MCP clients.
const (
	ErrCodeMethodNotFound int64 = -32601
	ErrCodeInvalidParams  int64 = -32602
	ErrCodeInternal       int64 = -32603
)

// ProtocolCode maps a domain error code onto its JSON-RPC counterpart.
func ProtocolCode(code ErrorCode) int64 {
	switch code {
	case CodeInvalidParams:
		return ErrCodeInvalidParams
	case CodeMethodNotFound:
		return ErrCodeMethodNotFound
	default:
		return ErrCodeInternal
	}
}
