// Package netclient defines the wire protocol spoken between the
// command-line client (cmd/kvs) and the request/response server
// (internal/server) over a stream socket, and provides the client side of
// that protocol (spec §6: "Engine operations consumed by the network
// server").
//
// Requests are newline-free, self-delimiting JSON objects, consistent with
// the command log's own framing convention (§3): a streaming
// encoding/json.Decoder on either end reports exactly where one object
// ends and the next begins, so no length prefix or separator is needed.
package netclient

// Op names the operation a Request asks the engine to perform.
type Op string

const (
	OpSet    Op = "set"
	OpGet    Op = "get"
	OpRemove Op = "remove"
)

// Request is one client call, framed as a single JSON object.
type Request struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// Response is the server's reply to exactly one Request.
//
// Found distinguishes a Get that succeeded with no live value from one
// that returned a value; it is unused for Set/Remove, where Ok alone is
// the full answer. Error carries a human-readable message for callers that
// cannot reconstruct the server's concrete Go error type across the
// network boundary (spec §7's rationale for KvsError.StringError).
type Response struct {
	Ok    bool   `json:"ok"`
	Value string `json:"value,omitempty"`
	Found bool   `json:"found,omitempty"`
	Error string `json:"error,omitempty"`
}
