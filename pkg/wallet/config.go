package wallet

import (
	"net/url"
	"strings"
	"time"
)

// Transport selects how the client talks to the node.
type Transport string

const (
	// TransportAuto picks the transport from the endpoint URI scheme.
	TransportAuto Transport = "auto"
	// TransportWebSocket keeps one persistent full-duplex connection.
	TransportWebSocket Transport = "ws"
	// TransportHTTP issues plain JSON-RPC request/response calls.
	TransportHTTP Transport = "http"
)

// ConnectionConfig holds the parameters used to reach the chain node.
type ConnectionConfig struct {
	// Endpoint is the node URI, e.g. wss://mainnet.example/ws or https://rpc.example
	Endpoint string

	// Transport selects WebSocket or HTTP, TransportAuto resolves it from Endpoint
	Transport Transport

	// DialRetries is how many times a failed initial dial is retried.
	// Zero keeps the single-attempt behaviour; there is never a reconnect
	// once the loop is running.
	DialRetries int

	// RetryDelay is the duration to wait between dial attempts
	RetryDelay time.Duration
}

// ParseTransport maps a flag value to a Transport. Unknown values return false.
func ParseTransport(s string) (Transport, bool) {
	switch Transport(strings.ToLower(strings.TrimSpace(s))) {
	case "", TransportAuto:
		return TransportAuto, true
	case TransportWebSocket, "websocket", "wss":
		return TransportWebSocket, true
	case TransportHTTP, "https", "rpc":
		return TransportHTTP, true
	}
	return "", false
}

// Resolve returns the concrete transport for the endpoint.
func (c ConnectionConfig) Resolve() Transport {
	if c.Transport != "" && c.Transport != TransportAuto {
		return c.Transport
	}
	u, err := url.Parse(c.Endpoint)
	if err == nil && (u.Scheme == "ws" || u.Scheme == "wss") {
		return TransportWebSocket
	}
	return TransportHTTP
}
