package websocket

// Action is a client-to-server message kind.
type Action string

const (
	// ActionEvent reports one proctoring observation (tab switch, focus
	// loss, fullscreen exit). The payload travels as an opaque JSON string.
	ActionEvent Action = "event"
	ActionPing  Action = "ping"
)

// RequestPayload is the client message envelope. Payload is kept as a raw
// string; the server never interprets proctor data, it only persists it.
type RequestPayload struct {
	Action  Action `json:"action"`
	Payload string `json:"payload,omitempty"`
}

// Event is a server-to-client message kind.
type Event string

const (
	EventError    Event = "error"
	EventAccepted Event = "accepted"
	EventPong     Event = "pong"
)

// AcceptedResponse acknowledges a queued proctor event.
type AcceptedResponse struct {
	Event Event `json:"event"`
}

// ErrorResponse reports a rejected message.
type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

// PongResponse answers a ping.
type PongResponse struct {
	Event Event `json:"event"`
}
