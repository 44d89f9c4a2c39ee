package interfaces

// PushChannel is a live server-to-client delivery transport. The hub and
// the dispatcher only ever talk to this interface, so they stay agnostic
// of the websocket implementation and can be exercised without a network.
type PushChannel interface {
	Send(event string, payload any) error
	Close() error
}
