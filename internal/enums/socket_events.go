package enums

const (
	SOCKET_EVENT_JOIN            = "join"
	SOCKET_EVENT_SEND_MESSAGE    = "send_message"
	SOCKET_EVENT_RECEIVE_MESSAGE = "receive_message"
)
