package redis

const REDIS_CHANNEL_CHAT = "chat_channel"

// RedisPublishedMessage is the fan-out envelope: every worker process
// subscribes to the chat channel and delivers to whichever of the
// receiver's connections it holds locally.
type RedisPublishedMessage struct {
	Event      string `json:"event"`
	ReceiverID uint   `json:"receiver_id"`
	Payload    any    `json:"payload"`
}
