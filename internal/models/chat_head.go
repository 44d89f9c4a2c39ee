package models

// ChatHead is the summary row for one conversation partner: who they
// are, the latest message exchanged and how many of their messages the
// requesting user has not read yet. Derived on demand, never stored.
type ChatHead struct {
	Counterpart *UserResponse `json:"counterpart"`
	LastMessage *Message      `json:"last_message"`
	Unread      int           `json:"unread"`
}

type ChatHeadListResponse struct {
	ChatHeads []ChatHead `json:"chat_heads"`
}
