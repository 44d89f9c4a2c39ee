package models

// MessageRequest is the payload a client sends to create a message,
// over REST or as a send_message socket event. Attachments arrive as
// multipart form files on the REST path and are resolved to
// MessageFile metadata before the store sees them.
type MessageRequest struct {
	ReceiverID uint   `json:"receiver_id"`
	Content    string `json:"content"`
}

type MessageListResponse struct {
	Messages []Message `json:"messages"`
}

type GetUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int64           `json:"total"`
}
