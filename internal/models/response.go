package models

// Response is the JSON envelope every REST endpoint of the chat server
// answers with, success and failure alike.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Errors  []error     `json:"errors"`
	Data    interface{} `json:"data"`
}
