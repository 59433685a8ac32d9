package dto

// SendMessageRequest is the REST message-send body.
type SendMessageRequest struct {
	TeamID   string `json:"teamId" binding:"required"`
	Username string `json:"username" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// ChatMessage is the payload of an inbound realtime message event.
type ChatMessage struct {
	TeamID   string `json:"teamId"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

// ChatBroadcast is the payload of an outbound realtime message event,
// system notices included.
type ChatBroadcast struct {
	Username string `json:"username"`
	Message  string `json:"message"`
}

// TeamCreated confirms a join to the joining connection.
type TeamCreated struct {
	TeamID   string `json:"teamId"`
	TeamName string `json:"teamName"`
}
