package fcm

// Message is a single push message addressed to one registration token
type Message struct {
	To           string            `json:"to,omitempty"`
	Notification *Notification     `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
	Priority     string            `json:"priority,omitempty"`
}

// Notification is the user-visible part of a push message
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Badge int    `json:"badge,omitempty"`
	Sound string `json:"sound,omitempty"`
}

// sendResponse is the FCM legacy HTTP API response envelope
type sendResponse struct {
	Success int          `json:"success"`
	Failure int          `json:"failure"`
	Results []sendResult `json:"results"`
}

type sendResult struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

// BatchResult aggregates the outcome of a multi-token send
type BatchResult struct {
	Success       int
	Failure       int
	InvalidTokens []string // tokens FCM reported as permanently invalid
}
