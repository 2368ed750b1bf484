package models

// EmailMessage is a single outbound email. HTML is optional; when set the
// message is sent as multipart/alternative with Text as the plain part.
type EmailMessage struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

const (
	SendStatusSent  = "sent"
	SendStatusError = "error"
)

// SendResult is returned to callers of the send endpoints.
type SendResult struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
	Error  string `json:"error,omitempty"`
}
