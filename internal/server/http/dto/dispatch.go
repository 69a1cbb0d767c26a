package dto

import "time"

// InboundMessageRequest is posted by the messaging gateway when a customer
// replies.
type InboundMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// DispatchResponse describes one dispatch log entry.
type DispatchResponse struct {
	ID      string    `json:"id"`
	OrderID string    `json:"order_id"`
	Phone   string    `json:"phone"`
	Status  string    `json:"status"`
	Error   string    `json:"error,omitempty"`
	SentAt  time.Time `json:"sent_at"`
}
