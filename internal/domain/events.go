package domain

import "time"

const EventReceiptIssued = "receipt.issued"

// ReceiptIssuedEvent is published after a sale has been committed so that
// receipt copies can be archived out of band.
type ReceiptIssuedEvent struct {
	EventID   string    `json:"event_id"`
	OrderID   int64     `json:"order_id"`
	Order     Order     `json:"order"`
	Payment   Payment   `json:"payment"`
	Timestamp time.Time `json:"timestamp"`
}
