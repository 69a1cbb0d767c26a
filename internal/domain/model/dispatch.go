package model

import (
	"time"

	"github.com/google/uuid"
)

// DispatchStatus is the terminal state of a single queue dispatch attempt.
type DispatchStatus string

const (
	DispatchStatusSent        DispatchStatus = "sent"
	DispatchStatusUnreachable DispatchStatus = "unreachable"
	DispatchStatusFailed      DispatchStatus = "failed"
)

// DispatchRecord is the audit row written after every dispatch attempt.
// There is exactly one attempt per queue item.
type DispatchRecord struct {
	ID        uuid.UUID
	OrderID   string
	Phone     string
	Status    DispatchStatus
	ErrorText string
	SentAt    time.Time
}
