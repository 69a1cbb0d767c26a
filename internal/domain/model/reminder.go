package model

import "time"

// ReminderSnapshot captures the order fields a reminder message needs at the
// moment it is scheduled. It is a copy, deliberately detached from later
// events for the same order.
type ReminderSnapshot struct {
	OrderID      string
	CustomerName string
	Phone        string
	TotalAmount  string
}

// PendingReminder is a registry entry for an armed, not yet fired reminder.
type PendingReminder struct {
	OrderID     string    `json:"order_id"`
	ScheduledAt time.Time `json:"scheduled_at"`
	FireAt      time.Time `json:"fire_at"`
	Phone       string    `json:"phone"`
}

// QueueItem is a single outbound message awaiting dispatch.
type QueueItem struct {
	OrderID string
	Phone   string
	Message string
}

// Outcome classifies how an inbound order event was resolved.
type Outcome string

const (
	OutcomeScheduled Outcome = "scheduled"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeError     Outcome = "error"
)

// EventResult is the router's answer for one inbound event. Reason is set
// only for ignored events.
type EventResult struct {
	Outcome Outcome
	Reason  string
}
