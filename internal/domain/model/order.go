package model

import (
	"strings"
	"time"
)

// FinancialStatus describes payment state of an order as reported by the shop.
type FinancialStatus string

const (
	FinancialStatusPending FinancialStatus = "pending"
	FinancialStatusPaid    FinancialStatus = "paid"
	FinancialStatusOther   FinancialStatus = "other"
)

// PaymentMethod is the normalized gateway hint attached to an order event.
type PaymentMethod string

const (
	PaymentMethodPix     PaymentMethod = "pix"
	PaymentMethodOther   PaymentMethod = "other"
	PaymentMethodUnknown PaymentMethod = "unknown"
)

// OrderEvent is the canonical inbound event after boundary normalization.
// Phone is digits-only; an empty Phone means no number was present anywhere
// in the raw payload.
type OrderEvent struct {
	OrderID      string
	CustomerName string
	Phone        string
	TotalAmount  string
	Status       FinancialStatus
	RawStatus    string
	Method       PaymentMethod
	RawGateway   string
	ReceivedAt   time.Time
}

// NormalizeFinancialStatus maps the free-text shop status onto the statuses
// the router acts on. Anything that is not explicitly pending or paid is
// conservatively treated as other.
func NormalizeFinancialStatus(raw string) FinancialStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return FinancialStatusPending
	case "paid":
		return FinancialStatusPaid
	default:
		return FinancialStatusOther
	}
}

// NormalizePaymentMethod derives the method hint from the first reported
// gateway name. An empty gateway means the shop has not determined the
// method yet.
func NormalizePaymentMethod(gateway string) PaymentMethod {
	gateway = strings.ToLower(strings.TrimSpace(gateway))
	if gateway == "" {
		return PaymentMethodUnknown
	}
	if strings.Contains(gateway, "pix") {
		return PaymentMethodPix
	}
	return PaymentMethodOther
}

// NormalizePhone strips every non-digit rune from a raw phone string.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}
