package dto

import (
	"time"

	domainErrors "github.com/aquafit/pixreminder/internal/domain/errors"
	"github.com/aquafit/pixreminder/internal/domain/model"
)

// Address carries the only address field the service cares about.
type Address struct {
	Phone string `json:"phone"`
}

// Customer mirrors the customer block of the shop webhook payload.
type Customer struct {
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
}

// ShopifyOrderPayload is the raw inbound webhook shape. Every field except
// the order name is optional.
type ShopifyOrderPayload struct {
	Name                string    `json:"name"`
	FinancialStatus     string    `json:"financial_status"`
	PaymentGatewayNames []string  `json:"payment_gateway_names"`
	TotalPrice          string    `json:"total_price"`
	Phone               string    `json:"phone"`
	Customer            *Customer `json:"customer"`
	BillingAddress      *Address  `json:"billing_address"`
	ShippingAddress     *Address  `json:"shipping_address"`
}

// Normalize produces the canonical order event. The phone fallback chain is
// billing address, then shipping address, then customer, then the top-level
// field; the first non-empty value wins and is reduced to digits.
func (p ShopifyOrderPayload) Normalize(now time.Time) (model.OrderEvent, error) {
	if p.Name == "" {
		return model.OrderEvent{}, domainErrors.ErrMissingOrderID
	}

	gateway := ""
	if len(p.PaymentGatewayNames) > 0 {
		gateway = p.PaymentGatewayNames[0]
	}

	customerName := ""
	if p.Customer != nil {
		customerName = p.Customer.FirstName
	}

	total := p.TotalPrice
	if total == "" {
		total = "0.00"
	}

	return model.OrderEvent{
		OrderID:      p.Name,
		CustomerName: customerName,
		Phone:        model.NormalizePhone(p.rawPhone()),
		TotalAmount:  total,
		Status:       model.NormalizeFinancialStatus(p.FinancialStatus),
		RawStatus:    p.FinancialStatus,
		Method:       model.NormalizePaymentMethod(gateway),
		RawGateway:   gateway,
		ReceivedAt:   now,
	}, nil
}

func (p ShopifyOrderPayload) rawPhone() string {
	if p.BillingAddress != nil && p.BillingAddress.Phone != "" {
		return p.BillingAddress.Phone
	}
	if p.ShippingAddress != nil && p.ShippingAddress.Phone != "" {
		return p.ShippingAddress.Phone
	}
	if p.Customer != nil && p.Customer.Phone != "" {
		return p.Customer.Phone
	}
	return p.Phone
}
