// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
package coinbase

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types delivered by the gateway.
const (
	EventChargeCreated   = "charge:created"
	EventChargePending   = "charge:pending"
	EventChargeConfirmed = "charge:confirmed"
	EventChargeFailed    = "charge:failed"
	EventChargeDelayed   = "charge:delayed"
	EventChargeResolved  = "charge:resolved"
)

// Timeline statuses of a charge.
const (
	StatusNew           = "NEW"
	StatusPending       = "PENDING"
	StatusCompleted     = "COMPLETED"
	StatusExpired       = "EXPIRED"
	StatusCanceled      = "CANCELED"
	StatusUnresolved    = "UNRESOLVED"
	StatusResolved      = "RESOLVED"
	StatusRefundPending = "REFUND PENDING"
	StatusRefunded      = "REFUNDED"
)

// Timeline contexts of an unresolved charge.
const (
	ContextUnderpaid = "UNDERPAID"
	ContextOverpaid  = "OVERPAID"
	ContextDelayed   = "DELAYED"
	ContextMultiple  = "MULTIPLE"
	ContextManual    = "MANUAL"
	ContextOther     = "OTHER"
)

// Event is a webhook delivery.
type Event struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	Data      ChargeResource `json:"data"`
}

// Money is an amount in a currency, the amount being sent as a string.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type TimelineEntry struct {
	Time    time.Time `json:"time"`
	Status  string    `json:"status"`
	Context string    `json:"context,omitempty"`
}

type PaymentValue struct {
	Local  Money `json:"local"`
	Crypto Money `json:"crypto"`
}

type PaymentEntry struct {
	Network       string       `json:"network"`
	TransactionID string       `json:"transaction_id"`
	Status        string       `json:"status"`
	Value         PaymentValue `json:"value"`
}

// ChargeResource is the charge as returned by the API and carried by events.
type ChargeResource struct {
	ID        string            `json:"id"`
	Code      string            `json:"code"`
	Name      string            `json:"name,omitempty"`
	HostedURL string            `json:"hosted_url"`
	CreatedAt time.Time         `json:"created_at"`
	ExpiresAt *time.Time        `json:"expires_at,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Pricing   map[string]Money  `json:"pricing,omitempty"`
	Timeline  []TimelineEntry   `json:"timeline"`
	Payments  []PaymentEntry    `json:"payments"`
}

// LatestStatus returns the last timeline entry, the gateway appending
// entries in order.
func (c ChargeResource) LatestStatus() (TimelineEntry, bool) {
	if len(c.Timeline) == 0 {
		return TimelineEntry{}, false
	}
	return c.Timeline[len(c.Timeline)-1], true
}

// ChargeRequest is the body of a charge creation.
type ChargeRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	PricingType string            `json:"pricing_type"`
	LocalPrice  Money             `json:"local_price"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	RedirectURL string            `json:"redirect_url,omitempty"`
	CancelURL   string            `json:"cancel_url,omitempty"`
}
