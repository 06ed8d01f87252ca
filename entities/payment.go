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

package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentID int64

// Payment is an append only record of a payment attempt reported by the
// gateway. Transaction is nil for the synthetic entry recorded when an event
// carries no payment.
type Payment struct {
	ID               PaymentID         `json:"id"`
	ChargeID         ChargeID          `json:"chargeId"`
	Transaction      *string           `json:"transaction"`
	Network          string            `json:"network"`
	Amount           decimal.Decimal   `json:"amount"`
	Currency         string            `json:"currency"`
	PaymentStatus    PaymentStatus     `json:"paymentStatus"`
	UnresolvedReason *UnresolvedReason `json:"unresolvedReason,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}
