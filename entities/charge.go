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

type ChargeID int64

// Price is one entry of a charge pricing snapshot.
type Price struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// Pricing maps a pricing key (local, bitcoin, ethereum, ...) to its price.
type Pricing map[string]Price

type Charge struct {
	ID         ChargeID   `json:"id"`
	Code       string     `json:"code"`
	CustomerID CustomerID `json:"customerId"`
	Pricing    Pricing    `json:"pricing"`
	HostedURL  string     `json:"hostedUrl"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

type PurchaseActivity struct {
	ID                int64             `json:"id"`
	ChargeID          ChargeID          `json:"chargeId"`
	CustomerID        CustomerID        `json:"customerId"`
	TokenAmount       decimal.Decimal   `json:"tokenAmount"`
	Amount            *int64            `json:"amount"`
	Currency          *string           `json:"currency"`
	PurchaseConfirmed bool              `json:"purchaseConfirmed"`
	PaymentStatus     PaymentStatus     `json:"paymentStatus"`
	UnresolvedReason  *UnresolvedReason `json:"unresolvedReason,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// PurchaseDetails joins a charge to its purchase activity and purchaser.
type PurchaseDetails struct {
	Charge    Charge
	Activity  PurchaseActivity
	Purchaser Customer
}
