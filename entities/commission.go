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

type CommissionID int64

type Commission struct {
	ID             CommissionID    `json:"id"`
	CustomerID     CustomerID      `json:"customerId"`
	ChargeID       ChargeID        `json:"chargeId"`
	Tier           int32           `json:"tier"`
	Amount         int64           `json:"amount"`
	Currency       string          `json:"currency"`
	CommissionRate decimal.Decimal `json:"commissionRate"`
	IsTransferred  bool            `json:"isTransferred"`
	CreatedAt      time.Time       `json:"createdAt"`
}
