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

import "time"

// CustomerID doubles as the arena index of the referral forest.
type CustomerID int64

type Customer struct {
	ID                 CustomerID     `json:"id"`
	ReferralCode       string         `json:"referralCode"`
	ReferralCustomerID *CustomerID    `json:"referralCustomerId,omitempty"`
	CustomerStatus     CustomerStatus `json:"customerStatus"`
	Email              string         `json:"email,omitempty"`
	CreatedAt          time.Time      `json:"createdAt"`
}

func (c Customer) IsSuspended() bool {
	return c.CustomerStatus == CustomerStatusSuspended
}

// HasReferrer reports whether the customer was referred by someone.
func (c Customer) HasReferrer() bool {
	return c.ReferralCustomerID != nil
}
