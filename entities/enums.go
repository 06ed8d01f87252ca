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
	"encoding/json"
	"fmt"

	"github.com/jackc/pgtype"
)

type CustomerStatus int32

const (
	CustomerStatusUnspecified CustomerStatus = iota
	CustomerStatusPending
	CustomerStatusActive
	CustomerStatusInactive
	CustomerStatusSuspended
)

var customerStatusName = map[CustomerStatus]string{
	CustomerStatusPending:   "PENDING",
	CustomerStatusActive:    "ACTIVE",
	CustomerStatusInactive:  "INACTIVE",
	CustomerStatusSuspended: "SUSPENDED",
}

func (s CustomerStatus) String() string {
	if n, ok := customerStatusName[s]; ok {
		return n
	}
	return "UNSPECIFIED"
}

func (s CustomerStatus) EncodeText(_ *pgtype.ConnInfo, buf []byte) ([]byte, error) {
	name, ok := customerStatusName[s]
	if !ok {
		return buf, fmt.Errorf("unknown customer status: %d", s)
	}
	return append(buf, []byte(name)...), nil
}

func (s *CustomerStatus) DecodeText(_ *pgtype.ConnInfo, src []byte) error {
	for k, v := range customerStatusName {
		if v == string(src) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown customer status: %s", src)
}

// PaymentStatus is the charge status as reported by the payment gateway.
type PaymentStatus int32

const (
	PaymentStatusUnspecified PaymentStatus = iota
	PaymentStatusNew
	PaymentStatusPending
	PaymentStatusCompleted
	PaymentStatusExpired
	PaymentStatusCanceled
	PaymentStatusUnresolved
	PaymentStatusResolved
	PaymentStatusRefundPending
	PaymentStatusRefunded
)

var paymentStatusName = map[PaymentStatus]string{
	PaymentStatusNew:           "NEW",
	PaymentStatusPending:       "PENDING",
	PaymentStatusCompleted:     "COMPLETED",
	PaymentStatusExpired:       "EXPIRED",
	PaymentStatusCanceled:      "CANCELED",
	PaymentStatusUnresolved:    "UNRESOLVED",
	PaymentStatusResolved:      "RESOLVED",
	PaymentStatusRefundPending: "REFUND_PENDING",
	PaymentStatusRefunded:      "REFUNDED",
}

func (s PaymentStatus) String() string {
	if n, ok := paymentStatusName[s]; ok {
		return n
	}
	return "UNSPECIFIED"
}

// ParsePaymentStatus accepts the canonical names, case sensitive.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	for k, v := range paymentStatusName {
		if v == s {
			return k, true
		}
	}
	return PaymentStatusUnspecified, false
}

func (s PaymentStatus) EncodeText(_ *pgtype.ConnInfo, buf []byte) ([]byte, error) {
	name, ok := paymentStatusName[s]
	if !ok {
		return buf, fmt.Errorf("unknown payment status: %d", s)
	}
	return append(buf, []byte(name)...), nil
}

func (s *PaymentStatus) DecodeText(_ *pgtype.ConnInfo, src []byte) error {
	st, ok := ParsePaymentStatus(string(src))
	if !ok {
		return fmt.Errorf("unknown payment status: %s", src)
	}
	*s = st
	return nil
}

// UnresolvedReason qualifies an UNRESOLVED payment status.
type UnresolvedReason int32

const (
	UnresolvedReasonUnspecified UnresolvedReason = iota
	UnresolvedReasonUnderpaid
	UnresolvedReasonOverpaid
	UnresolvedReasonDelayed
	UnresolvedReasonMultiple
	UnresolvedReasonOther
)

var unresolvedReasonName = map[UnresolvedReason]string{
	UnresolvedReasonUnderpaid: "UNDERPAID",
	UnresolvedReasonOverpaid:  "OVERPAID",
	UnresolvedReasonDelayed:   "DELAYED",
	UnresolvedReasonMultiple:  "MULTIPLE",
	UnresolvedReasonOther:     "OTHER",
}

func (r UnresolvedReason) String() string {
	if n, ok := unresolvedReasonName[r]; ok {
		return n
	}
	return "UNSPECIFIED"
}

func (r UnresolvedReason) EncodeText(_ *pgtype.ConnInfo, buf []byte) ([]byte, error) {
	name, ok := unresolvedReasonName[r]
	if !ok {
		return buf, fmt.Errorf("unknown unresolved reason: %d", r)
	}
	return append(buf, []byte(name)...), nil
}

func (r *UnresolvedReason) DecodeText(_ *pgtype.ConnInfo, src []byte) error {
	for k, v := range unresolvedReasonName {
		if v == string(src) {
			*r = k
			return nil
		}
	}
	return fmt.Errorf("unknown unresolved reason: %s", src)
}

func (s CustomerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s PaymentStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (r UnresolvedReason) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}
