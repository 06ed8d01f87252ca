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
package payments

import (
	"context"

	"code.refchain.io/node/entities"
)

type ChargeStore interface {
	GetByCode(ctx context.Context, code string) (entities.Charge, error)
}

// PaymentCounter counts the recorded payments of a charge by status.
type PaymentCounter interface {
	CountByStatus(ctx context.Context, chargeID entities.ChargeID, status entities.PaymentStatus) (int64, error)
}

// Guard detects a charge that was paid more than once so it is not settled
// again. It is a fast path; storage constraints on commissions remain the
// last line.
type Guard struct {
	charges  ChargeStore
	payments PaymentCounter
}

func NewGuard(charges ChargeStore, payments PaymentCounter) *Guard {
	return &Guard{
		charges:  charges,
		payments: payments,
	}
}

// HasMultipleCompletedPayments is true when more than one COMPLETED payment
// is recorded for the charge.
func (g *Guard) HasMultipleCompletedPayments(ctx context.Context, chargeCode string) (bool, error) {
	charge, err := g.charges.GetByCode(ctx, chargeCode)
	if err != nil {
		return false, err
	}
	n, err := g.payments.CountByStatus(ctx, charge.ID, entities.PaymentStatusCompleted)
	if err != nil {
		return false, err
	}
	return n > 1, nil
}
