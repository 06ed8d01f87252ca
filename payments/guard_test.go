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
package payments_test

import (
	"context"
	"testing"

	"code.refchain.io/node/entities"
	"code.refchain.io/node/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardCountsCompletedPayments(t *testing.T) {
	p := newTestProcessor(t, nil, nil)
	ctx := context.Background()
	guard := payments.NewGuard(p.store.Charges, p.store.Payments)

	add := func(tx string, status entities.PaymentStatus) {
		_, err := p.store.Payments.Add(ctx, &entities.Payment{ChargeID: p.charge.ID, Transaction: &tx, PaymentStatus: status})
		require.NoError(t, err)
	}

	multiple, err := guard.HasMultipleCompletedPayments(ctx, "CHG")
	require.NoError(t, err)
	assert.False(t, multiple)

	add("0x1", entities.PaymentStatusCompleted)
	add("0x2", entities.PaymentStatusPending)
	multiple, err = guard.HasMultipleCompletedPayments(ctx, "CHG")
	require.NoError(t, err)
	assert.False(t, multiple)

	add("0x3", entities.PaymentStatusCompleted)
	multiple, err = guard.HasMultipleCompletedPayments(ctx, "CHG")
	require.NoError(t, err)
	assert.True(t, multiple)

	_, err = guard.HasMultipleCompletedPayments(ctx, "NOPE")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
